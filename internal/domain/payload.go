package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrMalformedPayload is returned when the upstream body has no <Result> envelope.
	ErrMalformedPayload = errors.New("malformed CDL payload")

	// ErrMissingValue is returned when a structured payload has no usable value field.
	ErrMissingValue = errors.New("CDL payload has no value")
)

var (
	// resultRe extracts the content of the <Result> envelope, e.g.
	// "<Result>{x: 1, y: 2, value: 1, category: \"Corn\"}</Result>".
	resultRe = regexp.MustCompile(`(?s)<Result>(.*?)</Result>`)

	// valueRe and confidenceRe read fields out of the loosely quoted object
	// literal CropScape returns; keys may or may not be quoted.
	valueRe      = regexp.MustCompile(`["']?\bvalue["']?\s*:\s*["']?(-?\d+)`)
	confidenceRe = regexp.MustCompile(`(?i)["']?\bconfidence["']?\s*:\s*["']?(-?\d+(?:\.\d+)?)`)
)

// ParseCDLPayload parses a GetCDLValue response body. The <Result> content is
// either a bare integer code or an object literal with a required value field
// and an optional confidence field. Confidence strictly between 0 and 1 is
// read as a fraction and scaled to a percentage; all confidences are clamped
// to 0–100.
func ParseCDLPayload(body []byte) (Classification, error) {
	m := resultRe.FindSubmatch(body)
	if m == nil {
		return Classification{}, ErrMalformedPayload
	}
	content := strings.TrimSpace(string(m[1]))

	if strings.HasPrefix(content, "{") {
		return parseStructured(content)
	}

	code, err := strconv.Atoi(content)
	if err != nil {
		return Classification{}, fmt.Errorf("parse CDL code %q: %w", content, err)
	}
	return Classification{Code: CropCode(code)}, nil
}

func parseStructured(content string) (Classification, error) {
	vm := valueRe.FindStringSubmatch(content)
	if vm == nil {
		return Classification{}, ErrMissingValue
	}
	code, err := strconv.Atoi(vm[1])
	if err != nil {
		return Classification{}, fmt.Errorf("parse CDL value %q: %w", vm[1], err)
	}

	c := Classification{Code: CropCode(code)}
	if cm := confidenceRe.FindStringSubmatch(content); cm != nil {
		if f, err := strconv.ParseFloat(cm[1], 64); err == nil {
			conf := normalizeConfidence(f)
			c.Confidence = &conf
		}
	}
	return c, nil
}

func normalizeConfidence(f float64) int {
	if f > 0 && f < 1 {
		f *= 100
	}
	return int(math.Round(math.Max(0, math.Min(100, f))))
}
