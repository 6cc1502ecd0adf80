package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
)

// scanPoint is one location to query, with an optional caller-facing ID.
type scanPoint struct {
	ID  string
	Lat float64
	Lng float64
}

// parseLatLng parses a "lat,lng" argument.
func parseLatLng(s string) (scanPoint, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return scanPoint{}, fmt.Errorf("point %q: want lat,lng", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return scanPoint{}, fmt.Errorf("point %q: bad lat: %w", s, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return scanPoint{}, fmt.Errorf("point %q: bad lng: %w", s, err)
	}
	return scanPoint{Lat: lat, Lng: lng}, nil
}

// loadShapefilePoints reads one query location per feature from a WGS-84
// shapefile. Point features are used as-is; polygons and lines use the centre
// of their bounding box. When idField names an attribute, its value becomes the
// point ID; otherwise the feature index is used.
func loadShapefilePoints(path, idField string) ([]scanPoint, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile %s: %w", path, err)
	}
	defer r.Close()

	idIdx := -1
	if idField != "" {
		idIdx = fieldIndex(r, idField)
		if idIdx < 0 {
			return nil, fmt.Errorf("shapefile %s has no field %q", path, idField)
		}
	}

	var points []scanPoint
	for r.Next() {
		n, shape := r.Shape()
		if shape == nil {
			continue
		}

		var p scanPoint
		switch s := shape.(type) {
		case *shp.Null:
			continue
		case *shp.Point:
			p = scanPoint{Lat: s.Y, Lng: s.X}
		default:
			box := shape.BBox()
			p = scanPoint{Lat: (box.MinY + box.MaxY) / 2, Lng: (box.MinX + box.MaxX) / 2}
		}

		if idIdx >= 0 {
			p.ID = strings.TrimSpace(r.ReadAttribute(n, idIdx))
		} else {
			p.ID = strconv.Itoa(n)
		}
		points = append(points, p)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("read shapefile %s: %w", path, err)
	}
	return points, nil
}

// fieldIndex returns the index of a named field in the shapefile, or -1 if not found.
func fieldIndex(r *shp.Reader, name string) int {
	for i, f := range r.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}
