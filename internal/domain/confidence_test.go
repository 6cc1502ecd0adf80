package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateAccuracy_Overrides(t *testing.T) {
	for code, want := range codeAccuracy {
		assert.Equal(t, want, EstimateAccuracy(code), "code %d", code)
	}

	assert.Equal(t, 90, EstimateAccuracy(1), "corn")
	assert.Equal(t, 95, EstimateAccuracy(111), "open water")
	assert.Equal(t, 0, EstimateAccuracy(CodeNoData))
	assert.Equal(t, 0, EstimateAccuracy(CodeCloudsNoData))
}

func TestEstimateAccuracy_TypeFallback(t *testing.T) {
	for _, code := range CropCodes() {
		if _, ok := codeAccuracy[code]; ok {
			continue
		}
		e, _ := LookupCrop(code)
		assert.Equal(t, typeAccuracy[e.Type], EstimateAccuracy(code), "code %d (%s)", code, e.Name)
	}
}

func TestEstimateAccuracy_TypeDefaults(t *testing.T) {
	tests := []struct {
		name string
		code CropCode
		want int
	}{
		{"annual without override", 27, 75},     // Rye
		{"perennial without override", 14, 70},  // Mint
		{"permanent without override", 66, 73},  // Cherries
		{"forest without override", 63, 85},     // Forest
		{"water without override", 83, 92},      // Water
		{"other without override", 64, 65},      // Shrubland
		{"unmapped code falls back to other", 99, 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateAccuracy(tt.code))
		})
	}
}

func TestEstimateAccuracy_InRange(t *testing.T) {
	for c := CropCode(0); c <= 255; c++ {
		acc := EstimateAccuracy(c)
		assert.GreaterOrEqual(t, acc, 0)
		assert.LessOrEqual(t, acc, 100)
	}
}

func TestTypeAccuracy_UnknownType(t *testing.T) {
	assert.Equal(t, 65, TypeAccuracy(""))
	assert.Equal(t, 65, TypeAccuracy("non-cropland"))
	assert.Equal(t, 68, TypeAccuracy(CropTypePasture))
	assert.Equal(t, 80, TypeAccuracy(CropTypeDeveloped))
}
