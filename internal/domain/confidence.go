package domain

// Per-type accuracy defaults used when a code has no explicit override.
var typeAccuracy = map[CropType]int{
	CropTypeAnnual:    75,
	CropTypePerennial: 70,
	CropTypePermanent: 73,
	CropTypePasture:   68,
	CropTypeForest:    85,
	CropTypeDeveloped: 80,
	CropTypeWater:     92,
	CropTypeOther:     65,
}

// codeAccuracy holds producer's accuracy figures for crops whose CDL accuracy
// is well studied. Major row crops score highest; specialty crops with mixed
// spectral signatures score lower.
var codeAccuracy = map[CropCode]int{
	CodeNoData:       0,
	CodeCloudsNoData: 0,

	1:  90, // Corn
	2:  88, // Cotton
	3:  92, // Rice
	4:  80, // Sorghum
	5:  90, // Soybeans
	6:  78, // Sunflower
	10: 85, // Peanuts
	21: 78, // Barley
	22: 80, // Durum Wheat
	23: 85, // Spring Wheat
	24: 87, // Winter Wheat
	26: 72, // Dbl Crop WinWht/Soybeans
	28: 65, // Oats
	31: 85, // Canola
	36: 80, // Alfalfa
	37: 62, // Other Hay/Non Alfalfa
	41: 93, // Sugarbeets
	42: 75, // Dry Beans
	43: 82, // Potatoes
	45: 85, // Sugarcane
	61: 60, // Fallow/Idle Cropland
	62: 60, // Pasture/Grass
	69: 80, // Grapes
	72: 76, // Citrus
	74: 70, // Pecans
	75: 78, // Almonds
	76: 74, // Walnuts
	82: 80, // Developed

	111: 95, // Open Water
	121: 75, // Developed/Open Space
	122: 82, // Developed/Low Intensity
	123: 86, // Developed/Med Intensity
	124: 90, // Developed/High Intensity
	141: 80, // Deciduous Forest
	142: 88, // Evergreen Forest
	143: 75, // Mixed Forest
	176: 70, // Grassland/Pasture
	190: 78, // Woody Wetlands
	195: 75, // Herbaceous Wetlands
	204: 76, // Pistachios
	212: 74, // Oranges
}

// EstimateAccuracy returns an estimated classification accuracy, 0–100, for a
// CDL code. Per-pixel confidence is not published for point queries, so the
// aggregate accuracy of the class stands in for it.
func EstimateAccuracy(code CropCode) int {
	if acc, ok := codeAccuracy[code]; ok {
		return acc
	}
	return TypeAccuracy(ResolveCrop(code).Type)
}

// TypeAccuracy returns the default accuracy for a crop type. Unknown types get
// the "other" default.
func TypeAccuracy(t CropType) int {
	if acc, ok := typeAccuracy[t]; ok {
		return acc
	}
	return typeAccuracy[CropTypeOther]
}
