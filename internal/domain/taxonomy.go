package domain

import "fmt"

// CropCode is a land-cover class identifier from the USDA NASS Cropland Data Layer.
type CropCode int

// No-data codes. Pixels with these values carry no classification and are
// never turned into a YearRecord.
const (
	CodeNoData       CropCode = 0
	CodeCloudsNoData CropCode = 81
)

// IsNoData reports whether the code is one of the CDL no-data values.
func (c CropCode) IsNoData() bool {
	return c == CodeNoData || c == CodeCloudsNoData
}

// CropType is the coarse semantic category layered over CDL codes for
// transition-plausibility reasoning. The zero value means the type is unknown.
type CropType string

const (
	CropTypeAnnual    CropType = "annual"
	CropTypePerennial CropType = "perennial"
	CropTypePermanent CropType = "permanent"
	CropTypePasture   CropType = "pasture"
	CropTypeForest    CropType = "forest"
	CropTypeDeveloped CropType = "developed"
	CropTypeWater     CropType = "water"
	CropTypeOther     CropType = "other"
)

// Valid reports whether t is one of the eight known crop types.
func (t CropType) Valid() bool {
	switch t {
	case CropTypeAnnual, CropTypePerennial, CropTypePermanent, CropTypePasture,
		CropTypeForest, CropTypeDeveloped, CropTypeWater, CropTypeOther:
		return true
	default:
		return false
	}
}

// CropTaxonomyEntry describes how a CDL code is named, rendered and classified.
type CropTaxonomyEntry struct {
	Name  string   `json:"name"`
	Color string   `json:"color"`
	Type  CropType `json:"type"`
}

// Fallbacks for codes missing from the table. The same fallback type is used
// for naming and for confidence estimation.
const (
	FallbackColor    = "#808080"
	FallbackCropType = CropTypeOther
)

// LookupCrop returns the taxonomy entry for a code, if the code is known.
func LookupCrop(code CropCode) (CropTaxonomyEntry, bool) {
	e, ok := cropTaxonomy[code]
	return e, ok
}

// ResolveCrop returns the taxonomy entry for a code, substituting the
// "Unknown (<code>)" fallback for codes the table does not list.
func ResolveCrop(code CropCode) CropTaxonomyEntry {
	if e, ok := cropTaxonomy[code]; ok {
		return e
	}
	return CropTaxonomyEntry{
		Name:  fmt.Sprintf("Unknown (%d)", code),
		Color: FallbackColor,
		Type:  FallbackCropType,
	}
}

// CropCodes returns every code in the taxonomy table, in ascending order.
func CropCodes() []CropCode {
	codes := make([]CropCode, 0, len(cropTaxonomy))
	for c := CropCode(0); c <= 255; c++ {
		if _, ok := cropTaxonomy[c]; ok {
			codes = append(codes, c)
		}
	}
	return codes
}

// cropTaxonomy maps CDL codes to names, the CDL legend colors and semantic
// types. It is never written after package initialization.
var cropTaxonomy = map[CropCode]CropTaxonomyEntry{
	0: {"Background / No Data", "#000000", CropTypeOther},

	// Field crops.
	1:  {"Corn", "#ffd300", CropTypeAnnual},
	2:  {"Cotton", "#ff2626", CropTypeAnnual},
	3:  {"Rice", "#00a8e2", CropTypeAnnual},
	4:  {"Sorghum", "#ff9e0a", CropTypeAnnual},
	5:  {"Soybeans", "#267000", CropTypeAnnual},
	6:  {"Sunflower", "#ffff00", CropTypeAnnual},
	10: {"Peanuts", "#70a500", CropTypeAnnual},
	11: {"Tobacco", "#00af49", CropTypeAnnual},
	12: {"Sweet Corn", "#dda50a", CropTypeAnnual},
	13: {"Pop or Orn Corn", "#dda50a", CropTypeAnnual},
	14: {"Mint", "#7cd3ff", CropTypePerennial},
	21: {"Barley", "#e2007c", CropTypeAnnual},
	22: {"Durum Wheat", "#896054", CropTypeAnnual},
	23: {"Spring Wheat", "#d8b56b", CropTypeAnnual},
	24: {"Winter Wheat", "#a57000", CropTypeAnnual},
	25: {"Other Small Grains", "#d69ebc", CropTypeAnnual},
	26: {"Dbl Crop WinWht/Soybeans", "#707000", CropTypeAnnual},
	27: {"Rye", "#aa007c", CropTypeAnnual},
	28: {"Oats", "#a05989", CropTypeAnnual},
	29: {"Millet", "#700049", CropTypeAnnual},
	30: {"Speltz", "#d69ebc", CropTypeAnnual},
	31: {"Canola", "#d1ff00", CropTypeAnnual},
	32: {"Flaxseed", "#7c99ff", CropTypeAnnual},
	33: {"Safflower", "#d6d600", CropTypeAnnual},
	34: {"Rape Seed", "#d1ff00", CropTypeAnnual},
	35: {"Mustard", "#00af49", CropTypeAnnual},
	36: {"Alfalfa", "#ffa5e2", CropTypePerennial},
	37: {"Other Hay/Non Alfalfa", "#a5f28c", CropTypePerennial},
	38: {"Camelina", "#00af49", CropTypeAnnual},
	39: {"Buckwheat", "#d69ebc", CropTypeAnnual},
	41: {"Sugarbeets", "#a800e2", CropTypeAnnual},
	42: {"Dry Beans", "#a50000", CropTypeAnnual},
	43: {"Potatoes", "#702600", CropTypeAnnual},
	44: {"Other Crops", "#00af49", CropTypeAnnual},
	45: {"Sugarcane", "#b27fff", CropTypePerennial},
	46: {"Sweet Potatoes", "#702600", CropTypeAnnual},
	47: {"Misc Vegs & Fruits", "#ff6666", CropTypeAnnual},
	48: {"Watermelons", "#ff6666", CropTypeAnnual},
	49: {"Onions", "#ffcc66", CropTypeAnnual},
	50: {"Cucumbers", "#ff6666", CropTypeAnnual},
	51: {"Chick Peas", "#00af49", CropTypeAnnual},
	52: {"Lentils", "#00ddaf", CropTypeAnnual},
	53: {"Peas", "#54ff00", CropTypeAnnual},
	54: {"Tomatoes", "#f2a377", CropTypeAnnual},
	55: {"Caneberries", "#ff6666", CropTypePerennial},
	56: {"Hops", "#00af49", CropTypePerennial},
	57: {"Herbs", "#7cd3ff", CropTypePerennial},
	58: {"Clover/Wildflowers", "#e8bfff", CropTypePerennial},
	59: {"Sod/Grass Seed", "#afffdd", CropTypePerennial},
	60: {"Switchgrass", "#00af49", CropTypePerennial},
	61: {"Fallow/Idle Cropland", "#bfbf77", CropTypeOther},
	62: {"Pasture/Grass", "#afffdd", CropTypePasture},
	63: {"Forest", "#93cc93", CropTypeForest},
	64: {"Shrubland", "#c6d69e", CropTypeOther},
	65: {"Barren", "#ccbfa3", CropTypeOther},

	// Orchards, vineyards and other permanent plantings.
	66: {"Cherries", "#ff00ff", CropTypePermanent},
	67: {"Peaches", "#ff8eaa", CropTypePermanent},
	68: {"Apples", "#ba004f", CropTypePermanent},
	69: {"Grapes", "#704489", CropTypePermanent},
	70: {"Christmas Trees", "#007777", CropTypePermanent},
	71: {"Other Tree Crops", "#af9970", CropTypePermanent},
	72: {"Citrus", "#ffff7f", CropTypePermanent},
	74: {"Pecans", "#b5705b", CropTypePermanent},
	75: {"Almonds", "#00a582", CropTypePermanent},
	76: {"Walnuts", "#e8d6af", CropTypePermanent},
	77: {"Pears", "#af9970", CropTypePermanent},

	// Non-agricultural land cover.
	81:  {"Clouds/No Data", "#f2f2f2", CropTypeOther},
	82:  {"Developed", "#999999", CropTypeDeveloped},
	83:  {"Water", "#4970a3", CropTypeWater},
	87:  {"Wetlands", "#7cafaf", CropTypeWater},
	88:  {"Nonag/Undefined", "#e8ffbf", CropTypeOther},
	92:  {"Aquaculture", "#00ffff", CropTypeWater},
	111: {"Open Water", "#4970a3", CropTypeWater},
	112: {"Perennial Ice/Snow", "#d3e2f9", CropTypeOther},
	121: {"Developed/Open Space", "#999999", CropTypeDeveloped},
	122: {"Developed/Low Intensity", "#999999", CropTypeDeveloped},
	123: {"Developed/Med Intensity", "#999999", CropTypeDeveloped},
	124: {"Developed/High Intensity", "#999999", CropTypeDeveloped},
	131: {"Barren", "#ccbfa3", CropTypeOther},
	141: {"Deciduous Forest", "#93cc93", CropTypeForest},
	142: {"Evergreen Forest", "#93cc93", CropTypeForest},
	143: {"Mixed Forest", "#93cc93", CropTypeForest},
	152: {"Shrubland", "#c6d69e", CropTypeOther},
	176: {"Grassland/Pasture", "#e8ffbf", CropTypePasture},
	190: {"Woody Wetlands", "#7cafaf", CropTypeWater},
	195: {"Herbaceous Wetlands", "#7cafaf", CropTypeWater},

	// Specialty crops and double-crop combinations.
	204: {"Pistachios", "#00ff8c", CropTypePermanent},
	205: {"Triticale", "#d69ebc", CropTypeAnnual},
	206: {"Carrots", "#ff6666", CropTypeAnnual},
	207: {"Asparagus", "#ff6666", CropTypePerennial},
	208: {"Garlic", "#ff6666", CropTypeAnnual},
	209: {"Cantaloupes", "#ff6666", CropTypeAnnual},
	210: {"Prunes", "#ff8eaa", CropTypePermanent},
	211: {"Olives", "#334933", CropTypePermanent},
	212: {"Oranges", "#e27026", CropTypePermanent},
	213: {"Honeydew Melons", "#ff6666", CropTypeAnnual},
	214: {"Broccoli", "#ff6666", CropTypeAnnual},
	215: {"Avocados", "#66994c", CropTypePermanent},
	216: {"Peppers", "#ff6666", CropTypeAnnual},
	217: {"Pomegranates", "#af9970", CropTypePermanent},
	218: {"Nectarines", "#ff8eaa", CropTypePermanent},
	219: {"Greens", "#ff6666", CropTypeAnnual},
	220: {"Plums", "#ff8eaa", CropTypePermanent},
	221: {"Strawberries", "#ff6666", CropTypePerennial},
	222: {"Squash", "#ff6666", CropTypeAnnual},
	223: {"Apricots", "#ff8eaa", CropTypePermanent},
	224: {"Vetch", "#00af49", CropTypeAnnual},
	225: {"Dbl Crop WinWht/Corn", "#ffd300", CropTypeAnnual},
	226: {"Dbl Crop Oats/Corn", "#ffd300", CropTypeAnnual},
	227: {"Lettuce", "#ff6666", CropTypeAnnual},
	228: {"Dbl Crop Triticale/Corn", "#ffd300", CropTypeAnnual},
	229: {"Pumpkins", "#ff6666", CropTypeAnnual},
	230: {"Dbl Crop Lettuce/Durum Wht", "#896054", CropTypeAnnual},
	231: {"Dbl Crop Lettuce/Cantaloupe", "#ff6666", CropTypeAnnual},
	232: {"Dbl Crop Lettuce/Cotton", "#ff2626", CropTypeAnnual},
	233: {"Dbl Crop Lettuce/Barley", "#e2007c", CropTypeAnnual},
	234: {"Dbl Crop Durum Wht/Sorghum", "#ff9e0a", CropTypeAnnual},
	235: {"Dbl Crop Barley/Sorghum", "#ff9e0a", CropTypeAnnual},
	236: {"Dbl Crop WinWht/Sorghum", "#a57000", CropTypeAnnual},
	237: {"Dbl Crop Barley/Corn", "#ffd300", CropTypeAnnual},
	238: {"Dbl Crop WinWht/Cotton", "#a57000", CropTypeAnnual},
	239: {"Dbl Crop Soybeans/Cotton", "#267000", CropTypeAnnual},
	240: {"Dbl Crop Soybeans/Oats", "#267000", CropTypeAnnual},
	241: {"Dbl Crop Corn/Soybeans", "#ffd300", CropTypeAnnual},
	242: {"Blueberries", "#000099", CropTypePermanent},
	243: {"Cabbage", "#ff6666", CropTypeAnnual},
	244: {"Cauliflower", "#ff6666", CropTypeAnnual},
	245: {"Celery", "#ff6666", CropTypeAnnual},
	246: {"Radishes", "#ff6666", CropTypeAnnual},
	247: {"Turnips", "#ff6666", CropTypeAnnual},
	248: {"Eggplants", "#ff6666", CropTypeAnnual},
	249: {"Gourds", "#ff6666", CropTypeAnnual},
	250: {"Cranberries", "#ff6666", CropTypePermanent},
	254: {"Dbl Crop Barley/Soybeans", "#267000", CropTypeAnnual},
}
