// Package domain models USDA NASS Cropland Data Layer (CDL) point histories.
//
// # Data Source
//
// The CDL is an annual 30 m raster classifying land cover and crops across the
// continental US. Single pixels are read through the CropScape GetCDLValue
// service, which takes a layer year and a point and answers with an XML
// envelope around either a bare code or a loosely quoted object literal:
//
//	<Result>1</Result>
//	<Result>{x: -1190000, y: 1760000, value: 1, category: "Corn", color: "#FFD300"}</Result>
//
// Keys in the object form are not always quoted, so it is not JSON. Only the
// value field (required) and an optional confidence field are read; see
// [ParseCDLPayload].
//
// # Codes
//
// Codes are integers 0–255 defined by the CDL legend. Two mean "no data":
//
//	0   Background / No Data
//	81  Clouds / No Data
//
// Years answering with a no-data code are dropped from a history, not
// zero-filled. Codes missing from the taxonomy table resolve to
// "Unknown (<code>)", gray, type other.
//
// # Crop Types
//
// Each code maps to one of eight coarse types used for plausibility checks:
//
//	annual     row crops, small grains, vegetables, double crops
//	perennial  alfalfa, hay, mint, hops, sugarcane, berries
//	permanent  orchards, vineyards, nut trees, citrus, christmas trees
//	pasture    pasture and grassland
//	forest     deciduous, evergreen and mixed forest
//	developed  developed land of any intensity
//	water      open water, wetlands, aquaculture
//	other      fallow, shrubland, barren, ice, undefined
//
// # Confidence
//
// Point queries carry no per-pixel confidence, so the published producer's
// accuracy for a class is used instead. Well-studied classes have explicit
// figures; everything else falls back to a per-type default. A confidence
// supplied inline by the upstream payload always wins.
//
// # Plausibility Rules
//
// Histories are analyzed in ascending year order. A permanent crop appearing,
// a permanent crop replaced by an annual or pasture, and a change into forest
// or developed land are all flagged, as are permanent crops seen for a single
// isolated year and observations below 50% confidence. Missing types never
// produce a warning.
package domain
