package smoketest

import "github.com/okian/ecoscore/internal/domain/catalog"

// SustainableMaterial is a recycled metal product with long life and clean
// packaging.
func SustainableMaterial() map[string]any {
	return map[string]any{
		catalog.RecycledContent:          60.0,
		catalog.VirginContent:            40.0,
		catalog.CarbonFootprint:          80.0,
		catalog.WaterConsumption:         400.0,
		catalog.PowerConsumption:         30.0,
		catalog.PackagingRecycledContent: 50.0,
		catalog.ExpectedLifespan:         7.0,
		catalog.BaseMaterial:             "metal",
		catalog.ContainsPlastic:          "no",
		catalog.Biodegradable:            "no",
		catalog.Compostable:              "no",
		catalog.RecyclabilityLevel:       "high",
		catalog.Reusability:              "high",
		catalog.Repairability:            "high",
		catalog.EndOfLife:                "recyclable",
		catalog.CoatingType:              "none",
		catalog.MixedMaterials:           "no",
		catalog.ToxicityConcerns:         "none",
		catalog.PackagingMaterial:        "cardboard",
		catalog.PackagingRecyclable:      "yes",
		catalog.FoodSafe:                 "yes",
		catalog.ChemicalLeachingRisk:     "none",
		catalog.SVHCPresence:             "no",
		catalog.PlasticizerType:          "none",
	}
}

// LowSustainabilityMaterial is a short-lived virgin plastic product.
func LowSustainabilityMaterial() map[string]any {
	return map[string]any{
		catalog.RecycledContent:          5.0,
		catalog.VirginContent:            95.0,
		catalog.CarbonFootprint:          500.0,
		catalog.WaterConsumption:         2000.0,
		catalog.PowerConsumption:         200.0,
		catalog.PackagingRecycledContent: 0.0,
		catalog.ExpectedLifespan:         1.0,
		catalog.BaseMaterial:             "plastic",
		catalog.ContainsPlastic:          "yes",
		catalog.Biodegradable:            "no",
		catalog.Compostable:              "no",
		catalog.RecyclabilityLevel:       "low",
		catalog.Reusability:              "low",
		catalog.Repairability:            "low",
		catalog.EndOfLife:                "landfill",
		catalog.CoatingType:              "chemical",
		catalog.MixedMaterials:           "yes",
		catalog.ToxicityConcerns:         "high",
		catalog.PackagingMaterial:        "plastic",
		catalog.PackagingRecyclable:      "no",
		catalog.FoodSafe:                 "no",
		catalog.ChemicalLeachingRisk:     "high",
		catalog.SVHCPresence:             "yes",
		catalog.PlasticizerType:          "phthalate",
	}
}
