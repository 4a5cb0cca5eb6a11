// Package catalog declares the material attributes the prediction pipeline was
// fit against: their names, kinds and the column order it expects.
package catalog

// Kind distinguishes numeric from categorical fields.
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Field describes one catalog column.
type Field struct {
	Name string
	Kind Kind
	// Percent fields are bounded to [0, 100].
	Percent bool
	// Index is the position within its kind (0..NumericCount-1 or 0..CategoricalCount-1).
	Index int
}

// Field names, with the exact punctuation used on the wire.
const (
	RecycledContent          = "Recycled Content %"
	VirginContent            = "Virgin Content %"
	CarbonFootprint          = "Carbon Footprint (kg CO2e)"
	WaterConsumption         = "Water Consumption (L)"
	PowerConsumption         = "Power Consumption (kWh)"
	PackagingRecycledContent = "Packaging Recycled Content %"
	ExpectedLifespan         = "Expected Lifespan (yrs)"

	BaseMaterial         = "Base Material"
	ContainsPlastic      = "Contains Plastic"
	Biodegradable        = "Biodegradable"
	Compostable          = "Compostable"
	RecyclabilityLevel   = "Recyclability Level"
	Reusability          = "Reusability"
	Repairability        = "Repairability"
	EndOfLife            = "End-of-Life"
	CoatingType          = "Coating Type"
	MixedMaterials       = "Mixed Materials"
	ToxicityConcerns     = "Toxicity Concerns"
	PackagingMaterial    = "Packaging Material"
	PackagingRecyclable  = "Packaging Recyclable"
	FoodSafe             = "Food Safe"
	ChemicalLeachingRisk = "Chemical Leaching Risk"
	SVHCPresence         = "SVHC Presence"
	PlasticizerType      = "Plasticizer Type"
)

const (
	NumericCount     = 7
	CategoricalCount = 17
	FieldCount       = NumericCount + CategoricalCount
)

var numeric = [NumericCount]Field{
	{Name: RecycledContent, Kind: Numeric, Percent: true, Index: 0},
	{Name: VirginContent, Kind: Numeric, Percent: true, Index: 1},
	{Name: CarbonFootprint, Kind: Numeric, Index: 2},
	{Name: WaterConsumption, Kind: Numeric, Index: 3},
	{Name: PowerConsumption, Kind: Numeric, Index: 4},
	{Name: PackagingRecycledContent, Kind: Numeric, Percent: true, Index: 5},
	{Name: ExpectedLifespan, Kind: Numeric, Index: 6},
}

var categorical = [CategoricalCount]Field{
	{Name: BaseMaterial, Kind: Categorical, Index: 0},
	{Name: ContainsPlastic, Kind: Categorical, Index: 1},
	{Name: Biodegradable, Kind: Categorical, Index: 2},
	{Name: Compostable, Kind: Categorical, Index: 3},
	{Name: RecyclabilityLevel, Kind: Categorical, Index: 4},
	{Name: Reusability, Kind: Categorical, Index: 5},
	{Name: Repairability, Kind: Categorical, Index: 6},
	{Name: EndOfLife, Kind: Categorical, Index: 7},
	{Name: CoatingType, Kind: Categorical, Index: 8},
	{Name: MixedMaterials, Kind: Categorical, Index: 9},
	{Name: ToxicityConcerns, Kind: Categorical, Index: 10},
	{Name: PackagingMaterial, Kind: Categorical, Index: 11},
	{Name: PackagingRecyclable, Kind: Categorical, Index: 12},
	{Name: FoodSafe, Kind: Categorical, Index: 13},
	{Name: ChemicalLeachingRisk, Kind: Categorical, Index: 14},
	{Name: SVHCPresence, Kind: Categorical, Index: 15},
	{Name: PlasticizerType, Kind: Categorical, Index: 16},
}

var byName = func() map[string]Field {
	m := make(map[string]Field, FieldCount)
	for _, f := range Fields() {
		m[f.Name] = f
	}
	return m
}()

// NumericFields returns the numeric fields in pipeline order.
func NumericFields() []Field { return append([]Field(nil), numeric[:]...) }

// CategoricalFields returns the categorical fields in pipeline order.
func CategoricalFields() []Field { return append([]Field(nil), categorical[:]...) }

// Fields returns every field in pipeline order: numeric first, then categorical.
func Fields() []Field {
	out := make([]Field, 0, FieldCount)
	out = append(out, numeric[:]...)
	return append(out, categorical[:]...)
}

// Names returns the field names in pipeline order.
func Names() []string {
	out := make([]string, 0, FieldCount)
	for _, f := range Fields() {
		out = append(out, f.Name)
	}
	return out
}

// NumericNames returns the numeric field names in pipeline order.
func NumericNames() []string {
	out := make([]string, NumericCount)
	for i, f := range numeric {
		out[i] = f.Name
	}
	return out
}

// CategoricalNames returns the categorical field names in pipeline order.
func CategoricalNames() []string {
	out := make([]string, CategoricalCount)
	for i, f := range categorical {
		out[i] = f.Name
	}
	return out
}

// Lookup finds a field by its exact wire name.
func Lookup(name string) (Field, bool) {
	f, ok := byName[name]
	return f, ok
}
