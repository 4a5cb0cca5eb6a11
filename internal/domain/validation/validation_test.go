package validation_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/okian/ecoscore/internal/domain/catalog"
	"github.com/okian/ecoscore/internal/domain/validation"
	. "github.com/smartystreets/goconvey/convey"
)

func validRaw() map[string]any {
	return map[string]any{
		"Recycled Content %":           60.0,
		"Virgin Content %":             40.0,
		"Carbon Footprint (kg CO2e)":   80.0,
		"Water Consumption (L)":        400.0,
		"Power Consumption (kWh)":      30.0,
		"Packaging Recycled Content %": 50.0,
		"Expected Lifespan (yrs)":      7.0,
		"Base Material":                "metal",
		"Contains Plastic":             "no",
		"Biodegradable":                "no",
		"Compostable":                  "no",
		"Recyclability Level":          "high",
		"Reusability":                  "high",
		"Repairability":                "high",
		"End-of-Life":                  "recyclable",
		"Coating Type":                 "none",
		"Mixed Materials":              "no",
		"Toxicity Concerns":            "none",
		"Packaging Material":           "cardboard",
		"Packaging Recyclable":         "yes",
		"Food Safe":                    "yes",
		"Chemical Leaching Risk":       "none",
		"SVHC Presence":                "no",
		"Plasticizer Type":             "none",
	}
}

func TestValidate(t *testing.T) {
	Convey("Given a complete raw record", t, func() {
		raw := validRaw()

		Convey("When validating it", func() {
			rec, err := validation.Validate(raw)

			Convey("Then every field lands at its catalog position", func() {
				So(err, ShouldBeNil)
				So(rec.Numeric[0], ShouldEqual, 60.0)
				So(rec.Numeric[6], ShouldEqual, 7.0)
				So(rec.Categorical[0].Value, ShouldEqual, "metal")
				So(rec.Categorical[0].Valid, ShouldBeTrue)
				f, _ := catalog.Lookup("End-of-Life")
				So(rec.Categorical[f.Index].Value, ShouldEqual, "recyclable")
			})
		})

		Convey("When a field is missing", func() {
			delete(raw, "Base Material")
			_, err := validation.Validate(raw)

			Convey("Then a validation error names that field", func() {
				So(errors.Is(err, validation.ErrInvalidRecord), ShouldBeTrue)
				var verr *validation.Error
				So(errors.As(err, &verr), ShouldBeTrue)
				So(verr.Fields, ShouldResemble, []validation.FieldError{
					{Field: "Base Material", Reason: validation.ReasonMissing},
				})
				So(err.Error(), ShouldContainSubstring, "Base Material: field required")
			})
		})

		Convey("When a categorical value is null", func() {
			raw["Coating Type"] = nil
			rec, err := validation.Validate(raw)

			Convey("Then it is accepted and marked as null", func() {
				So(err, ShouldBeNil)
				f, _ := catalog.Lookup("Coating Type")
				So(rec.Categorical[f.Index].Valid, ShouldBeFalse)
			})
		})

		Convey("When a categorical value is not a string", func() {
			raw["Food Safe"] = true
			raw["Base Material"] = json.Number("3")
			raw["Reusability"] = []any{"high"}
			rec, err := validation.Validate(raw)

			Convey("Then each is rejected in catalog order", func() {
				var verr *validation.Error
				So(errors.As(err, &verr), ShouldBeTrue)
				So(verr.Fields, ShouldResemble, []validation.FieldError{
					{Field: "Base Material", Reason: validation.ReasonNotString},
					{Field: "Reusability", Reason: validation.ReasonNotString},
					{Field: "Food Safe", Reason: validation.ReasonNotString},
				})
				So(rec.Categorical[0].Valid, ShouldBeFalse) // zero record on error
			})
		})

		Convey("When numeric values arrive as JSON numbers or numeric strings", func() {
			raw["Recycled Content %"] = json.Number("12.5")
			raw["Expected Lifespan (yrs)"] = " 3 "
			raw["Water Consumption (L)"] = 0
			rec, err := validation.Validate(raw)

			Convey("Then they are parsed", func() {
				So(err, ShouldBeNil)
				So(rec.Numeric[0], ShouldEqual, 12.5)
				So(rec.Numeric[6], ShouldEqual, 3.0)
				So(rec.Numeric[3], ShouldEqual, 0.0)
			})
		})

		Convey("When percentages sit exactly on the bounds", func() {
			raw["Recycled Content %"] = 0.0
			raw["Virgin Content %"] = 100.0
			raw["Packaging Recycled Content %"] = 100.0
			_, err := validation.Validate(raw)

			Convey("Then they are accepted", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When a non-percentage numeric field exceeds 100", func() {
			raw["Water Consumption (L)"] = 2000.0
			_, err := validation.Validate(raw)

			Convey("Then it is accepted", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestValidateNumericRules(t *testing.T) {
	Convey("Given each numeric field", t, func() {
		for _, f := range catalog.NumericFields() {
			Convey("When "+f.Name+" is negative", func() {
				raw := validRaw()
				raw[f.Name] = -0.01
				_, err := validation.Validate(raw)

				var verr *validation.Error
				So(errors.As(err, &verr), ShouldBeTrue)
				So(verr.Fields, ShouldResemble, []validation.FieldError{
					{Field: f.Name, Reason: validation.ReasonNegative},
				})
			})

			Convey("When "+f.Name+" is 100.5", func() {
				raw := validRaw()
				raw[f.Name] = 100.5
				_, err := validation.Validate(raw)

				if f.Percent {
					var verr *validation.Error
					So(errors.As(err, &verr), ShouldBeTrue)
					So(verr.Has(f.Name), ShouldBeTrue)
					So(verr.Fields[0].Reason, ShouldEqual, validation.ReasonAbove100)
				} else {
					So(err, ShouldBeNil)
				}
			})
		}
	})

	Convey("Given malformed numeric values", t, func() {
		cases := []struct {
			value  any
			reason string
		}{
			{nil, validation.ReasonNull},
			{"sixty", validation.ReasonNotNumber},
			{true, validation.ReasonNotNumber},
			{map[string]any{"v": 1}, validation.ReasonNotNumber},
			{math.NaN(), validation.ReasonNotFinite},
			{math.Inf(1), validation.ReasonNotFinite},
			{"NaN", validation.ReasonNotFinite},
		}

		for _, tc := range cases {
			raw := validRaw()
			raw["Carbon Footprint (kg CO2e)"] = tc.value
			_, err := validation.Validate(raw)

			var verr *validation.Error
			So(errors.As(err, &verr), ShouldBeTrue)
			So(verr.Fields, ShouldResemble, []validation.FieldError{
				{Field: "Carbon Footprint (kg CO2e)", Reason: tc.reason},
			})
		}
	})
}

func TestValidateAggregates(t *testing.T) {
	Convey("Given a record with several problems", t, func() {
		raw := validRaw()
		delete(raw, "Plasticizer Type")
		delete(raw, "Recycled Content %")
		raw["Virgin Content %"] = 140.0
		raw["Expected Lifespan (yrs)"] = -1.0
		raw["Unrelated"] = "ignored"

		_, err := validation.Validate(raw)

		Convey("Then every invalid field is reported in catalog order", func() {
			var verr *validation.Error
			So(errors.As(err, &verr), ShouldBeTrue)
			So(verr.Fields, ShouldResemble, []validation.FieldError{
				{Field: "Recycled Content %", Reason: validation.ReasonMissing},
				{Field: "Virgin Content %", Reason: validation.ReasonAbove100},
				{Field: "Expected Lifespan (yrs)", Reason: validation.ReasonNegative},
				{Field: "Plasticizer Type", Reason: validation.ReasonMissing},
			})
			So(verr.Has("Unrelated"), ShouldBeFalse)
		})
	})

	Convey("Given an empty record", t, func() {
		_, err := validation.Validate(map[string]any{})

		Convey("Then all 24 fields are reported", func() {
			var verr *validation.Error
			So(errors.As(err, &verr), ShouldBeTrue)
			So(len(verr.Fields), ShouldEqual, catalog.FieldCount)
		})
	})
}
