package normalize_test

import (
	"testing"

	"github.com/okian/ecoscore/internal/domain/catalog"
	"github.com/okian/ecoscore/internal/domain/model"
	"github.com/okian/ecoscore/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestValue(t *testing.T) {
	Convey("Given raw categorical values", t, func() {
		cases := map[string]model.Category{
			"yes":        model.Text("Yes "),
			"high":       model.Text("  HIGH\t"),
			"recyclable": model.Text("recyclable"),
			"":           model.Text("   "),
			"unknown":    model.Null(),
			"ünïcode":    model.Text(" ÜNÏCODE "),
			"mixed case": model.Text("\nMiXeD Case\n"),
		}

		Convey("Then they are trimmed, lowercased, or replaced by unknown", func() {
			for want, in := range cases {
				So(normalize.Value(in), ShouldEqual, want)
			}
		})

		Convey("Then normalization is idempotent", func() {
			for _, in := range cases {
				once := normalize.Value(in)
				So(normalize.Value(model.Text(once)), ShouldEqual, once)
			}
		})

		Convey("Then a literal unknown collapses onto the sentinel", func() {
			So(normalize.Value(model.Text(" Unknown")), ShouldEqual, normalize.Unknown)
		})
	})
}

func TestRecord(t *testing.T) {
	Convey("Given a validated record", t, func() {
		var rec model.MaterialRecord
		rec.Numeric[0] = 60
		rec.Numeric[6] = 7
		for i := range rec.Categorical {
			rec.Categorical[i] = model.Text(" No ")
		}
		rec.Categorical[3] = model.Null()

		Convey("When normalizing it", func() {
			out := normalize.Record(rec)

			Convey("Then numeric values are copied unchanged", func() {
				So(out.Numeric, ShouldResemble, rec.Numeric)
			})

			Convey("Then categorical values are canonical", func() {
				for i := 0; i < catalog.CategoricalCount; i++ {
					if i == 3 {
						So(out.Categorical[i], ShouldEqual, "unknown")
						continue
					}
					So(out.Categorical[i], ShouldEqual, "no")
				}
			})

			Convey("Then the input is untouched", func() {
				So(rec.Categorical[0].Value, ShouldEqual, " No ")
			})
		})
	})
}
