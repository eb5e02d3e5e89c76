package skills_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/The-Tifo/Graphql/internal/domain/skills"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseSamples(t *testing.T) {
	Convey("Given a raw transactions payload", t, func() {
		Convey("When it is a well-formed list", func() {
			raw := json.RawMessage(`[{"type":"skill_go","amount":35},{"type":"skill_js","amount":"20"}]`)
			samples, rep, err := skills.ParseSamples(raw)

			Convey("Then every entry is decoded", func() {
				So(err, ShouldBeNil)
				So(rep.Samples, ShouldEqual, 2)
				So(rep.Skipped, ShouldEqual, 0)
				So(samples, ShouldResemble, []skills.Sample{
					{Type: "skill_go", Amount: 35},
					{Type: "skill_js", Amount: 20},
				})
			})
		})

		Convey("When some entries are malformed", func() {
			raw := json.RawMessage(`[
				{"type":"skill_go","amount":10},
				{"amount":5},
				{"type":"skill_c"},
				{"type":"skill_c","amount":"abc"},
				{"type":42,"amount":1},
				"skill_x",
				null,
				{"type":"skill_go","amount":15}
			]`)
			samples, rep, err := skills.ParseSamples(raw)

			Convey("Then they are skipped without an error", func() {
				So(err, ShouldBeNil)
				So(len(samples), ShouldEqual, 2)
				So(rep.Samples, ShouldEqual, 2)
				So(rep.Skipped, ShouldEqual, 6)
			})
		})

		Convey("When amounts are non-finite strings", func() {
			raw := json.RawMessage(`[
				{"type":"skill_go","amount":"NaN"},
				{"type":"skill_js","amount":"Infinity"},
				{"type":"skill_c","amount":"-Inf"},
				{"type":"skill_sql","amount":30}
			]`)
			samples, rep, err := skills.ParseSamples(raw)

			Convey("Then they are skipped like any other non-numeric amount", func() {
				So(err, ShouldBeNil)
				So(rep.Samples, ShouldEqual, 1)
				So(rep.Skipped, ShouldEqual, 3)
				So(samples, ShouldResemble, []skills.Sample{{Type: "skill_sql", Amount: 30}})
			})
		})

		Convey("When an amount is null", func() {
			samples, rep, err := skills.ParseSamples(json.RawMessage(`[{"type":"skill_go","amount":null}]`))

			Convey("Then it is kept as zero", func() {
				So(err, ShouldBeNil)
				So(rep.Skipped, ShouldEqual, 0)
				So(samples, ShouldResemble, []skills.Sample{{Type: "skill_go", Amount: 0.0}})
			})
		})

		Convey("When it is not a list", func() {
			for _, raw := range []string{`{"type":"skill_go"}`, `"nope"`, `null`, ``, `42`} {
				samples, rep, err := skills.ParseSamples(json.RawMessage(raw))

				So(errors.Is(err, skills.ErrMalformedInput), ShouldBeTrue)
				So(samples, ShouldBeEmpty)
				So(rep, ShouldResemble, skills.Report{})
			}
		})

		Convey("When it is an empty list", func() {
			samples, _, err := skills.ParseSamples(json.RawMessage(`[]`))

			Convey("Then no samples and no error are returned", func() {
				So(err, ShouldBeNil)
				So(samples, ShouldBeEmpty)
			})
		})
	})
}

func TestCategory(t *testing.T) {
	Convey("Given transaction types", t, func() {
		Convey("Then the category is everything after the first separator", func() {
			cat, ok := skills.Category("skill_go")
			So(ok, ShouldBeTrue)
			So(cat, ShouldEqual, "go")

			cat, ok = skills.Category("skill_front_end")
			So(ok, ShouldBeTrue)
			So(cat, ShouldEqual, "front_end")
		})

		Convey("And types without a category are rejected", func() {
			_, ok := skills.Category("skillgo")
			So(ok, ShouldBeFalse)
			_, ok = skills.Category("skill_")
			So(ok, ShouldBeFalse)
			_, ok = skills.Category("")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestAggregateSamples(t *testing.T) {
	Convey("Given samples sharing categories", t, func() {
		samples := []skills.Sample{
			{Type: "skill_go", Amount: 10},
			{Type: "skill_js", Amount: 5},
			{Type: "skill_go", Amount: 25},
			{Type: "skill_Go", Amount: 1},
			{Type: "broken", Amount: 99},
			{Type: "skill_js", Amount: 5},
		}

		aggs := skills.AggregateSamples(samples)

		Convey("Then totals are summed per case-sensitive category in first-appearance order", func() {
			So(aggs, ShouldResemble, []skills.Aggregate{
				{Category: "go", Total: 35},
				{Category: "js", Total: 10},
				{Category: "Go", Total: 1},
			})
		})
	})
}

func TestTopSkills(t *testing.T) {
	Convey("Given eight distinct categories", t, func() {
		samples := []skills.Sample{
			{Type: "skill_a1", Amount: 10},
			{Type: "skill_b2", Amount: 80},
			{Type: "skill_c3", Amount: 30},
			{Type: "skill_d4", Amount: 70},
			{Type: "skill_e5", Amount: 50},
			{Type: "skill_f6", Amount: 20},
			{Type: "skill_g7", Amount: 60},
			{Type: "skill_h8", Amount: 40},
		}

		sel := skills.TopSkills(samples)

		Convey("Then exactly six are returned, highest first", func() {
			So(len(sel), ShouldEqual, skills.MaxSkills)
			names := make([]string, len(sel))
			for i, a := range sel {
				names[i] = a.Category
			}
			So(names, ShouldResemble, []string{"b2", "d4", "g7", "e5", "h8", "c3"})
		})
	})

	Convey("Given fewer categories than the limit", t, func() {
		sel := skills.TopSkills([]skills.Sample{
			{Type: "skill_go", Amount: 1},
			{Type: "skill_js", Amount: 3},
		})

		Convey("Then all of them are returned", func() {
			So(len(sel), ShouldEqual, 2)
			So(sel[0].Category, ShouldEqual, "js")
		})
	})

	Convey("Given tied totals", t, func() {
		sel := skills.TopSkills([]skills.Sample{
			{Type: "skill_zz", Amount: 5},
			{Type: "skill_aa", Amount: 5},
			{Type: "skill_mm", Amount: 9},
		})

		Convey("Then ties keep their insertion order", func() {
			So(sel, ShouldResemble, skills.Selection{
				{Category: "mm", Total: 9},
				{Category: "zz", Total: 5},
				{Category: "aa", Total: 5},
			})
		})
	})

	Convey("Given no samples", t, func() {
		Convey("Then the selection is empty", func() {
			So(skills.TopSkills(nil), ShouldBeEmpty)
			So(skills.Top([]skills.Aggregate{{Category: "go", Total: 1}}, 0), ShouldBeEmpty)
		})
	})
}

func TestAggregateSamplesOverflow(t *testing.T) {
	Convey("Given amounts whose sum overflows", t, func() {
		samples := []skills.Sample{
			{Type: "skill_go", Amount: 1e308},
			{Type: "skill_js", Amount: 40},
			{Type: "skill_go", Amount: 1e308},
		}

		aggs := skills.AggregateSamples(samples)

		Convey("Then the overflowing category is dropped and the rest kept", func() {
			So(aggs, ShouldResemble, []skills.Aggregate{{Category: "js", Total: 40.0}})
		})

		Convey("Then the display list carries only finite values", func() {
			out := skills.Display(skills.TopSkills(samples))
			So(out, ShouldResemble, []skills.Scaled{{Name: "Js", Value: 2.0}})
			_, err := json.Marshal(out)
			So(err, ShouldBeNil)
		})
	})
}

func TestDisplay(t *testing.T) {
	Convey("Given a selection", t, func() {
		sel := skills.Selection{
			{Category: "go", Total: 100},
			{Category: "x", Total: 90},
			{Category: "front-end", Total: 40},
			{Category: "émoji", Total: 10},
		}

		out := skills.Display(sel)

		Convey("Then short names are dropped, names capitalized and values scaled to five", func() {
			So(out, ShouldResemble, []skills.Scaled{
				{Name: "Go", Value: 5},
				{Name: "Front-end", Value: 2},
				{Name: "Émoji", Value: 0.5},
			})
		})
	})

	Convey("Given a selection holding a non-finite total", t, func() {
		sel := skills.Selection{
			{Category: "go", Total: math.Inf(1)},
			{Category: "sql", Total: 30},
			{Category: "js", Total: math.NaN()},
		}

		Convey("Then only finite entries are displayed", func() {
			So(skills.Display(sel), ShouldResemble, []skills.Scaled{{Name: "Sql", Value: 1.5}})
		})
	})

	Convey("Given an empty selection", t, func() {
		Convey("Then the display list is empty but not nil", func() {
			out := skills.Display(nil)
			So(out, ShouldNotBeNil)
			So(out, ShouldBeEmpty)
		})
	})
}
