package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/okian/fairdeal/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

const testData = "../../data/players.yaml"

func execute(args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestValuateCommand(t *testing.T) {
	Convey("Given the valuate command", t, func() {
		Convey("When valuing a stored subject as JSON", func() {
			out, _, err := execute("--data", testData, "--subject", "p-ss-01", "--present-year", "2025", "--format", "json")
			So(err, ShouldBeNil)

			var v types.Valuation
			So(json.Unmarshal([]byte(out), &v), ShouldBeNil)

			Convey("Then the valuation covers the stored cohort", func() {
				So(v.SubjectID, ShouldEqual, "p-ss-01")
				So(v.Position, ShouldEqual, "SS")
				So(v.WeightSource, ShouldEqual, "profile")
				So(v.Result.CohortSize, ShouldEqual, 3)
				So(v.Result.BaselineAAV, ShouldBeGreaterThan, 0)
				So(v.Result.FairYears, ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When adjustments are switched off", func() {
			out, _, err := execute("--data", testData, "--subject", "p-ss-01", "--present-year", "2025",
				"--no-aav", "--no-years", "--format", "json")
			So(err, ShouldBeNil)

			var v types.Valuation
			So(json.Unmarshal([]byte(out), &v), ShouldBeNil)
			So(v.Result.FairAAV, ShouldEqual, v.Result.BaselineAAV)
			So(v.Result.AAVMultiplier, ShouldEqual, 1)
		})

		Convey("When the cohort is narrowed", func() {
			out, _, err := execute("--data", testData, "--subject", "p-ss-01", "--cohort", "c-ss-01", "--format", "json")
			So(err, ShouldBeNil)

			var v types.Valuation
			So(json.Unmarshal([]byte(out), &v), ShouldBeNil)
			So(v.Result.CohortSize, ShouldEqual, 1)
		})

		Convey("When printing a table", func() {
			out, _, err := execute("--data", testData, "--subject", "p-ss-01")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "Fair AAV")
			So(out, ShouldContainSubstring, "CATEGORY")
			So(out, ShouldContainSubstring, "Age multiplier")
		})

		Convey("When the subject is unknown", func() {
			_, _, err := execute("--data", testData, "--subject", "nobody")
			So(err, ShouldNotBeNil)
		})

		Convey("When the subject flag is missing", func() {
			_, _, err := execute("--data", testData)
			So(err, ShouldNotBeNil)
		})

		Convey("When the format is unknown", func() {
			_, _, err := execute("--data", testData, "--subject", "p-ss-01", "--format", "xml")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestCatalogCommands(t *testing.T) {
	Convey("Given the catalog subcommands", t, func() {
		Convey("When listing categories", func() {
			out, _, err := execute("categories", "--data", testData)
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "KEY")
			So(out, ShouldContainSubstring, "war")
		})

		Convey("When showing an unknown position's profile", func() {
			out, _, err := execute("profile", "XX", "--data", testData)
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "using DEFAULT")
		})

		Convey("When showing a profile as JSON", func() {
			out, _, err := execute("profile", "ss", "--data", testData, "--format", "json")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, `"position": "SS"`)
			So(out, ShouldContainSubstring, `"fallback": false`)
		})
	})
}
