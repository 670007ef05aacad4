package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/fairdeal/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestValuationRequest(t *testing.T) {
	Convey("Given a request body with only some fields", t, func() {
		body := `{"subject_id":"p-1","adjust_aav":false,"cohort_ids":["c-1"]}`

		Convey("When it is decoded", func() {
			var req types.ValuationRequest
			err := json.Unmarshal([]byte(body), &req)

			Convey("Then set fields are distinguishable from omitted ones", func() {
				So(err, ShouldBeNil)
				So(req.SubjectID, ShouldEqual, "p-1")
				So(req.AdjustAAV, ShouldNotBeNil)
				So(*req.AdjustAAV, ShouldBeFalse)
				So(req.AdjustYears, ShouldBeNil)
				So(req.InflationPercent, ShouldBeNil)
				So(req.CohortIDs, ShouldResemble, []string{"c-1"})
			})
		})
	})
}

func TestValuation(t *testing.T) {
	Convey("Given a valuation", t, func() {
		v := types.Valuation{ID: "abc", WeightSource: "profile"}
		v.Inputs.InflationPercent = 4

		Convey("When encoded", func() {
			raw, err := json.Marshal(v)
			So(err, ShouldBeNil)

			Convey("Then inputs stay internal", func() {
				So(string(raw), ShouldContainSubstring, `"valuation_id":"abc"`)
				So(string(raw), ShouldNotContainSubstring, "inflation_percent")
			})
		})
	})
}
