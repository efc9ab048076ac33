package seed_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/edusight/fieldcheck/internal/adapters/seed"
	"github.com/edusight/fieldcheck/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSeed_Load(t *testing.T) {
	Convey("Given a well-formed fixture", t, func() {
		ctx := context.Background()
		path := writeFixture(t, `
assignments:
  - id: ASG-1
    school_id: SCH-1
    school_name: Greenfield Primary School
    inspector_id: INS-001
    scheduled_at: 2026-09-14T09:00:00Z
    indicators:
      - code: C101
        name: Qualified teaching staff ratio
        domain: Staffing
        claim: "18 of 20 teachers hold a valid teaching certificate"
        school_evidence:
          - staff_register_2026.pdf
      - code: C103
        name: Science laboratory equipment
        domain: Facilities
        claim: "Chemistry lab stocked for 40 concurrent students"
`)

		Convey("When loading it", func() {
			assignments, err := seed.Load(ctx, path)

			Convey("Then the domain assignments come back pending", func() {
				So(err, ShouldBeNil)
				So(assignments, ShouldHaveLength, 1)
				a := assignments[0]
				So(a.ID, ShouldEqual, "ASG-1")
				So(a.InspectorID, ShouldEqual, "INS-001")
				So(a.Status, ShouldEqual, model.StatusPending)
				So(a.Indicators, ShouldHaveLength, 2)
				So(a.Indicators[0].Code, ShouldEqual, "C101")
				So(a.Indicators[0].State, ShouldEqual, model.StatePending)
				So(a.Indicators[0].Finding, ShouldBeNil)
				So(a.Indicators[0].SchoolEvidence, ShouldResemble, []string{"staff_register_2026.pdf"})
			})
		})
	})

	Convey("Given a fixture without assignment ids", t, func() {
		path := writeFixture(t, `
assignments:
  - school_id: SCH-1
    inspector_id: INS-001
    indicators:
      - code: C101
  - school_id: SCH-2
    inspector_id: INS-001
    indicators:
      - code: C101
`)

		Convey("When loading it", func() {
			assignments, err := seed.Load(context.Background(), path)

			Convey("Then distinct ids are minted", func() {
				So(err, ShouldBeNil)
				So(assignments, ShouldHaveLength, 2)
				So(assignments[0].ID, ShouldNotBeEmpty)
				So(assignments[1].ID, ShouldNotBeEmpty)
				So(assignments[0].ID, ShouldNotEqual, assignments[1].ID)
			})
		})
	})

	Convey("Given broken fixtures", t, func() {
		ctx := context.Background()

		Convey("When the file does not exist", func() {
			_, err := seed.Load(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
			So(errors.Is(err, seed.ErrReadFixture), ShouldBeTrue)
		})

		Convey("When an assignment has no inspector", func() {
			path := writeFixture(t, `
assignments:
  - id: ASG-1
    indicators:
      - code: C101
`)
			_, err := seed.Load(ctx, path)
			So(errors.Is(err, seed.ErrParseFixture), ShouldBeTrue)
		})

		Convey("When two assignments share an id", func() {
			path := writeFixture(t, `
assignments:
  - id: ASG-1
    inspector_id: INS-001
  - id: ASG-1
    inspector_id: INS-001
`)
			_, err := seed.Load(ctx, path)
			So(errors.Is(err, seed.ErrDuplicateID), ShouldBeTrue)
		})

		Convey("When an indicator has no code", func() {
			path := writeFixture(t, `
assignments:
  - id: ASG-1
    inspector_id: INS-001
    indicators:
      - name: Unnamed indicator
`)
			_, err := seed.Load(ctx, path)
			So(errors.Is(err, seed.ErrParseFixture), ShouldBeTrue)
		})

		Convey("When an assignment repeats an indicator code", func() {
			path := writeFixture(t, `
assignments:
  - id: ASG-1
    inspector_id: INS-001
    indicators:
      - code: C101
      - code: C101
`)
			_, err := seed.Load(ctx, path)
			So(errors.Is(err, seed.ErrDuplicateID), ShouldBeTrue)
		})
	})
}

func TestSeed_ShippedFixture(t *testing.T) {
	Convey("Given the fixture shipped in config/", t, func() {
		assignments, err := seed.Load(context.Background(), "../../../config/seed.yaml")

		Convey("Then it loads cleanly", func() {
			So(err, ShouldBeNil)
			So(assignments, ShouldNotBeEmpty)
			for _, a := range assignments {
				So(a.InspectorID, ShouldNotBeEmpty)
				So(len(a.Indicators), ShouldBeGreaterThan, 0)
			}
		})
	})
}
