package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/edusight/fieldcheck/internal/adapters/repository"
	service "github.com/edusight/fieldcheck/internal/app"
	"github.com/edusight/fieldcheck/internal/domain/model"
	"github.com/edusight/fieldcheck/internal/domain/review"
	"github.com/edusight/fieldcheck/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func twoIndicatorAssignment() model.Assignment {
	return model.Assignment{
		ID:          "ASG-2026-0142",
		SchoolID:    "SCH-0417",
		SchoolName:  "Greenfield Primary School",
		InspectorID: "INS-001",
		ScheduledAt: time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC),
		Indicators: []model.IndicatorAssignment{
			{Code: "C101", Name: "Qualified teaching staff ratio", State: model.StatePending},
			{Code: "C103", Name: "Science laboratory equipment", State: model.StatePending},
		},
	}
}

func startedService(opts ...service.Option) *service.Service {
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()

		Convey("When started", func() {
			err := svc.Start(context.Background())
			defer svc.Stop()

			So(err, ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)

			Convey("And starting again is a no-op", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
			})
		})

		Convey("When stopped", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			svc.Stop()
			So(svc.GetStats()["started"], ShouldEqual, false)
		})
	})
}

func TestService_UpdateIndicator(t *testing.T) {
	Convey("Given a started service with one loaded assignment", t, func() {
		ctx := context.Background()
		svc := startedService()
		defer svc.Stop()
		So(svc.LoadAssignments(ctx, []model.Assignment{twoIndicatorAssignment()}), ShouldBeNil)

		Convey("When verifying one indicator", func() {
			a, err := svc.UpdateIndicator(ctx, "ASG-2026-0142", "C101", service.IndicatorAction{
				Outcome: model.OutcomeVerified,
			})

			Convey("Then progress and status are recomputed", func() {
				So(err, ShouldBeNil)
				So(a.Status, ShouldEqual, model.StatusInProgress)
				p := a.Progress()
				So(p.Completed, ShouldEqual, 1)
				So(p.Total, ShouldEqual, 2)
				So(p.Percentage, ShouldEqual, 50.0)
			})
		})

		Convey("When recording a discrepancy with a full payload", func() {
			a, err := svc.UpdateIndicator(ctx, "ASG-2026-0142", "C103", service.IndicatorAction{
				Outcome: model.OutcomeDiscrepancy,
				Discrepancy: &review.DiscrepancyInput{
					Type:     model.DiscrepancyQuantityMismatch,
					Severity: model.SeverityModerate,
					Notes:    "3 units expired",
				},
			})

			So(err, ShouldBeNil)
			ind := a.Indicator("C103")
			So(ind.State, ShouldEqual, model.StateDiscrepancy)
			So(ind.Finding.Outcome(), ShouldEqual, model.OutcomeDiscrepancy)
		})

		Convey("When recording a discrepancy with no payload at all", func() {
			_, err := svc.UpdateIndicator(ctx, "ASG-2026-0142", "C103", service.IndicatorAction{
				Outcome: model.OutcomeDiscrepancy,
			})

			Convey("Then the validation error propagates and nothing changed", func() {
				var verr *review.ValidationError
				So(errors.As(err, &verr), ShouldBeTrue)
				a, gerr := svc.Get(ctx, "ASG-2026-0142")
				So(gerr, ShouldBeNil)
				So(a.Indicator("C103").State, ShouldEqual, model.StatePending)
				So(a.Status, ShouldEqual, model.StatusPending)
			})
		})

		Convey("When the assignment id is unknown", func() {
			_, err := svc.UpdateIndicator(ctx, "ASG-missing", "C101", service.IndicatorAction{
				Outcome: model.OutcomeVerified,
			})
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			So(service.IsNotFound(err), ShouldBeTrue)
		})

		Convey("When the indicator code is unknown", func() {
			_, err := svc.UpdateIndicator(ctx, "ASG-2026-0142", "C999", service.IndicatorAction{
				Outcome: model.OutcomeVerified,
			})
			So(errors.Is(err, service.ErrIndicatorNotFound), ShouldBeTrue)
			So(service.IsNotFound(err), ShouldBeTrue)
		})

		Convey("When the outcome is not recognized", func() {
			_, err := svc.UpdateIndicator(ctx, "ASG-2026-0142", "C101", service.IndicatorAction{
				Outcome: "approved",
			})
			So(errors.Is(err, service.ErrUnknownOutcome), ShouldBeTrue)
		})
	})
}

func TestService_SubmitReport(t *testing.T) {
	Convey("Given a started service with one loaded assignment", t, func() {
		ctx := context.Background()
		svc := startedService()
		defer svc.Stop()
		So(svc.LoadAssignments(ctx, []model.Assignment{twoIndicatorAssignment()}), ShouldBeNil)

		Convey("When submitting before any indicator is resolved", func() {
			_, err := svc.SubmitReport(ctx, "ASG-2026-0142", "")

			Convey("Then it fails naming every pending code", func() {
				var inc *service.IncompleteAssignmentError
				So(errors.As(err, &inc), ShouldBeTrue)
				So(inc.Remaining, ShouldResemble, []string{"C101", "C103"})
			})
		})

		Convey("When walking the full inspection scenario", func() {
			// C101 verified: half done.
			a, err := svc.UpdateIndicator(ctx, "ASG-2026-0142", "C101", service.IndicatorAction{
				Outcome: model.OutcomeVerified,
			})
			So(err, ShouldBeNil)
			So(a.Progress(), ShouldResemble, model.Progress{Completed: 1, Total: 2, Percentage: 50.0})
			So(a.Status, ShouldEqual, model.StatusInProgress)

			// Premature submission fails, naming C103.
			_, err = svc.SubmitReport(ctx, "ASG-2026-0142", "")
			var inc *service.IncompleteAssignmentError
			So(errors.As(err, &inc), ShouldBeTrue)
			So(inc.Remaining, ShouldResemble, []string{"C103"})

			// C103 resolved as a discrepancy: fully done.
			a, err = svc.UpdateIndicator(ctx, "ASG-2026-0142", "C103", service.IndicatorAction{
				Outcome: model.OutcomeDiscrepancy,
				Discrepancy: &review.DiscrepancyInput{
					Type:     model.DiscrepancyQuantityMismatch,
					Severity: model.SeverityModerate,
					Notes:    "3 units expired",
				},
			})
			So(err, ShouldBeNil)
			So(a.Progress(), ShouldResemble, model.Progress{Completed: 2, Total: 2, Percentage: 100.0})

			// Submission now succeeds and closes the assignment.
			a, err = svc.SubmitReport(ctx, "ASG-2026-0142", "visit concluded without incident")
			So(err, ShouldBeNil)
			So(a.Status, ShouldEqual, model.StatusCompleted)
			So(a.CompletedAt.IsZero(), ShouldBeFalse)
			So(a.GeneralNotes, ShouldEqual, "visit concluded without incident")

			Convey("Then any further mutation fails closed", func() {
				_, err := svc.UpdateIndicator(ctx, "ASG-2026-0142", "C101", service.IndicatorAction{
					Outcome: model.OutcomeVerified,
				})
				var closed *service.AssignmentClosedError
				So(errors.As(err, &closed), ShouldBeTrue)
				So(closed.AssignmentID, ShouldEqual, "ASG-2026-0142")

				after, gerr := svc.Get(ctx, "ASG-2026-0142")
				So(gerr, ShouldBeNil)
				So(after.Indicator("C101").State, ShouldEqual, model.StateVerified)
				So(after.Status, ShouldEqual, model.StatusCompleted)
			})

			Convey("And a second submission also fails closed", func() {
				_, err := svc.SubmitReport(ctx, "ASG-2026-0142", "again")
				var closed *service.AssignmentClosedError
				So(errors.As(err, &closed), ShouldBeTrue)
			})
		})

		Convey("When the assignment has zero indicators", func() {
			empty := model.Assignment{ID: "ASG-empty", InspectorID: "INS-001"}
			So(svc.LoadAssignments(ctx, []model.Assignment{empty}), ShouldBeNil)

			Convey("Then progress is zero percent, not an error", func() {
				p, err := svc.ProgressOf(ctx, "ASG-empty")
				So(err, ShouldBeNil)
				So(p, ShouldResemble, model.Progress{Completed: 0, Total: 0, Percentage: 0})
			})

			Convey("And submission is vacuously allowed", func() {
				a, err := svc.SubmitReport(ctx, "ASG-empty", "")
				So(err, ShouldBeNil)
				So(a.Status, ShouldEqual, model.StatusCompleted)
			})
		})
	})
}

func TestService_SubmitRequiresVerification(t *testing.T) {
	Convey("Given a service with the require-verification policy", t, func() {
		ctx := context.Background()
		svc := startedService(service.WithSubmitRequiresVerification(true))
		defer svc.Stop()
		So(svc.LoadAssignments(ctx, []model.Assignment{twoIndicatorAssignment()}), ShouldBeNil)

		_, err := svc.UpdateIndicator(ctx, "ASG-2026-0142", "C101", service.IndicatorAction{
			Outcome: model.OutcomeVerified,
		})
		So(err, ShouldBeNil)
		_, err = svc.UpdateIndicator(ctx, "ASG-2026-0142", "C103", service.IndicatorAction{
			Outcome: model.OutcomeUnableToVerify,
			Reason:  "records office locked during the visit",
		})
		So(err, ShouldBeNil)

		Convey("When submitting with an unable-to-verify indicator", func() {
			_, err := svc.SubmitReport(ctx, "ASG-2026-0142", "")

			Convey("Then the policy blocks it and names the codes", func() {
				var blocked *service.UnverifiableBlockedError
				So(errors.As(err, &blocked), ShouldBeTrue)
				So(blocked.Codes, ShouldResemble, []string{"C103"})
			})

			Convey("And revising the indicator unblocks submission", func() {
				_, err := svc.UpdateIndicator(ctx, "ASG-2026-0142", "C103", service.IndicatorAction{
					Outcome: model.OutcomeDiscrepancy,
					Discrepancy: &review.DiscrepancyInput{
						Type:     model.DiscrepancyMissingEvidence,
						Severity: model.SeverityMinor,
						Notes:    "ledger could not be produced",
					},
				})
				So(err, ShouldBeNil)
				_, err = svc.SubmitReport(ctx, "ASG-2026-0142", "")
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestService_ReadProjections(t *testing.T) {
	Convey("Given a started service with assignments for two inspectors", t, func() {
		ctx := context.Background()
		svc := startedService()
		defer svc.Stop()

		other := twoIndicatorAssignment()
		other.ID = "ASG-2026-0150"
		other.InspectorID = "INS-002"
		So(svc.LoadAssignments(ctx, []model.Assignment{twoIndicatorAssignment(), other}), ShouldBeNil)

		Convey("Then ListByInspector filters by inspector", func() {
			mine, err := svc.ListByInspector(ctx, "INS-001")
			So(err, ShouldBeNil)
			So(mine, ShouldHaveLength, 1)
			So(mine[0].ID, ShouldEqual, "ASG-2026-0142")
		})

		Convey("Then GetStats reflects the store", func() {
			stats := svc.GetStats()
			So(stats["assignments"], ShouldEqual, 2)
			So(stats["submitted"], ShouldEqual, 0)
			So(stats["pendingIndicators"], ShouldEqual, 4)
		})
	})
}

func TestService_SerializedMutations(t *testing.T) {
	Convey("Given concurrent updates to one assignment", t, func() {
		ctx := context.Background()
		svc := startedService()
		defer svc.Stop()
		a := twoIndicatorAssignment()
		So(svc.LoadAssignments(ctx, []model.Assignment{a}), ShouldBeNil)

		Convey("When many goroutines race verify against submit", func() {
			done := make(chan struct{})
			for i := 0; i < 8; i++ {
				go func() {
					defer func() { done <- struct{}{} }()
					_, _ = svc.UpdateIndicator(ctx, a.ID, "C101", service.IndicatorAction{Outcome: model.OutcomeVerified})
					_, _ = svc.UpdateIndicator(ctx, a.ID, "C103", service.IndicatorAction{Outcome: model.OutcomeVerified})
					_, _ = svc.SubmitReport(ctx, a.ID, "")
				}()
			}
			for i := 0; i < 8; i++ {
				<-done
			}

			Convey("Then the assignment never completes with a pending indicator", func() {
				got, err := svc.Get(ctx, a.ID)
				So(err, ShouldBeNil)
				if got.Submitted() {
					So(got.PendingCodes(), ShouldBeEmpty)
				}
			})
		})
	})
}
