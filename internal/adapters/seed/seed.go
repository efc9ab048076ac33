// Package seed loads the mock assignment fixture the demo renders from.
// The fixture is YAML; entries may omit ids, which are minted here.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/edusight/fieldcheck/internal/domain/model"
)

// indicatorSeed mirrors one indicator entry in the fixture.
type indicatorSeed struct {
	Code           string   `koanf:"code"`
	Name           string   `koanf:"name"`
	Domain         string   `koanf:"domain"`
	Claim          string   `koanf:"claim"`
	SchoolEvidence []string `koanf:"school_evidence"`
}

// assignmentSeed mirrors one assignment entry in the fixture.
type assignmentSeed struct {
	ID          string          `koanf:"id"`
	SchoolID    string          `koanf:"school_id"`
	SchoolName  string          `koanf:"school_name"`
	InspectorID string          `koanf:"inspector_id"`
	ScheduledAt time.Time       `koanf:"scheduled_at"`
	Indicators  []indicatorSeed `koanf:"indicators"`
}

// fixture is the fixture document root.
type fixture struct {
	Assignments []assignmentSeed `koanf:"assignments"`
}

// Load reads the fixture at path and converts it into domain assignments.
// Every indicator starts Pending with no finding.
func Load(_ context.Context, path string) ([]model.Assignment, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFixture, err)
	}
	var fx fixture
	if err := k.UnmarshalWithConf("", &fx, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFixture, err)
	}
	return convert(fx)
}

func convert(fx fixture) ([]model.Assignment, error) {
	out := make([]model.Assignment, 0, len(fx.Assignments))
	seenIDs := make(map[string]bool, len(fx.Assignments))
	for i, as := range fx.Assignments {
		if as.ID == "" {
			as.ID = uuid.NewString()
		}
		if seenIDs[as.ID] {
			return nil, fmt.Errorf("%w: assignment %q", ErrDuplicateID, as.ID)
		}
		seenIDs[as.ID] = true
		if as.InspectorID == "" {
			return nil, fmt.Errorf("%w: assignment %d has no inspector_id", ErrParseFixture, i)
		}

		a := model.Assignment{
			ID:          as.ID,
			SchoolID:    as.SchoolID,
			SchoolName:  as.SchoolName,
			InspectorID: as.InspectorID,
			ScheduledAt: as.ScheduledAt.UTC(),
			Status:      model.StatusPending,
			Indicators:  make([]model.IndicatorAssignment, 0, len(as.Indicators)),
		}
		seenCodes := make(map[string]bool, len(as.Indicators))
		for _, ind := range as.Indicators {
			if ind.Code == "" {
				return nil, fmt.Errorf("%w: assignment %q has an indicator with no code", ErrParseFixture, as.ID)
			}
			if seenCodes[ind.Code] {
				return nil, fmt.Errorf("%w: indicator %q in assignment %q", ErrDuplicateID, ind.Code, as.ID)
			}
			seenCodes[ind.Code] = true
			a.Indicators = append(a.Indicators, model.IndicatorAssignment{
				Code:           ind.Code,
				Name:           ind.Name,
				Domain:         ind.Domain,
				Claim:          ind.Claim,
				SchoolEvidence: ind.SchoolEvidence,
				State:          model.StatePending,
			})
		}
		out = append(out, a)
	}
	return out, nil
}
