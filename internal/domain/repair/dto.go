package repair

import (
	"time"

	"github.com/cmlabs-hris/biometric-sync/internal/pkg/validator"
)

type Outcome string

const (
	OutcomeRepaired Outcome = "repaired"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
)

// ItemResult records what a repair job did with one check-in.
type ItemResult struct {
	CheckinID    string  `json:"checkin_id"`
	Outcome      Outcome `json:"outcome"`
	AttendanceID *string `json:"attendance_id,omitempty"`
	Message      string  `json:"message,omitempty"`
	Err          error   `json:"-"`
}

// Summary counts results per outcome.
type Summary struct {
	Total    int          `json:"total"`
	Repaired int          `json:"repaired"`
	Skipped  int          `json:"skipped"`
	Failed   int          `json:"failed"`
	Items    []ItemResult `json:"items"`
}

func Summarize(results []ItemResult) Summary {
	s := Summary{Total: len(results), Items: results}
	for _, r := range results {
		switch r.Outcome {
		case OutcomeRepaired:
			s.Repaired++
		case OutcomeSkipped:
			s.Skipped++
		case OutcomeFailed:
			s.Failed++
		}
	}
	return s
}

type ClearSkippedWindowRequest struct {
	From string `json:"from"` // YYYY-MM-DD
	To   string `json:"to"`   // YYYY-MM-DD, inclusive

	FromDate time.Time `json:"-"`
	ToDate   time.Time `json:"-"`
}

func (r *ClearSkippedWindowRequest) Validate() error {
	var errs validator.ValidationErrors

	from, ok := validator.IsValidDate(r.From)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be in YYYY-MM-DD format",
		})
	}

	to, ok := validator.IsValidDate(r.To)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be in YYYY-MM-DD format",
		})
	}

	if len(errs) == 0 && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must not be before from",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	r.FromDate = from
	r.ToDate = to
	return nil
}

type ReconcileSkippedRequest struct {
	Since string `json:"since"` // RFC3339

	SinceTime time.Time `json:"-"`
}

func (r *ReconcileSkippedRequest) Validate() error {
	since, ok := validator.IsValidDateTime(r.Since)
	if !ok {
		return validator.ValidationErrors{{
			Field:   "since",
			Message: "since must be an RFC3339 timestamp",
		}}
	}
	r.SinceTime = since.UTC()
	return nil
}
