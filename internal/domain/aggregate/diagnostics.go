package aggregate

import (
	"errors"
	"fmt"

	"github.com/okian/levelboard/internal/domain/model"
	"github.com/okian/levelboard/internal/domain/rating"
)

// Severity tells whether a diagnosed record was dropped or kept.
type Severity string

// Severities.
const (
	// SeverityError marks a record excluded from aggregation.
	SeverityError Severity = "error"
	// SeverityWarning marks a record that was kept.
	SeverityWarning Severity = "warning"
)

// Diagnostic describes a data-integrity problem with one level record.
type Diagnostic struct {
	Severity Severity
	Reason   string
	Category model.Category
	Index    int // position in its source collection
	LevelID  string
	Creator  string
	Err      error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s[%d] id=%q: %v", d.Category, d.Index, d.LevelID, d.Err)
}

func (d Diagnostic) Unwrap() error { return d.Err }

// ReasonFor maps an error to a short machine-readable reason.
func ReasonFor(err error) string {
	switch {
	case errors.Is(err, ErrMissingCreator):
		return "missing_creator"
	case errors.Is(err, ErrDuplicateID):
		return "duplicate_id"
	case errors.Is(err, ErrRatingOutOfRange):
		return "rating_out_of_range"
	case errors.Is(err, rating.ErrMissingRating):
		return "missing_rating"
	case errors.Is(err, rating.ErrNonNumericRating):
		return "non_numeric_rating"
	case errors.Is(err, rating.ErrUnknownSchema):
		return "unknown_schema"
	default:
		return "invalid_record"
	}
}

// NewDiagnostic describes a problem with lvl found at index of its collection.
func NewDiagnostic(sev Severity, lvl model.Level, index int, err error) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Reason:   ReasonFor(err),
		Category: lvl.Category,
		Index:    index,
		LevelID:  lvl.ID,
		Creator:  lvl.Creator,
		Err:      err,
	}
}

// Split partitions diagnostics into errors and warnings, keeping order.
func Split(diags []Diagnostic) (errs, warnings []Diagnostic) {
	for _, d := range diags {
		if d.Severity == SeverityError {
			errs = append(errs, d)
		} else {
			warnings = append(warnings, d)
		}
	}
	return errs, warnings
}
