package stats

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dkovalev/calchub/internal/models"
	"github.com/dkovalev/calchub/internal/repository"
)

// Timestamp layouts met in the calculations store, tried in order.
// Rows written by postgres itself come in the first two forms
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05",
}

type StatsService struct {
	calcRepo repository.CalculationRepo
}

func NewService(calcRepo repository.CalculationRepo) *StatsService {
	return &StatsService{calcRepo: calcRepo}
}

// UserStats summarizes the user's calculation history.
// A userID that is not a valid UUID means "no data", not an error: the
// report comes back zero valued. Rows with unparseable created_at still
// count toward totals and only drop out of the last calculation date
func (s *StatsService) UserStats(ctx context.Context, userID string) (models.UserStats, error) {
	report := models.UserStats{OperationsBreakdown: map[string]int{}}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return report, nil
	}

	calcs, err := s.calcRepo.ListUserCalculations(ctx, uid)
	if err != nil {
		return report, err
	}

	if len(calcs) == 0 {
		return report, nil
	}

	report.TotalCalculations = len(calcs)

	operands := 0
	var lastDate time.Time
	haveLastDate := false

	for _, c := range calcs {
		operands += len(c.Inputs)
		report.OperationsBreakdown[c.Type]++

		if dt, ok := parseCreatedAt(c.CreatedAt); ok {
			if !haveLastDate || dt.After(lastDate) {
				lastDate = dt
				haveLastDate = true
			}
		}
	}

	report.AverageOperands = float64(operands) / float64(len(calcs))

	// Ties on the breakdown counts go to the operation met first,
	// so reports are stable across calls
	best := 0
	for _, c := range calcs {
		if n := report.OperationsBreakdown[c.Type]; n > best {
			best = n
			opType := c.Type
			report.MostUsedOperation = &opType
		}
	}

	if haveLastDate {
		formatted := lastDate.Format(time.RFC3339)
		report.LastCalculationDate = &formatted
	}

	return report, nil
}

func parseCreatedAt(value string) (time.Time, bool) {
	for _, layout := range createdAtLayouts {
		if dt, err := time.Parse(layout, value); err == nil {
			return dt, true
		}
	}

	return time.Time{}, false
}
