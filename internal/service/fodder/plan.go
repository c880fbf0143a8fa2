package fodder

import (
	"fmt"
	"time"

	"github.com/mamadbah2/fodder/internal/domain/models"
)

// Plan runs demand calculation, cycle scheduling and date selection for one
// request. Callers re-run it whenever the request or the selected date changes.
func Plan(req models.FodderRequest, dir Directory, date time.Time) (models.HarvestPlan, error) {
	metrics, err := ComputeDemandMetrics(req)
	if err != nil {
		return models.HarvestPlan{}, fmt.Errorf("compute demand for request %s: %w", req.ID, err)
	}

	rosters, err := GenerateCycleSchedule(req, metrics, dir)
	if err != nil {
		return models.HarvestPlan{}, fmt.Errorf("generate schedule for request %s: %w", req.ID, err)
	}

	return models.HarvestPlan{
		Request: req,
		Metrics: metrics,
		Rosters: rosters,
		Daily:   DailyViewFor(rosters, date),
	}, nil
}
