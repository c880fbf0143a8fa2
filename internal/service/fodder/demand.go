package fodder

import (
	"errors"
	"math"

	"github.com/mamadbah2/fodder/internal/domain/models"
)

// Fixed conversion constants for buffalo fodder planning.
const (
	DailyConsumptionKg = 87.0
	CycleLengthDays    = 45
	YieldTonsPerAcre   = 31.25
	AcresPerAgent      = 200.0
	AcresPerFarmer     = 2.0
)

// ErrInvalidBuffaloCount is returned for negative livestock counts.
var ErrInvalidBuffaloCount = errors.New("buffalo count must not be negative")

// ComputeDemandMetrics converts a request's livestock count into tonnage,
// acreage and staffing requirements. A zero count yields all-zero metrics.
func ComputeDemandMetrics(req models.FodderRequest) (models.DemandMetrics, error) {
	if req.BuffaloCount < 0 {
		return models.DemandMetrics{}, ErrInvalidBuffaloCount
	}

	daily := float64(req.BuffaloCount) * DailyConsumptionKg / 1000
	cycle := daily * CycleLengthDays
	land := cycle / YieldTonsPerAcre
	dailyHarvest := land / CycleLengthDays

	return models.DemandMetrics{
		DailyReqTons:        daily,
		WeeklyReqTons:       daily * 7,
		MonthlyReqTons:      daily * 30,
		CycleReqTons:        cycle,
		LandRequiredAcres:   land,
		DailyHarvestAcres:   dailyHarvest,
		WeeklyHarvestAcres:  dailyHarvest * 7,
		MonthlyHarvestAcres: dailyHarvest * 30,
		AgentsRequired:      int(math.Ceil(land / AcresPerAgent)),
		FarmersRequired:     int(math.Ceil(land / AcresPerFarmer)),
	}, nil
}
