package fodder

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mamadbah2/fodder/internal/domain/models"
)

// acreTolerance bounds the drift allowed between scheduled and required acreage.
const acreTolerance = 1e-6

var (
	// ErrNoAgents is returned when farmers must be scheduled but the directory is empty.
	ErrNoAgents = errors.New("agent directory is empty")
	// ErrScheduleInvariant is returned when a generated schedule fails its own checks.
	ErrScheduleInvariant = errors.New("schedule invariant violated")
)

// Directory lists the field agents and the pool of given names used to label
// generated farmers. Agent order decides round-robin ownership.
type Directory struct {
	Agents      []string
	FarmerNames []string
}

// GenerateCycleSchedule distributes metrics.FarmersRequired farmers over the
// cycle starting at req.StartDate. Each day receives enough farmers to bring
// the running total up to ceil((day+1) * rate), so batch sizes may differ by
// one between days. The k-th farmer belongs to dir.Agents[k mod n] and the
// last one absorbs the acreage remainder.
func GenerateCycleSchedule(req models.FodderRequest, metrics models.DemandMetrics, dir Directory) ([]models.AgentRoster, error) {
	rosters := make([]models.AgentRoster, len(dir.Agents))
	for i, agent := range dir.Agents {
		rosters[i] = models.AgentRoster{Agent: agent, Items: []models.HarvestScheduleItem{}}
	}

	farmersRequired := metrics.FarmersRequired
	if farmersRequired <= 0 {
		return rosters, nil
	}
	if len(dir.Agents) == 0 {
		return nil, ErrNoAgents
	}

	start := DateOnly(req.StartDate)
	rate := metrics.DailyHarvestAcres / AcresPerFarmer
	generated := 0

	for day := 0; day < CycleLengthDays && generated < farmersRequired; day++ {
		harvestDate := start.AddDate(0, 0, day)

		expected := int(math.Ceil(float64(day+1) * rate))
		// float drift can leave ceil one short of the cap on the closing day
		if day == CycleLengthDays-1 || expected > farmersRequired {
			expected = farmersRequired
		}

		for count := expected - generated; count > 0; count-- {
			acres := AcresPerFarmer
			if generated+1 == farmersRequired {
				acres = metrics.LandRequiredAcres - float64(generated)*AcresPerFarmer
			}

			owner := generated % len(dir.Agents)
			rosters[owner].Items = append(rosters[owner].Items, models.HarvestScheduleItem{
				Index:          generated,
				HarvestDate:    harvestDate,
				Farmer:         FarmerName(generated, dir.FarmerNames),
				Acres:          acres,
				OnboardingDate: harvestDate.AddDate(0, 0, -CycleLengthDays),
			})
			generated++
		}
	}

	for i := range rosters {
		rosters[i].TotalFarmers = len(rosters[i].Items)
		total := 0.0
		for _, item := range rosters[i].Items {
			total += item.Acres
		}
		rosters[i].TotalAcres = total
	}

	if err := verifySchedule(rosters, metrics); err != nil {
		return nil, err
	}

	return rosters, nil
}

func verifySchedule(rosters []models.AgentRoster, metrics models.DemandMetrics) error {
	count := 0
	acres := 0.0
	for _, roster := range rosters {
		for _, item := range roster.Items {
			if !item.OnboardingDate.AddDate(0, 0, CycleLengthDays).Equal(item.HarvestDate) {
				return fmt.Errorf("%w: farmer %d onboarding %s does not precede harvest %s by %d days",
					ErrScheduleInvariant, item.Index, item.OnboardingDate.Format(time.DateOnly), item.HarvestDate.Format(time.DateOnly), CycleLengthDays)
			}
			if item.Acres <= 0 || item.Acres > AcresPerFarmer+acreTolerance {
				return fmt.Errorf("%w: farmer %d allocated %.6f acres", ErrScheduleInvariant, item.Index, item.Acres)
			}
			count++
			acres += item.Acres
		}
	}

	if count != metrics.FarmersRequired {
		return fmt.Errorf("%w: generated %d farmers, want %d", ErrScheduleInvariant, count, metrics.FarmersRequired)
	}
	if math.Abs(acres-metrics.LandRequiredAcres) > acreTolerance {
		return fmt.Errorf("%w: scheduled %.6f acres, want %.6f", ErrScheduleInvariant, acres, metrics.LandRequiredAcres)
	}
	return nil
}

// FarmerName builds a display name from the pool entry at index mod len(pool)
// and a letter suffix counting how many times the pool has wrapped.
func FarmerName(index int, pool []string) string {
	if len(pool) == 0 {
		pool = []string{"Farmer"}
	}
	return pool[index%len(pool)] + " " + letterSuffix(index/len(pool))
}

// letterSuffix maps 0 to "A", 25 to "Z", 26 to "AA" and so on.
func letterSuffix(n int) string {
	var buf []byte
	for n >= 0 {
		buf = append([]byte{byte('A' + n%26)}, buf...)
		n = n/26 - 1
	}
	return string(buf)
}

// DateOnly truncates t to midnight UTC of its own calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
