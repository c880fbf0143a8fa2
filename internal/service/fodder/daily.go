package fodder

import (
	"time"

	"github.com/mamadbah2/fodder/internal/domain/models"
)

// SelectForDate filters every roster down to the items harvested on date.
// It returns one entry per agent, in roster order, with DailyItems and
// DailyAcres set, plus the same items flattened and labelled by agent.
// Dates with nothing scheduled produce empty slices and zero sums.
func SelectForDate(rosters []models.AgentRoster, date time.Time) ([]models.AgentRoster, []models.DailyAssignment) {
	day := DateOnly(date)

	perAgent := make([]models.AgentRoster, 0, len(rosters))
	flattened := []models.DailyAssignment{}

	for _, roster := range rosters {
		selected := roster
		selected.DailyItems = []models.HarvestScheduleItem{}
		selected.DailyAcres = 0

		for _, item := range roster.Items {
			if !DateOnly(item.HarvestDate).Equal(day) {
				continue
			}
			selected.DailyItems = append(selected.DailyItems, item)
			selected.DailyAcres += item.Acres
			flattened = append(flattened, models.DailyAssignment{Agent: roster.Agent, HarvestScheduleItem: item})
		}

		perAgent = append(perAgent, selected)
	}

	return perAgent, flattened
}

// DailyViewFor wraps SelectForDate into a DailyView with its acreage total.
func DailyViewFor(rosters []models.AgentRoster, date time.Time) models.DailyView {
	perAgent, flattened := SelectForDate(rosters, date)

	total := 0.0
	for _, roster := range perAgent {
		total += roster.DailyAcres
	}

	return models.DailyView{
		Date:       DateOnly(date),
		PerAgent:   perAgent,
		Flattened:  flattened,
		TotalAcres: total,
	}
}
