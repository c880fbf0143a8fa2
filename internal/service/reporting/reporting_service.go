package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/fodder/internal/domain/models"
)

const dateLayout = time.DateOnly

// FormatDemand renders the demand metrics of a request as a short digest.
func FormatDemand(req models.FodderRequest, metrics models.DemandMetrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fodder demand for %s (%d buffaloes, from %s)\n", req.Farm, req.BuffaloCount, req.StartDate.Format(dateLayout))
	fmt.Fprintf(&b, "Daily: %s t | Weekly: %s t | Monthly: %s t | Cycle: %s t\n",
		fixed(metrics.DailyReqTons), fixed(metrics.WeeklyReqTons), fixed(metrics.MonthlyReqTons), fixed(metrics.CycleReqTons))
	fmt.Fprintf(&b, "Land required: %s acres\n", fixed(metrics.LandRequiredAcres))
	fmt.Fprintf(&b, "Harvest area: %s acres/day, %s acres/week, %s acres/month\n",
		fixed(metrics.DailyHarvestAcres), fixed(metrics.WeeklyHarvestAcres), fixed(metrics.MonthlyHarvestAcres))
	fmt.Fprintf(&b, "Agents required: %d | Farmers required: %d", metrics.AgentsRequired, metrics.FarmersRequired)
	return b.String()
}

// FormatDailyView renders the harvest assignments of one day grouped by agent.
func FormatDailyView(req models.FodderRequest, view models.DailyView) string {
	header := fmt.Sprintf("Harvest plan %s for %s", view.Date.Format(dateLayout), req.Farm)
	if len(view.Flattened) == 0 {
		return header + ": no harvests scheduled."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d farmers, %s acres\n", header, len(view.Flattened), fixed(view.TotalAcres))
	for _, roster := range view.PerAgent {
		if len(roster.DailyItems) == 0 {
			continue
		}
		names := make([]string, 0, len(roster.DailyItems))
		for _, item := range roster.DailyItems {
			names = append(names, item.Farmer)
		}
		fmt.Fprintf(&b, "- %s (%s acres): %s\n", roster.Agent, fixed(roster.DailyAcres), strings.Join(names, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatRequestList renders a compact list of stored requests.
func FormatRequestList(requests []models.FodderRequest) string {
	if len(requests) == 0 {
		return "No fodder requests recorded yet."
	}

	lines := make([]string, 0, len(requests)+1)
	lines = append(lines, fmt.Sprintf("%d fodder requests:", len(requests)))
	for _, req := range requests {
		lines = append(lines, fmt.Sprintf("- %s: %s, %d buffaloes from %s", req.ID, req.Farm, req.BuffaloCount, req.StartDate.Format(dateLayout)))
	}
	return strings.Join(lines, "\n")
}

func fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
