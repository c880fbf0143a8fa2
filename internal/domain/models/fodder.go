package models

import "time"

// FodderRequest is a stored demand for fodder: how many buffaloes a farm
// must feed, starting from which day.
type FodderRequest struct {
	ID           string    `bson:"_id" json:"id"`
	BuffaloCount int       `bson:"buffalo_count" json:"buffalo_count"`
	Farm         string    `bson:"farm" json:"farm"`
	StartDate    time.Time `bson:"start_date" json:"start_date"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// FodderRequestInput is the intake payload for creating or editing a request.
type FodderRequestInput struct {
	BuffaloCount int    `json:"buffalo_count" binding:"required"`
	Farm         string `json:"farm" binding:"required"`
	StartDate    string `json:"start_date" binding:"required"`
}

// DemandMetrics is derived from a FodderRequest and never persisted.
type DemandMetrics struct {
	DailyReqTons        float64 `json:"daily_req_tons"`
	WeeklyReqTons       float64 `json:"weekly_req_tons"`
	MonthlyReqTons      float64 `json:"monthly_req_tons"`
	CycleReqTons        float64 `json:"cycle_req_tons"`
	LandRequiredAcres   float64 `json:"land_required_acres"`
	DailyHarvestAcres   float64 `json:"daily_harvest_acres"`
	WeeklyHarvestAcres  float64 `json:"weekly_harvest_acres"`
	MonthlyHarvestAcres float64 `json:"monthly_harvest_acres"`
	AgentsRequired      int     `json:"agents_required"`
	FarmersRequired     int     `json:"farmers_required"`
}

// HarvestScheduleItem is one farmer's plot, harvested on HarvestDate.
type HarvestScheduleItem struct {
	Index          int       `json:"index"`
	HarvestDate    time.Time `json:"harvest_date"`
	Farmer         string    `json:"farmer"`
	Acres          float64   `json:"acres"`
	OnboardingDate time.Time `json:"onboarding_date"`
}

// AgentRoster holds everything assigned to one field agent over a cycle.
// DailyItems and DailyAcres are only populated by a date selection.
type AgentRoster struct {
	Agent        string                `json:"agent"`
	Items        []HarvestScheduleItem `json:"items"`
	TotalFarmers int                   `json:"total_farmers"`
	TotalAcres   float64               `json:"total_acres"`
	DailyItems   []HarvestScheduleItem `json:"daily_items"`
	DailyAcres   float64               `json:"daily_acres"`
}

// DailyAssignment is a flattened, agent-labelled row of a daily view.
type DailyAssignment struct {
	Agent string `json:"agent"`
	HarvestScheduleItem
}

// DailyView is the per-agent and flattened selection for one date.
type DailyView struct {
	Date       time.Time         `json:"date"`
	PerAgent   []AgentRoster     `json:"per_agent"`
	Flattened  []DailyAssignment `json:"flattened"`
	TotalAcres float64           `json:"total_acres"`
}

// HarvestPlan bundles every stage of the pipeline for one request and date.
type HarvestPlan struct {
	Request FodderRequest `json:"request"`
	Metrics DemandMetrics `json:"metrics"`
	Rosters []AgentRoster `json:"rosters"`
	Daily   DailyView     `json:"daily"`
}
