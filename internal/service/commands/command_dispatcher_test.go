package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/fodder/internal/domain/models"
	"github.com/mamadbah2/fodder/internal/repository/mongodb"
	"github.com/mamadbah2/fodder/internal/service/fodder"
)

type stubPlanner struct {
	requests []models.FodderRequest
	today    time.Time
	planned  time.Time
	err      error
}

var stubDirectory = fodder.Directory{Agents: []string{"Ravi", "Meena"}, FarmerNames: []string{"Asha"}}

func (p *stubPlanner) find(id string) (models.FodderRequest, error) {
	if p.err != nil {
		return models.FodderRequest{}, p.err
	}
	for _, req := range p.requests {
		if req.ID == id {
			return req, nil
		}
	}
	return models.FodderRequest{}, mongodb.ErrRequestNotFound
}

func (p *stubPlanner) GetRequest(_ context.Context, id string) (models.FodderRequest, error) {
	return p.find(id)
}

func (p *stubPlanner) ListRequests(_ context.Context) ([]models.FodderRequest, error) {
	return p.requests, p.err
}

func (p *stubPlanner) Metrics(_ context.Context, id string) (models.DemandMetrics, error) {
	req, err := p.find(id)
	if err != nil {
		return models.DemandMetrics{}, err
	}
	return fodder.ComputeDemandMetrics(req)
}

func (p *stubPlanner) PlanForDate(_ context.Context, id string, date time.Time) (models.HarvestPlan, error) {
	req, err := p.find(id)
	if err != nil {
		return models.HarvestPlan{}, err
	}
	p.planned = date
	return fodder.Plan(req, stubDirectory, date)
}

func (p *stubPlanner) Today() time.Time { return p.today }

func newStubPlanner() *stubPlanner {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	return &stubPlanner{
		requests: []models.FodderRequest{{ID: "req-1", BuffaloCount: 3600, Farm: "North Farm", StartDate: start}},
		today:    start.AddDate(0, 0, 1),
	}
}

func TestHandleDemand(t *testing.T) {
	svc := NewService(newStubPlanner(), nil)

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("/demand req-1"), "919800000000")
	require.NoError(t, err)
	assert.Contains(t, reply, "Farmers required: 226")

	reply, err = svc.HandleCommand(context.Background(), models.ParseCommand("/demand ghost"), "919800000000")
	require.NoError(t, err)
	assert.Equal(t, "No fodder request with id ghost.", reply)

	_, err = svc.HandleCommand(context.Background(), models.ParseCommand("/demand"), "919800000000")
	require.ErrorIs(t, err, ErrInvalidArguments)
}

func TestHandleHarvestDefaultsToToday(t *testing.T) {
	planner := newStubPlanner()
	svc := NewService(planner, nil)

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("/harvest req-1"), "919800000000")
	require.NoError(t, err)
	assert.Equal(t, planner.today, planner.planned)
	assert.Contains(t, reply, "Harvest plan 2024-03-02 for North Farm: 5 farmers")
}

func TestHandleHarvestExplicitDate(t *testing.T) {
	planner := newStubPlanner()
	svc := NewService(planner, nil)

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("/harvest req-1 2024-06-01"), "919800000000")
	require.NoError(t, err)
	assert.Equal(t, "Harvest plan 2024-06-01 for North Farm: no harvests scheduled.", reply)

	_, err = svc.HandleCommand(context.Background(), models.ParseCommand("/harvest req-1 tomorrow"), "919800000000")
	require.ErrorIs(t, err, ErrInvalidArguments)
}

func TestHandleRequestsAndHelp(t *testing.T) {
	svc := NewService(newStubPlanner(), nil)

	reply, err := svc.HandleCommand(context.Background(), models.ParseCommand("/requests"), "919800000000")
	require.NoError(t, err)
	assert.Contains(t, reply, "req-1: North Farm")

	reply, err = svc.HandleCommand(context.Background(), models.ParseCommand("/help"), "919800000000")
	require.NoError(t, err)
	assert.Equal(t, HelpText(), reply)

	_, err = svc.HandleCommand(context.Background(), models.ParseCommand("/onboard 12"), "919800000000")
	require.ErrorIs(t, err, ErrUnsupportedCommand)
}

func TestHandleCommandStorageFailure(t *testing.T) {
	planner := newStubPlanner()
	planner.err = errors.New("connection reset")
	svc := NewService(planner, nil)

	_, err := svc.HandleCommand(context.Background(), models.ParseCommand("/demand req-1"), "919800000000")
	require.EqualError(t, err, "connection reset")
}
