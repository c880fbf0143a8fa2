package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/fodder/internal/config"
	"github.com/mamadbah2/fodder/internal/domain/models"
	"github.com/mamadbah2/fodder/internal/service/fodder"
	"github.com/mamadbah2/fodder/internal/service/planning"
)

type stubPlanner struct {
	plans     []models.HarvestPlan
	planErr   error
	exportErr error
	exported  []string
}

func (p *stubPlanner) Today() time.Time { return time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC) }

func (p *stubPlanner) PlanAllForDate(context.Context, time.Time) ([]models.HarvestPlan, error) {
	return p.plans, p.planErr
}

func (p *stubPlanner) ExportDailyPlan(_ context.Context, plan models.HarvestPlan) (int, error) {
	if p.exportErr != nil {
		return 0, p.exportErr
	}
	p.exported = append(p.exported, plan.Request.ID)
	return len(plan.Daily.Flattened), nil
}

type stubMessenger struct {
	sent []models.OutboundMessageRequest
	err  error
}

func (m *stubMessenger) VerifyWebhookToken(string, string, string) (string, error) { return "", nil }

func (m *stubMessenger) HandleWebhook(context.Context, models.WebhookPayload) error { return nil }

func (m *stubMessenger) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, req)
	return nil
}

func testPlans(t *testing.T) []models.HarvestPlan {
	t.Helper()
	dir := fodder.Directory{Agents: []string{"Ravi", "Meena"}, FarmerNames: []string{"Asha"}}
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	active, err := fodder.Plan(models.FodderRequest{ID: "active", BuffaloCount: 3600, Farm: "North Farm", StartDate: start}, dir, start)
	require.NoError(t, err)
	future, err := fodder.Plan(models.FodderRequest{ID: "future", BuffaloCount: 100, Farm: "South Farm", StartDate: start.AddDate(0, 2, 0)}, dir, start)
	require.NoError(t, err)
	return []models.HarvestPlan{active, future}
}

func testConfig() config.Config {
	return config.Config{
		Dispatch: config.DispatchConfig{CronSchedule: "0 6 * * *", Timezone: "UTC"},
		WhatsApp: config.WhatsAppConfig{ManagerID: "919800000000"},
	}
}

func TestDispatchExportsAndNotifies(t *testing.T) {
	planner := &stubPlanner{plans: testPlans(t)}
	messenger := &stubMessenger{}
	s := NewScheduler(testConfig(), planner, messenger, nil)

	require.NoError(t, s.Dispatch(context.Background(), planner.Today()))

	assert.Equal(t, []string{"active", "future"}, planner.exported)
	require.Len(t, messenger.sent, 1)
	assert.Equal(t, "919800000000", messenger.sent[0].To)
	assert.Contains(t, messenger.sent[0].Message, "Harvest plan 2024-03-01 for North Farm")
}

func TestDispatchToleratesPerRequestFailures(t *testing.T) {
	planner := &stubPlanner{plans: testPlans(t), exportErr: errors.New("sheet offline")}
	messenger := &stubMessenger{err: errors.New("whatsapp down")}
	s := NewScheduler(testConfig(), planner, messenger, nil)

	require.NoError(t, s.Dispatch(context.Background(), planner.Today()))
}

func TestDispatchWithoutIntegrations(t *testing.T) {
	planner := &stubPlanner{plans: testPlans(t), exportErr: planning.ErrExportDisabled}
	s := NewScheduler(testConfig(), planner, nil, nil)

	require.NoError(t, s.Dispatch(context.Background(), planner.Today()))
}

func TestDispatchPlanningFailure(t *testing.T) {
	planner := &stubPlanner{planErr: errors.New("mongo unreachable")}
	s := NewScheduler(testConfig(), planner, &stubMessenger{}, nil)

	assert.Error(t, s.Dispatch(context.Background(), planner.Today()))
}

func TestStartRejectsBadSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.Dispatch.CronSchedule = "every morning"
	s := NewScheduler(cfg, &stubPlanner{}, nil, nil)

	assert.Error(t, s.Start())
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(testConfig(), &stubPlanner{}, nil, nil)
	require.NoError(t, s.Start())
	s.Stop()
}
