package planning

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/fodder/internal/config"
	"github.com/mamadbah2/fodder/internal/domain/models"
	"github.com/mamadbah2/fodder/internal/repository/mongodb"
	"github.com/mamadbah2/fodder/internal/repository/sheets"
	"github.com/mamadbah2/fodder/internal/service/fodder"
)

const (
	dateLayout       = time.DateOnly
	harvestDataRange = "Harvest!A:G"
	harvestKeyRange  = "Harvest!A:B"
)

var (
	// ErrInvalidRequest marks intake payloads that fail validation.
	ErrInvalidRequest = errors.New("invalid fodder request")
	// ErrMalformedRequest marks stored records the planner refuses to schedule.
	ErrMalformedRequest = errors.New("malformed fodder request")
	// ErrExportDisabled is returned when no sheet repository is configured.
	ErrExportDisabled = errors.New("sheet export is not configured")
)

// Service coordinates the request store with the harvest planning pipeline.
type Service struct {
	repo      mongodb.Repository
	sheets    sheets.Repository
	directory fodder.Directory
	farms     []string
	location  *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a planning service. sheetsRepo may be nil to disable export.
func NewService(repo mongodb.Repository, sheetsRepo sheets.Repository, cfg config.SchedulingConfig, location *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repo:   repo,
		sheets: sheetsRepo,
		directory: fodder.Directory{
			Agents:      slices.Clone(cfg.Agents),
			FarmerNames: slices.Clone(cfg.FarmerNames),
		},
		farms:    slices.Clone(cfg.Farms),
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// Agents returns the ordered agent directory.
func (s *Service) Agents() []string {
	return slices.Clone(s.directory.Agents)
}

// Farms returns the farms a request may name.
func (s *Service) Farms() []string {
	return slices.Clone(s.farms)
}

// Today returns the current calendar date in the service timezone.
func (s *Service) Today() time.Time {
	return fodder.DateOnly(s.now().In(s.location))
}

// CreateRequest validates the intake payload and stores a new request.
func (s *Service) CreateRequest(ctx context.Context, input models.FodderRequestInput) (models.FodderRequest, error) {
	req, err := s.buildRequest(input)
	if err != nil {
		return models.FodderRequest{}, err
	}

	req.ID = uuid.NewString()
	req.CreatedAt = s.now().UTC()

	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return models.FodderRequest{}, err
	}

	s.logger.Info("fodder request created",
		zap.String("request_id", req.ID),
		zap.String("farm", req.Farm),
		zap.Int("buffalo_count", req.BuffaloCount),
		zap.String("start_date", req.StartDate.Format(dateLayout)))
	return req, nil
}

// UpdateRequest replaces the parameters of an existing request.
func (s *Service) UpdateRequest(ctx context.Context, id string, input models.FodderRequestInput) (models.FodderRequest, error) {
	existing, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return models.FodderRequest{}, err
	}

	req, err := s.buildRequest(input)
	if err != nil {
		return models.FodderRequest{}, err
	}
	req.ID = existing.ID
	req.CreatedAt = existing.CreatedAt

	if err := s.repo.UpdateRequest(ctx, req); err != nil {
		return models.FodderRequest{}, err
	}

	s.logger.Info("fodder request updated", zap.String("request_id", req.ID))
	return req, nil
}

// GetRequest loads a single stored request.
func (s *Service) GetRequest(ctx context.Context, id string) (models.FodderRequest, error) {
	return s.repo.GetRequest(ctx, id)
}

// ListRequests returns all stored requests.
func (s *Service) ListRequests(ctx context.Context) ([]models.FodderRequest, error) {
	return s.repo.ListRequests(ctx)
}

// Metrics computes the demand metrics for a stored request.
func (s *Service) Metrics(ctx context.Context, id string) (models.DemandMetrics, error) {
	req, err := s.loadForPlanning(ctx, id)
	if err != nil {
		return models.DemandMetrics{}, err
	}
	return fodder.ComputeDemandMetrics(req)
}

// PlanForDate runs the full pipeline for a stored request and selected date.
func (s *Service) PlanForDate(ctx context.Context, id string, date time.Time) (models.HarvestPlan, error) {
	req, err := s.loadForPlanning(ctx, id)
	if err != nil {
		return models.HarvestPlan{}, err
	}
	return s.plan(req, date)
}

// PlanAllForDate plans every stored request for date. Requests that cannot be
// planned are logged and skipped.
func (s *Service) PlanAllForDate(ctx context.Context, date time.Time) ([]models.HarvestPlan, error) {
	requests, err := s.repo.ListRequests(ctx)
	if err != nil {
		return nil, err
	}

	plans := make([]models.HarvestPlan, 0, len(requests))
	for _, req := range requests {
		req.StartDate = req.StartDate.UTC()
		if err := validateStored(req); err != nil {
			s.logger.Warn("skipping request", zap.String("request_id", req.ID), zap.Error(err))
			continue
		}
		plan, err := s.plan(req, date)
		if err != nil {
			s.logger.Error("failed to plan request", zap.String("request_id", req.ID), zap.Error(err))
			continue
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// ExportDailyPlan appends the plan's daily assignments to the harvest sheet
// and returns the number of rows written. A date already exported for the
// request is not written twice.
func (s *Service) ExportDailyPlan(ctx context.Context, plan models.HarvestPlan) (int, error) {
	if s.sheets == nil {
		return 0, ErrExportDisabled
	}
	if len(plan.Daily.Flattened) == 0 {
		return 0, nil
	}

	day := plan.Daily.Date.Format(dateLayout)
	exported, err := s.alreadyExported(ctx, day, plan.Request.ID)
	if err != nil {
		return 0, err
	}
	if exported {
		s.logger.Debug("daily plan already exported", zap.String("request_id", plan.Request.ID), zap.String("date", day))
		return 0, nil
	}

	rows := make([][]interface{}, 0, len(plan.Daily.Flattened))
	for _, row := range plan.Daily.Flattened {
		rows = append(rows, []interface{}{
			day,
			plan.Request.ID,
			plan.Request.Farm,
			row.Agent,
			row.Farmer,
			decimal.NewFromFloat(row.Acres).StringFixed(3),
			row.OnboardingDate.Format(dateLayout),
		})
	}

	if err := s.sheets.WriteRows(ctx, harvestDataRange, rows); err != nil {
		return 0, fmt.Errorf("export daily plan for request %s: %w", plan.Request.ID, err)
	}

	s.logger.Info("daily plan exported",
		zap.String("request_id", plan.Request.ID),
		zap.String("date", day),
		zap.Int("rows", len(rows)))
	return len(rows), nil
}

func (s *Service) alreadyExported(ctx context.Context, day, requestID string) (bool, error) {
	rows, err := s.sheets.ReadRange(ctx, harvestKeyRange)
	if err != nil {
		return false, fmt.Errorf("load exported harvest keys: %w", err)
	}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		if fmt.Sprint(row[0]) == day && fmt.Sprint(row[1]) == requestID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) plan(req models.FodderRequest, date time.Time) (models.HarvestPlan, error) {
	plan, err := fodder.Plan(req, s.directory, date)
	if err != nil {
		return models.HarvestPlan{}, err
	}

	s.logger.Debug("harvest plan computed",
		zap.String("request_id", req.ID),
		zap.String("date", plan.Daily.Date.Format(dateLayout)),
		zap.Int("farmers_required", plan.Metrics.FarmersRequired),
		zap.Int("daily_farmers", len(plan.Daily.Flattened)))
	return plan, nil
}

func (s *Service) loadForPlanning(ctx context.Context, id string) (models.FodderRequest, error) {
	req, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return models.FodderRequest{}, err
	}
	// stored dates are UTC midnights; the driver may hand them back in local time
	req.StartDate = req.StartDate.UTC()
	if err := validateStored(req); err != nil {
		return models.FodderRequest{}, err
	}
	return req, nil
}

func (s *Service) buildRequest(input models.FodderRequestInput) (models.FodderRequest, error) {
	if input.BuffaloCount <= 0 {
		return models.FodderRequest{}, fmt.Errorf("%w: buffalo_count must be positive", ErrInvalidRequest)
	}

	farm := strings.TrimSpace(input.Farm)
	if farm == "" {
		return models.FodderRequest{}, fmt.Errorf("%w: farm must be provided", ErrInvalidRequest)
	}
	if !slices.Contains(s.farms, farm) {
		return models.FodderRequest{}, fmt.Errorf("%w: unknown farm %q", ErrInvalidRequest, farm)
	}

	if strings.TrimSpace(input.StartDate) == "" {
		return models.FodderRequest{}, fmt.Errorf("%w: start_date must be provided", ErrInvalidRequest)
	}
	start, err := time.Parse(dateLayout, strings.TrimSpace(input.StartDate))
	if err != nil {
		return models.FodderRequest{}, fmt.Errorf("%w: start_date must be YYYY-MM-DD", ErrInvalidRequest)
	}

	return models.FodderRequest{
		BuffaloCount: input.BuffaloCount,
		Farm:         farm,
		StartDate:    start,
	}, nil
}

func validateStored(req models.FodderRequest) error {
	switch {
	case req.ID == "":
		return fmt.Errorf("%w: missing id", ErrMalformedRequest)
	case req.BuffaloCount < 0:
		return fmt.Errorf("%w: request %s has negative buffalo count", ErrMalformedRequest, req.ID)
	case req.StartDate.IsZero():
		return fmt.Errorf("%w: request %s has no start date", ErrMalformedRequest, req.ID)
	}
	return nil
}
