package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/fodder/internal/domain/models"
	"github.com/mamadbah2/fodder/internal/repository/mongodb"
	"github.com/mamadbah2/fodder/internal/service/reporting"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

const (
	dateFormat = time.DateOnly
	maxListed  = 10
	helpText   = "Commands: /demand <request-id>, /harvest <request-id> [YYYY-MM-DD], /requests."
)

// Planner is the subset of the planning service the dispatcher relies on.
type Planner interface {
	GetRequest(ctx context.Context, id string) (models.FodderRequest, error)
	ListRequests(ctx context.Context) ([]models.FodderRequest, error)
	Metrics(ctx context.Context, id string) (models.DemandMetrics, error)
	PlanForDate(ctx context.Context, id string, date time.Time) (models.HarvestPlan, error)
	Today() time.Time
}

// Dispatcher executes parsed commands and renders the reply text.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	planner Planner
	logger  *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(planner Planner, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{planner: planner, logger: logger}
}

// HandleCommand answers a harvest query. User mistakes such as an unknown
// request id come back as a reply rather than an error.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandDemand:
		if len(cmd.Args) == 0 {
			return "", ErrInvalidArguments
		}
		req, err := s.planner.GetRequest(ctx, cmd.Args[0])
		if err != nil {
			return s.lookupFailure(cmd.Args[0], err)
		}
		metrics, err := s.planner.Metrics(ctx, req.ID)
		if err != nil {
			return "", err
		}
		return reporting.FormatDemand(req, metrics), nil
	case models.CommandHarvest:
		if len(cmd.Args) == 0 {
			return "", ErrInvalidArguments
		}
		date := s.planner.Today()
		if len(cmd.Args) > 1 {
			parsed, err := time.Parse(dateFormat, cmd.Args[1])
			if err != nil {
				return "", ErrInvalidArguments
			}
			date = parsed
		}
		plan, err := s.planner.PlanForDate(ctx, cmd.Args[0], date)
		if err != nil {
			return s.lookupFailure(cmd.Args[0], err)
		}
		return reporting.FormatDailyView(plan.Request, plan.Daily), nil
	case models.CommandRequests:
		requests, err := s.planner.ListRequests(ctx)
		if err != nil {
			return "", err
		}
		if len(requests) > maxListed {
			requests = requests[:maxListed]
		}
		return reporting.FormatRequestList(requests), nil
	case models.CommandHelp:
		return helpText, nil
	default:
		return "", ErrUnsupportedCommand
	}
}

// HelpText is the usage reply sent for malformed or unknown commands.
func HelpText() string {
	return helpText
}

func (s *Service) lookupFailure(id string, err error) (string, error) {
	if errors.Is(err, mongodb.ErrRequestNotFound) {
		return fmt.Sprintf("No fodder request with id %s.", id), nil
	}
	return "", err
}
