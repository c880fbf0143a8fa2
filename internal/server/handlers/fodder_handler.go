package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fodder/internal/domain/models"
	"github.com/mamadbah2/fodder/internal/repository/mongodb"
	"github.com/mamadbah2/fodder/internal/service/planning"
)

// Planner is the planning surface exposed over HTTP.
type Planner interface {
	Agents() []string
	Farms() []string
	Today() time.Time
	CreateRequest(ctx context.Context, input models.FodderRequestInput) (models.FodderRequest, error)
	UpdateRequest(ctx context.Context, id string, input models.FodderRequestInput) (models.FodderRequest, error)
	GetRequest(ctx context.Context, id string) (models.FodderRequest, error)
	ListRequests(ctx context.Context) ([]models.FodderRequest, error)
	Metrics(ctx context.Context, id string) (models.DemandMetrics, error)
	PlanForDate(ctx context.Context, id string, date time.Time) (models.HarvestPlan, error)
}

// FodderHandler serves fodder requests and their harvest plans.
type FodderHandler struct {
	planner Planner
	logger  *zap.Logger
}

// NewFodderHandler constructs the HTTP handler adapter.
func NewFodderHandler(planner Planner, logger *zap.Logger) *FodderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FodderHandler{planner: planner, logger: logger}
}

// ListAgents returns the agent directory in assignment order.
func (h *FodderHandler) ListAgents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"agents": h.planner.Agents()})
}

// ListFarms returns the farms a request may be created for.
func (h *FodderHandler) ListFarms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"farms": h.planner.Farms()})
}

// CreateRequest stores a new fodder request.
func (h *FodderHandler) CreateRequest(c *gin.Context) {
	var input models.FodderRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid fodder request payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	req, err := h.planner.CreateRequest(c.Request.Context(), input)
	if err != nil {
		h.fail(c, "create fodder request", err)
		return
	}

	c.JSON(http.StatusCreated, req)
}

// UpdateRequest replaces the parameters of a stored request.
func (h *FodderHandler) UpdateRequest(c *gin.Context) {
	var input models.FodderRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid fodder request payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	req, err := h.planner.UpdateRequest(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.fail(c, "update fodder request", err)
		return
	}

	c.JSON(http.StatusOK, req)
}

// GetRequest returns one stored request.
func (h *FodderHandler) GetRequest(c *gin.Context) {
	req, err := h.planner.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get fodder request", err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// ListRequests returns every stored request.
func (h *FodderHandler) ListRequests(c *gin.Context) {
	requests, err := h.planner.ListRequests(c.Request.Context())
	if err != nil {
		h.fail(c, "list fodder requests", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// Metrics returns the demand metrics of a request.
func (h *FodderHandler) Metrics(c *gin.Context) {
	metrics, err := h.planner.Metrics(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "compute demand metrics", err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// Schedule returns the full-cycle roster of every agent.
func (h *FodderHandler) Schedule(c *gin.Context) {
	plan, err := h.planner.PlanForDate(c.Request.Context(), c.Param("id"), h.planner.Today())
	if err != nil {
		h.fail(c, "generate schedule", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"request": plan.Request,
		"metrics": plan.Metrics,
		"rosters": plan.Rosters,
	})
}

// Daily returns the harvest assignments for ?date=YYYY-MM-DD, defaulting to today.
func (h *FodderHandler) Daily(c *gin.Context) {
	date := h.planner.Today()
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	plan, err := h.planner.PlanForDate(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		h.fail(c, "select daily view", err)
		return
	}
	c.JSON(http.StatusOK, plan.Daily)
}

func (h *FodderHandler) fail(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, planning.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, mongodb.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "fodder request not found"})
	default:
		h.logger.Error("failed to "+action, zap.Error(err), zap.String("request_id", c.Param("id")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
	}
}
