package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/willowpath/scheduler-api/internal/dto"
	"github.com/willowpath/scheduler-api/internal/service"
	appErrors "github.com/willowpath/scheduler-api/pkg/errors"
	"github.com/willowpath/scheduler-api/pkg/response"
)

type schedulingOrchestrator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
	CheckConflicts(ctx context.Context, req dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error)
	SuggestAlternatives(ctx context.Context, req dto.ConflictCheckRequest) (*dto.AlternativesResponse, error)
	SaveProposal(ctx context.Context, proposalID string) (*dto.SaveProposalResponse, error)
	ExportProposal(ctx context.Context, proposalID, format string) ([]byte, string, error)
}

// SchedulingHandler exposes the auto-scheduling endpoints.
type SchedulingHandler struct {
	service schedulingOrchestrator
}

// NewSchedulingHandler constructs the handler.
func NewSchedulingHandler(svc *service.SchedulingService) *SchedulingHandler {
	return &SchedulingHandler{service: svc}
}

// Generate godoc
// @Summary Generate an optimal schedule proposal
// @Description Runs the constraint engine over the active roster for a date range and returns ranked session slots. The proposal is held until saved or expired.
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generation window and optional roster filter"
// @Success 200 {object} response.Envelope
// @Router /schedule/generate [post]
func (h *SchedulingHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CheckConflicts godoc
// @Summary Check a proposed session for conflicts
// @Description Vets one therapist-client window against double bookings, declared availability, travel feasibility, and weekly capacity.
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param payload body dto.ConflictCheckRequest true "Proposed session"
// @Success 200 {object} response.Envelope
// @Router /schedule/conflicts [post]
func (h *SchedulingHandler) CheckConflicts(c *gin.Context) {
	var req dto.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid conflict check payload"))
		return
	}
	result, err := h.service.CheckConflicts(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// SuggestAlternatives godoc
// @Summary Suggest alternative windows for a conflicting session
// @Description Returns up to the configured number of nearby conflict-free windows, ranked by score. An empty list means no opening was found.
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param payload body dto.ConflictCheckRequest true "Proposed session"
// @Success 200 {object} response.Envelope
// @Router /schedule/alternatives [post]
func (h *SchedulingHandler) SuggestAlternatives(c *gin.Context) {
	var req dto.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid alternatives payload"))
		return
	}
	result, err := h.service.SuggestAlternatives(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// SaveProposal godoc
// @Summary Persist a generated proposal as scheduled sessions
// @Tags Scheduling
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 201 {object} response.Envelope
// @Router /schedule/proposals/{id}/save [post]
func (h *SchedulingHandler) SaveProposal(c *gin.Context) {
	result, err := h.service.SaveProposal(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ExportProposal godoc
// @Summary Export a proposal as CSV or PDF
// @Tags Scheduling
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Proposal ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /schedule/proposals/{id}/export [get]
func (h *SchedulingHandler) ExportProposal(c *gin.Context) {
	payload, contentType, err := h.service.ExportProposal(c.Request.Context(), c.Param("id"), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := "schedule-proposal." + extensionFor(contentType)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}

func extensionFor(contentType string) string {
	if contentType == "application/pdf" {
		return "pdf"
	}
	return "csv"
}
