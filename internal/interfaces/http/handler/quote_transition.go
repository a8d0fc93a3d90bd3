package handler

import (
	"context"

	salesapp "github.com/gestor/backend/internal/application/sales"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuoteTransitioner is the application service behind the transition routes
type QuoteTransitioner interface {
	RequestTransition(ctx context.Context, tenantID, quoteID uuid.UUID, input salesapp.RequestTransitionInput) (*salesapp.TransitionResponse, error)
	CommitTransition(ctx context.Context, tenantID, quoteID uuid.UUID, input salesapp.CommitTransitionInput) (*salesapp.TransitionResponse, error)
}

// QuoteTransitionHandler handles quote status transitions
type QuoteTransitionHandler struct {
	BaseHandler
	service QuoteTransitioner
}

// NewQuoteTransitionHandler creates a new QuoteTransitionHandler
func NewQuoteTransitionHandler(service QuoteTransitioner) *QuoteTransitionHandler {
	return &QuoteTransitionHandler{service: service}
}

// RegisterRoutes mounts the transition routes under /sales/quotes
func (h *QuoteTransitionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/sales/quotes")
	quotes.POST("/:id/transitions", h.RequestTransition)
	quotes.POST("/:id/transitions/commit", h.CommitTransition)
}

// RequestTransition godoc
// @Summary      Request a quote status change
// @Description  Commits the change directly, reports it unchanged, or asks for payment terms
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Param        request body salesapp.RequestTransitionInput true "Current and target status"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /sales/quotes/{id}/transitions [post]
func (h *QuoteTransitionHandler) RequestTransition(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathID(c)
	if !ok {
		return
	}
	var input salesapp.RequestTransitionInput
	if !h.bindJSON(c, &input) {
		return
	}

	resp, err := h.service.RequestTransition(c.Request.Context(), tenantID, quoteID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CommitTransition godoc
// @Summary      Complete a payment-gated transition
// @Description  Persists the target status together with the collected payment terms
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Param        request body salesapp.CommitTransitionInput true "Target status and payment terms"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /sales/quotes/{id}/transitions/commit [post]
func (h *QuoteTransitionHandler) CommitTransition(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathID(c)
	if !ok {
		return
	}
	var input salesapp.CommitTransitionInput
	if !h.bindJSON(c, &input) {
		return
	}

	resp, err := h.service.CommitTransition(c.Request.Context(), tenantID, quoteID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
