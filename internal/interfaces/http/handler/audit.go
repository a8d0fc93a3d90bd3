package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gestor/backend/internal/domain/audit"
	"github.com/gestor/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Auditor is the application service behind the audit routes
type Auditor interface {
	RunConsistencyAudit(ctx context.Context, tenantID uuid.UUID) (*audit.AuditResult, error)
	ExportConsistencyAudit(ctx context.Context, tenantID uuid.UUID, w io.Writer) (*audit.AuditResult, error)
	ComputeMarginAlerts(ctx context.Context, tenantID uuid.UUID, threshold *decimal.Decimal) (*audit.MarginAlertResult, error)
}

// AuditHandler serves the consistency audit and margin monitor
type AuditHandler struct {
	BaseHandler
	service Auditor
	now     func() time.Time
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(service Auditor) *AuditHandler {
	return &AuditHandler{service: service, now: time.Now}
}

// RegisterRoutes mounts the audit routes under /audit
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/audit")
	g.GET("/consistency", h.GetConsistencyAudit)
	g.GET("/consistency/export", h.ExportConsistencyAudit)
	g.GET("/margins", h.GetMarginAlerts)
}

// GetConsistencyAudit godoc
// @Summary      Run the cross-module consistency audit
// @Tags         audit
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /audit/consistency [get]
func (h *AuditHandler) GetConsistencyAudit(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}
	result, err := h.service.RunConsistencyAudit(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ExportConsistencyAudit godoc
// @Summary      Download the consistency audit as a spreadsheet
// @Tags         audit
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200 {file} file
// @Failure      422 {object} dto.Response
// @Router       /audit/consistency/export [get]
func (h *AuditHandler) ExportConsistencyAudit(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	// Buffered so a failure can still be reported as JSON
	var buf bytes.Buffer
	if _, err := h.service.ExportConsistencyAudit(c.Request.Context(), tenantID, &buf); err != nil {
		h.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("auditoria-%s-%s.xlsx", tenantID.String()[:8], h.now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// GetMarginAlerts godoc
// @Summary      Compare projected and realized margins
// @Tags         audit
// @Produce      json
// @Param        threshold query number false "Percentage points of shortfall that make a quote critical"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /audit/margins [get]
func (h *AuditHandler) GetMarginAlerts(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	var query dto.MarginQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid query parameters")
		return
	}
	var threshold *decimal.Decimal
	if query.Threshold != "" {
		v, err := decimal.NewFromString(query.Threshold)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "threshold must be a number")
			return
		}
		threshold = &v
	}

	result, err := h.service.ComputeMarginAlerts(c.Request.Context(), tenantID, threshold)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
