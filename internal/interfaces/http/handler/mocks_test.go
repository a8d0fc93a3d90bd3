package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	salesapp "github.com/gestor/backend/internal/application/sales"
	"github.com/gestor/backend/internal/domain/audit"
	"github.com/gestor/backend/internal/interfaces/http/dto"
	"github.com/gestor/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockQuoteTransitioner struct {
	mock.Mock
}

func (m *MockQuoteTransitioner) RequestTransition(ctx context.Context, tenantID, quoteID uuid.UUID, input salesapp.RequestTransitionInput) (*salesapp.TransitionResponse, error) {
	args := m.Called(ctx, tenantID, quoteID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.TransitionResponse), args.Error(1)
}

func (m *MockQuoteTransitioner) CommitTransition(ctx context.Context, tenantID, quoteID uuid.UUID, input salesapp.CommitTransitionInput) (*salesapp.TransitionResponse, error) {
	args := m.Called(ctx, tenantID, quoteID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.TransitionResponse), args.Error(1)
}

type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) RunConsistencyAudit(ctx context.Context, tenantID uuid.UUID) (*audit.AuditResult, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.AuditResult), args.Error(1)
}

func (m *MockAuditor) ExportConsistencyAudit(ctx context.Context, tenantID uuid.UUID, w io.Writer) (*audit.AuditResult, error) {
	args := m.Called(ctx, tenantID, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.AuditResult), args.Error(1)
}

func (m *MockAuditor) ComputeMarginAlerts(ctx context.Context, tenantID uuid.UUID, threshold *decimal.Decimal) (*audit.MarginAlertResult, error) {
	args := m.Called(ctx, tenantID, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.MarginAlertResult), args.Error(1)
}

// newTestRouter mounts registrars behind the same middleware the server uses
func newTestRouter(registrars ...interface{ RegisterRoutes(*gin.RouterGroup) }) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequireTenant())
	api := r.Group("/api/v1")
	for _, reg := range registrars {
		reg.RegisterRoutes(api)
	}
	return r
}

func doRequest(r http.Handler, method, path string, tenantID uuid.UUID, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tenantID != uuid.Nil {
		req.Header.Set(middleware.TenantHeaderKey, tenantID.String())
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
