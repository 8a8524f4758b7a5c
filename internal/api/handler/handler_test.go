package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/insect-control-api/internal/api/handler/router"
	"github.com/vfg2006/insect-control-api/internal/domain"
	"github.com/vfg2006/insect-control-api/internal/usecases/authenticating"
	"github.com/vfg2006/insect-control-api/pkg/apiErrors"
	"github.com/vfg2006/insect-control-api/pkg/log"
	"github.com/vfg2006/insect-control-api/pkg/middleware"
)

const testOwner = "maria@exemplo.com"

var (
	adminClaims = &domain.Claims{UserID: 1, UserEmail: "admin@exemplo.com", UserActive: true, UserRoleID: authenticating.RoleAdmin}
	userClaims  = &domain.Claims{UserID: 7, UserEmail: testOwner, UserActive: true, UserRoleID: authenticating.RoleClient}
)

func TestMain(m *testing.M) {
	log.SetupTestLogger()
	os.Exit(m.Run())
}

// serve executa a requisição no router montado com as rotas informadas
func serve(t *testing.T, routes []router.Route, claims *domain.Claims, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if claims != nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.ContextKeyUser, claims))
	}

	rec := httptest.NewRecorder()
	router.New(router.WithRoutes(routes...)).ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	t.Helper()

	var apiErr apiErrors.APIError
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), dest))
}

func assertAPIError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, rec.Code)
	assert.Equal(t, code, decodeError(t, rec).Code)
}

func TestRouter_RotaDesconhecida(t *testing.T) {
	rec := serve(t, Healthcheck(), nil, http.MethodGet, "/api/nao-existe", "")
	assertAPIError(t, rec, http.StatusNotFound, apiErrors.ErrResourceNotFound)
}

func TestRouter_MetodoNaoPermitido(t *testing.T) {
	rec := serve(t, Healthcheck(), nil, http.MethodDelete, "/api/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthcheck(t *testing.T) {
	rec := serve(t, Healthcheck(), nil, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	decodeBody(t, rec, &health)
	assert.True(t, health.OK)
	assert.False(t, health.Time.IsZero())

	rec = serve(t, Healthcheck(), nil, http.MethodGet, "/api/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "InsectControl API")
}
