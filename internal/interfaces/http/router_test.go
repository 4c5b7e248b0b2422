package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-insumos/internal/application/dto"
	"github.com/jhoicas/Inventario-insumos/internal/domain"
	pkgjwt "github.com/jhoicas/Inventario-insumos/pkg/jwt"
)

const routerSecret = "router-test-secret"

// Los casos cortan antes de llegar al caso de uso, así que las dependencias pueden ir vacías.
func newRouterApp() *fiber.App {
	app := fiber.New()
	Router(app, RouterDeps{JWTSecret: routerSecret, Location: time.UTC})
	return app
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(routerSecret, pkgjwt.Identity{UserID: 7, BranchID: 1, Role: role}, "test", 5)
	require.NoError(t, err)
	return "Bearer " + tok
}

func call(t *testing.T, app *fiber.App, method, path, auth, body string) (*http.Response, dto.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var out dto.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&out)
	resp.Body.Close()
	return resp, out
}

// ──────────────────────────────────────────────────────────────────────────────
// Router
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_RutasRequierenToken(t *testing.T) {
	app := newRouterApp()
	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/api/inventory/materials"},
		{http.MethodPost, "/api/orders/1/consume"},
		{http.MethodPost, "/api/inventory/reports"},
		{http.MethodPost, "/api/inventory/counts/1/start"},
	} {
		resp, body := call(t, app, r.method, r.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, r.path)
		assert.False(t, body.Success)
	}
}

func TestRouter_AprobarAjusteRequiereRolRevisor(t *testing.T) {
	app := newRouterApp()

	resp, body := call(t, app, http.MethodPost, "/api/inventory/adjustments/5/approve", bearer(t, "staff"), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body.Code)

	resp, _ = call(t, app, http.MethodPost, "/api/inventory/counts/5/post-variance", bearer(t, "staff"), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_IDInvalido_Retorna400(t *testing.T) {
	app := newRouterApp()

	resp, body := call(t, app, http.MethodPost, "/api/orders/abc/consume", bearer(t, "staff"), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)

	resp, _ = call(t, app, http.MethodGet, "/api/inventory/reports/0", bearer(t, "staff"), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_GenerarReporteSinFecha_Retorna400(t *testing.T) {
	app := newRouterApp()
	resp, body := call(t, app, http.MethodPost, "/api/inventory/reports", bearer(t, "staff"), `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Message, "date")
}

// ──────────────────────────────────────────────────────────────────────────────
// Mapeo de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidInput, 400, "VALIDATION"},
		{fmt.Errorf("%w: campo quantity", domain.ErrInvalidInput), 400, "VALIDATION"},
		{domain.ErrNotFound, 404, "NOT_FOUND"},
		{domain.ErrForbidden, 403, "FORBIDDEN"},
		{domain.ErrAlreadyProcessed, 409, "ALREADY_PROCESSED"},
		{domain.ErrInvalidTransition, 409, "INVALID_TRANSITION"},
		{domain.ErrDuplicate, 409, "DUPLICATE"},
		{domain.ErrConflict, 409, "CONFLICT"},
		{errors.New("conexión rechazada"), 500, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := errorStatus(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestRespondError_NoExponeDetalleInterno(t *testing.T) {
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		return respondError(c, errors.New("pq: password authentication failed"))
	})
	resp, body := call(t, app, http.MethodGet, "/x", "", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.False(t, body.Success)
	assert.Equal(t, "error interno", body.Message)
}
