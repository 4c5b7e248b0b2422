package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Inventario-insumos/pkg/jwt"
)

func signed(t *testing.T, secret string, id pkgjwt.Identity, expMinutes int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, id, "test", expMinutes)
	require.NoError(t, err)
	return "Bearer " + tok
}

// ──────────────────────────────────────────────────────────────────────────────
// Sucursal del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SucursalDelTokenLlegaAlHandler(t *testing.T) {
	app := fiber.New()
	app.Get("/whoami", AuthMiddleware(routerSecret), func(c *fiber.Ctx) error {
		userID, branchID, ok := identity(c)
		if !ok {
			return nil
		}
		return c.JSON(fiber.Map{"user": userID, "branch": branchID, "role": GetRole(c)})
	})

	for _, branch := range []int64{1, 42} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", signed(t, routerSecret, pkgjwt.Identity{UserID: 9, BranchID: branch, Role: "staff"}, 5))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)

		var body struct {
			User   int64  `json:"user"`
			Branch int64  `json:"branch"`
			Role   string `json:"role"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, int64(9), body.User)
		assert.Equal(t, branch, body.Branch)
		assert.Equal(t, "staff", body.Role)
	}
}

func TestAuthMiddleware_TokenRechazadoAntesDelHandler(t *testing.T) {
	app := newRouterApp()
	cases := []struct {
		name string
		auth string
		code string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Token abc", "INVALID_TOKEN"},
		{"malformado", "Bearer no.es.jwt", "INVALID_TOKEN"},
		{"expirado", signed(t, routerSecret, pkgjwt.Identity{UserID: 7, BranchID: 1, Role: "admin"}, -1), "INVALID_TOKEN"},
		{"otro secreto", signed(t, "otro-secreto", pkgjwt.Identity{UserID: 7, BranchID: 1, Role: "admin"}, 5), "INVALID_TOKEN"},
		{"sin sucursal", signed(t, routerSecret, pkgjwt.Identity{UserID: 7, Role: "admin"}, 5), "INVALID_TOKEN"},
		{"sin usuario", signed(t, routerSecret, pkgjwt.Identity{BranchID: 1, Role: "admin"}, 5), "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := call(t, app, http.MethodGet, "/api/inventory/materials", tc.auth, "")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Revisión de ajustes y varianzas
// ──────────────────────────────────────────────────────────────────────────────

// Con id "abc" el handler responde 400 VALIDATION: si llega ahí, el rol pasó el filtro.
func TestRequireRole_RevisionSoloAdminYManager(t *testing.T) {
	app := newRouterApp()
	routes := []string{
		"/api/inventory/adjustments/abc/approve",
		"/api/inventory/adjustments/abc/reject",
		"/api/inventory/counts/abc/post-variance",
	}
	roles := []struct {
		role   string
		status int
		code   string
	}{
		{"admin", http.StatusBadRequest, "VALIDATION"},
		{"manager", http.StatusBadRequest, "VALIDATION"},
		{"MANAGER", http.StatusBadRequest, "VALIDATION"},
		{"staff", http.StatusForbidden, "FORBIDDEN"},
		{"cashier", http.StatusForbidden, "FORBIDDEN"},
		{"", http.StatusUnauthorized, "MISSING_ROLE"},
	}
	for _, path := range routes {
		for _, r := range roles {
			resp, body := call(t, app, http.MethodPost, path, bearer(t, r.role), "")
			assert.Equal(t, r.status, resp.StatusCode, "%s con rol %q", path, r.role)
			assert.Equal(t, r.code, body.Code, "%s con rol %q", path, r.role)
		}
	}
}

func TestRequireRole_ConsultarAjusteNoExigeRol(t *testing.T) {
	app := newRouterApp()

	resp, body := call(t, app, http.MethodGet, "/api/inventory/adjustments/abc", bearer(t, "staff"), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)

	resp, body = call(t, app, http.MethodPost, "/api/inventory/counts/abc/start", bearer(t, ""), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
}
