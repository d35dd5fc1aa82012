package http_test

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/authz"
	apphttp "github.com/marianodev72/sitio98plus-sub001/internal/interfaces/http"
	pkgjwt "github.com/marianodev72/sitio98plus-sub001/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testIssuer = "portal-viviendas-test"
	testExpMin = 60
)

var (
	keyOnce sync.Once
	testKey *rsa.PrivateKey
)

func signer(t *testing.T) *pkgjwt.Signer {
	t.Helper()
	keyOnce.Do(func() {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		testKey = k
	})
	return pkgjwt.NewSigner(testKey, testIssuer, testExpMin)
}

// bearer genera un token para userID con el rol indicado.
func bearer(t *testing.T, userID string, role authz.Role) string {
	t.Helper()
	tok, err := signer(t).Generate(pkgjwt.Subject{UserID: userID, Rol: string(role), Email: userID + "@test.local"})
	require.NoError(t, err)
	return "Bearer " + tok
}

// buildGuardedApp: AuthMiddleware + RequireAccess(users, admin) + handler que devuelve el principal.
func buildGuardedApp(t *testing.T) *fiber.App {
	app := apphttp.NewApp(apphttp.AppOptions{Name: "test"})
	app.Get("/protected",
		apphttp.AuthMiddleware(signer(t)),
		apphttp.RequireAccess(authz.ResourceUsers, authz.ActionAdmin),
		func(c *fiber.Ctx) error {
			p := apphttp.GetPrincipal(c)
			return c.JSON(fiber.Map{"ok": true, "role": p.Role, "user": p.UserID})
		},
	)
	return app
}

func doGet(t *testing.T, app *fiber.App, path, auth string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware / RequireAccess
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireAccess_AdminAccede(t *testing.T) {
	app := buildGuardedApp(t)
	resp := doGet(t, app, "/protected", bearer(t, "admin-1", authz.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ADMIN", body["role"])
	assert.Equal(t, "admin-1", body["user"])
}

func TestRequireAccess_PermisionarioBloqueado(t *testing.T) {
	app := buildGuardedApp(t)
	resp := doGet(t, app, "/protected", bearer(t, "perm-1", authz.RolePermisionario))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Code)
}

func TestRequireAccess_TodosLosRolesNoAdminBloqueados(t *testing.T) {
	app := buildGuardedApp(t)
	for _, r := range authz.AllRoles {
		if r == authz.RoleAdmin {
			continue
		}
		resp := doGet(t, app, "/protected", bearer(t, "u-"+string(r), r))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "rol %s", r)
		resp.Body.Close()
	}
}

func TestAuthMiddleware_SinToken401(t *testing.T) {
	app := buildGuardedApp(t)
	resp := doGet(t, app, "/protected", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Code)
}

func TestAuthMiddleware_FormatoIncorrecto401(t *testing.T) {
	app := buildGuardedApp(t)
	for _, h := range []string{"Token abc", "Bearer", "Bearer    ", "abc.def.ghi"} {
		resp := doGet(t, app, "/protected", h)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "header %q", h)
		resp.Body.Close()
	}
}

func TestAuthMiddleware_FirmaDeOtraLlave401(t *testing.T) {
	otra, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tok, err := pkgjwt.NewSigner(otra, testIssuer, testExpMin).Generate(pkgjwt.Subject{UserID: "x", Rol: "ADMIN"})
	require.NoError(t, err)

	app := buildGuardedApp(t)
	resp := doGet(t, app, "/protected", "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_RolDesconocido401(t *testing.T) {
	tok, err := signer(t).Generate(pkgjwt.Subject{UserID: "x", Rol: "SUPERUSUARIO"})
	require.NoError(t, err)

	app := buildGuardedApp(t)
	resp := doGet(t, app, "/protected", "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestErrorHandler_RutaInexistente404(t *testing.T) {
	app := buildGuardedApp(t)
	resp := doGet(t, app, "/no-existe", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
}

func TestErrorHandler_InternoOpacoFueraDeDevelopment(t *testing.T) {
	for _, dev := range []bool{false, true} {
		app := apphttp.NewApp(apphttp.AppOptions{Dev: dev})
		app.Get("/boom", func(c *fiber.Ctx) error { return assert.AnError })
		app.Get("/panic", func(c *fiber.Ctx) error { panic("algo salió mal") })

		resp := doGet(t, app, "/boom", "")
		e := decodeError(t, resp)
		resp.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL", e.Code)
		if dev {
			assert.Contains(t, e.Message, assert.AnError.Error())
		} else {
			assert.NotContains(t, e.Message, assert.AnError.Error())
		}

		resp = doGet(t, app, "/panic", "")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL", decodeError(t, resp).Code)
		resp.Body.Close()
	}
}
