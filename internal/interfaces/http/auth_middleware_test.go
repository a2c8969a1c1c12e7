package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/dto"
	apphttp "github.com/jhoicas/Logistica-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Logistica-api/pkg/jwt"
)

const (
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testTenantID  = "00000000-0000-0000-0000-000000000002"
	testProfileID = "00000000-0000-0000-0000-000000000003"
)

// buildTestApp aplicación mínima: AuthMiddleware y un handler que devuelve la identidad.
func buildTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		id := apphttp.GetIdentity(c)
		return c.JSON(fiber.Map{"user_id": id.UserID, "tenant_id": id.TenantID, "profile_id": id.ProfileID})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func signed(t *testing.T, claims pkgjwt.Claims) string {
	t.Helper()
	tok, err := pkgjwt.Sign(testJWTSecret, claims)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthMiddleware_ExtraeIdentidad(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantID, testProfileID, "test", 60)
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp(), "Bearer "+tok)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testTenantID, body["tenant_id"])
	assert.Equal(t, testProfileID, body["profile_id"])
}

func TestAuthMiddleware_TenantAnidadoYCamelCase(t *testing.T) {
	app := buildTestApp()
	for name, claims := range map[string]pkgjwt.Claims{
		"camelCase": {UserID: testUserID, TenantIDCamel: testTenantID, ProfileID: testProfileID},
		"anidado":   {UserID: testUserID, Tenant: &pkgjwt.TenantRef{ID: testTenantID}, ProfileID: testProfileID},
	} {
		t.Run(name, func(t *testing.T) {
			resp := doRequest(t, app, signed(t, claims))
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, testTenantID, body["tenant_id"])
		})
	}
}

func TestAuthMiddleware_Rechazos401(t *testing.T) {
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantID, testProfileID, "test", -1)
	require.NoError(t, err)
	otherSecret, err := pkgjwt.Generate("otro-secret", testUserID, testTenantID, testProfileID, "test", 60)
	require.NoError(t, err)

	cases := map[string]string{
		"sin header":       "",
		"sin Bearer":       "Token abc",
		"token vacío":      "Bearer ",
		"malformado":       "Bearer token.invalido.aqui",
		"expirado":         "Bearer " + expired,
		"otro secret":      "Bearer " + otherSecret,
		"sin tenant":       signed(t, pkgjwt.Claims{UserID: testUserID, ProfileID: testProfileID}),
		"tenant en blanco": signed(t, pkgjwt.Claims{UserID: testUserID, TenantID: "  ", ProfileID: testProfileID}),
	}
	app := buildTestApp()
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			resp := doRequest(t, app, header)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, http.StatusUnauthorized, body.StatusCode)
			assert.Equal(t, "Unauthorized", body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}
