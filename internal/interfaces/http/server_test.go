package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Logistica-api/internal/application/auth"
	"github.com/jhoicas/Logistica-api/internal/application/authz"
	"github.com/jhoicas/Logistica-api/internal/application/dto"
	"github.com/jhoicas/Logistica-api/internal/application/shipping"
	"github.com/jhoicas/Logistica-api/internal/application/usecase"
	"github.com/jhoicas/Logistica-api/internal/domain/entity"
	"github.com/jhoicas/Logistica-api/internal/domain/repository"
	"github.com/jhoicas/Logistica-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Logistica-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Logistica-api/pkg/jwt"
	"github.com/jhoicas/Logistica-api/pkg/metrics"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	adminEmail    = "admin@logistica.cl"
	adminPassword = "secreto-123"
)

// fakePDF evita renderizar el PDF real en las pruebas de la capa HTTP.
type fakePDF struct{}

func (fakePDF) GenerateOrderDocument(_ context.Context, doc *shipping.OrderDocument) ([]byte, error) {
	return []byte("%PDF-1.4 " + doc.Order.Code), nil
}

type server struct {
	app        *fiber.App
	store      *memory.Store
	adminToken string
}

// newServer arma la API completa sobre el store en memoria y hace login como administrador.
func newServer(t *testing.T) *server {
	t.Helper()
	s := memory.NewStore()
	s.AddComunas(
		entity.Comuna{ID: 1, Code: "13101", Name: "Santiago", RegionCode: "13", RegionName: "Metropolitana"},
		entity.Comuna{ID: 2, Code: "13114", Name: "Las Condes", RegionCode: "13", RegionName: "Metropolitana"},
	)
	tx := memory.NewTxRunner(s)
	tenants := memory.NewTenantRepository(s)
	users := memory.NewUserRepository(s)
	profiles := memory.NewProfileRepository(s)
	roles := memory.NewRoleRepository(s)
	entities := memory.NewEntityRepository(s)
	parties := memory.NewPartyRepository(s)
	addresses := memory.NewAddressRepository(s)
	catalogs := memory.NewCatalogRepository(s)
	orders := memory.NewOrderRepository(s)
	pages := usecase.DefaultPagination

	authzSvc := authz.NewService(profiles, users, tenants)
	tenantUC := usecase.NewTenantUseCase(tenants, users, tx, pages)
	_, err := tenantUC.Bootstrap(context.Background(), usecase.BootstrapInput{
		TenantName: "Administración", TenantRUT: "99.500.000-8",
		AdminEmail: adminEmail, AdminPassword: adminPassword,
	})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Use(apphttp.RequestLogger(zerolog.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(users, tenants, authzSvc, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: "test"}),
		Authz:     authzSvc,
		TenantUC:  tenantUC,
		UserUC:    usecase.NewUserUseCase(users, profiles, pages),
		ProfileUC: usecase.NewProfileUseCase(profiles, tx, pages),
		RoleUC:    usecase.NewRoleUseCase(roles, pages),
		PartyUC:   usecase.NewPartyUseCase(entities, parties, addresses, tx, pages),
		AddressUC: usecase.NewAddressUseCase(addresses, memory.NewComunaRepository(s), pages),
		CatalogUC: usecase.NewCatalogUseCase(catalogs, pages),
		OrderUC: usecase.NewOrderUseCase(orders, parties, entities, addresses, catalogs, tx,
			usecase.OrderConfig{Location: time.UTC, CodeRetries: 3}, pages),
		DocumentUC: shipping.NewDocumentUseCase(shipping.Repositories{
			Orders: orders, Tenants: tenants, Parties: parties,
			Entities: entities, Addresses: addresses, Catalogs: catalogs,
		}, fakePDF{}, time.UTC),
		Denied:    metrics.NewHTTPMetrics("test", prometheus.NewRegistry()),
		JWTSecret: testJWTSecret,
	})

	srv := &server{app: app, store: s}
	srv.adminToken = srv.login(t, adminEmail, adminPassword)
	return srv
}

// do ejecuta una petición JSON y devuelve la respuesta con el cuerpo ya leído.
func (s *server) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

// must ejecuta la petición, exige el status y decodifica el cuerpo en out (si no es nil).
func (s *server) must(t *testing.T, status int, method, path, token string, body, out any) {
	t.Helper()
	resp, raw := s.do(t, method, path, token, body)
	require.Equal(t, status, resp.StatusCode, "%s %s: %s", method, path, raw)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out))
	}
}

func (s *server) login(t *testing.T, email, password string) string {
	t.Helper()
	var out dto.LoginResponse
	s.must(t, http.StatusOK, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password}, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

// roleIDs busca por código los roles provisionados del tenant del administrador.
func (s *server) roleIDs(t *testing.T, codes ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(codes))
	for _, code := range codes {
		var page dto.ListResponse[dto.RoleResponse]
		s.must(t, http.StatusOK, http.MethodGet, "/api/roles?search="+code, s.adminToken, nil, &page)
		found := ""
		for _, r := range page.Items {
			if r.Code == code {
				found = r.ID
			}
		}
		require.NotEmpty(t, found, "rol %s", code)
		ids = append(ids, found)
	}
	return ids
}

// operator crea un perfil con los roles dados, un usuario con ese perfil y devuelve su token.
func (s *server) operator(t *testing.T, email string, roleCodes ...string) string {
	t.Helper()
	var profile dto.ProfileResponse
	s.must(t, http.StatusCreated, http.MethodPost, "/api/profiles", s.adminToken,
		dto.CreateProfileRequest{Name: "Operador " + email, Type: "BASICO"}, &profile)
	s.must(t, http.StatusOK, http.MethodPut, "/api/profiles/"+profile.ID+"/roles", s.adminToken,
		dto.SetProfileRolesRequest{RoleIDs: s.roleIDs(t, roleCodes...)}, nil)
	s.must(t, http.StatusCreated, http.MethodPost, "/api/users", s.adminToken, dto.CreateUserRequest{
		ProfileID: profile.ID, Email: email, Password: "clave-segura", Name: "Operador",
	}, nil)
	return s.login(t, email, "clave-segura")
}

// orderRequest crea por la API todas las referencias de una orden.
func (s *server) orderRequest(t *testing.T) dto.CreateOrderRequest {
	t.Helper()
	tok := s.adminToken
	var client dto.PartyResponse
	s.must(t, http.StatusCreated, http.MethodPost, "/api/clients", tok, dto.CreatePartyRequest{
		PartyNameInput: dto.PartyNameInput{Organization: &dto.OrganizationInput{LegalName: "Acme SpA"}},
		TaxID:          "33.333.333-3",
	}, &client)
	var receiver dto.EntityResponse
	s.must(t, http.StatusCreated, http.MethodPost, "/api/entities", tok, dto.CreateEntityRequest{
		PartyNameInput: dto.PartyNameInput{Person: &dto.PersonInput{Name: "Juan Pérez"}},
		TaxID:          "12.345.678-5",
		Type:           string(entity.EntityTypeReceiver),
	}, &receiver)
	var origin, dest dto.AddressResponse
	s.must(t, http.StatusCreated, http.MethodPost, "/api/addresses", tok,
		dto.CreateAddressRequest{ComunaID: 1, Text: "Av. Libertador 1000"}, &origin)
	s.must(t, http.StatusCreated, http.MethodPost, "/api/addresses", tok,
		dto.CreateAddressRequest{ComunaID: 2, Text: "Apoquindo 3000"}, &dest)
	var cargo, service dto.CatalogItemResponse
	s.must(t, http.StatusCreated, http.MethodPost, "/api/catalogs/tipos-carga", tok,
		dto.CreateCatalogItemRequest{Code: "GENERAL", Name: "Carga general"}, &cargo)
	s.must(t, http.StatusCreated, http.MethodPost, "/api/catalogs/tipos-servicio", tok,
		dto.CreateCatalogItemRequest{Code: "EXPRESS", Name: "Express"}, &service)
	return dto.CreateOrderRequest{
		ClientID:             client.ID,
		SenderID:             client.EntityID,
		ReceiverID:           receiver.ID,
		OriginAddressID:      origin.ID,
		DestinationAddressID: dest.ID,
		CargoTypeID:          cargo.ID,
		ServiceTypeID:        service.ID,
	}
}

// otherTenantToken crea un usuario con el perfil ADMINISTRADOR provisionado en tenantID
// y firma un token a su nombre.
func (s *server) otherTenantToken(t *testing.T, tenantID string) string {
	t.Helper()
	ctx := context.Background()
	page, err := memory.NewProfileRepository(s.store).List(ctx, tenantID, repository.ProfileFilter{
		ListParams: repository.ListParams{Page: 1, Limit: 10},
		Type:       string(entity.ProfileTypeAdmin),
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	now := time.Now().UTC()
	u := &entity.User{
		ID: uuid.NewString(), TenantID: tenantID, ProfileID: page.Items[0].ID,
		Email: "admin+" + tenantID + "@logistica.cl", Name: "Administrador",
		Active: true, Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, memory.NewUserRepository(s.store).Create(ctx, u))
	tok, err := pkgjwt.Generate(testJWTSecret, u.ID, tenantID, u.ProfileID, "test", 60)
	require.NoError(t, err)
	return tok
}
