package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/HSouheill/dispensary_backend/controllers"
	"github.com/HSouheill/dispensary_backend/middleware"
	"github.com/HSouheill/dispensary_backend/models"
	"github.com/HSouheill/dispensary_backend/repositories/memory"
	"github.com/HSouheill/dispensary_backend/services"
	"github.com/HSouheill/dispensary_backend/utils"
)

const (
	testSecret   = "routes-test-secret"
	testPassword = "correct-horse"
)

type testServer struct {
	e      *echo.Echo
	users  *memory.UserRepository
	stores *memory.StoreRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	users := memory.NewUserRepository()
	stores := memory.NewStoreRepository()
	resellers := memory.NewResellerRepository()
	clients := memory.NewClientRepository()
	commissions := memory.NewCommissionRepository()
	referrals := memory.NewReferralRepository()
	onboarding := memory.NewOnboardingRepository()
	notifications := memory.NewNotificationRepository()
	products := memory.NewProductRepository()
	codes := memory.NewAuthenticationCodeRepository()
	expenses := memory.NewExpenseRepository()
	sales := memory.NewSaleRepository()
	deliveries := memory.NewDeliveryRepository()

	tokens := services.NewMemoryTokenStore()
	bus := services.NewEventBus(&services.RecordingPublisher{}, nil)
	notifier := services.NewNotifier(notifications, nil, nil)
	renderer := services.NewQRRenderer("https://verify.test")

	authService := services.NewAuthService(users, stores, resellers, tokens, nil, testSecret, 0)
	commissionService := services.NewCommissionService(resellers, clients, commissions, users, notifier, bus, nil)
	referralService := services.NewReferralService(referrals, resellers, clients, users, notifier, bus, nil)
	resellerService := services.NewResellerService(resellers, clients, onboarding)
	storeService := services.NewStoreService(stores, expenses, products)
	saleService := services.NewSaleService(sales, products, expenses, stores)

	e := echo.New()
	e.Validator = utils.NewValidator()
	SetupRoutes(e, middleware.JWTMiddleware(testSecret, tokens), Controllers{
		Auth:          controllers.NewAuthController(authService),
		Accounting:    controllers.NewAccountingController(storeService, saleService),
		Deliveries:    controllers.NewDeliveryController(services.NewDeliveryService(deliveries, sales)),
		Inventory:     controllers.NewInventoryController(storeService),
		QR:            controllers.NewQRController(services.NewVerificationService(codes, products, stores, renderer, nil)),
		Reports:       controllers.NewReportController(services.NewReportService(sales, products, deliveries, stores)),
		Settings:      controllers.NewSettingsController(storeService),
		Partners:      controllers.NewResellerController(models.ResellerPartner, resellerService),
		Consultants:   controllers.NewResellerController(models.ResellerConsultant, resellerService),
		PartnerPortal: controllers.NewPortalController(models.ResellerPartner, resellerService, commissionService, referralService, renderer),
		ConsultPortal: controllers.NewPortalController(models.ResellerConsultant, resellerService, commissionService, referralService, renderer),
		Commissions:   controllers.NewCommissionController(commissionService),
		Notifications: controllers.NewNotificationController(notifications, nil),
	})
	return &testServer{e: e, users: users, stores: stores}
}

func (s *testServer) store(t *testing.T, name string) primitive.ObjectID {
	t.Helper()
	id := primitive.NewObjectID()
	require.NoError(t, s.stores.Create(context.Background(), &models.Store{
		ID:       id,
		Name:     name,
		Settings: models.StoreSettings{TaxRate: 10, Currency: "USD", Timezone: "UTC"},
	}))
	return id
}

func (s *testServer) user(t *testing.T, email string, role models.Role, storeID *primitive.ObjectID, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, s.users.Create(context.Background(), &models.User{
		Email:    email,
		Password: string(hash),
		Name:     strings.Split(email, "@")[0],
		Role:     role,
		StoreID:  storeID,
		IsActive: active,
	}))
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/login", "", `{"email":"`+email+`","password":"`+testPassword+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	storeID := s.store(t, "Greenleaf")
	s.user(t, "owner@greenleaf.test", models.RoleOwner, &storeID, true)
	s.user(t, "gone@greenleaf.test", models.RoleEmployee, &storeID, false)

	t.Run("missing fields", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/auth/login", "", `{"email":"owner@greenleaf.test"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Email and password are required"}`, rec.Body.String())
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/auth/login", "", `{"email":"owner@greenleaf.test","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())
	})

	t.Run("unknown email looks the same", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/auth/login", "", `{"email":"nobody@greenleaf.test","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())
	})

	t.Run("disabled account", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/auth/login", "", `{"email":"gone@greenleaf.test","password":"`+testPassword+`"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/auth/login", "", `{"email":"OWNER@greenleaf.test","password":"`+testPassword+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, models.RoleOwner, resp.User.Role)
		assert.Equal(t, storeID.Hex(), resp.User.StoreID)

		claims, err := middleware.ParseJWT(testSecret, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, storeID.Hex(), claims.StoreID)
		assert.Equal(t, models.RoleOwner, claims.Role)
		assert.Equal(t, int64((7 * 24 * time.Hour).Seconds()), claims.ExpiresAt-claims.IssuedAt)
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	storeID := s.store(t, "Greenleaf")
	s.user(t, "owner@greenleaf.test", models.RoleOwner, &storeID, true)
	token := s.login(t, "owner@greenleaf.test")

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/auth/me", token, "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/auth/logout", token, "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", token, "").Code)
}

func TestAuthenticationAndRoles(t *testing.T) {
	s := newTestServer(t)
	storeID := s.store(t, "Greenleaf")
	s.user(t, "driver@greenleaf.test", models.RoleDriver, &storeID, true)
	s.user(t, "admin@platform.test", models.RoleAdmin, nil, true)
	driver := s.login(t, "driver@greenleaf.test")
	admin := s.login(t, "admin@platform.test")

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/expenses", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/expenses", "not-a-token", "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/expenses", driver, "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/settings", driver, "").Code)

	// admins hold no store
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/products", admin, "").Code)
}

func TestTenantIsolation(t *testing.T) {
	s := newTestServer(t)
	storeA := s.store(t, "Greenleaf")
	storeB := s.store(t, "Canopy")
	s.user(t, "owner@greenleaf.test", models.RoleOwner, &storeA, true)
	s.user(t, "owner@canopy.test", models.RoleOwner, &storeB, true)
	tokenA := s.login(t, "owner@greenleaf.test")
	tokenB := s.login(t, "owner@canopy.test")

	rec := s.do(http.MethodPost, "/api/expenses", tokenA, `{"category":"rent","description":"March rent","amount":"1500.00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var expense models.Expense
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &expense))
	assert.Equal(t, storeA, expense.StoreID)

	rec = s.do(http.MethodPost, "/api/products", tokenA, `{"name":"Blue Dream","sku":"BD-1","category":"flower","price":12.5,"cost":6,"quantity":10}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product models.Product
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &product))

	// a store id smuggled into the body is ignored
	rec = s.do(http.MethodPost, "/api/expenses", tokenB, `{"storeId":"`+storeA.Hex()+`","category":"rent","description":"April rent","amount":900}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var smuggled models.Expense
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &smuggled))
	assert.Equal(t, storeB, smuggled.StoreID)

	rec = s.do(http.MethodGet, "/api/expenses", tokenB, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items []models.Expense `json:"items"`
		Total int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &page))
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "April rent", page.Items[0].Description)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/products/"+product.ID.Hex(), tokenB, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/expenses/"+expense.ID.Hex(), tokenB, "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/products/"+product.ID.Hex(), tokenA, "").Code)
}

func TestInvalidInputIsRejected(t *testing.T) {
	s := newTestServer(t)
	storeID := s.store(t, "Greenleaf")
	s.user(t, "owner@greenleaf.test", models.RoleOwner, &storeID, true)
	token := s.login(t, "owner@greenleaf.test")

	cases := map[string]string{
		"text amount":      `{"category":"rent","description":"rent","amount":"lots"}`,
		"boolean amount":   `{"category":"rent","description":"rent","amount":true}`,
		"missing category": `{"description":"rent","amount":10}`,
		"malformed json":   `{"category":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/expenses", token, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/products/not-an-id", token, "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/api/expenses?from=yesterday", token, "").Code)
}

func TestPublicVerify(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/verify/unknown-code", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "Product could not be verified", env.Message)

	var result models.VerificationResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.False(t, result.Authentic)
	assert.Equal(t, "UNKNOWN-CODE", result.Code)
	assert.NotEmpty(t, result.Warning)
}

func TestConsultantPortalFlow(t *testing.T) {
	s := newTestServer(t)
	s.user(t, "admin@platform.test", models.RoleAdmin, nil, true)
	admin := s.login(t, "admin@platform.test")

	rec := s.do(http.MethodPost, "/api/consultants", admin, `{"name":"Jo Rivera","email":"jo@consult.test","tier":"GOLD"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var consultant models.Reseller
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &consultant))
	assert.Equal(t, 25.0, consultant.CommissionRate)
	assert.Equal(t, models.ResellerActive, consultant.Status)

	rec = s.do(http.MethodPost, "/api/auth/register", admin,
		`{"email":"jo@portal.test","password":"`+testPassword+`","name":"Jo","role":"CONSULTANT","resellerId":"`+consultant.ID.Hex()+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token := s.login(t, "jo@portal.test")

	// portal users cannot reach the admin endpoints or the partner portal
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/consultants", token, "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/partner/dashboard", token, "").Code)

	rec = s.do(http.MethodPost, "/api/consultant/clients", token,
		`{"name":"Greenleaf","email":"ops@greenleaf.test","billingCycle":"monthly","monthlyFee":"199.00","planName":"Pro"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(http.MethodPost, "/api/consultant/clients", token,
		`{"name":"Canopy","email":"ops@canopy.test","billingCycle":"yearly","yearlyFee":1200,"planName":"Enterprise"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/consultant/dashboard", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var dashboard struct {
		Profile models.Reseller `json:"profile"`
		Summary struct {
			TotalRevenue     models.Money `json:"totalRevenue"`
			CommissionEarned models.Money `json:"commissionEarned"`
			ActiveClients    int          `json:"activeClients"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &dashboard))
	assert.Equal(t, consultant.ID, dashboard.Profile.ID)
	assert.Equal(t, 2, dashboard.Summary.ActiveClients)
	assert.Equal(t, "299.00", dashboard.Summary.TotalRevenue.StringFixed())
	assert.Equal(t, "74.75", dashboard.Summary.CommissionEarned.StringFixed())
}
