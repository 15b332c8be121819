package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/erpdesk/erpdesk-api/internal/config"
	"github.com/erpdesk/erpdesk-api/internal/infrastructure/database"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/routes"
	"github.com/erpdesk/erpdesk-api/pkg/apperror"
	"github.com/gin-gonic/gin"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App:      config.AppConfig{Name: "erpdesk-test", Env: "test"},
		Database: config.DatabaseConfig{Path: database.MemoryPath, LogLevel: "silent"},
		JWT: config.JWTConfig{
			Secret:             "test-secret",
			Issuer:             "erpdesk-test",
			ExpiryHours:        time.Hour,
			RefreshExpiryHours: 24 * time.Hour,
		},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 60},
		Inventory: config.InventoryConfig{LowStockThreshold: 5, EnforceStock: true},
		Backup:    config.BackupConfig{Dir: t.TempDir(), Keep: 3},
		Admin: config.AdminConfig{
			Email:     "owner@example.com",
			Password:  "password123",
			FirstName: "Store",
			LastName:  "Owner",
		},
	}
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig(t)
	a, err := openApp(cfg)
	if err != nil {
		t.Fatalf("open app: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	if err := database.SeedDefaultData(a.db, &cfg.Admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	limiter := routes.NewRateLimiter(&cfg.RateLimit)
	t.Cleanup(limiter.Stop)

	router := routes.Setup(a.handlers(), &routes.Deps{
		JWTManager:      a.jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: a.idempotencyRepo,
		RateLimiter:     limiter,
	})
	return &testServer{t: t, router: router}
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Errors  []apperror.FieldError `json:"errors"`
}

func (s *testServer) do(method, path, token string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

// expect fails the test unless the status matches, and decodes data into out.
func (s *testServer) expect(w *httptest.ResponseRecorder, env envelope, status int, out interface{}) {
	s.t.Helper()
	if w.Code != status {
		s.t.Fatalf("status = %d, want %d: %s", w.Code, status, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			s.t.Fatalf("decode data: %v (%s)", err, env.Data)
		}
	}
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password}, nil)
	var out struct {
		AccessToken string `json:"access_token"`
	}
	s.expect(w, env, http.StatusOK, &out)
	return out.AccessToken
}

type idOnly struct {
	ID string `json:"id"`
}

func (s *testServer) create(token, path string, body interface{}) string {
	s.t.Helper()
	w, env := s.do(http.MethodPost, path, token, body, nil)
	var out idOnly
	s.expect(w, env, http.StatusCreated, &out)
	return out.ID
}

func TestAPI_HealthAndAuth(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodGet, "/health", "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health = %d", w.Code)
	}

	w, _ = s.do(http.MethodGet, "/api/v1/items", "", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}
	w, _ = s.do(http.MethodGet, "/api/v1/items", "garbage", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token = %d, want 401", w.Code)
	}

	w, _ = s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "owner@example.com", "password": "wrong"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password = %d, want 401", w.Code)
	}

	w, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "not-an-email"}, nil)
	s.expect(w, env, http.StatusUnprocessableEntity, nil)
	fields := map[string]bool{}
	for _, fe := range env.Errors {
		fields[fe.Field] = true
	}
	if !fields["email"] || !fields["password"] {
		t.Errorf("errors = %+v, want json field names", env.Errors)
	}

	token := s.login("owner@example.com", "password123")
	w, env = s.do(http.MethodGet, "/api/v1/profile", token, nil, nil)
	var profile struct {
		User struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	s.expect(w, env, http.StatusOK, &profile)
	if profile.User.Email != "owner@example.com" || profile.User.Role != "admin" {
		t.Errorf("profile = %+v", profile)
	}
}

func TestAPI_TransactionsAndReports(t *testing.T) {
	s := newTestServer(t)
	token := s.login("owner@example.com", "password123")

	w, env := s.do(http.MethodPost, "/api/v1/items", token, map[string]string{}, nil)
	s.expect(w, env, http.StatusUnprocessableEntity, nil)
	if len(env.Errors) != 1 || env.Errors[0].Field != "name" || env.Errors[0].Message != "is required" {
		t.Errorf("errors = %+v", env.Errors)
	}

	itemID := s.create(token, "/api/v1/items", map[string]string{"name": "Widget", "category": "Hardware"})
	supplierID := s.create(token, "/api/v1/suppliers", map[string]string{"name": "Acme Supply"})
	customerID := s.create(token, "/api/v1/customers", map[string]string{"name": "Corner Shop"})

	purchase := map[string]interface{}{
		"item_id": itemID, "supplier_id": supplierID, "quantity": 10, "rate": 50, "date": "2024-01-10",
	}
	key := map[string]string{"Idempotency-Key": "purchase-1"}
	w, env = s.do(http.MethodPost, "/api/v1/purchases", token, purchase, key)
	var first struct {
		ID           string  `json:"id"`
		Total        float64 `json:"total"`
		ItemName     string  `json:"item_name"`
		SupplierName string  `json:"supplier_name"`
	}
	s.expect(w, env, http.StatusCreated, &first)
	if first.Total != 500 || first.ItemName != "Widget" || first.SupplierName != "Acme Supply" {
		t.Errorf("purchase = %+v", first)
	}

	w, env = s.do(http.MethodPost, "/api/v1/purchases", token, purchase, key)
	var replay idOnly
	s.expect(w, env, http.StatusCreated, &replay)
	if w.Header().Get("X-Idempotency-Replayed") != "true" || replay.ID != first.ID {
		t.Errorf("replay header=%q id=%s, want %s", w.Header().Get("X-Idempotency-Replayed"), replay.ID, first.ID)
	}

	purchase["quantity"] = 11
	w, _ = s.do(http.MethodPost, "/api/v1/purchases", token, purchase, key)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("reused key with new body = %d, want 422", w.Code)
	}

	w, env = s.do(http.MethodGet, "/api/v1/purchases", token, nil, nil)
	var page struct {
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	s.expect(w, env, http.StatusOK, &page)
	if page.Pagination.Total != 1 {
		t.Errorf("purchases = %d, want 1", page.Pagination.Total)
	}

	sale := map[string]interface{}{
		"item_id": itemID, "customer_id": customerID, "quantity": 11, "rate": 90, "date": "2024-02-20",
	}
	w, env = s.do(http.MethodPost, "/api/v1/sales", token, sale, nil)
	s.expect(w, env, http.StatusUnprocessableEntity, nil)
	if len(env.Errors) != 1 || env.Errors[0].Field != "quantity" {
		t.Errorf("errors = %+v", env.Errors)
	}
	sale["quantity"] = 4
	s.create(token, "/api/v1/sales", sale)

	w, env = s.do(http.MethodGet, "/api/v1/inventory/"+itemID, token, nil, nil)
	var stock struct {
		Balance int64   `json:"balance_quantity"`
		Value   float64 `json:"sales_value"`
	}
	s.expect(w, env, http.StatusOK, &stock)
	if stock.Balance != 6 || stock.Value != 540 {
		t.Errorf("stock = %+v", stock)
	}

	w, env = s.do(http.MethodGet, "/api/v1/finance/totals", token, nil, nil)
	var totals struct {
		MoneyIn  float64 `json:"money_in"`
		MoneyOut float64 `json:"money_out"`
		Profit   float64 `json:"profit"`
	}
	s.expect(w, env, http.StatusOK, &totals)
	if totals.MoneyIn != 360 || totals.MoneyOut != 500 || totals.Profit != -140 {
		t.Errorf("totals = %+v", totals)
	}

	w, _ = s.do(http.MethodGet, "/api/v1/finance/summary?start_date=2024-03-01&end_date=2024-01-01", token, nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("reversed range = %d, want 400", w.Code)
	}

	w, env = s.do(http.MethodGet, "/api/v1/finance/monthly?year=2024", token, nil, nil)
	var monthly struct {
		Year   int `json:"year"`
		Months []struct {
			Sales float64 `json:"sales"`
		} `json:"months"`
	}
	s.expect(w, env, http.StatusOK, &monthly)
	if monthly.Year != 2024 || len(monthly.Months) != 12 || monthly.Months[1].Sales != 360 {
		t.Errorf("monthly = %+v", monthly)
	}

	w, env = s.do(http.MethodGet, "/api/v1/dashboard", token, nil, nil)
	var dash struct {
		TotalItems int64 `json:"total_items"`
	}
	s.expect(w, env, http.StatusOK, &dash)
	if dash.TotalItems != 1 {
		t.Errorf("dashboard = %+v", dash)
	}

	w, _ = s.do(http.MethodDelete, "/api/v1/items/"+itemID, token, nil, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("delete used item = %d, want 409", w.Code)
	}
	w, _ = s.do(http.MethodGet, "/api/v1/items/not-a-uuid", token, nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id = %d, want 400", w.Code)
	}
}

func TestAPI_DoubleSubmitRecordsOnePurchase(t *testing.T) {
	s := newTestServer(t)
	token := s.login("owner@example.com", "password123")

	purchase := map[string]interface{}{
		"item_id":     s.create(token, "/api/v1/items", map[string]string{"name": "Widget"}),
		"supplier_id": s.create(token, "/api/v1/suppliers", map[string]string{"name": "Acme Supply"}),
		"quantity":    3,
		"rate":        12.5,
		"date":        "2024-03-01",
	}
	key := map[string]string{"Idempotency-Key": "dbl-click"}

	const n = 8
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w, _ := s.do(http.MethodPost, "/api/v1/purchases", token, purchase, key)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
		default:
			t.Errorf("codes = %v, want only 201 or 409", codes)
		}
	}
	if created == 0 {
		t.Errorf("codes = %v, no request succeeded", codes)
	}

	w, env := s.do(http.MethodGet, "/api/v1/purchases", token, nil, nil)
	var page struct {
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	s.expect(w, env, http.StatusOK, &page)
	if page.Pagination.Total != 1 {
		t.Errorf("purchases recorded = %d, want 1", page.Pagination.Total)
	}
}

func TestAPI_RoleChecks(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("owner@example.com", "password123")

	s.create(admin, "/api/v1/users", map[string]string{
		"first_name": "Casey", "email": "clerk@example.com", "password": "password123", "role": "clerk",
	})
	clerk := s.login("clerk@example.com", "password123")

	customerID := s.create(clerk, "/api/v1/customers", map[string]string{"name": "Corner Shop"})

	w, _ := s.do(http.MethodDelete, "/api/v1/customers/"+customerID, clerk, nil, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("clerk delete = %d, want 403", w.Code)
	}
	w, _ = s.do(http.MethodGet, "/api/v1/users", clerk, nil, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("clerk list users = %d, want 403", w.Code)
	}
	w, _ = s.do(http.MethodPost, "/api/v1/admin/backups", clerk, nil, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("clerk backup = %d, want 403", w.Code)
	}

	w, _ = s.do(http.MethodDelete, "/api/v1/customers/"+customerID, admin, nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("admin delete = %d, want 200", w.Code)
	}
	w, env := s.do(http.MethodPost, "/api/v1/admin/backups", admin, nil, nil)
	var backup struct {
		Name string `json:"name"`
	}
	s.expect(w, env, http.StatusCreated, &backup)
	if backup.Name == "" {
		t.Error("backup has no name")
	}
}
