package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ngcore/storefront-api/internal/core/domain"
	"github.com/ngcore/storefront-api/internal/core/service"
	"github.com/ngcore/storefront-api/internal/infrastructure/db/sqlstore"
	"github.com/ngcore/storefront-api/internal/infrastructure/http/handlers"
)

const (
	adminUser = "root"
	adminPass = "Root123!"
	tokenTTL  = 45 * time.Minute
)

type testServer struct {
	e      *echo.Echo
	tokens *service.JWTIssuer
}

func newTestServer(t *testing.T, spaRoot string) *testServer {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sqlstore.Open(sqlstore.Config{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = sqlstore.Close(db) })

	users := sqlstore.NewUserRepository(db)
	seeder := service.NewSeeder(sqlstore.NewRoleRepository(db), users, log)
	if err := seeder.EnsureRoles(ctx); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	if err := seeder.EnsureAdmin(ctx, service.AdminAccount{Username: adminUser, Email: "root@example.com", Password: adminPass}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	tokens, err := service.NewJWTIssuer(service.TokenConfig{
		Secret:   "router-test-secret",
		Issuer:   "https://shop.test",
		Audience: "https://shop.test",
		TTL:      tokenTTL,
	})
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}

	e := NewRouter(Deps{
		AuthService:    service.NewAuthService(users, tokens, log),
		ProductService: service.NewProductService(sqlstore.NewProductRepository(db), nil, log),
		Tokens:         tokens,
		Checks: []handlers.Check{
			{Name: "store", Ping: func(ctx context.Context) error { return sqlstore.Ping(ctx, db) }},
		},
		Logger:   log,
		Registry: prometheus.NewRegistry(),
		SPARoot:  spaRoot,
	})
	return &testServer{e: e, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, username, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, http.MethodPost, "/api/Account/Register", "",
		fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`, username, email, password))
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/Account/Login", "",
		fmt.Sprintf(`{"username":%q,"password":%q}`, username, password))
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d %s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return resp.Token
}

func TestRouter_RegisterTwiceFails(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.register(t, "alice", "alice@example.com", "Abc123!")
	if rec.Code != http.StatusOK {
		t.Fatalf("first register: expected 200, got %d %s", rec.Code, rec.Body.String())
	}

	rec = s.register(t, "alice", "alice2@example.com", "Abc123!")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("second register: expected 400, got %d", rec.Code)
	}
	var errs []string
	if err := json.Unmarshal(rec.Body.Bytes(), &errs); err != nil || len(errs) == 0 {
		t.Fatalf("expected non-empty error list, got %s", rec.Body.String())
	}
}

func TestRouter_RegisterPasswordPolicy(t *testing.T) {
	s := newTestServer(t, "")

	for i, pw := range []string{"abc", "abcdef!", "abcdef1", "ABCDEF1!"} {
		rec := s.register(t, fmt.Sprintf("user%d", i), fmt.Sprintf("user%d@example.com", i), pw)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("password %q: expected 400, got %d", pw, rec.Code)
			continue
		}
		var errs []string
		if err := json.Unmarshal(rec.Body.Bytes(), &errs); err != nil || len(errs) == 0 {
			t.Errorf("password %q: expected error list, got %s", pw, rec.Body.String())
		}
	}
}

func TestRouter_LoginTokenClaims(t *testing.T) {
	s := newTestServer(t, "")

	if rec := s.register(t, "carol", "carol@example.com", "Abc123!"); rec.Code != http.StatusOK {
		t.Fatalf("register: %d %s", rec.Code, rec.Body.String())
	}

	rec := s.do(t, http.MethodPost, "/api/Account/Login", "", `{"username":"carol","password":"Abc123!"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}
	var resp struct {
		Token      string    `json:"token"`
		Expiration time.Time `json:"expiration"`
		Username   string    `json:"username"`
		UserRole   string    `json:"userRole"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Username != "carol" || resp.UserRole != domain.RoleCustomer {
		t.Errorf("unexpected login body: %+v", resp)
	}

	claims, err := s.tokens.Parse(resp.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "carol" || claims.Role != domain.RoleCustomer {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt); got < tokenTTL-time.Second || got > tokenTTL {
		t.Errorf("exp - iat = %v, want %v", got, tokenTTL)
	}
	if !claims.ExpiresAt.Equal(resp.Expiration) {
		t.Errorf("expiration mismatch: body %v, token %v", resp.Expiration, claims.ExpiresAt)
	}
}

func TestRouter_LoginFailuresLookAlike(t *testing.T) {
	s := newTestServer(t, "")
	if rec := s.register(t, "dave", "dave@example.com", "Abc123!"); rec.Code != http.StatusOK {
		t.Fatalf("register: %d", rec.Code)
	}

	unknown := s.do(t, http.MethodPost, "/api/Account/Login", "", `{"username":"nobody","password":"Abc123!"}`)
	wrong := s.do(t, http.MethodPost, "/api/Account/Login", "", `{"username":"dave","password":"Wrong123!"}`)

	if unknown.Code != http.StatusUnauthorized || wrong.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", unknown.Code, wrong.Code)
	}
	if unknown.Body.String() != wrong.Body.String() {
		t.Errorf("bodies differ: %q vs %q", unknown.Body.String(), wrong.Body.String())
	}
}

func TestRouter_ProductLifecycle(t *testing.T) {
	s := newTestServer(t, "")
	admin := s.login(t, adminUser, adminPass)

	rec := s.do(t, http.MethodPost, "/api/Product/AddProduct", admin,
		`{"productName":"Lamp","productDescription":"Desk lamp","price":19.5,"imageUrl":"lamp.png","outOfStock":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/api/Product/GetProducts", admin, "")
	var products []domain.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &products); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Lamp" {
		t.Fatalf("unexpected list: %+v", products)
	}
	id := products[0].ID

	rec = s.do(t, http.MethodPut, fmt.Sprintf("/api/Product/UpdateProduct/%d", id), admin,
		`{"productName":"Floor lamp","productDescription":"Tall","price":49,"imageUrl":"floor.png","outOfStock":true}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), fmt.Sprintf("Product with id %d is updated", id)) {
		t.Fatalf("update: got %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/api/Product/GetProducts", admin, "")
	products = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &products); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	want := domain.Product{ID: id, Name: "Floor lamp", Description: "Tall", Price: 49, ImageURL: "floor.png", OutOfStock: true}
	if len(products) != 1 || products[0] != want {
		t.Fatalf("after update: got %+v, want %+v", products, want)
	}

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/Product/DeleteProduct/%d", id), admin, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), fmt.Sprintf("Product with id %d is deleted.", id)) {
		t.Fatalf("delete: got %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/Product/DeleteProduct/%d", id), admin, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodPut, fmt.Sprintf("/api/Product/UpdateProduct/%d", id), admin,
		`{"productName":"x","productDescription":"x","price":1,"imageUrl":"x","outOfStock":true}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("update after delete: expected 404, got %d", rec.Code)
	}

	rec = s.do(t, http.MethodPut, "/api/Product/UpdateProduct/abc", admin,
		`{"productName":"x","productDescription":"x","price":1,"imageUrl":"x","outOfStock":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-integer id: expected 400, got %d", rec.Code)
	}
}

func TestRouter_Authorization(t *testing.T) {
	s := newTestServer(t, "")
	if rec := s.register(t, "erin", "erin@example.com", "Abc123!"); rec.Code != http.StatusOK {
		t.Fatalf("register: %d", rec.Code)
	}
	customer := s.login(t, "erin", "Abc123!")
	body := `{"productName":"Lamp","productDescription":"Desk lamp","price":1,"imageUrl":"x","outOfStock":false}`

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"anonymous list", http.MethodGet, "/api/Product/GetProducts", "", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/Product/GetProducts", "garbage", "", http.StatusUnauthorized},
		{"customer list", http.MethodGet, "/api/Product/GetProducts", customer, "", http.StatusOK},
		{"anonymous add", http.MethodPost, "/api/Product/AddProduct", "", body, http.StatusUnauthorized},
		{"customer add", http.MethodPost, "/api/Product/AddProduct", customer, body, http.StatusForbidden},
		{"customer update", http.MethodPut, "/api/Product/UpdateProduct/1", customer, body, http.StatusForbidden},
		{"customer delete", http.MethodDelete, "/api/Product/DeleteProduct/1", customer, "", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, tc.method, tc.path, tc.token, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_UnknownProductPathIsNotFound(t *testing.T) {
	s := newTestServer(t, "")
	admin := s.login(t, adminUser, adminPass)

	for _, token := range []string{"", admin} {
		for _, path := range []string{"/api/Product/Nope", "/api/Product/GetProducts/extra", "/api/Product/"} {
			rec := s.do(t, http.MethodGet, path, token, "")
			if rec.Code != http.StatusNotFound {
				t.Errorf("GET %s (token=%t): expected 404, got %d %s", path, token != "", rec.Code, rec.Body.String())
			}
		}
	}
}

func TestRouter_ProductErrorsRenderedCentrally(t *testing.T) {
	s := newTestServer(t, "")
	admin := s.login(t, adminUser, adminPass)

	rec := s.do(t, http.MethodPost, "/api/Product/AddProduct", admin,
		`{"productName":"Lamp","productDescription":"d","imageUrl":"x","outOfStock":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing price: expected 400, got %d %s", rec.Code, rec.Body.String())
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !strings.Contains(body.Error, "price") {
		t.Errorf("expected the price field to be named, got %q", body.Error)
	}

	rec = s.do(t, http.MethodDelete, "/api/Product/DeleteProduct/4242", admin, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d %s", rec.Code, rec.Body.String())
	}
	body = errorResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Error != "product not found" {
		t.Errorf("expected %q, got %q", "product not found", body.Error)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t, "")

	for _, path := range []string{"/health", "/health/ready", "/metrics"} {
		if rec := s.do(t, http.MethodGet, path, "", ""); rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouter_SPAFallback(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("<html>shop</html>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	s := newTestServer(t, root)

	rec := s.do(t, http.MethodGet, "/products/42", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "shop") {
		t.Errorf("client route: got %d %q", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/api/Product/GetProducts", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("api route must not fall back to the SPA, got %d", rec.Code)
	}
}
