package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/reelwire/dcpflow-backend/internal/cpl"
	"github.com/reelwire/dcpflow-backend/internal/distributors"
	"github.com/reelwire/dcpflow-backend/internal/orders"
	"github.com/reelwire/dcpflow-backend/internal/users"
	pkgauth "github.com/reelwire/dcpflow-backend/pkg/auth"
	"github.com/reelwire/dcpflow-backend/pkg/auth/session"
	"github.com/reelwire/dcpflow-backend/pkg/config"
	"github.com/reelwire/dcpflow-backend/pkg/enums"
	"github.com/reelwire/dcpflow-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubWireHealth struct{}

func (stubWireHealth) Health(ctx context.Context, token string) error {
	return nil
}

func setupRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  order_id TEXT,
  tmc_media_order_id TEXT,
  content_id TEXT NOT NULL,
  content_title TEXT NOT NULL,
  package_uuid TEXT NOT NULL,
  film_id TEXT,
  media_type TEXT,
  theatre_id TEXT NOT NULL,
  theatre_name TEXT NOT NULL,
  theatre_address1 TEXT,
  theatre_city TEXT,
  theatre_state TEXT,
  theatre_country TEXT,
  theatre_postal_code TEXT,
  tmc_theatre_id TEXT,
  chain_name TEXT,
  partner_name TEXT,
  qw_identifier TEXT,
  qw_theatre_id TEXT,
  qw_theatre_name TEXT,
  qw_theatre_city TEXT,
  qw_theatre_state TEXT,
  qw_theatre_country TEXT,
  studio_id TEXT NOT NULL,
  studio_name TEXT NOT NULL,
  qw_company_id TEXT NOT NULL,
  qw_company_name TEXT NOT NULL,
  playdate_begin TEXT NOT NULL,
  playdate_end TEXT NOT NULL,
  booker_name TEXT,
  booker_phone TEXT,
  booker_email TEXT,
  operation TEXT NOT NULL,
  delivery_method TEXT,
  return_method TEXT,
  cancel_flag TEXT,
  do_not_ship TEXT,
  hold_key_flag TEXT,
  is_no_key TEXT,
  ship_hold_type TEXT,
  screening_time TEXT,
  screening_screen_no TEXT,
  tracking_id TEXT,
  wiretap_serial_number TEXT,
  note TEXT,
  booking_ref TEXT,
  booking_created_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
)`,
		`CREATE TABLE IF NOT EXISTS cpl_mappings (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  content_id TEXT NOT NULL,
  content_title TEXT,
  film_id TEXT,
  package_uuid TEXT NOT NULL,
  cpl_list TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE(user_id, content_id, package_uuid)
)`,
		`CREATE TABLE IF NOT EXISTS distributors (
  id TEXT PRIMARY KEY,
  studio_id TEXT NOT NULL,
  studio_name TEXT NOT NULL,
  qw_company_id TEXT NOT NULL,
  qw_company_name TEXT NOT NULL,
  qw_pat_encrypted TEXT,
  updated_by TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE(studio_id, qw_company_id)
)`,
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
)`,
		`CREATE TABLE IF NOT EXISTS user_roles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  role TEXT NOT NULL,
  assigned_by TEXT,
  assigned_at DATETIME
)`,
		`DELETE FROM orders`,
		`DELETE FROM cpl_mappings`,
		`DELETE FROM distributors`,
		`DELETE FROM user_roles`,
		`DELETE FROM users`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8192,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	gdb := setupRouterTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})

	ordersRepo := orders.NewRepository(gdb)

	return NewRouter(Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          stubPinger{},
		Sessions:    stubSessionChecker{},
		OrdersSvc:   orders.NewService(ordersRepo, logg),
		CplSvc:      cpl.NewService(cpl.NewRepository(gdb), logg),
		Distributor: distributors.NewService(distributors.NewRepository(gdb), ordersRepo, logg),
		UsersSvc:    users.NewService(users.NewRepository(gdb), cfg.Password, logg),
		WireHealth:  stubWireHealth{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.AppRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	require.NoError(t, err)
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestProtectedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestViewerCanRead(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	for _, path := range []string{"/api/v1/orders", "/api/v1/cpl-mappings", "/api/v1/bookings/"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AppRoleViewer))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if path == "/api/v1/bookings/" {
			// Bookings summary needs the full service graph; the route must
			// still clear auth and role checks before failing downstream.
			require.NotEqual(t, http.StatusForbidden, resp.Code, path)
			require.NotEqual(t, http.StatusUnauthorized, resp.Code, path)
			continue
		}
		require.Equal(t, http.StatusOK, resp.Code, path)
	}
}

func TestViewerCannotMutate(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/orders/upload"},
		{http.MethodPut, "/api/v1/cpl-mappings"},
		{http.MethodPost, "/api/v1/bookings/CNT-1/submit"},
		{http.MethodGet, "/api/v1/distributors"},
		{http.MethodPost, "/api/v1/settings/wire-test"},
	}

	for _, tt := range requests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AppRoleViewer))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		require.Equal(t, http.StatusForbidden, resp.Code, "%s %s", tt.method, tt.path)
	}
}

func TestUserAdministrationRequiresAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AppRoleClientService))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusForbidden, resp.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AppRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestClientServiceCanListDistributors(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/distributors", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AppRoleClientService))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/distributors", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.AppRoleClientService))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusForbidden, resp.Code)
}
