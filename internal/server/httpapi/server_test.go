package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kidslabs/catalog/internal/logging"
	"github.com/kidslabs/catalog/internal/server/auth"
	"github.com/kidslabs/catalog/internal/server/config"
	"github.com/kidslabs/catalog/internal/server/repositories/repomanager"
	"github.com/kidslabs/catalog/internal/server/repositories/repotest"
	"github.com/kidslabs/catalog/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testEnv struct {
	srv       *Server
	bootstrap *services.BootstrapService
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = testSecret
	cfg.RoutePrefix = "/api/"
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := repotest.OpenSQLite(t)
	rm := &repomanager.SQLiteRepositoryManager{}
	media := services.NewMedia("https://cdn.kidslabs.com")

	catalog := services.NewCatalogService(db, rm, media)
	return &testEnv{
		srv:       NewServer(testConfig(), logging.Nop(), db, catalog),
		bootstrap: services.NewBootstrapService(db, rm, media),
	}
}

func token(t *testing.T, subject string) string {
	t.Helper()
	tok, err := auth.GenerateToken(subject, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(t *testing.T, h http.Handler, method, path, authz, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestProtected(t *testing.T) {
	env := newTestEnv(t)
	h := env.srv.Handler()

	rec := do(t, h, http.MethodGet, "/protected", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing Authorization Header", decode[map[string]string](t, rec)["erro"])

	rec = do(t, h, http.MethodGet, "/protected", "Bearer garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", decode[map[string]string](t, rec)["erro"])

	expired, err := auth.GenerateToken("1", []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	rec = do(t, h, http.MethodGet, "/protected", "Bearer "+expired, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token has expired", decode[map[string]string](t, rec)["erro"])

	rec = do(t, h, http.MethodGet, "/api/protected", token(t, "1"), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestListSeasons_Placeholders(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/seasons", "/temporadas", "/api/seasons", "/api/temporadas"} {
		rec := do(t, env.srv.Handler(), http.MethodGet, path, "", "")
		require.Equal(t, http.StatusOK, rec.Code, path)

		got := decode[[]map[string]any](t, rec)
		require.Len(t, got, 50, path)
		assert.Equal(t, "Temporada 1", got[0]["titulo"])
		assert.Equal(t, "Temporada 50", got[49]["title"])
		assert.Equal(t, "https://example.com/img.png", got[0]["image"])
		assert.Equal(t, "https://example.com/img.png", got[0]["imagem"])
	}
}

func TestCreateSeason(t *testing.T) {
	env := newTestEnv(t)
	h := env.srv.Handler()
	authz := token(t, "7")

	rec := do(t, h, http.MethodPost, "/seasons", "", `{"numero":5,"titulo":"X"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/seasons", authz, `{"numero":5,"titulo":"X","descricao":"d"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	assert.Equal(t, "Temporada criada com sucesso!", created["mensagem"])
	id := created["id"].(float64)
	assert.NotZero(t, id)

	rec = do(t, h, http.MethodPost, "/temporadas", authz, `{"numero":5,"titulo":"Other"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Erro ao criar temporada (verifique se o número já existe)", decode[map[string]string](t, rec)["erro"])

	for _, body := range []string{`{"titulo":"X"}`, `{"numero":6}`, `{"numero":0,"titulo":"X"}`, `{"numero":6,"titulo":""}`, `{"numero":true,"titulo":"X"}`} {
		rec = do(t, h, http.MethodPost, "/seasons", authz, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "Número e Título são obrigatórios", decode[map[string]string](t, rec)["erro"], body)
	}

	rec = do(t, h, http.MethodPost, "/seasons", authz, `{"numero":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/seasons", authz, `{"numero":"8","titulo":"Y"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/seasons", "", "")
	list := decode[[]map[string]any](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, id, list[0]["id"])
	assert.Equal(t, float64(5), list[0]["numero"])
	assert.Equal(t, "X", list[0]["titulo"])
	assert.Equal(t, "X", list[0]["title"])
	assert.Equal(t, "d", list[0]["description"])
	assert.Equal(t, "https://cdn.kidslabs.com/covers/t5.jpg", list[0]["imagem"])
	assert.Equal(t, float64(8), list[1]["numero"])
}

func TestListMissions(t *testing.T) {
	env := newTestEnv(t)
	h := env.srv.Handler()
	_, err := env.bootstrap.Seed(context.Background())
	require.NoError(t, err)

	seasons := decode[[]map[string]any](t, do(t, h, http.MethodGet, "/seasons", "", ""))
	require.Len(t, seasons, 50)
	first := int64(seasons[0]["id"].(float64))
	path := "/temporadas/" + itoa(first) + "/missoes"

	for _, tc := range []struct {
		authz  string
		locked bool
	}{
		{"", true},
		{"Bearer not-a-token", true},
		{token(t, "1"), false},
	} {
		rec := do(t, h, http.MethodGet, path, tc.authz, "")
		require.Equal(t, http.StatusOK, rec.Code)

		missions := decode[[]map[string]any](t, rec)
		require.Len(t, missions, 10)
		for i, m := range missions {
			assert.Equal(t, float64(i+1), m["numero"])
			assert.Equal(t, float64(first), m["season_id"])
			assert.Equal(t, tc.locked, m["locked"])
		}
		assert.Equal(t, "https://videos.kidslabs.com/t1m1", missions[0]["video_url"])
		assert.Equal(t, "Conteúdo educativo da missão 1", missions[0]["conteudo_apoio"])
	}

	rec := do(t, h, http.MethodGet, "/seasons/999999/missoes", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Temporada não encontrada", decode[map[string]string](t, rec)["erro"])

	rec = do(t, h, http.MethodGet, "/api/seasons/abc/missoes", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Temporada não encontrada", decode[map[string]string](t, rec)["erro"])
}

func TestZeroSubjectTokenIsAnonymous(t *testing.T) {
	env := newTestEnv(t)
	h := env.srv.Handler()
	_, err := env.bootstrap.Seed(context.Background())
	require.NoError(t, err)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  0,
		"type": "access",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	zero := "Bearer " + tok

	// the token is trusted, so required auth passes
	rec := do(t, h, http.MethodGet, "/protected", zero, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// but it names no user, so content stays locked
	rec = do(t, h, http.MethodGet, "/seasons/1/missoes", zero, "")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, m := range decode[[]map[string]any](t, rec) {
		assert.Equal(t, true, m["locked"])
	}
}

func TestHome(t *testing.T) {
	env := newTestEnv(t)
	h := env.srv.Handler()

	rec := do(t, h, http.MethodGet, "/home", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"rows":[]}`, rec.Body.String())

	_, err := env.bootstrap.Seed(context.Background())
	require.NoError(t, err)

	type card struct {
		Thumb   string `json:"thumb"`
		Preview string `json:"preview"`
		Locked  bool   `json:"locked"`
	}
	type row struct {
		Numero int    `json:"numero"`
		Imagem string `json:"imagem"`
		Cards  []card `json:"cards"`
	}
	type home struct {
		Rows []row `json:"rows"`
	}

	anon := decode[home](t, do(t, h, http.MethodGet, "/home", "", ""))
	authed := decode[home](t, do(t, h, http.MethodGet, "/api/home", token(t, "2"), ""))

	require.Len(t, anon.Rows, 50)
	require.Len(t, authed.Rows, 50)
	assert.Equal(t, 1, anon.Rows[0].Numero)
	assert.Equal(t, "https://cdn.kidslabs.com/thumbs/t2m3.jpg", anon.Rows[1].Cards[2].Thumb)
	assert.Equal(t, "https://cdn.kidslabs.com/previews/t2m3.mp4", anon.Rows[1].Cards[2].Preview)

	for i := range anon.Rows {
		for j := range anon.Rows[i].Cards {
			assert.True(t, anon.Rows[i].Cards[j].Locked)
			assert.False(t, authed.Rows[i].Cards[j].Locked)
		}
	}
}

type fakeCatalog struct{ err error }

func (f fakeCatalog) GetHome(context.Context, auth.Caller) (*services.HomeView, error) {
	return nil, f.err
}
func (f fakeCatalog) ListSeasons(context.Context) ([]services.SeasonView, error) { return nil, f.err }
func (f fakeCatalog) CreateSeason(context.Context, services.CreateSeasonInput) (int64, error) {
	return 0, f.err
}
func (f fakeCatalog) ListMissions(context.Context, auth.Caller, int64) ([]services.MissionView, error) {
	return nil, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func TestInternalErrorsDoNotLeak(t *testing.T) {
	srv := NewServer(testConfig(), logging.Nop(), fakePinger{}, fakeCatalog{err: errors.New("pq: secret table exploded")})
	h := srv.Handler()

	for _, tc := range []struct{ method, path, authz, body string }{
		{http.MethodGet, "/home", "", ""},
		{http.MethodGet, "/seasons", "", ""},
		{http.MethodGet, "/seasons/1/missoes", "", ""},
		{http.MethodPost, "/seasons", token(t, "1"), `{"numero":1,"titulo":"x"}`},
	} {
		rec := do(t, h, tc.method, tc.path, tc.authz, tc.body)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, tc.path)
		assert.NotContains(t, rec.Body.String(), "exploded")
		assert.Equal(t, "Erro interno do servidor", decode[map[string]string](t, rec)["erro"])
	}
}

func TestHealth(t *testing.T) {
	rec := do(t, NewServer(testConfig(), logging.Nop(), fakePinger{}, fakeCatalog{}).Handler(), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, NewServer(testConfig(), logging.Nop(), fakePinger{err: errors.New("down")}, fakeCatalog{}).Handler(), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetrics(t *testing.T) {
	env := newTestEnv(t)
	h := env.srv.Handler()

	do(t, h, http.MethodGet, "/seasons", "", "")
	do(t, h, http.MethodGet, "/seasons/9/missoes", "", "")

	rec := do(t, h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `kidslabs_catalog_http_requests_total{method="GET",route="/seasons",status="200"} 1`)
	assert.Contains(t, body, `kidslabs_catalog_http_requests_total{method="GET",route="/seasons/:id/missoes",status="404"} 1`)
	assert.Contains(t, body, "kidslabs_catalog_http_request_duration_seconds_bucket")

	cfg := testConfig()
	cfg.MetricsEnabled = false
	rec = do(t, NewServer(cfg, logging.Nop(), fakePinger{}, fakeCatalog{}).Handler(), http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestID(t *testing.T) {
	h := NewServer(testConfig(), logging.Nop(), fakePinger{}, fakeCatalog{}).Handler()

	rec := do(t, h, http.MethodGet, "/health", "", "")
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	h := NewServer(testConfig(), logging.Nop(), fakePinger{}, fakeCatalog{}).Handler()

	rec := do(t, h, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"erro":"Not Found"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	h := NewServer(testConfig(), logging.Nop(), fakePinger{}, fakeCatalog{}).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/seasons", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRun_GracefulShutdown(t *testing.T) {
	srv := NewServer(testConfig(), logging.Nop(), fakePinger{}, fakeCatalog{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool { return srv.Addr() != nil }, 5*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + srv.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_ListenError(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = "256.0.0.1:bad"
	srv := NewServer(cfg, logging.Nop(), fakePinger{}, fakeCatalog{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.Error(t, srv.Run(ctx))
}

func TestNormalizePrefix(t *testing.T) {
	for in, want := range map[string]string{"": "", "/": "", "api": "/api", "/api/": "/api", " /v1/api ": "/v1/api"} {
		assert.Equal(t, want, normalizePrefix(in), in)
	}
}
