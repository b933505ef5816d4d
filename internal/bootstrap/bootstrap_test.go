package bootstrap

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/rankpredictor/internal/config"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jwt:\n  secret: s\ndatabase:\n  driver: memory\nserver:\n  mode: production\n"), 0o600))
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	return cfg
}

func TestLoadCatalog(t *testing.T) {
	lgr := zerolog.New(io.Discard)
	cfg := memoryConfig(t)

	cat, err := LoadCatalog(cfg, lgr)
	require.NoError(t, err)
	assert.NotEmpty(t, cat.ExamTypes())

	cfg.Catalog.Path = filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(cfg.Catalog.Path, []byte("colleges:\n  thapar-patiala:\n    fallback_tag: Private\n"), 0o600))
	cat, err = LoadCatalog(cfg, lgr)
	require.NoError(t, err)
	_, ok := cat.College("thapar-patiala")
	assert.True(t, ok)

	require.NoError(t, os.WriteFile(cfg.Catalog.Path, []byte("colleges:\n  foo:\n    fallback_tag: Nope\n"), 0o600))
	_, err = LoadCatalog(cfg, lgr)
	assert.Error(t, err)
}

func TestSetupMemoryStore(t *testing.T) {
	lgr := zerolog.New(io.Discard)
	cfg := memoryConfig(t)

	store, err := SetupStore(context.Background(), cfg, lgr)
	require.NoError(t, err)
	assert.Nil(t, store.DB)
	assert.NotNil(t, store.Cutoffs)
	store.Close()

	cfg.Database.FixturePath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = SetupStore(context.Background(), cfg, lgr)
	assert.Error(t, err)
}

func TestRouterServesPredictions(t *testing.T) {
	lgr := zerolog.New(io.Discard)
	cfg := memoryConfig(t)

	cat, err := LoadCatalog(cfg, lgr)
	require.NoError(t, err)
	store, err := SetupStore(context.Background(), cfg, lgr)
	require.NoError(t, err)
	deps, err := BuildDependencies(cfg, cat, store, lgr)
	require.NoError(t, err)
	router, err := SetupRouter(cfg, deps, lgr)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/api/v1/predictions?rank=500&examType=JEE-Advanced&seatType=OPEN&subCategory=Gender-Neutral&homeState=Delhi", nil))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuildDependenciesRejectsBadScoring(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Scoring.RankWeight = 0.1

	cat, err := LoadCatalog(cfg, zerolog.New(io.Discard))
	require.NoError(t, err)
	_, err = BuildDependencies(cfg, cat, &Store{}, zerolog.New(io.Discard))
	assert.Error(t, err)
}
