package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dom/dota-draft-assistant/internal/api"
	"github.com/dom/dota-draft-assistant/internal/catalog"
	"github.com/dom/dota-draft-assistant/internal/config"
	"github.com/dom/dota-draft-assistant/internal/oracle"
	"github.com/dom/dota-draft-assistant/internal/prompt"
	"github.com/dom/dota-draft-assistant/internal/repository"
	repoBadger "github.com/dom/dota-draft-assistant/internal/repository/badger"
	repoPostgres "github.com/dom/dota-draft-assistant/internal/repository/postgres"
	"github.com/dom/dota-draft-assistant/internal/service"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a migrated connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_dota_draft"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := repoPostgres.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		tdb.Container.Terminate(context.Background())
	}
}

// Truncate clears the cache table for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()
	if err := tdb.DB.Exec("TRUNCATE TABLE cached_builds").Error; err != nil {
		t.Logf("warning: failed to truncate cached_builds: %v", err)
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            "0",
			Environment:     "test",
			CORSOrigins:     []string{"*"},
			RateLimitWindow: time.Minute,
		},
		Catalog: config.CatalogConfig{
			OpenDotaURL:     "http://127.0.0.1:0",
			RefreshInterval: time.Hour,
			HTTPTimeout:     time.Second,
		},
		Oracle: config.OracleConfig{
			Provider:  "none",
			MaxTokens: 2000,
		},
		Cache: config.CacheConfig{
			Backend: "badger",
		},
		Logging: config.LoggingConfig{
			Level:  "error",
			Format: "console",
		},
	}
}

// Deps bundles the collaborators built for a test.
type Deps struct {
	service.Dependencies
	Oracle *FakeOracle
	Store  *catalog.Store
	Cache  repository.BuildCacheRepository
}

// NewTestDependencies wires the real validator, composer and an in-memory badger
// cache around a fake oracle and the catalog in dir.
func NewTestDependencies(t *testing.T, fake *FakeOracle, dir string) *Deps {
	t.Helper()

	validator, err := oracle.NewValidator("")
	if err != nil {
		t.Fatalf("failed to load response schema: %v", err)
	}
	composer, err := prompt.NewComposer("", validator)
	if err != nil {
		t.Fatalf("failed to load prompt templates: %v", err)
	}

	db, err := repoBadger.Open("")
	if err != nil {
		t.Fatalf("failed to open badger: %v", err)
	}
	cache := repoBadger.NewBuildCacheRepository(db)
	t.Cleanup(func() { cache.Close() })

	store := catalog.NewStore(dir)
	return &Deps{
		Dependencies: service.Dependencies{
			Catalog:    store,
			Oracle:     fake,
			Composer:   composer,
			Validator:  validator,
			BuildCache: cache,
		},
		Oracle: fake,
		Store:  store,
		Cache:  cache,
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server     *httptest.Server
	Oracle     *FakeOracle
	Deps       *Deps
	Services   *service.Services
	Config     *config.Config
	CatalogDir string
}

type serverOptions struct {
	catalog    *CatalogBuilder
	catalogDir string
	configure  func(*config.Config)
}

type ServerOption func(*serverOptions)

// WithCatalog replaces the standard catalog fixture.
func WithCatalog(b *CatalogBuilder) ServerOption {
	return func(o *serverOptions) { o.catalog = b }
}

// WithCatalogDir points the server at an existing directory, which may be empty.
func WithCatalogDir(dir string) ServerOption {
	return func(o *serverOptions) { o.catalogDir = dir }
}

// WithConfig adjusts the test configuration before the server is built.
func WithConfig(fn func(*config.Config)) ServerOption {
	return func(o *serverOptions) { o.configure = fn }
}

// NewTestServer creates a complete test server backed by a fake oracle
func NewTestServer(t *testing.T, opts ...ServerOption) *TestServer {
	t.Helper()

	o := &serverOptions{catalog: StandardCatalog()}
	for _, opt := range opts {
		opt(o)
	}

	dir := o.catalogDir
	if dir == "" {
		dir = o.catalog.Write(t)
	}

	cfg := TestConfig()
	cfg.Catalog.Dir = dir
	if o.configure != nil {
		o.configure(cfg)
	}

	fake := NewFakeOracle()
	deps := NewTestDependencies(t, fake, dir)
	services := service.NewServices(deps.Dependencies, cfg)
	router := api.NewRouter(services, cfg)

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
	})

	return &TestServer{
		Server:     server,
		Oracle:     fake,
		Deps:       deps,
		Services:   services,
		Config:     cfg,
		CatalogDir: dir,
	}
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// URL returns the full URL for a path
func (ts *TestServer) URL(path string) string {
	return fmt.Sprintf("%s%s", ts.Server.URL, path)
}
