package test

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/e-commerce-shop/api"
	"github.com/irsalhamdi/e-commerce-shop/config"
	"github.com/irsalhamdi/e-commerce-shop/core/cart"
	"github.com/irsalhamdi/e-commerce-shop/database"
	"github.com/irsalhamdi/e-commerce-shop/rate"
	"github.com/irsalhamdi/e-commerce-shop/storage/cartmem"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"
)

// TestEnv boots a throwaway postgres container, migrates it and serves the
// full API mux over httptest. Carts live in a fresh in-memory blob store.
type TestEnv struct {
	Server *httptest.Server
	URL    string
	DB     *sqlx.DB
	Blobs  *cartmem.Store

	client *http.Client
}

func NewTestEnv(t *testing.T, name string) (*TestEnv, error) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("connecting to docker: %w", err)
	}

	resource, err := pool.Run("postgres", "15-alpine", []string{
		"POSTGRES_USER=postgres",
		"POSTGRES_PASSWORD=postgres",
		"POSTGRES_DB=" + name,
	})
	if err != nil {
		return nil, fmt.Errorf("starting postgres container: %w", err)
	}
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("purging postgres container: %v", err)
		}
	})

	cfg := config.DB{
		User:       "postgres",
		Password:   "postgres",
		Host:       "localhost:" + resource.GetPort("5432/tcp"),
		Name:       name,
		DisableTLS: true,
	}

	var db *sqlx.DB
	pool.MaxWait = time.Minute
	if err := pool.Retry(func() error {
		var err error
		db, err = database.Open(cfg)
		if err != nil {
			return err
		}
		return db.Ping()
	}); err != nil {
		return nil, fmt.Errorf("waiting for postgres: %w", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrating: %w", err)
	}

	rules, err := cart.ParseRules("10", "0", "SAVE10:0.10;WELCOME:0.05;FIRSTORDER:0.15")
	if err != nil {
		return nil, fmt.Errorf("parsing cart rules: %w", err)
	}

	log := logrus.New()
	log.SetOutput(testWriter{t})

	sessionManager := scs.New()
	sessionManager.Lifetime = time.Hour

	blobs := cartmem.New()

	mux := api.APIMux(api.APIConfig{
		Log:           log,
		DB:            db,
		Session:       sessionManager,
		CartBlobs:     blobs,
		CartRules:     rules,
		CouponLimiter: rate.NewLimiter(100, 100, rate.Every(time.Millisecond)),
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("building cookie jar: %w", err)
	}

	return &TestEnv{
		Server: server,
		URL:    server.URL,
		DB:     db,
		Blobs:  blobs,
		client: &http.Client{Jar: jar},
	}, nil
}

// Client returns an http client that carries the session cookie between
// requests, so successive calls act on the same cart.
func (e *TestEnv) Client() *http.Client {
	return e.client
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
