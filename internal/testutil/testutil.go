// Package testutil provides databases and caches for tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/viastore/viastore/internal/db"
	"github.com/viastore/viastore/internal/repository/dao"
)

// SetupTestDB opens a migrated in-memory SQLite database private to the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := db.OpenWithURL(db.DriverSQLite, ":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return database
}

// SetupPostgres starts a throwaway Postgres container and returns a migrated
// connection to it. The test is skipped with -short or when Docker is not
// reachable. TEST_DATABASE_URL points at an existing server instead.
func SetupPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping Postgres test in short mode")
	}

	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		database, err := db.OpenWithURL(db.DriverPostgres, dsn)
		require.NoError(t, err)
		t.Cleanup(func() { _ = dao.DropAllTables(database) })
		return database
	}

	pool := dockerPool(t)
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=viastore",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=viastore_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	_ = resource.Expire(120)

	dsn := fmt.Sprintf("host=localhost port=%s user=viastore password=secret dbname=viastore_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	var database *gorm.DB
	pool.MaxWait = time.Minute
	err = pool.Retry(func() error {
		var err error
		database, err = db.OpenWithURL(db.DriverPostgres, dsn)
		return err
	})
	require.NoError(t, err)

	return database
}

// SetupRedis starts a throwaway Redis container. Skipped like SetupPostgres;
// TEST_REDIS_ADDR points at an existing server instead.
func SetupRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping Redis test in short mode")
	}

	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		t.Cleanup(func() { _ = client.Close() })
		return client
	}

	pool := dockerPool(t)
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	_ = resource.Expire(120)

	client := redis.NewClient(&redis.Options{Addr: "localhost:" + resource.GetPort("6379/tcp")})
	t.Cleanup(func() { _ = client.Close() })

	pool.MaxWait = time.Minute
	err = pool.Retry(func() error {
		return client.Ping(context.Background()).Err()
	})
	require.NoError(t, err)

	return client
}

func dockerPool(t *testing.T) *dockertest.Pool {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker not available: %v", err)
	}

	return pool
}
