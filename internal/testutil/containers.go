// Package testutil starts the Postgres and S3-compatible containers used by the
// integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage = "pgvector/pgvector:0.8.1-pg18"
	postgresUser  = "yuholens"
	rustFSImage   = "rustfs/rustfs:latest"
)

// RustFS credentials used by NewRustFSContainer.
const (
	RustFSAccessKey = "rustfsadmin"
	RustFSSecretKey = "rustfsadmin"
)

// Container is a started container and the address of its exposed port.
type Container struct {
	testcontainers.Container
	Host string
	Port string
}

// Terminate stops and removes the container.
func (c *Container) Terminate(ctx context.Context) error {
	return testcontainers.TerminateContainer(c.Container)
}

func start(ctx context.Context, t *testing.T, req testcontainers.ContainerRequest, port string) *Container {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start %s: %v", req.Image, err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host of %s: %v", req.Image, err)
	}
	mapped, err := container.MappedPort(ctx, nat.Port(port))
	if err != nil {
		t.Fatalf("port %s of %s: %v", port, req.Image, err)
	}
	return &Container{Container: container, Host: host, Port: mapped.Port()}
}

// PostgresContainer is a pgvector-enabled Postgres.
type PostgresContainer struct {
	*Container
}

// NewPostgresContainer starts Postgres with the vector extension available.
func NewPostgresContainer(ctx context.Context, t *testing.T) *PostgresContainer {
	return &PostgresContainer{start(ctx, t, testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresUser,
			"POSTGRES_DB":       postgresUser,
		},
		// the server restarts once after initdb
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		).WithStartupTimeout(time.Minute),
	}, "5432")}
}

// ConnectionString returns the URL of the test database.
func (pc *PostgresContainer) ConnectionString() string {
	return fmt.Sprintf("postgres://%[1]s:%[1]s@%s:%s/%[1]s?sslmode=disable", postgresUser, pc.Host, pc.Port)
}

// RustFSContainer is an S3-compatible object store.
type RustFSContainer struct {
	*Container
}

// NewRustFSContainer starts RustFS with RustFSAccessKey/RustFSSecretKey.
func NewRustFSContainer(ctx context.Context, t *testing.T) *RustFSContainer {
	return &RustFSContainer{start(ctx, t, testcontainers.ContainerRequest{
		Image:        rustFSImage,
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"RUSTFS_ACCESS_KEY": RustFSAccessKey,
			"RUSTFS_SECRET_KEY": RustFSSecretKey,
		},
		WaitingFor: wait.ForListeningPort("9000/tcp").WithStartupTimeout(30 * time.Second),
	}, "9000")}
}

// Endpoint returns the S3 endpoint URL.
func (rc *RustFSContainer) Endpoint() string {
	return "http://" + rc.Host + ":" + rc.Port
}

// NewTestPool connects to pc, retrying while the server settles, and applies every
// up migration in migrationsDir.
func NewTestPool(ctx context.Context, t *testing.T, pc *PostgresContainer, migrationsDir string) *pgxpool.Pool {
	t.Helper()

	var pool *pgxpool.Pool
	var err error
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err = pgxpool.New(ctx, pc.ConnectionString())
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
			pool = nil
		}
		time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
	}
	if pool == nil {
		t.Fatalf("connect to test database: %v", err)
	}

	if err := applyMigrations(ctx, pool, migrationsDir); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return pool
}

// applyMigrations executes the *.up.sql files of dir in name order.
func applyMigrations(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	ups, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return err
	}
	if len(ups) == 0 {
		return fmt.Errorf("no migrations in %s", dir)
	}
	sort.Strings(ups)

	for _, path := range ups {
		sql, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("%s: %w", strings.TrimSuffix(filepath.Base(path), ".up.sql"), err)
		}
	}
	return nil
}
