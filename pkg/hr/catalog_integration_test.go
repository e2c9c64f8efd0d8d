package hr

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nimburion/hrportal/pkg/migrate"
	"github.com/nimburion/hrportal/pkg/observability/logger"
	"github.com/nimburion/hrportal/pkg/repository"
	"github.com/nimburion/hrportal/pkg/store/postgres"
	"github.com/nimburion/hrportal/pkg/testutil"
)

func TestCatalog_PostgresIntegration(t *testing.T) {
	testutil.RequireIntegration(t)
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:17-alpine",
		tcpostgres.WithDatabase("hrportal"),
		tcpostgres.WithUsername("hr"),
		tcpostgres.WithPassword("hr"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	log := logger.NewNopLogger()
	db, err := postgres.NewPostgreSQLAdapter(postgres.Config{URL: url, MaxOpenConns: 4, QueryTimeout: 10 * time.Second}, log)
	if err != nil {
		t.Fatalf("open adapter: %v", err)
	}
	defer db.Close()

	manager, err := migrate.NewSQLManager(db.DB(), Migrations, MigrationsDir)
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if applied, err := manager.Up(ctx); err != nil || applied != 2 {
		t.Fatalf("Up() = %d, %v", applied, err)
	}

	ds, err := LoadFixtures("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Seed(ctx, db.DB(), ds); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	// Seeding twice inserts nothing.
	if n, err := Seed(ctx, db.DB(), ds); err != nil || n != 0 {
		t.Fatalf("second Seed() = %d, %v", n, err)
	}

	catalog, err := NewCatalog(Options{DB: db, Logger: log})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	employees, _ := catalog.Lookup(ResourceEmployees)
	page, err := employees.List(ctx, repository.QueryOptions{
		Search:     "eng",
		Pagination: repository.Pagination{Page: 1, PageSize: 10},
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	items := page.Items.([]Employee)
	if page.TotalMatched != 2 || items[0].ID != "EMP-001" || items[1].ID != "EMP-003" {
		t.Errorf("page = %+v", page)
	}

	got, err := employees.Get(ctx, "EMP-002")
	if err != nil || got.(Employee).ID != "EMP-002" {
		t.Errorf("Get() = %v, %v", got, err)
	}
}
