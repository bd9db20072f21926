package app

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/guttosm/bocspot/config"
)

func pgConfig() config.Config {
	return config.Config{Postgres: config.PostgresConfig{
		Enabled: true,
		URL:     "postgres://u:p@h:5432/d?sslmode=disable",
	}}
}

func TestInitPostgres_OpenError(t *testing.T) {
	old := sqlOpener
	sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
		return nil, errors.New("open failed")
	}
	t.Cleanup(func() { sqlOpener = old })

	if _, err := InitPostgres(context.Background(), pgConfig()); err == nil {
		t.Fatalf("expected error from InitPostgres when open fails")
	}
}

func TestInitPostgres_PingError(t *testing.T) {
	old := sqlOpener
	sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		if err != nil {
			t.Fatalf("sqlmock new: %v", err)
		}
		mock.ExpectPing().WillReturnError(errors.New("ping failed"))
		mock.ExpectClose()
		return db, nil
	}
	t.Cleanup(func() { sqlOpener = old })

	if _, err := InitPostgres(context.Background(), pgConfig()); err == nil {
		t.Fatalf("expected ping error from InitPostgres")
	}
}

func TestInitPostgres_OK(t *testing.T) {
	var gotDriver, gotDSN string
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	mock.ExpectPing()

	old := sqlOpener
	sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
		gotDriver, gotDSN = driverName, dataSourceName
		return db, nil
	}
	t.Cleanup(func() {
		sqlOpener = old
		_ = db.Close()
	})

	cfg := pgConfig()
	out, err := InitPostgres(context.Background(), cfg)
	if err != nil || out == nil {
		t.Fatalf("InitPostgres: db=%v err=%v", out, err)
	}
	if gotDriver != "postgres" || gotDSN != cfg.Postgres.URL {
		t.Fatalf("opened %s %s", gotDriver, gotDSN)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
