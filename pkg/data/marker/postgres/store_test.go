package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/fee-router/pkg/data/marker"
	"github.com/code-payments/fee-router/pkg/data/marker/tests"

	pgutil "github.com/code-payments/fee-router/pkg/database/postgres"
	postgrestest "github.com/code-payments/fee-router/pkg/database/postgres/test"
)

const (
	// Used for testing ONLY, the table and migrations are external to this repository
	tableCreate = `
		CREATE TABLE feerouter__core_initmarker(
			id SERIAL NOT NULL PRIMARY KEY,

			address TEXT NOT NULL,

			initialized_at TIMESTAMP WITH TIME ZONE NOT NULL,

			CONSTRAINT feerouter__core_initmarker__uniq__address UNIQUE (address)
		);
	`

	// Used for testing ONLY, the table and migrations are external to this repository
	tableDestroy = `
		DROP TABLE feerouter__core_initmarker;
	`
)

var (
	testStore   marker.Store
	executeInTx tests.ExecuteInTxFunc
	teardown    func()
)

func TestMain(m *testing.M) {
	log := logrus.StandardLogger()

	testPool, err := dockertest.NewPool("")
	if err != nil {
		log.WithError(err).Error("Error creating docker pool")
		os.Exit(1)
	}

	var cleanUpFunc func()
	db, cleanUpFunc, err := postgrestest.StartPostgresDB(testPool)
	if err != nil {
		log.WithError(err).Error("Error starting postgres image")
		os.Exit(1)
	}
	defer db.Close()

	if err := createTestTables(db); err != nil {
		log.WithError(err).Error("Error creating test tables")
		cleanUpFunc()
		os.Exit(1)
	}

	testStore = New(db)
	executeInTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
		return pgutil.ExecuteTxWithinCtx(ctx, sqlx.NewDb(db, "pgx"), sql.LevelDefault, fn)
	}
	teardown = func() {
		if pc := recover(); pc != nil {
			cleanUpFunc()
			panic(pc)
		}

		if err := resetTestTables(db); err != nil {
			log.WithError(err).Error("Error resetting test tables")
			cleanUpFunc()
			os.Exit(1)
		}
	}

	code := m.Run()
	cleanUpFunc()
	os.Exit(code)
}

func TestMarkerPostgresStore(t *testing.T) {
	tests.RunTests(t, testStore, executeInTx, teardown)
}

func createTestTables(db *sql.DB) error {
	_, err := db.Exec(tableCreate)
	if err != nil {
		logrus.StandardLogger().WithError(err).Error("could not create test tables")
		return err
	}
	return nil
}

func resetTestTables(db *sql.DB) error {
	_, err := db.Exec(tableDestroy)
	if err != nil {
		logrus.StandardLogger().WithError(err).Error("could not drop test tables")
		return err
	}

	return createTestTables(db)
}
