package test

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/pkg/errors"

	pg "github.com/code-payments/fee-router/pkg/database/postgres"
)

const (
	containerName     = "postgres"
	containerVersion  = "10.4"
	containerAutoKill = 120 * time.Second

	containerPollInterval = 500 * time.Millisecond
	containerPollAttempts = 50

	port     = 5432
	user     = "localtest"
	password = "localpassword"
	dbname   = "testdb"
)

const (
	postgresUserEnv     = "POSTGRES_USER=" + user
	postgresPasswordEnv = "POSTGRES_PASSWORD=" + password
	postgresDbEnv       = "POSTGRES_DB=" + dbname
)

// StartPostgresDB starts a Docker container using the postgres image and returns a postgres client for testing purposes.
func StartPostgresDB(pool *dockertest.Pool) (db *sql.DB, closeFunc func(), err error) {
	closeFunc = func() {}

	// Pulls the image, creates a container based on it and runs it
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: containerName,
		Tag:        containerVersion,
		Env: []string{
			"listen_addresses = '*'",
			postgresUserEnv,
			postgresPasswordEnv,
			postgresDbEnv,
		},
	}, func(config *docker.HostConfig) {
		// set AutoRemove to true so that stopped container goes away by itself
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})

	// Check if the container resource was generated as expected
	if err != nil {
		return nil, closeFunc, errors.Wrapf(err, "failed to start resource")
	}

	closeFunc = func() {
		_ = pool.Purge(resource)
	}

	hostAndPort := resource.GetHostPort(strconv.Itoa(port) + "/tcp")
	host, mappedPort, ok := strings.Cut(hostAndPort, ":")
	if !ok {
		return nil, closeFunc, errors.Errorf("unexpected host and port: %s", hostAndPort)
	}
	portNumber, err := strconv.Atoi(mappedPort)
	if err != nil {
		return nil, closeFunc, errors.Wrapf(err, "invalid port: %s", mappedPort)
	}

	conf := &pg.Config{
		User:     user,
		Password: password,
		Host:     host,
		Port:     portNumber,
		DbName:   dbname,
	}

	// Expire() never returns an error
	_ = resource.Expire(uint(containerAutoKill.Seconds()))

	err = backoff.Retry(func() error {
		db, err = pg.Open(conf)
		return err
	}, backoff.WithMaxRetries(backoff.NewConstantBackOff(containerPollInterval), containerPollAttempts))
	if err != nil {
		return nil, closeFunc, errors.Wrap(err, "timed out waiting for postgres container to become available")
	}

	return db, closeFunc, nil
}
