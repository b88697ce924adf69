package database

import (
	"context"
	"log"
	"os"
	"testing"

	"serwer-cytatow/internal/database/dbtest"
)

var testStore *Store

func TestMain(m *testing.M) {
	os.Exit(runTests(m))
}

func runTests(m *testing.M) int {
	pool, cleanup, err := dbtest.Start(context.Background())
	if err != nil {
		log.Fatalf("failed to set up test database: %s", err)
	}
	defer cleanup()

	testStore = NewStore(pool)

	return m.Run()
}
