package database

import (
	"database/sql"
	"testing"
)

// TestSQLDB asserts the wrapper hands back the same *sql.DB it was built
// around, which is what the migration runner receives at startup.
func TestSQLDB(t *testing.T) {
	// sql.Open only validates the driver name; no connection is made.
	raw, err := sql.Open("postgres", "postgres://localhost/oracle?sslmode=disable")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer raw.Close()

	db := &DB{DB: raw}
	if db.SQLDB() != raw {
		t.Error("SQLDB must return the wrapped *sql.DB")
	}
}
