package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jengzang/filmday-backend-go/internal/models"
)

func openTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "film_database.db")
	conn, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, path
}

func TestOpenAppliesMigrations(t *testing.T) {
	conn, _ := openTestDB(t)

	for _, table := range []string{"film_data", "catalog_meta", "users", "saved_filters", "import_runs"} {
		var name string
		err := conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s: %v", table, err)
		}
	}

	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 applied migrations, got %d", count)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	_, path := openTestDB(t)

	again, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("reopen database: %v", err)
	}
	defer again.Close()

	var count int
	if err := again.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected migrations to be applied once, got %d rows", count)
	}
}

func TestFilmDataHasEveryKnownGenreColumn(t *testing.T) {
	conn, _ := openTestDB(t)

	rows, err := conn.Query("PRAGMA table_info(film_data)")
	if err != nil {
		t.Fatalf("table info: %v", err)
	}
	defer rows.Close()

	columns := map[string]bool{}
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			t.Fatalf("scan column: %v", err)
		}
		columns[name] = true
	}

	for _, genre := range models.KnownGenres {
		if !columns[genre] {
			t.Errorf("film_data is missing genre column %s", genre)
		}
	}
}

func TestTransactionRollsBackOnError(t *testing.T) {
	conn, _ := openTestDB(t)

	boom := errors.New("boom")
	err := Transaction(conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO catalog_meta (key, value) VALUES ('data_version', '2025-01-01')"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM catalog_meta").Scan(&count); err != nil {
		t.Fatalf("count meta: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback, found %d rows", count)
	}
}

func TestEveryPoolConnectionGetsPragmas(t *testing.T) {
	conn, _ := openTestDB(t)
	ctx := context.Background()

	// Hold both at once so the pool has to open a second connection.
	first, err := conn.Conn(ctx)
	if err != nil {
		t.Fatalf("first conn: %v", err)
	}
	defer first.Close()
	second, err := conn.Conn(ctx)
	if err != nil {
		t.Fatalf("second conn: %v", err)
	}
	defer second.Close()

	for i, c := range []*sql.Conn{first, second} {
		var foreignKeys, busyTimeout int
		if err := c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
			t.Fatalf("conn %d foreign_keys: %v", i, err)
		}
		if err := c.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busyTimeout); err != nil {
			t.Fatalf("conn %d busy_timeout: %v", i, err)
		}
		if foreignKeys != 1 || busyTimeout != 5000 {
			t.Errorf("conn %d: foreign_keys=%d busy_timeout=%d", i, foreignKeys, busyTimeout)
		}
	}
}

func TestDSNAppendsPragmas(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"films.db", "films.db?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"file:films.db?mode=ro", "file:films.db?mode=ro&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
	}
	for _, tt := range tests {
		if got := dsn(tt.path); got != tt.want {
			t.Errorf("dsn(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestTransactionKeepsCauseWhenRollbackFails(t *testing.T) {
	conn, _ := openTestDB(t)

	boom := errors.New("boom")
	err := Transaction(conn, func(tx *sql.Tx) error {
		if err := tx.Commit(); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom in %v", err)
	}
	if !errors.Is(err, sql.ErrTxDone) {
		t.Fatalf("expected rollback error in %v", err)
	}
}
