// Package dbtest opens throwaway SQLite databases with the rentcamp schema.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/Additional-Code/rentcamp/internal/database"
	"github.com/Additional-Code/rentcamp/internal/entity"
)

// NewSQLite returns connections to a file-backed SQLite database holding the
// orders and chat_messages tables. It is closed when the test ends.
func NewSQLite(t testing.TB) *database.Connections {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", filepath.Join(t.TempDir(), "rentcamp.db"))
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for _, model := range []any{(*entity.Order)(nil), (*entity.ChatMessage)(nil)} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	if _, err := db.NewCreateIndex().
		Model((*entity.ChatMessage)(nil)).
		Index("idx_chat_messages_order_seq").
		Unique().
		Column("order_id", "seq").
		Exec(ctx); err != nil {
		t.Fatalf("create index: %v", err)
	}

	return &database.Connections{Writer: db, Reader: db}
}

// InsertOrder stores order or fails the test.
func InsertOrder(t testing.TB, conns *database.Connections, order *entity.Order) {
	t.Helper()
	if _, err := conns.Writer.NewInsert().Model(order).Exec(context.Background()); err != nil {
		t.Fatalf("insert order %s: %v", order.ID, err)
	}
}
