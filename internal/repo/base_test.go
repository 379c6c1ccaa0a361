package repo

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/pagination"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return conn
}

func TestNewBaseStoresConnection(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	if base.db != db {
		t.Fatalf("expected base db to match provided connection")
	}
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)

	if withCtx == nil {
		t.Fatalf("expected non-nil DB when context provided")
	}
	if withCtx.Statement == nil {
		t.Fatalf("expected statement created after WithContext")
	}
	if withCtx.Statement.Context != ctx {
		t.Fatalf("expected context to flow through, got %v", withCtx.Statement.Context)
	}

	withoutCtx := base.DB(nil)
	if withoutCtx != db {
		t.Fatalf("expected nil context to return raw connection")
	}
}

type pagedRow struct {
	ID int
}

func TestPaginate_AppliesWindow(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:paginate?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&pagedRow{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for i := 1; i <= 7; i++ {
		if err := conn.Create(&pagedRow{ID: i}).Error; err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	params := pagination.Params{Page: 2, Limit: 3}.Normalize(10)
	var rows []pagedRow
	if err := NewBase(conn).DB(context.Background()).Scopes(Paginate(params)).Order("id").Find(&rows).Error; err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(rows) != 3 || rows[0].ID != 4 || rows[2].ID != 6 {
		t.Fatalf("unexpected page rows: %+v", rows)
	}
}
