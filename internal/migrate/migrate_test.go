package migrate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMigrateDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:migrate_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func seedLegacyUser(t *testing.T, db *gorm.DB, id, email string, fullName *string, superuser bool) {
	t.Helper()
	err := db.Exec(
		`INSERT INTO "user" (id, email, hashed_password, full_name, is_active, is_superuser) VALUES (?, ?, ?, ?, ?, ?)`,
		id, email, "x", fullName, true, superuser,
	).Error
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func strptr(s string) *string { return &s }

func TestUp_AppliesAllAndIsIdempotent(t *testing.T) {
	db := newMigrateDB(t)
	m := New(db, All())
	ctx := context.Background()

	if err := m.Up(ctx); err != nil {
		t.Fatalf("Up: %v", err)
	}
	pending, err := m.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending migrations, got %v", pending)
	}

	// Second run is a no-op.
	if err := m.Up(ctx); err != nil {
		t.Fatalf("second Up: %v", err)
	}

	for _, table := range []string{
		"user", "item", "patients", "sessions", "conversation_logs",
		"payments", "credit_transactions", "session_feedback", "notifications",
	} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("expected table %q after Up", table)
		}
	}
}

func TestUp_BackfillsRoleAndTimestamps(t *testing.T) {
	db := newMigrateDB(t)
	ctx := context.Background()
	all := All()

	if err := New(db, all[:1]).Up(ctx); err != nil {
		t.Fatalf("Up 0001: %v", err)
	}
	seedLegacyUser(t, db, "u1", "a@example.com", nil, false)
	seedLegacyUser(t, db, "u2", "b@example.com", nil, true)

	if err := New(db, all).Up(ctx); err != nil {
		t.Fatalf("Up rest: %v", err)
	}

	var row struct {
		Role      string
		CreatedAt *string
		UpdatedAt *string
	}
	if err := db.Table("user").Select("role", "created_at", "updated_at").
		Where("id = ?", "u1").Scan(&row).Error; err != nil {
		t.Fatalf("load u1: %v", err)
	}
	if row.Role != "User" {
		t.Fatalf("expected backfilled role 'User', got %q", row.Role)
	}
	if row.CreatedAt == nil || row.UpdatedAt == nil {
		t.Fatalf("expected backfilled timestamps, got %+v", row)
	}

	var role string
	if err := db.Table("user").Select("role").Where("id = ?", "u2").Scan(&role).Error; err != nil {
		t.Fatalf("load u2: %v", err)
	}
	if role != "SuperAdmin" {
		t.Fatalf("expected superuser role 'SuperAdmin', got %q", role)
	}
}

func TestUp_SplitsFullName(t *testing.T) {
	db := newMigrateDB(t)
	ctx := context.Background()
	all := All()

	if err := New(db, all[:1]).Up(ctx); err != nil {
		t.Fatalf("Up 0001: %v", err)
	}
	seedLegacyUser(t, db, "u1", "ada@example.com", strptr("Ada Lovelace"), false)
	seedLegacyUser(t, db, "u2", "plato@example.com", strptr("Plato"), false)
	seedLegacyUser(t, db, "u3", "anon@example.com", nil, false)

	if err := New(db, all).Up(ctx); err != nil {
		t.Fatalf("Up rest: %v", err)
	}

	var rows []nameRow
	if err := db.Table("user").Select("id", "full_name", "first_name", "last_name").
		Order("id").Find(&rows).Error; err != nil {
		t.Fatalf("load rows: %v", err)
	}
	byID := map[string]nameRow{}
	for _, r := range rows {
		byID[r.ID] = r
	}

	if got := byID["u1"]; got.FirstName == nil || *got.FirstName != "Ada" ||
		got.LastName == nil || *got.LastName != "Lovelace" {
		t.Fatalf("u1 split wrong: %+v", got)
	}
	// No whitespace: everything becomes the first name, last name empty.
	if got := byID["u2"]; got.FirstName == nil || *got.FirstName != "Plato" ||
		got.LastName == nil || *got.LastName != "" {
		t.Fatalf("u2 split wrong: %+v", got)
	}
	if got := byID["u3"]; got.FirstName != nil {
		t.Fatalf("u3 should be untouched: %+v", got)
	}
}

func TestUp_AddColumnIdempotentAgainstPartialState(t *testing.T) {
	db := newMigrateDB(t)
	ctx := context.Background()
	all := All()

	if err := New(db, all[:2]).Up(ctx); err != nil {
		t.Fatalf("Up 0001+0002: %v", err)
	}
	// Simulate an out-of-band migration that already added role.
	if err := db.Exec(`ALTER TABLE "user" ADD COLUMN role varchar(50) NOT NULL DEFAULT 'Admin'`).Error; err != nil {
		t.Fatalf("out-of-band alter: %v", err)
	}
	seedLegacyUserWithRole(t, db, "u1", "a@example.com")

	if err := New(db, all).Up(ctx); err != nil {
		t.Fatalf("Up 0003 over partial state: %v", err)
	}

	// The existing role column (and its data) must be left alone.
	var role string
	if err := db.Table("user").Select("role").Where("id = ?", "u1").Scan(&role).Error; err != nil {
		t.Fatalf("load role: %v", err)
	}
	if role != "Admin" {
		t.Fatalf("out-of-band role clobbered: got %q", role)
	}
}

func seedLegacyUserWithRole(t *testing.T, db *gorm.DB, id, email string) {
	t.Helper()
	err := db.Exec(
		`INSERT INTO "user" (id, email, hashed_password, is_active, is_superuser, role) VALUES (?, ?, ?, ?, ?, 'Admin')`,
		id, email, "x", true, false,
	).Error
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestDown_JoinsNamesWithoutClobbering(t *testing.T) {
	db := newMigrateDB(t)
	ctx := context.Background()
	all := All()

	if err := New(db, all).Up(ctx); err != nil {
		t.Fatalf("Up: %v", err)
	}
	// First/last populated, full_name empty: rollback must reconstitute it.
	if err := db.Exec(
		`INSERT INTO "user" (id, email, hashed_password, is_active, is_superuser, role, first_name, last_name, credits_balance) VALUES ('u1', 'ada@example.com', 'x', 1, 0, 'User', 'Ada', 'Lovelace', 0)`,
	).Error; err != nil {
		t.Fatalf("seed u1: %v", err)
	}
	// full_name already populated and consistent: must not be rewritten.
	if err := db.Exec(
		`INSERT INTO "user" (id, email, hashed_password, is_active, is_superuser, role, full_name, first_name, last_name, credits_balance) VALUES ('u2', 'g@example.com', 'x', 1, 0, 'User', 'Grace Hopper', 'Grace', 'Hopper', 0)`,
	).Error; err != nil {
		t.Fatalf("seed u2: %v", err)
	}

	if err := New(db, all).Down(ctx, 1); err != nil {
		t.Fatalf("Down 0003: %v", err)
	}

	var full string
	if err := db.Table("user").Select("full_name").Where("id = ?", "u1").Scan(&full).Error; err != nil {
		t.Fatalf("load u1: %v", err)
	}
	if full != "Ada Lovelace" {
		t.Fatalf("expected reconstituted full_name, got %q", full)
	}
	if err := db.Table("user").Select("full_name").Where("id = ?", "u2").Scan(&full).Error; err != nil {
		t.Fatalf("load u2: %v", err)
	}
	if full != "Grace Hopper" {
		t.Fatalf("existing full_name clobbered: got %q", full)
	}

	if db.Migrator().HasColumn(userTable{}, "first_name") {
		t.Fatal("first_name should be dropped after rollback")
	}
	if db.Migrator().HasColumn(userTable{}, "role") {
		t.Fatal("role should be dropped after rollback")
	}
}

func TestDown_AmbiguousNameStateAborts(t *testing.T) {
	db := newMigrateDB(t)
	ctx := context.Background()
	all := All()

	if err := New(db, all).Up(ctx); err != nil {
		t.Fatalf("Up: %v", err)
	}
	// full_name disagrees with first/last: rollback must refuse to choose.
	if err := db.Exec(
		`INSERT INTO "user" (id, email, hashed_password, is_active, is_superuser, role, full_name, first_name, last_name, credits_balance) VALUES ('u1', 'x@example.com', 'x', 1, 0, 'User', 'Someone Else', 'Ada', 'Lovelace', 0)`,
	).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := New(db, all).Down(ctx, 1)
	if !errors.Is(err, ErrAmbiguousRollback) {
		t.Fatalf("expected ErrAmbiguousRollback, got %v", err)
	}

	// The transaction aborted: schema must still be at the later version.
	if !db.Migrator().HasColumn(userTable{}, "first_name") {
		t.Fatal("rollback should have been aborted, first_name missing")
	}
	pending, err := New(db, all).Pending(ctx)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("migration record should be intact, pending=%v", pending)
	}
}

func TestDown_FullRollbackRemovesEverything(t *testing.T) {
	db := newMigrateDB(t)
	ctx := context.Background()
	m := New(db, All())

	if err := m.Up(ctx); err != nil {
		t.Fatalf("Up: %v", err)
	}
	if err := m.Down(ctx, len(All())); err != nil {
		t.Fatalf("Down: %v", err)
	}
	for _, table := range []string{
		"user", "item", "patients", "sessions", "conversation_logs",
		"payments", "credit_transactions", "session_feedback", "notifications",
	} {
		if db.Migrator().HasTable(table) {
			t.Fatalf("table %q should be gone after full rollback", table)
		}
	}
	pending, err := m.Pending(ctx)
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != len(All()) {
		t.Fatalf("expected all migrations pending again, got %v", pending)
	}
}

func TestUp_UnknownAppliedMigrationRejected(t *testing.T) {
	db := newMigrateDB(t)
	ctx := context.Background()
	m := New(db, All())
	if err := m.Up(ctx); err != nil {
		t.Fatalf("Up: %v", err)
	}
	if err := db.Exec(`INSERT INTO schema_migrations (id, applied_at) VALUES ('9999_mystery', CURRENT_TIMESTAMP)`).Error; err != nil {
		t.Fatalf("seed bogus record: %v", err)
	}
	if err := m.Up(ctx); !errors.Is(err, ErrUnknownMigration) {
		t.Fatalf("expected ErrUnknownMigration, got %v", err)
	}
}
