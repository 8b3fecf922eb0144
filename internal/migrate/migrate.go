// Package migrate implements a small, ordered schema migration engine on
// top of GORM. Each migration is a pair of forward/backward transforms
// applied in its own transaction and recorded in the schema_migrations
// table. Migrations run strictly one at a time, offline, never concurrently
// with application traffic.
//
// Contract:
//   - Migrations apply in slice order; rollbacks apply in reverse.
//   - Every Migrate has an exact-inverse Rollback that removes exactly what
//     was added, children before parents.
//   - Add-column steps must probe the live schema first so that re-running
//     against a database migrated out-of-band is a no-op.
//   - A rollback that would have to guess between conflicting data states
//     must fail the transaction rather than silently pick a side
//     (see ErrAmbiguousRollback).
package migrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrAmbiguousRollback is returned when a destructive rollback step finds
// conflicting data it cannot reconcile deterministically. The transaction
// is aborted and the schema stays at the prior version.
var ErrAmbiguousRollback = errors.New("migrate: ambiguous data state, refusing destructive rollback")

// ErrUnknownMigration is returned when the database records an applied
// migration id that the binary does not know about.
var ErrUnknownMigration = errors.New("migrate: applied migration not found in registry")

// Migration is one reversible schema step.
type Migration struct {
	// ID orders migrations and is recorded once applied. IDs must be
	// unique and sort in application order (e.g. zero-padded prefixes).
	ID string
	// Migrate applies the forward transform inside tx.
	Migrate func(tx *gorm.DB) error
	// Rollback undoes Migrate exactly, inside tx.
	Rollback func(tx *gorm.DB) error
}

// schemaMigration is the bookkeeping row for an applied migration.
type schemaMigration struct {
	ID        string    `gorm:"type:varchar(255);primaryKey"`
	AppliedAt time.Time `gorm:"not null"`
}

func (schemaMigration) TableName() string { return "schema_migrations" }

// Migrator applies and reverts an ordered list of migrations.
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

// New constructs a Migrator over db for the given ordered migrations.
func New(db *gorm.DB, migrations []Migration) *Migrator {
	return &Migrator{db: db, migrations: migrations}
}

// Up applies every pending migration in order. Each migration runs in its
// own transaction together with its bookkeeping insert, so a failure leaves
// the schema at the last fully applied version.
func (m *Migrator) Up(ctx context.Context) error {
	if err := m.ensureTable(ctx); err != nil {
		return err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}
	for _, mg := range m.migrations {
		if applied[mg.ID] {
			continue
		}
		mg := mg
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := mg.Migrate(tx); err != nil {
				return fmt.Errorf("migrate %s: %w", mg.ID, err)
			}
			rec := schemaMigration{ID: mg.ID, AppliedAt: time.Now().UTC()}
			return tx.Create(&rec).Error
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Down rolls back the most recently applied migrations, at most steps of
// them. Each rollback runs in its own transaction together with the
// bookkeeping delete.
func (m *Migrator) Down(ctx context.Context, steps int) error {
	if steps <= 0 {
		return nil
	}
	if err := m.ensureTable(ctx); err != nil {
		return err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}
	for i := len(m.migrations) - 1; i >= 0 && steps > 0; i-- {
		mg := m.migrations[i]
		if !applied[mg.ID] {
			continue
		}
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := mg.Rollback(tx); err != nil {
				return fmt.Errorf("rollback %s: %w", mg.ID, err)
			}
			return tx.Where("id = ?", mg.ID).Delete(&schemaMigration{}).Error
		})
		if err != nil {
			return err
		}
		steps--
	}
	return nil
}

// Pending returns the ids of migrations not yet applied, in order.
func (m *Migrator) Pending(ctx context.Context) ([]string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, mg := range m.migrations {
		if !applied[mg.ID] {
			out = append(out, mg.ID)
		}
	}
	return out, nil
}

// ensureTable creates the bookkeeping table if it does not exist yet.
func (m *Migrator) ensureTable(ctx context.Context) error {
	return m.db.WithContext(ctx).AutoMigrate(&schemaMigration{})
}

// applied returns the set of applied migration ids and validates that each
// one is known to this binary.
func (m *Migrator) applied(ctx context.Context) (map[string]bool, error) {
	var rows []schemaMigration
	if err := m.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(m.migrations))
	for _, mg := range m.migrations {
		known[mg.ID] = true
	}
	set := make(map[string]bool, len(rows))
	for _, r := range rows {
		if !known[r.ID] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMigration, r.ID)
		}
		set[r.ID] = true
	}
	return set, nil
}
