package migrate

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// userTable is an empty model used only to probe the live "user" schema.
// Migrations must not reference the current domain structs: those describe
// the final shape, while each step has to see the schema as it existed at
// its point in history.
type userTable struct{}

func (userTable) TableName() string { return "user" }

// All returns the full, linearized migration history.
//
// The source history contained two competing branches from the same parent
// (a singular "patient" schema and a plural "patients" one). That branch
// point was a hazard, not a feature: applying both produced duplicate
// tables. Here the history is collapsed into one total order that creates
// the plural tables directly in their final shape.
func All() []Migration {
	return []Migration{
		coreAccounts(),
		consultationPlatform(),
		userProfile(),
	}
}

// coreAccounts creates the legacy account tables: "user" with a single
// full_name column (the profile split comes later) and the demo "item"
// table.
func coreAccounts() Migration {
	return Migration{
		ID: "0001_core_accounts",
		Migrate: func(tx *gorm.DB) error {
			stmts := []string{
				`CREATE TABLE "user" (
					id char(36) PRIMARY KEY,
					email varchar(255) NOT NULL,
					hashed_password varchar(255) NOT NULL,
					full_name varchar(255),
					is_active boolean NOT NULL DEFAULT true,
					is_superuser boolean NOT NULL DEFAULT false,
					CONSTRAINT ux_user_email UNIQUE (email)
				)`,
				`CREATE TABLE item (
					id char(36) PRIMARY KEY,
					title varchar(255) NOT NULL,
					description varchar(255),
					owner_id char(36) NOT NULL,
					CONSTRAINT fk_item_owner FOREIGN KEY (owner_id) REFERENCES "user"(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_item_owner ON item (owner_id)`,
			}
			return execAll(tx, stmts)
		},
		Rollback: func(tx *gorm.DB) error {
			return execAll(tx, []string{
				`DROP TABLE item`,
				`DROP TABLE "user"`,
			})
		},
	}
}

// consultationPlatform creates the seven consultation tables. Status-like
// columns are bounded text, validated at the application layer; the only
// database-level value constraint is the 1..5 rating check.
func consultationPlatform() Migration {
	return Migration{
		ID: "0002_consultation_platform",
		Migrate: func(tx *gorm.DB) error {
			stmts := []string{
				`CREATE TABLE patients (
					id char(36) PRIMARY KEY,
					name varchar(255) NOT NULL,
					medical_history text,
					created_by_id char(36) NOT NULL,
					created_at timestamp NOT NULL,
					updated_at timestamp NOT NULL,
					CONSTRAINT fk_patients_created_by FOREIGN KEY (created_by_id) REFERENCES "user"(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_patients_created_by ON patients (created_by_id)`,
				`CREATE TABLE sessions (
					id char(36) PRIMARY KEY,
					user_id char(36) NOT NULL,
					patient_id char(36) NOT NULL,
					status varchar(20) NOT NULL,
					scheduled_start_time timestamp,
					start_time timestamp,
					end_time timestamp,
					created_at timestamp NOT NULL,
					updated_at timestamp NOT NULL,
					CONSTRAINT fk_sessions_user FOREIGN KEY (user_id) REFERENCES "user"(id) ON DELETE CASCADE,
					CONSTRAINT fk_sessions_patient FOREIGN KEY (patient_id) REFERENCES patients(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_sessions_user ON sessions (user_id)`,
				`CREATE INDEX idx_sessions_patient ON sessions (patient_id)`,
				`CREATE TABLE conversation_logs (
					id char(36) PRIMARY KEY,
					session_id char(36) NOT NULL,
					sender varchar(20) NOT NULL,
					message text NOT NULL,
					created_at timestamp NOT NULL,
					CONSTRAINT fk_conversation_logs_session FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_session_logs ON conversation_logs (session_id, created_at)`,
				`CREATE TABLE payments (
					id char(36) PRIMARY KEY,
					user_id char(36) NOT NULL,
					stripe_transaction_id varchar(255) NOT NULL,
					amount decimal(10,2) NOT NULL,
					currency varchar(10) NOT NULL,
					status varchar(20) NOT NULL,
					created_at timestamp NOT NULL,
					CONSTRAINT fk_payments_user FOREIGN KEY (user_id) REFERENCES "user"(id) ON DELETE CASCADE,
					CONSTRAINT ux_payments_stripe_txn UNIQUE (stripe_transaction_id)
				)`,
				`CREATE INDEX idx_payments_user ON payments (user_id)`,
				`CREATE TABLE credit_transactions (
					id char(36) PRIMARY KEY,
					user_id char(36) NOT NULL,
					transaction_type varchar(20) NOT NULL,
					credits integer NOT NULL,
					description text,
					created_at timestamp NOT NULL,
					CONSTRAINT fk_credit_transactions_user FOREIGN KEY (user_id) REFERENCES "user"(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_credit_transactions_user ON credit_transactions (user_id)`,
				`CREATE TABLE session_feedback (
					id char(36) PRIMARY KEY,
					session_id char(36) NOT NULL,
					user_rating integer NOT NULL,
					feedback_comment text,
					created_at timestamp NOT NULL,
					CONSTRAINT fk_session_feedback_session FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE,
					CONSTRAINT ux_feedback_session UNIQUE (session_id),
					CONSTRAINT chk_rating_range CHECK (user_rating >= 1 AND user_rating <= 5)
				)`,
				`CREATE TABLE notifications (
					id char(36) PRIMARY KEY,
					user_id char(36) NOT NULL,
					type varchar(50) NOT NULL,
					subject varchar(255) NOT NULL,
					message text NOT NULL,
					status varchar(20) NOT NULL,
					created_at timestamp NOT NULL,
					CONSTRAINT fk_notifications_user FOREIGN KEY (user_id) REFERENCES "user"(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_notifications_user ON notifications (user_id)`,
			}
			return execAll(tx, stmts)
		},
		Rollback: func(tx *gorm.DB) error {
			// Children before parents.
			return execAll(tx, []string{
				`DROP TABLE notifications`,
				`DROP TABLE session_feedback`,
				`DROP TABLE credit_transactions`,
				`DROP TABLE payments`,
				`DROP TABLE conversation_logs`,
				`DROP TABLE sessions`,
				`DROP TABLE patients`,
			})
		},
	}
}

// userProfile extends the "user" table with role, profile, timestamp, and
// credit columns. Every add-column is guarded by a live-schema probe so the
// step is idempotent against databases migrated out-of-band, and every
// backfill runs in the same transaction, scoped to rows where the new
// column is still NULL.
func userProfile() Migration {
	return Migration{
		ID: "0003_user_profile",
		Migrate: func(tx *gorm.DB) error {
			mig := tx.Migrator()
			hasFullName := mig.HasColumn(userTable{}, "full_name")
			hasFirstName := mig.HasColumn(userTable{}, "first_name")

			if !mig.HasColumn(userTable{}, "credits_balance") {
				if err := tx.Exec(`ALTER TABLE "user" ADD COLUMN credits_balance integer NOT NULL DEFAULT 0`).Error; err != nil {
					return err
				}
			}
			if !mig.HasColumn(userTable{}, "created_at") {
				if err := execAll(tx, []string{
					`ALTER TABLE "user" ADD COLUMN created_at timestamp`,
					`UPDATE "user" SET created_at = CURRENT_TIMESTAMP WHERE created_at IS NULL`,
				}); err != nil {
					return err
				}
			}
			if !mig.HasColumn(userTable{}, "updated_at") {
				if err := execAll(tx, []string{
					`ALTER TABLE "user" ADD COLUMN updated_at timestamp`,
					`UPDATE "user" SET updated_at = CURRENT_TIMESTAMP WHERE updated_at IS NULL`,
				}); err != nil {
					return err
				}
			}
			if !mig.HasColumn(userTable{}, "role") {
				if err := execAll(tx, []string{
					`ALTER TABLE "user" ADD COLUMN role varchar(50)`,
					`UPDATE "user" SET role = 'User' WHERE role IS NULL`,
					`UPDATE "user" SET role = 'SuperAdmin' WHERE is_superuser`,
				}); err != nil {
					return err
				}
			}

			// The split only runs when the source column exists and the
			// destination columns do not.
			if hasFullName && !hasFirstName {
				if err := execAll(tx, []string{
					`ALTER TABLE "user" ADD COLUMN first_name varchar(100)`,
					`ALTER TABLE "user" ADD COLUMN last_name varchar(100)`,
				}); err != nil {
					return err
				}
				if err := splitFullNames(tx); err != nil {
					return err
				}
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			mig := tx.Migrator()

			// Reverse order of creation: the name split is undone first.
			if mig.HasColumn(userTable{}, "first_name") && mig.HasColumn(userTable{}, "full_name") {
				if err := joinFullNames(tx); err != nil {
					return err
				}
				if err := execAll(tx, []string{
					`ALTER TABLE "user" DROP COLUMN last_name`,
					`ALTER TABLE "user" DROP COLUMN first_name`,
				}); err != nil {
					return err
				}
			}
			for _, col := range []string{"role", "updated_at", "created_at", "credits_balance"} {
				if mig.HasColumn(userTable{}, col) {
					if err := tx.Exec(fmt.Sprintf(`ALTER TABLE "user" DROP COLUMN %s`, col)).Error; err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}

// nameRow is the projection used by the full-name split and join passes.
type nameRow struct {
	ID        string
	FullName  *string
	FirstName *string
	LastName  *string
}

// splitFullNames copies full_name into first_name/last_name for every row
// that has one. The split happens on the first whitespace boundary; the
// remainder becomes the last name, and a name without whitespace yields an
// empty last name. The computation runs in Go so the behavior is identical
// on SQLite and Postgres.
func splitFullNames(tx *gorm.DB) error {
	var rows []nameRow
	if err := tx.Table("user").
		Select("id", "full_name", "first_name", "last_name").
		Where("full_name IS NOT NULL AND full_name <> ''").
		Find(&rows).Error; err != nil {
		return err
	}
	for _, r := range rows {
		full := strings.TrimSpace(*r.FullName)
		if full == "" {
			continue
		}
		first, last, found := strings.Cut(full, " ")
		if !found {
			last = ""
		}
		if err := tx.Table("user").Where("id = ?", r.ID).Updates(map[string]any{
			"first_name": first,
			"last_name":  last,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

// joinFullNames reconstitutes full_name from first_name/last_name before
// the split columns are dropped. A populated full_name is never
// overwritten; if it disagrees with the joined parts the rollback aborts
// with ErrAmbiguousRollback instead of guessing.
func joinFullNames(tx *gorm.DB) error {
	var rows []nameRow
	if err := tx.Table("user").
		Select("id", "full_name", "first_name", "last_name").
		Find(&rows).Error; err != nil {
		return err
	}
	for _, r := range rows {
		joined := joinName(r.FirstName, r.LastName)
		if joined == "" {
			continue
		}
		existing := ""
		if r.FullName != nil {
			existing = strings.TrimSpace(*r.FullName)
		}
		if existing != "" {
			if existing != joined {
				return fmt.Errorf("%w: user %s has full_name %q but first/last join to %q",
					ErrAmbiguousRollback, r.ID, existing, joined)
			}
			continue
		}
		if err := tx.Table("user").Where("id = ?", r.ID).
			Update("full_name", joined).Error; err != nil {
			return err
		}
	}
	return nil
}

// joinName joins the non-empty name parts with a single space.
func joinName(first, last *string) string {
	var parts []string
	if first != nil && strings.TrimSpace(*first) != "" {
		parts = append(parts, strings.TrimSpace(*first))
	}
	if last != nil && strings.TrimSpace(*last) != "" {
		parts = append(parts, strings.TrimSpace(*last))
	}
	return strings.Join(parts, " ")
}

// execAll runs each statement in order, stopping at the first error.
func execAll(tx *gorm.DB, stmts []string) error {
	for _, s := range stmts {
		if err := tx.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}
