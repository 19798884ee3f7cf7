package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the DDL for the three tables the engine owns.  The
// statements are idempotent so EnsureSchema can run on every boot.
//
// The reservations table carries a nullable `active` flag that is 1
// while a row is upcoming and NULL once it reaches a terminal status.
// The unique key on (lab, seat, slot_date, time_slot, active) is what
// enforces the single-upcoming-reservation invariant: MySQL ignores
// NULLs in unique keys, so cancelled and completed rows never collide
// while two concurrent inserts for the same live tuple cannot both
// commit.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		student_id    CHAR(8)      NOT NULL,
		first_name    VARCHAR(100) NOT NULL,
		last_name     VARCHAR(100) NOT NULL,
		email         VARCHAR(255) NOT NULL,
		college       VARCHAR(16)  NOT NULL,
		account_type  ENUM('student','technician') NOT NULL DEFAULT 'student',
		password_hash VARCHAR(100) NOT NULL,
		bio           TEXT         NOT NULL,
		created_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_accounts_student_id (student_id),
		UNIQUE KEY uq_accounts_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS reservations (
		id              CHAR(36)     NOT NULL,
		lab             VARCHAR(16)  NOT NULL,
		seat            VARCHAR(4)   NOT NULL,
		building        VARCHAR(100) NOT NULL,
		slot_date       DATE         NOT NULL,
		time_slot       CHAR(5)      NOT NULL,
		starts_at       DATETIME     NOT NULL,
		status          ENUM('upcoming','completed','cancelled') NOT NULL DEFAULT 'upcoming',
		active          TINYINT      NULL DEFAULT 1,
		booked_on       DATE         NOT NULL,
		anonymous       TINYINT(1)   NOT NULL DEFAULT 0,
		user_email      VARCHAR(255) NOT NULL,
		user_student_id CHAR(8)      NULL,
		user_name       VARCHAR(200) NOT NULL DEFAULT '',
		is_walk_in      TINYINT(1)   NOT NULL DEFAULT 0,
		created_by      VARCHAR(255) NULL,
		created_at      TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_reservations_active_seat (lab, seat, slot_date, time_slot, active),
		KEY idx_reservations_user_email (user_email),
		KEY idx_reservations_slot (lab, slot_date, time_slot),
		KEY idx_reservations_starts_at (status, starts_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		account_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)  NOT NULL,
		expires_at DATETIME  NOT NULL,
		revoked_at DATETIME  NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_account (account_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the engine's tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, ddl := range schema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
