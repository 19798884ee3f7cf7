package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/seatlab/lab-seat-reservation/internal/catalog"
	"github.com/seatlab/lab-seat-reservation/internal/model"
	"github.com/seatlab/lab-seat-reservation/internal/utils"
)

// studentIDPattern matches the university's 8-digit student numbers.
var studentIDPattern = regexp.MustCompile(`^[0-9]{8}$`)

// AccountRepo provides registration, authentication and profile
// operations over the `accounts` table.  Emails are normalized to
// lower case on every write and lookup so uniqueness and matching are
// case-insensitive.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

// RegisterInput carries the fields collected by the registration form.
type RegisterInput struct {
	FirstName   string
	LastName    string
	StudentID   string
	Email       string
	College     string
	AccountType string
	Password    string
}

const accountColumns = "id, student_id, first_name, last_name, email, college, account_type, password_hash, bio, created_at, updated_at"

func scanAccount(row *sql.Row) (model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.StudentID, &a.FirstName, &a.LastName, &a.Email,
		&a.College, &a.AccountType, &a.PasswordHash, &a.Bio, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Register validates and persists a new account.  The student id must
// be exactly 8 digits, the password at least utils.MinPasswordLen
// characters and the college one of the catalog's enumerated codes.
// Collisions surface as ErrDuplicateEmail / ErrDuplicateStudentID; the
// table is left unchanged by a failed attempt.
func (r *AccountRepo) Register(ctx context.Context, in RegisterInput, bcryptCost int) (model.Account, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if in.FirstName == "" || in.LastName == "" || in.Email == "" {
		return model.Account{}, fmt.Errorf("%w: name and email are required", ErrValidation)
	}
	if !studentIDPattern.MatchString(in.StudentID) {
		return model.Account{}, fmt.Errorf("%w: student id must be 8 digits", ErrValidation)
	}
	if len(in.Password) < utils.MinPasswordLen {
		return model.Account{}, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, utils.MinPasswordLen)
	}
	if !catalog.ValidCollege(in.College) {
		return model.Account{}, fmt.Errorf("%w: unknown college %q", ErrValidation, in.College)
	}
	if in.AccountType != model.AccountTypeStudent && in.AccountType != model.AccountTypeTechnician {
		return model.Account{}, fmt.Errorf("%w: unknown account type %q", ErrValidation, in.AccountType)
	}

	hash, err := utils.HashPassword(in.Password, bcryptCost)
	if err != nil {
		return model.Account{}, err
	}

	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO accounts (student_id, first_name, last_name, email, college, account_type, password_hash, bio)
		 VALUES (?,?,?,?,?,?,?,'')`,
		in.StudentID, in.FirstName, in.LastName, in.Email, in.College, in.AccountType, hash)
	if err != nil {
		if dup := duplicateKeyError(err); dup != nil {
			return model.Account{}, dup
		}
		return model.Account{}, err
	}
	return r.GetByEmail(ctx, in.Email)
}

// duplicateKeyError maps a MySQL 1062 duplicate-entry error to the
// matching registration sentinel based on which unique key collided.
func duplicateKeyError(err error) error {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "1062") && !strings.Contains(msg, "duplicate entry") {
		return nil
	}
	if strings.Contains(msg, "uq_accounts_student_id") {
		return ErrDuplicateStudentID
	}
	if strings.Contains(msg, "uq_accounts_email") {
		return ErrDuplicateEmail
	}
	return ErrDuplicateEmail
}

// GetByEmail fetches an account by normalized email.  Unknown emails
// yield ErrNotFound.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	a, err := scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE email=? LIMIT 1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	return a, err
}

// GetByID fetches an account by primary key.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	a, err := scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	return a, err
}

// GetByStudentID fetches an account by its 8-digit student number.
func (r *AccountRepo) GetByStudentID(ctx context.Context, studentID string) (model.Account, error) {
	a, err := scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE student_id=? LIMIT 1", studentID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	return a, err
}

// Authenticate resolves the account for an email/password pair.  Both
// an unknown email and a wrong password come back as ErrNotFound so
// the handler reports a single "invalid credentials" failure without
// leaking which half was wrong.
func (r *AccountRepo) Authenticate(ctx context.Context, email, password string) (model.Account, error) {
	a, err := r.GetByEmail(ctx, email)
	if err != nil {
		return model.Account{}, err
	}
	if !utils.VerifyPassword(a.PasswordHash, password) {
		return model.Account{}, ErrNotFound
	}
	return a, nil
}

// UpdatePassword replaces the account's password hash.  Unlike the
// original flow, an unknown account is reported as ErrNotFound instead
// of silently succeeding.
func (r *AccountRepo) UpdatePassword(ctx context.Context, email, newPassword string, bcryptCost int) error {
	if len(newPassword) < utils.MinPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, utils.MinPasswordLen)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(newPassword, bcryptCost)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET password_hash=? WHERE email=?", hash, email)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ProfileUpdate names the mutable profile fields.  Nil pointers leave
// the stored value untouched.  StudentID, email and account type are
// immutable after registration.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	College   *string
	Bio       *string
}

// UpdateProfile applies a partial update and returns the fresh account.
func (r *AccountRepo) UpdateProfile(ctx context.Context, email string, upd ProfileUpdate) (model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)
	if upd.FirstName != nil {
		if strings.TrimSpace(*upd.FirstName) == "" {
			return model.Account{}, fmt.Errorf("%w: first name cannot be empty", ErrValidation)
		}
		sets = append(sets, "first_name=?")
		args = append(args, strings.TrimSpace(*upd.FirstName))
	}
	if upd.LastName != nil {
		if strings.TrimSpace(*upd.LastName) == "" {
			return model.Account{}, fmt.Errorf("%w: last name cannot be empty", ErrValidation)
		}
		sets = append(sets, "last_name=?")
		args = append(args, strings.TrimSpace(*upd.LastName))
	}
	if upd.College != nil {
		if !catalog.ValidCollege(*upd.College) {
			return model.Account{}, fmt.Errorf("%w: unknown college %q", ErrValidation, *upd.College)
		}
		sets = append(sets, "college=?")
		args = append(args, *upd.College)
	}
	if upd.Bio != nil {
		sets = append(sets, "bio=?")
		args = append(args, *upd.Bio)
	}
	if len(sets) == 0 {
		return r.GetByEmail(ctx, email)
	}
	args = append(args, email)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET "+strings.Join(sets, ", ")+" WHERE email=?", args...)
	if err != nil {
		return model.Account{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Zero rows can also mean an identical value; confirm existence.
		if _, err := r.GetByEmail(ctx, email); err != nil {
			return model.Account{}, err
		}
	}
	return r.GetByEmail(ctx, email)
}

// Delete removes the account and cascades to everything it owns: all
// reservations filed under its email and all of its refresh tokens.
// The three deletions commit atomically.
func (r *AccountRepo) Delete(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var id uint64
	err = tx.QueryRowContext(ctx, "SELECT id FROM accounts WHERE email=? LIMIT 1", email).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM reservations WHERE user_email=?", email); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE account_id=? AND revoked_at IS NULL", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM accounts WHERE id=?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ValidStudentID reports whether s matches the 8-digit student number
// format.  Exposed for the walk-in flow.
func ValidStudentID(s string) bool { return studentIDPattern.MatchString(s) }
