package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/seatlab/lab-seat-reservation/internal/model"
	"github.com/seatlab/lab-seat-reservation/internal/utils"
)

var accountCols = []string{"id", "student_id", "first_name", "last_name", "email",
	"college", "account_type", "password_hash", "bio", "created_at", "updated_at"}

func accountRow(a model.Account) *sqlmock.Rows {
	return sqlmock.NewRows(accountCols).AddRow(
		a.ID, a.StudentID, a.FirstName, a.LastName, a.Email,
		a.College, a.AccountType, a.PasswordHash, a.Bio, a.CreatedAt, a.UpdatedAt)
}

func testAccount() model.Account {
	return model.Account{
		ID:           7,
		StudentID:    "12190001",
		FirstName:    "Ana",
		LastName:     "Cruz",
		Email:        "ana@dlsu.edu.ph",
		College:      "CCS",
		AccountType:  model.AccountTypeStudent,
		PasswordHash: "$2a$04$notarealhash",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestRegisterValidation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAccountRepo(db)

	base := RegisterInput{
		FirstName: "Ana", LastName: "Cruz", StudentID: "12190001",
		Email: "ana@dlsu.edu.ph", College: "CCS",
		AccountType: model.AccountTypeStudent, Password: "longenough",
	}

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"short student id", func(in *RegisterInput) { in.StudentID = "1219" }},
		{"alpha student id", func(in *RegisterInput) { in.StudentID = "1219000A" }},
		{"short password", func(in *RegisterInput) { in.Password = "short" }},
		{"unknown college", func(in *RegisterInput) { in.College = "XYZ" }},
		{"unknown account type", func(in *RegisterInput) { in.AccountType = "admin" }},
		{"empty name", func(in *RegisterInput) { in.FirstName = "  " }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			_, err := repo.Register(context.Background(), in, bcrypt.MinCost)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	// No statement may reach the database on a validation failure.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicates(t *testing.T) {
	cases := []struct {
		name    string
		sqlErr  string
		wantErr error
	}{
		{"duplicate email", "Error 1062 (23000): Duplicate entry 'ana@dlsu.edu.ph' for key 'uq_accounts_email'", ErrDuplicateEmail},
		{"duplicate student id", "Error 1062 (23000): Duplicate entry '12190001' for key 'uq_accounts_student_id'", ErrDuplicateStudentID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			repo := NewAccountRepo(db)

			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).
				WillReturnError(errors.New(tc.sqlErr))

			_, err = repo.Register(context.Background(), RegisterInput{
				FirstName: "Ana", LastName: "Cruz", StudentID: "12190001",
				Email: "ana@dlsu.edu.ph", College: "CCS",
				AccountType: model.AccountTypeStudent, Password: "longenough",
			}, bcrypt.MinCost)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAccountRepo(db)
	acct := testAccount()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO accounts")).
		WithArgs("12190001", "Ana", "Cruz", "ana@dlsu.edu.ph", "CCS",
			model.AccountTypeStudent, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email=?")).
		WithArgs("ana@dlsu.edu.ph").
		WillReturnRows(accountRow(acct))

	got, err := repo.Register(context.Background(), RegisterInput{
		FirstName: "Ana", LastName: "Cruz", StudentID: "12190001",
		Email: "  Ana@DLSU.edu.ph ", College: "CCS",
		AccountType: model.AccountTypeStudent, Password: "longenough",
	}, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, acct.Email, got.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticate(t *testing.T) {
	hash, err := utils.HashPassword("rightpass", bcrypt.MinCost)
	require.NoError(t, err)
	acct := testAccount()
	acct.PasswordHash = hash

	t.Run("good password", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewAccountRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email=?")).
			WithArgs("ana@dlsu.edu.ph").
			WillReturnRows(accountRow(acct))

		got, err := repo.Authenticate(context.Background(), "ana@dlsu.edu.ph", "rightpass")
		require.NoError(t, err)
		assert.Equal(t, acct.Email, got.Email)
	})

	t.Run("wrong password reads as not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewAccountRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email=?")).
			WithArgs("ana@dlsu.edu.ph").
			WillReturnRows(accountRow(acct))

		_, err = repo.Authenticate(context.Background(), "ana@dlsu.edu.ph", "wrongpass")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown email reads as not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewAccountRepo(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email=?")).
			WithArgs("ghost@dlsu.edu.ph").
			WillReturnRows(sqlmock.NewRows(accountCols))

		_, err = repo.Authenticate(context.Background(), "ghost@dlsu.edu.ph", "whatever")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdatePassword(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewAccountRepo(db)

		err = repo.UpdatePassword(context.Background(), "ana@dlsu.edu.ph", "short", bcrypt.MinCost)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown account", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewAccountRepo(db)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET password_hash=?")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.UpdatePassword(context.Background(), "ghost@dlsu.edu.ph", "longenough", bcrypt.MinCost)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpdateProfileImmutableFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAccountRepo(db)
	acct := testAccount()

	newCollege := "COS"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET college=? WHERE email=?")).
		WithArgs("COS", "ana@dlsu.edu.ph").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email=?")).
		WillReturnRows(accountRow(acct))

	_, err = repo.UpdateProfile(context.Background(), "ana@dlsu.edu.ph", ProfileUpdate{College: &newCollege})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileRejectsBadCollege(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAccountRepo(db)

	bad := "XYZ"
	_, err = repo.UpdateProfile(context.Background(), "ana@dlsu.edu.ph", ProfileUpdate{College: &bad})
	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCascades(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAccountRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM accounts WHERE email=?")).
		WithArgs("ana@dlsu.edu.ph").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reservations WHERE user_email=?")).
		WithArgs("ana@dlsu.edu.ph").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at=NOW()")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM accounts WHERE id=?")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.Delete(context.Background(), "ana@dlsu.edu.ph")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUnknownAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAccountRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM accounts WHERE email=?")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err = repo.Delete(context.Background(), "ghost@dlsu.edu.ph")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidStudentID(t *testing.T) {
	assert.True(t, ValidStudentID("12190001"))
	assert.False(t, ValidStudentID("1219001"))
	assert.False(t, ValidStudentID("121900011"))
	assert.False(t, ValidStudentID("1219000a"))
	assert.False(t, ValidStudentID(""))
}
