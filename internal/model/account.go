package model

import "time"

// Account types stored in accounts.account_type.
const (
	AccountTypeStudent    = "student"
	AccountTypeTechnician = "technician"
)

// Account represents a registered user record as stored in the
// `accounts` table.  StudentID and Email are both unique; Email is
// normalized to lower case before storage so lookups are
// case-insensitive.  The password is only ever stored as a bcrypt
// hash.
//
// Fields:
//  ID           – primary key identifier.
//  StudentID    – unique 8-digit student number.
//  FirstName    – given name.
//  LastName     – family name.
//  Email        – unique, lowercased email address.
//  College      – one of the enumerated college codes.
//  AccountType  – "student" or "technician".
//  PasswordHash – bcrypt hashed password.
//  Bio          – free-text profile blurb.
//  CreatedAt    – timestamp of registration.
//  UpdatedAt    – timestamp of last profile change.
type Account struct {
	ID           uint64    // accounts.id
	StudentID    string    // accounts.student_id
	FirstName    string    // accounts.first_name
	LastName     string    // accounts.last_name
	Email        string    // accounts.email
	College      string    // accounts.college
	AccountType  string    // accounts.account_type
	PasswordHash string    // accounts.password_hash
	Bio          string    // accounts.bio
	CreatedAt    time.Time // accounts.created_at
	UpdatedAt    time.Time // accounts.updated_at
}

// IsTechnician reports whether the account holds the technician role.
func (a Account) IsTechnician() bool { return a.AccountType == AccountTypeTechnician }

// SessionUser is the password-stripped projection of an Account handed
// to clients at login/registration time.  It carries exactly the
// fields the presentation layer needs to render the current identity.
type SessionUser struct {
	ID          uint64 `json:"id"`
	StudentID   string `json:"student_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	College     string `json:"college"`
	AccountType string `json:"account_type"`
	Bio         string `json:"bio"`
}

// Session builds the client-facing projection of the account.
func (a Account) Session() SessionUser {
	return SessionUser{
		ID:          a.ID,
		StudentID:   a.StudentID,
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Email:       a.Email,
		College:     a.College,
		AccountType: a.AccountType,
		Bio:         a.Bio,
	}
}
