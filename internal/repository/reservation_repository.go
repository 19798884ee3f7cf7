package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/seatlab/lab-seat-reservation/internal/catalog"
	"github.com/seatlab/lab-seat-reservation/internal/model"
)

// NoShowGraceWindow is how long after a slot's start a technician may
// clear a no-show walk-in.  Before the slot starts, and once the
// window has passed, the removal is rejected.
const NoShowGraceWindow = 10 * time.Minute

// ReservationRepo owns the reservation lifecycle: creation (self-service
// and walk-in), availability queries, cancellation, no-show removal and
// the completed-status sweep.  It consults the AccountRepo to resolve
// walk-in student identities and to check caller roles, and the static
// catalog for lab geometry.  All timestamps are UTC.
//
// The single-upcoming-reservation invariant is enforced twice: a
// row-locking existence check inside the insert transaction, and the
// unique key over (lab, seat, slot_date, time_slot, active) as the
// final arbiter when two transactions race.  Either path surfaces as
// ErrSeatUnavailable.
type ReservationRepo struct {
	db       *sql.DB
	accounts *AccountRepo
	now      func() time.Time // injectable clock for window and sweep tests
}

// NewReservationRepo returns a ReservationRepo bound to the database
// and the account store.
func NewReservationRepo(db *sql.DB, accounts *AccountRepo) *ReservationRepo {
	return &ReservationRepo{db: db, accounts: accounts, now: time.Now}
}

const reservationColumns = `id, lab, seat, building,
		DATE_FORMAT(slot_date, '%Y-%m-%d'), time_slot, starts_at, status,
		DATE_FORMAT(booked_on, '%Y-%m-%d'), anonymous, user_email,
		user_student_id, user_name, is_walk_in, created_by, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (model.Reservation, error) {
	var (
		res       model.Reservation
		studentID sql.NullString
		createdBy sql.NullString
	)
	err := row.Scan(&res.ID, &res.Lab, &res.Seat, &res.Building,
		&res.SlotDate, &res.TimeSlot, &res.StartsAt, &res.Status,
		&res.BookedOn, &res.Anonymous, &res.UserEmail,
		&studentID, &res.UserName, &res.IsWalkIn, &createdBy,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return model.Reservation{}, err
	}
	res.UserStudentID = studentID.String
	res.CreatedBy = createdBy.String
	res.StartsAt = res.StartsAt.UTC()
	return res, nil
}

// CreateInput carries a self-service booking request.  The caller's
// identity comes from the session; everything else from the form.
type CreateInput struct {
	UserEmail     string
	UserName      string
	UserStudentID string
	Lab           string
	Seat          string
	Date          string // "2006-01-02"
	Slot          string // slot label, e.g. "09:00"
	Anonymous     bool
}

// Create books a seat for a logged-in student.  The lab resolves
// through the catalog (unknown codes fall back to the default lab),
// the seat must be on that lab's grid and the date/slot must be
// structurally valid.  Baseline-busy seats and seats with a live
// upcoming reservation fail with ErrSeatUnavailable.  The insert is
// atomic: a failed attempt leaves no partial row behind.
func (r *ReservationRepo) Create(ctx context.Context, in CreateInput) (model.Reservation, error) {
	lab := catalog.LabByCode(in.Lab)
	if !catalog.ValidSeat(lab, in.Seat) {
		return model.Reservation{}, fmt.Errorf("%w: seat %q is not on the %s grid", ErrValidation, in.Seat, lab.Code)
	}
	startsAt, err := catalog.SlotStart(in.Date, in.Slot)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if lab.BaselineOccupied[in.Seat] || lab.BaselineReserved[in.Seat] {
		return model.Reservation{}, ErrSeatUnavailable
	}

	res := model.Reservation{
		ID:            uuid.NewString(),
		Lab:           lab.Code,
		Seat:          in.Seat,
		Building:      lab.Building,
		SlotDate:      in.Date,
		TimeSlot:      in.Slot,
		StartsAt:      startsAt,
		Status:        model.StatusUpcoming,
		BookedOn:      r.now().UTC().Format("2006-01-02"),
		Anonymous:     in.Anonymous,
		UserEmail:     strings.ToLower(strings.TrimSpace(in.UserEmail)),
		UserStudentID: in.UserStudentID,
		UserName:      in.UserName,
	}
	if err := r.insert(ctx, &res); err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

// WalkInInput carries a technician's booking on behalf of a student.
type WalkInInput struct {
	TechnicianEmail string
	StudentID       string
	Lab             string
	Seat            string
	Date            string
	Slot            string
}

// CreateWalkIn books a seat on behalf of a (possibly unregistered)
// student.  The caller must hold the technician role.  A registered
// student number resolves to that account's identity; otherwise a
// synthetic walk-in identity is attached so the booking still has an
// owner on record.
func (r *ReservationRepo) CreateWalkIn(ctx context.Context, in WalkInInput) (model.Reservation, error) {
	tech, err := r.accounts.GetByEmail(ctx, in.TechnicianEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Reservation{}, ErrForbidden
		}
		return model.Reservation{}, err
	}
	if !tech.IsTechnician() {
		return model.Reservation{}, ErrForbidden
	}
	if !ValidStudentID(in.StudentID) {
		return model.Reservation{}, ErrInvalidStudentID
	}
	if !catalog.ValidSeatLabel(in.Seat) {
		return model.Reservation{}, ErrInvalidSeatFormat
	}

	lab := catalog.LabByCode(in.Lab)
	if !catalog.ValidSeat(lab, in.Seat) {
		return model.Reservation{}, fmt.Errorf("%w: seat %q is not on the %s grid", ErrValidation, in.Seat, lab.Code)
	}
	startsAt, err := catalog.SlotStart(in.Date, in.Slot)
	if err != nil {
		return model.Reservation{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	today := r.now().UTC().Format("2006-01-02")
	if in.Date < today {
		return model.Reservation{}, ErrPastDate
	}
	if lab.BaselineOccupied[in.Seat] || lab.BaselineReserved[in.Seat] {
		return model.Reservation{}, ErrSeatUnavailable
	}

	// Resolve the student's identity.  Unregistered students get a
	// synthetic email so the reservation still has an owner key.
	email := fmt.Sprintf("walkin-%s@walkin.local", in.StudentID)
	name := "Walk-in Student"
	if acct, err := r.accounts.GetByStudentID(ctx, in.StudentID); err == nil {
		email = acct.Email
		name = acct.FirstName + " " + acct.LastName
	} else if !errors.Is(err, ErrNotFound) {
		return model.Reservation{}, err
	}

	res := model.Reservation{
		ID:            uuid.NewString(),
		Lab:           lab.Code,
		Seat:          in.Seat,
		Building:      lab.Building,
		SlotDate:      in.Date,
		TimeSlot:      in.Slot,
		StartsAt:      startsAt,
		Status:        model.StatusUpcoming,
		BookedOn:      today,
		UserEmail:     email,
		UserStudentID: in.StudentID,
		UserName:      name,
		IsWalkIn:      true,
		CreatedBy:     tech.Email,
	}
	if err := r.insert(ctx, &res); err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

// insert writes a new upcoming reservation inside a transaction.  The
// locking existence check serializes two create attempts for the same
// tuple; if both still reach the INSERT, the unique key rejects the
// loser and the 1062 is reported as ErrSeatUnavailable.
func (r *ReservationRepo) insert(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM reservations
		 WHERE lab=? AND seat=? AND slot_date=? AND time_slot=? AND active=1
		 LIMIT 1 FOR UPDATE`,
		res.Lab, res.Seat, res.SlotDate, res.TimeSlot).Scan(&existing)
	if err == nil {
		return ErrSeatUnavailable
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var studentID interface{}
	if res.UserStudentID != "" {
		studentID = res.UserStudentID
	}
	var createdBy interface{}
	if res.CreatedBy != "" {
		createdBy = res.CreatedBy
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO reservations
		 (id, lab, seat, building, slot_date, time_slot, starts_at, status, active,
		  booked_on, anonymous, user_email, user_student_id, user_name, is_walk_in, created_by)
		 VALUES (?,?,?,?,?,?,?,?,1,?,?,?,?,?,?,?)`,
		res.ID, res.Lab, res.Seat, res.Building, res.SlotDate, res.TimeSlot,
		res.StartsAt, res.Status, res.BookedOn, res.Anonymous, res.UserEmail,
		studentID, res.UserName, res.IsWalkIn, createdBy)
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") || strings.Contains(msg, "duplicate entry") {
			return ErrSeatUnavailable
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	now := r.now().UTC()
	res.CreatedAt = now
	res.UpdatedAt = now
	return nil
}

// ListForUser returns the user's reservations newest-first.
func (r *ReservationRepo) ListForUser(ctx context.Context, email string) ([]model.Reservation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE user_email=? ORDER BY created_at DESC, id DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows, "")
}

// ListAll returns every reservation across all users, newest-first.
// Anonymous rows are masked for any viewer other than their owner:
// the technician sees that a seat is taken, not by whom.
func (r *ReservationRepo) ListAll(ctx context.Context, viewerEmail string) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows, strings.ToLower(strings.TrimSpace(viewerEmail)))
}

// collectReservations drains rows, masking anonymous entries against
// viewerEmail when it is non-empty and differs from the owner.
func collectReservations(rows *sql.Rows, viewerEmail string) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		if viewerEmail != "" {
			res = res.MaskForViewer(viewerEmail)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Availability partitions every seat of the lab grid into exactly one
// of available / occupied / reserved for the given date and slot.
// Occupied comes from the lab's baseline-occupied set; reserved from
// the baseline-reserved set unioned with live upcoming reservations.
func (r *ReservationRepo) Availability(ctx context.Context, labCode, date, slot string) (map[string]string, error) {
	lab := catalog.LabByCode(labCode)
	if _, err := catalog.SlotStart(date, slot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT seat FROM reservations
		 WHERE lab=? AND slot_date=? AND time_slot=? AND active=1`,
		lab.Code, date, slot)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	booked := make(map[string]bool)
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, err
		}
		booked[seat] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	states := make(map[string]string, lab.TotalSeats)
	for _, seat := range catalog.SeatIDs(lab) {
		switch {
		case lab.BaselineOccupied[seat]:
			states[seat] = model.SeatOccupied
		case lab.BaselineReserved[seat] || booked[seat]:
			states[seat] = model.SeatReserved
		default:
			states[seat] = model.SeatAvailable
		}
	}
	return states, nil
}

// GetByID fetches a single reservation, masked for the viewer.
func (r *ReservationRepo) GetByID(ctx context.Context, id, viewerEmail string) (model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}
	return res.MaskForViewer(strings.ToLower(strings.TrimSpace(viewerEmail))), nil
}

// Cancel transitions an upcoming reservation to cancelled and frees
// its seat.  Only the owning student or a technician may cancel; a
// terminal reservation fails with ErrInvalidState.
func (r *ReservationRepo) Cancel(ctx context.Context, id, byEmail string) (model.Reservation, error) {
	byEmail = strings.ToLower(strings.TrimSpace(byEmail))
	caller, err := r.accounts.GetByEmail(ctx, byEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// A live token for a deleted account carries no rights.
			return model.Reservation{}, ErrForbidden
		}
		return model.Reservation{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Reservation{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id=? LIMIT 1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}
	if res.UserEmail != byEmail && !caller.IsTechnician() {
		return model.Reservation{}, ErrForbidden
	}
	if res.Status != model.StatusUpcoming {
		return model.Reservation{}, ErrInvalidState
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status=?, active=NULL WHERE id=?`,
		model.StatusCancelled, id); err != nil {
		return model.Reservation{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Reservation{}, err
	}
	committed = true
	res.Status = model.StatusCancelled
	res.UpdatedAt = r.now().UTC()
	return res, nil
}

// RemoveNoShow lets a technician clear a no-show booking.  The removal
// is only permitted while the current time sits inside the grace
// window after the slot's start; before the slot begins, and once the
// window has elapsed, the call fails with ErrNotYetEligible and the
// reservation stays upcoming.  On success the reservation is cancelled
// and its seat drops out of the reserved set.
func (r *ReservationRepo) RemoveNoShow(ctx context.Context, id, byEmail string) error {
	byEmail = strings.ToLower(strings.TrimSpace(byEmail))
	caller, err := r.accounts.GetByEmail(ctx, byEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrForbidden
		}
		return err
	}
	if !caller.IsTechnician() {
		return ErrForbidden
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id=? LIMIT 1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if res.Status != model.StatusUpcoming {
		return ErrInvalidState
	}
	now := r.now().UTC()
	if now.Before(res.StartsAt) || now.After(res.StartsAt.Add(NoShowGraceWindow)) {
		return ErrNotYetEligible
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status=?, active=NULL WHERE id=?`,
		model.StatusCancelled, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// RebookHint extracts the lab and seat of a prior reservation so the
// caller can pre-fill a fresh booking form.  Pure read, no state
// change; the new booking goes through Create like any other.
func (r *ReservationRepo) RebookHint(ctx context.Context, id string) (lab, seat string, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT lab, seat FROM reservations WHERE id=? LIMIT 1`, id).Scan(&lab, &seat)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return lab, seat, err
}

// SweepCompleted flips every upcoming reservation whose slot has fully
// elapsed to completed, returning how many rows changed.  Run
// periodically by the background sweeper.
func (r *ReservationRepo) SweepCompleted(ctx context.Context) (int64, error) {
	cutoff := r.now().UTC().Add(-catalog.SlotDuration)
	res, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET status=?, active=NULL
		 WHERE status=? AND starts_at <= ?`,
		model.StatusCompleted, model.StatusUpcoming, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
