package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ferienhaus/kalender-api/internal/core/domain"
)

// BookingRepository is the gorm-backed booking store. Conflict-checking
// mutations run in a SERIALIZABLE transaction so the overlap query and the
// write form one serializable unit. Weaker levels are not enough here: when
// two concurrent inserts overlap each other but no existing row, both
// conflict queries see an empty result and there is no row either could
// lock, so row locks and snapshot isolation both admit the double booking.
// Serializable predicate locking aborts one of the two instead; the aborted
// transaction is retried.
type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// overlapCondition matches every booking whose closed [start_date, end_date]
// interval shares at least one day with [start, end]. Touching endpoints
// match: there is no same-day handover.
const overlapCondition = "start_date <= ? AND end_date >= ?"

// serializationFailure is the Postgres SQLSTATE for "could not serialize
// access"; the transaction is safe to retry as a whole.
const serializationFailure = "40001"

// maxSerializationRetries bounds how often an aborted transaction is rerun.
const maxSerializationRetries = 3

// List returns all bookings ordered by start date, ties broken by id so the
// order is deterministic.
func (r *BookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := r.db.WithContext(ctx).
		Order("start_date asc, id asc").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking %d: %w", id, err)
	}
	return &b, nil
}

// CreateConflictFree inserts b unless an existing booking overlaps its dates.
func (r *BookingRepository) CreateConflictFree(ctx context.Context, b *domain.Booking) error {
	return r.serializable(ctx, func(tx *gorm.DB) error {
		if err := findConflict(tx, b.StartDate, b.EndDate, 0); err != nil {
			return err
		}
		if err := tx.Create(b).Error; err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
}

// UpdateConflictFree replaces the mutable fields of the booking with b.ID.
// The overlap check excludes the booking itself so an update that keeps the
// same dates never conflicts with its own row.
func (r *BookingRepository) UpdateConflictFree(ctx context.Context, b *domain.Booking) error {
	return r.serializable(ctx, func(tx *gorm.DB) error {
		var current domain.Booking
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, b.ID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookingNotFound
			}
			return fmt.Errorf("lock booking %d: %w", b.ID, err)
		}

		if err := findConflict(tx, b.StartDate, b.EndDate, b.ID); err != nil {
			return err
		}

		// id and created_at stay untouched.
		updates := map[string]any{
			"party_id":   b.PartyID,
			"start_date": b.StartDate,
			"end_date":   b.EndDate,
			"note":       b.Note,
		}
		if err := tx.Model(&domain.Booking{}).Where("id = ?", b.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update booking %d: %w", b.ID, err)
		}
		b.CreatedAt = current.CreatedAt
		return nil
	})
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Booking{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete booking %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// serializable runs fn in a SERIALIZABLE transaction, retrying the whole
// transaction when Postgres aborts it with a serialization failure.
func (r *BookingRepository) serializable(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return retrySerialization(func() error {
		return r.db.WithContext(ctx).Transaction(fn, &sql.TxOptions{Isolation: sql.LevelSerializable})
	})
}

// retrySerialization reruns run until it returns anything other than a
// serialization failure, up to maxSerializationRetries reruns.
func retrySerialization(run func() error) error {
	var err error
	for attempt := 0; attempt <= maxSerializationRetries; attempt++ {
		err = run()
		if !isSerializationFailure(err) {
			return err
		}
	}
	return fmt.Errorf("booking transaction kept failing serialization: %w", err)
}

// isSerializationFailure reports whether err is a Postgres serialization
// abort (SQLSTATE 40001), possibly wrapped.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == serializationFailure
}

// findConflict reports any booking overlapping [start, end], excluding
// excludeID when non-zero. Returns domain.ErrBookingConflict on a hit, nil
// when the range is free. Under serializable isolation the empty-result case
// is covered by a predicate lock, so a concurrent overlapping insert aborts
// rather than slipping past the check.
func findConflict(tx *gorm.DB, start, end domain.Date, excludeID int64) error {
	q := tx.Where(overlapCondition, end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var existing domain.Booking
	err := q.Take(&existing).Error
	if err == nil {
		return domain.ErrBookingConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("conflict query: %w", err)
	}
	return nil
}
