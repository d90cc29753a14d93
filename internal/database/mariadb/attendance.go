package mariadb

import (
	"context"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
)

// AttendanceRepository is the MariaDB attendance ledger.
type AttendanceRepository struct {
	pool *Pool
	now  func() time.Time
}

// NewAttendanceRepository creates a new MariaDB attendance repository
func NewAttendanceRepository(pool *Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool, now: time.Now}
}

// WithClock replaces the clock used to stamp records.
func (r *AttendanceRepository) WithClock(now func() time.Time) *AttendanceRepository {
	r.now = now
	return r
}

// Record appends an attendance record stamped with the current instant.
func (r *AttendanceRepository) Record(ctx context.Context, personID string) (database.AttendanceRecord, error) {
	rec := database.AttendanceRecord{
		PersonID: personID,
		Time:     r.now().UTC().Truncate(time.Microsecond),
	}
	if _, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO attendance (person_id, time) VALUES (?, ?)`, rec.PersonID, rec.Time); err != nil {
		return database.AttendanceRecord{}, database.PersistenceError("record attendance for "+personID, err)
	}
	return rec, nil
}

// History returns the newest records for a person
func (r *AttendanceRepository) History(ctx context.Context, personID string, limit int) ([]database.AttendanceRecord, error) {
	if limit <= 0 || limit > constants.MaxHistoryLimit {
		limit = constants.DefaultHistoryLimit
	}

	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT person_id, time FROM attendance WHERE person_id = ? ORDER BY time DESC LIMIT ?`,
		personID, limit)
	if err != nil {
		return nil, database.PersistenceError("attendance history for "+personID, err)
	}
	defer rows.Close()

	var records []database.AttendanceRecord
	for rows.Next() {
		var rec database.AttendanceRecord
		if err := rows.Scan(&rec.PersonID, &rec.Time); err != nil {
			return nil, database.PersistenceError("scan attendance", err)
		}
		rec.Time = rec.Time.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, database.PersistenceError("iterate attendance", err)
	}
	return records, nil
}

// CountForPerson returns the number of records for a person
func (r *AttendanceRepository) CountForPerson(ctx context.Context, personID string) (int, error) {
	var count int
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendance WHERE person_id = ?`, personID).Scan(&count)
	if err != nil {
		return 0, database.PersistenceError("count attendance for "+personID, err)
	}
	return count, nil
}
