package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, user_id, user_type, date,
	check_in_time, check_in_location, check_in_ip, check_in_device,
	check_out_time, check_out_location, check_out_ip, check_out_device,
	re_check_in_time, re_check_in_location, re_check_in_ip, re_check_in_device,
	re_check_out_time, re_check_out_location, re_check_out_ip, re_check_out_device,
	first_session_hours, second_session_hours, total_hours, status,
	check_in_count, is_late, late_minutes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// eventColumns holds the nullable columns of one session event.
type eventColumns struct {
	time     *time.Time
	location *string
	ip       *string
	device   *string
}

func (c eventColumns) event() *attendance.SessionEvent {
	if c.time == nil {
		return nil
	}
	e := &attendance.SessionEvent{Time: *c.time, IPAddress: c.ip, DeviceInfo: c.device}
	if c.location != nil {
		e.Location = *c.location
	}
	return e
}

func eventArgs(e *attendance.SessionEvent) []any {
	if e == nil {
		return []any{nil, nil, nil, nil}
	}
	return []any{e.Time, e.Location, e.IPAddress, e.DeviceInfo}
}

func scanAttendance(row rowScanner) (attendance.Record, error) {
	var (
		rec                  attendance.Record
		userType, status     string
		in, out, reIn, reOut eventColumns
	)
	err := row.Scan(
		&rec.ID, &rec.User.ID, &userType, &rec.Date,
		&in.time, &in.location, &in.ip, &in.device,
		&out.time, &out.location, &out.ip, &out.device,
		&reIn.time, &reIn.location, &reIn.ip, &reIn.device,
		&reOut.time, &reOut.location, &reOut.ip, &reOut.device,
		&rec.FirstSessionHours, &rec.SecondSessionHours, &rec.TotalHours, &status,
		&rec.CheckInCount, &rec.IsLate, &rec.LateMinutes, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}

	rec.User.Type = user.UserType(userType)
	rec.Status = attendance.Status(status)
	rec.CheckIn = in.event()
	rec.CheckOut = out.event()
	rec.ReCheckIn = reIn.event()
	rec.ReCheckOut = reOut.event()
	rec.Date = rec.Date.UTC()
	return rec, nil
}

// GetForUpdate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetForUpdate(ctx context.Context, ref user.Ref, date time.Time) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = $1 AND user_type = $2 AND date = $3
		FOR UPDATE
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, ref.ID, string(ref.Type), date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to lock attendance: %w", err)
	}
	return rec, nil
}

// Insert implements attendance.AttendanceRepository.
func (a *attendanceRepository) Insert(ctx context.Context, rec attendance.Record) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (` + attendanceColumns + `)
		VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12,
			$13, $14, $15, $16,
			$17, $18, $19, $20,
			$21, $22, $23, $24,
			$25, $26, $27, $28, $29
		)
		ON CONFLICT (user_id, user_type, date) DO NOTHING
	`

	args := []any{rec.ID, rec.User.ID, string(rec.User.Type), rec.Date}
	args = append(args, eventArgs(rec.CheckIn)...)
	args = append(args, eventArgs(rec.CheckOut)...)
	args = append(args, eventArgs(rec.ReCheckIn)...)
	args = append(args, eventArgs(rec.ReCheckOut)...)
	args = append(args,
		rec.FirstSessionHours, rec.SecondSessionHours, rec.TotalHours, string(rec.Status),
		rec.CheckInCount, rec.IsLate, rec.LateMinutes, rec.CreatedAt, rec.UpdatedAt,
	)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to insert attendance: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, rec attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			check_in_time = $2, check_in_location = $3, check_in_ip = $4, check_in_device = $5,
			check_out_time = $6, check_out_location = $7, check_out_ip = $8, check_out_device = $9,
			re_check_in_time = $10, re_check_in_location = $11, re_check_in_ip = $12, re_check_in_device = $13,
			re_check_out_time = $14, re_check_out_location = $15, re_check_out_ip = $16, re_check_out_device = $17,
			first_session_hours = $18, second_session_hours = $19, total_hours = $20, status = $21,
			check_in_count = $22, is_late = $23, late_minutes = $24, updated_at = $25
		WHERE id = $1
	`

	args := []any{rec.ID}
	args = append(args, eventArgs(rec.CheckIn)...)
	args = append(args, eventArgs(rec.CheckOut)...)
	args = append(args, eventArgs(rec.ReCheckIn)...)
	args = append(args, eventArgs(rec.ReCheckOut)...)
	args = append(args,
		rec.FirstSessionHours, rec.SecondSessionHours, rec.TotalHours, string(rec.Status),
		rec.CheckInCount, rec.IsLate, rec.LateMinutes, rec.UpdatedAt,
	)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rec, err := scanAttendance(q.QueryRow(ctx, `SELECT `+attendanceColumns+` FROM attendances WHERE id = $1`, id))
	if err != nil {
		if isMissingRow(err) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}
	return rec, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, ref user.Ref, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = $1 AND user_type = $2 AND date = $3
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, ref.ID, string(ref.Type), date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}
	return &rec, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, lq attendance.ListQuery) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseQuery := " FROM attendances WHERE 1=1"
	args := []any{}
	argIdx := 1

	if lq.UserID != nil {
		baseQuery += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, *lq.UserID)
		argIdx++
	}
	if lq.UserType != nil {
		baseQuery += fmt.Sprintf(" AND user_type = $%d", argIdx)
		args = append(args, string(*lq.UserType))
		argIdx++
	}
	if lq.Status != nil {
		baseQuery += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(*lq.Status))
		argIdx++
	}
	if lq.From != nil {
		baseQuery += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *lq.From)
		argIdx++
	}
	if lq.To != nil {
		baseQuery += fmt.Sprintf(" AND date < $%d", argIdx)
		args = append(args, *lq.To)
		argIdx++
	}

	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	sortOrder := "DESC"
	if lq.Asc {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`SELECT %s%s ORDER BY date %s, created_at %s LIMIT $%d OFFSET $%d`,
		attendanceColumns, baseQuery, sortOrder, sortOrder, argIdx, argIdx+1)
	args = append(args, lq.Limit, lq.Offset)

	records, err := a.query(ctx, q, selectQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	return records, totalCount, nil
}

// ListInRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListInRange(ctx context.Context, ref user.Ref, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = $1 AND user_type = $2 AND date >= $3 AND date < $4
		ORDER BY date ASC
	`
	return a.query(ctx, q, query, ref.ID, string(ref.Type), from, to)
}

func (a *attendanceRepository) query(ctx context.Context, q database.Querier, query string, args ...any) ([]attendance.Record, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return records, nil
}

// MarkAbsent implements attendance.AttendanceRepository.
func (a *attendanceRepository) MarkAbsent(ctx context.Context, refs []user.Ref, date time.Time) (int, error) {
	if len(refs) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, a.db)

	ids := make([]string, len(refs))
	userIDs := make([]string, len(refs))
	userTypes := make([]string, len(refs))
	for i, ref := range refs {
		id, err := uuid.NewV7()
		if err != nil {
			return 0, fmt.Errorf("failed to generate attendance id: %w", err)
		}
		ids[i] = id.String()
		userIDs[i] = ref.ID
		userTypes[i] = string(ref.Type)
	}

	query := `
		INSERT INTO attendances (id, user_id, user_type, date, status, total_hours, check_in_count)
		SELECT t.id::uuid, t.user_id::uuid, t.user_type, $4::timestamptz, 'absent', 0, 0
		FROM unnest($1::text[], $2::text[], $3::text[]) AS t(id, user_id, user_type)
		ON CONFLICT (user_id, user_type, date) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, ids, userIDs, userTypes, date)
	if err != nil {
		return 0, fmt.Errorf("failed to mark absences: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// MarkLeave implements attendance.AttendanceRepository.
func (a *attendanceRepository) MarkLeave(ctx context.Context, ref user.Ref, days []time.Time) (int, error) {
	if len(days) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, a.db)

	ids := make([]string, len(days))
	for i := range days {
		id, err := uuid.NewV7()
		if err != nil {
			return 0, fmt.Errorf("failed to generate attendance id: %w", err)
		}
		ids[i] = id.String()
	}

	query := `
		INSERT INTO attendances (id, user_id, user_type, date, status, total_hours, check_in_count)
		SELECT t.id::uuid, $3::uuid, $4::varchar, t.date, 'leave', 0, 0
		FROM unnest($1::text[], $2::timestamptz[]) AS t(id, date)
		ON CONFLICT (user_id, user_type, date) DO UPDATE
			SET status = 'leave', is_late = FALSE, late_minutes = 0, updated_at = NOW()
			WHERE attendances.check_in_time IS NULL AND attendances.status = 'absent'
	`

	tag, err := q.Exec(ctx, query, ids, days, ref.ID, string(ref.Type))
	if err != nil {
		return 0, fmt.Errorf("failed to mark leave: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
