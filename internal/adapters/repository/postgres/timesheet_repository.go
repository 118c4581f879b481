package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/hr-records/internal/core/timesheet"
	pgdb "github.com/ogurasousui/hr-records/internal/platform/db/postgres"
)

const timesheetEmployeeForeignKey = "timesheets_employee_id_fkey"

// TimesheetRepository は PostgreSQL を利用した勤務記録永続化の実装です。
type TimesheetRepository struct {
	pool pgdb.Queryer
}

// NewTimesheetRepository は TimesheetRepository を生成します。
func NewTimesheetRepository(pool pgdb.Queryer) *TimesheetRepository {
	return &TimesheetRepository{pool: pool}
}

// Create は勤務記録を新規作成し、社員名を結合した結果を返します。
func (r *TimesheetRepository) Create(ctx context.Context, t *timesheet.Timesheet) (*timesheet.Timesheet, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH inserted AS (
            INSERT INTO timesheets (employee_id, start_time, end_time, summary, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6)
            RETURNING id, employee_id, start_time, end_time, summary, created_at, updated_at
        )
        SELECT i.id, i.employee_id, i.start_time, i.end_time, i.summary, i.created_at, i.updated_at, e.full_name
          FROM inserted i
          JOIN employees e ON e.id = i.employee_id
    `,
		t.EmployeeID,
		t.StartTime.UTC(),
		t.EndTime.UTC(),
		t.Summary,
		t.CreatedAt,
		t.UpdatedAt,
	)

	created, err := scanTimesheet(row)
	if err != nil {
		return nil, translateTimesheetPgError(err)
	}
	return created, nil
}

// Update は勤務記録を置き換えます。
func (r *TimesheetRepository) Update(ctx context.Context, t *timesheet.Timesheet) (*timesheet.Timesheet, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH updated AS (
            UPDATE timesheets
               SET employee_id = $1,
                   start_time = $2,
                   end_time = $3,
                   summary = $4,
                   updated_at = $5
             WHERE id = $6
            RETURNING id, employee_id, start_time, end_time, summary, created_at, updated_at
        )
        SELECT u.id, u.employee_id, u.start_time, u.end_time, u.summary, u.created_at, u.updated_at, e.full_name
          FROM updated u
          JOIN employees e ON e.id = u.employee_id
    `,
		t.EmployeeID,
		t.StartTime.UTC(),
		t.EndTime.UTC(),
		t.Summary,
		t.UpdatedAt,
		t.ID,
	)

	updated, err := scanTimesheet(row)
	if err != nil {
		return nil, translateTimesheetPgError(err)
	}
	return updated, nil
}

// Delete は ID で勤務記録を削除します。該当行がなくてもエラーにしません。
func (r *TimesheetRepository) Delete(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	if _, err := exec.Exec(ctx, `DELETE FROM timesheets WHERE id = $1`, id); err != nil {
		return translateTimesheetPgError(err)
	}
	return nil
}

// FindByID は ID で勤務記録を取得します。
func (r *TimesheetRepository) FindByID(ctx context.Context, id int64) (*timesheet.Timesheet, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT t.id, t.employee_id, t.start_time, t.end_time, t.summary, t.created_at, t.updated_at, e.full_name
          FROM timesheets t
          JOIN employees e ON e.id = t.employee_id
         WHERE t.id = $1
         LIMIT 1
    `, id)

	found, err := scanTimesheet(row)
	if err != nil {
		return nil, translateTimesheetPgError(err)
	}
	return found, nil
}

// List は全勤務記録を開始時刻順に取得します。
func (r *TimesheetRepository) List(ctx context.Context) ([]*timesheet.Timesheet, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT t.id, t.employee_id, t.start_time, t.end_time, t.summary, t.created_at, t.updated_at, e.full_name
          FROM timesheets t
          JOIN employees e ON e.id = t.employee_id
         ORDER BY t.start_time, t.id
    `)
	if err != nil {
		return nil, translateTimesheetPgError(err)
	}
	defer rows.Close()

	entries := make([]*timesheet.Timesheet, 0)
	for rows.Next() {
		entry, err := scanTimesheet(rows)
		if err != nil {
			return nil, translateTimesheetPgError(err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, translateTimesheetPgError(err)
	}

	return entries, nil
}

// EmployeeExists は社員が存在するかを確認します。
func (r *TimesheetRepository) EmployeeExists(ctx context.Context, employeeID int64) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var exists bool
	if err := exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)`, employeeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanTimesheet(row pgx.Row) (*timesheet.Timesheet, error) {
	var (
		entry   timesheet.Timesheet
		summary sql.NullString
	)

	if err := row.Scan(
		&entry.ID,
		&entry.EmployeeID,
		&entry.StartTime,
		&entry.EndTime,
		&summary,
		&entry.CreatedAt,
		&entry.UpdatedAt,
		&entry.EmployeeFullName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, timesheet.ErrTimesheetNotFound
		}
		return nil, err
	}

	entry.StartTime = entry.StartTime.UTC()
	entry.EndTime = entry.EndTime.UTC()
	if summary.Valid {
		entry.Summary = &summary.String
	}

	return &entry, nil
}

func translateTimesheetPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return timesheet.ErrTimesheetNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolationCode:
			if pgErr.ConstraintName == timesheetEmployeeForeignKey {
				return timesheet.ErrEmployeeNotFound
			}
		case checkViolationCode:
			return &timesheet.ValidationError{Fields: timesheet.FieldErrors{Time: "End time should be greater than Start Time"}}
		}
	}

	return err
}
