package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/hr-records/internal/core/employee"
	pgdb "github.com/ogurasousui/hr-records/internal/platform/db/postgres"
)

const (
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

const employeeColumns = `id, full_name, email, phone, date_of_birth, job_title, department, salary,
               start_date, end_date, photo, identity_card, created_at, updated_at`

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員を新規作成します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (full_name, email, phone, date_of_birth, job_title, department, salary,
                               start_date, end_date, photo, identity_card, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING `+employeeColumns,
		e.FullName,
		e.Email,
		e.Phone,
		dateOnly(e.DateOfBirth),
		e.JobTitle,
		e.Department,
		e.Salary,
		dateOnly(e.StartDate),
		nullableDate(e.EndDate),
		e.Photo,
		e.IdentityCard,
		e.CreatedAt,
		e.UpdatedAt,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update は社員情報を全項目置き換えで更新します。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE employees
           SET full_name = $1,
               email = $2,
               phone = $3,
               date_of_birth = $4,
               job_title = $5,
               department = $6,
               salary = $7,
               start_date = $8,
               end_date = $9,
               photo = $10,
               identity_card = $11,
               updated_at = $12
         WHERE id = $13
        RETURNING `+employeeColumns,
		e.FullName,
		e.Email,
		e.Phone,
		dateOnly(e.DateOfBirth),
		e.JobTitle,
		e.Department,
		e.Salary,
		dateOnly(e.StartDate),
		nullableDate(e.EndDate),
		e.Photo,
		e.IdentityCard,
		e.UpdatedAt,
		e.ID,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// List は全社員を新しい順に取得します。絞り込みと並び替えは呼び出し側で行います。
func (r *EmployeeRepository) List(ctx context.Context) ([]*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         ORDER BY id DESC
    `)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		emp          employee.Employee
		dateOfBirth  time.Time
		startDate    time.Time
		endDate      sql.NullTime
		photo        sql.NullString
		identityCard sql.NullString
	)

	if err := row.Scan(
		&emp.ID,
		&emp.FullName,
		&emp.Email,
		&emp.Phone,
		&dateOfBirth,
		&emp.JobTitle,
		&emp.Department,
		&emp.Salary,
		&startDate,
		&endDate,
		&photo,
		&identityCard,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	emp.DateOfBirth = dateOnly(dateOfBirth)
	emp.StartDate = dateOnly(startDate)
	if endDate.Valid {
		end := dateOnly(endDate.Time)
		emp.EndDate = &end
	}
	if photo.Valid {
		emp.Photo = &photo.String
	}
	if identityCard.Valid {
		emp.IdentityCard = &identityCard.String
	}

	return &emp, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == checkViolationCode && pgErr.ConstraintName == "employees_salary_check" {
		return &employee.ValidationError{Fields: employee.FieldErrors{Salary: "Salary must be at least $800."}}
	}

	return err
}

func dateOnly(value time.Time) time.Time {
	t := value.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nullableDate(value *time.Time) any {
	if value == nil {
		return nil
	}
	return dateOnly(*value)
}
