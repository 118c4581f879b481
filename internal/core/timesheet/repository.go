package timesheet

import "context"

// Repository は勤務記録永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, timesheet *Timesheet) (*Timesheet, error)
	Update(ctx context.Context, timesheet *Timesheet) (*Timesheet, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Timesheet, error)
	List(ctx context.Context) ([]*Timesheet, error)
	EmployeeExists(ctx context.Context, employeeID int64) (bool, error)
}
