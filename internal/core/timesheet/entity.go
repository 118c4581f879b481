package timesheet

import "time"

// Timesheet は社員 1 名の勤務時間帯を表します。
type Timesheet struct {
	ID               int64
	EmployeeID       int64
	StartTime        time.Time
	EndTime          time.Time
	Summary          *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	EmployeeFullName string
}

// Duration は勤務時間の長さを返します。
func (t *Timesheet) Duration() time.Duration {
	return t.EndTime.Sub(t.StartTime)
}
