package handler

import (
	"github.com/ogurasousui/hr-records/internal/core/employee"
	"github.com/ogurasousui/hr-records/internal/core/timesheet"
)

// Handler は HTTP ハンドラーをまとめます。
type Handler struct {
	Employee  *EmployeeHandler
	Timesheet *TimesheetHandler
}

// New は Handler を生成します。pageSize は社員一覧 1 ページの件数です。
func New(employees employee.UseCase, timesheets timesheet.UseCase, pageSize int, maxUploadBytes int64) *Handler {
	return &Handler{
		Employee:  NewEmployeeHandler(employees, pageSize, maxUploadBytes),
		Timesheet: NewTimesheetHandler(timesheets),
	}
}
