package handler

import (
	"time"

	"github.com/ogurasousui/hr-records/internal/core/employee"
	"github.com/ogurasousui/hr-records/internal/core/timesheet"
)

const dateLayout = "2006-01-02"

type employeeResponse struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	DateOfBirth  string    `json:"date_of_birth"`
	JobTitle     string    `json:"job_title"`
	Department   string    `json:"department"`
	Salary       float64   `json:"salary"`
	StartDate    string    `json:"start_date"`
	EndDate      *string   `json:"end_date"`
	Photo        *string   `json:"photo"`
	IdentityCard *string   `json:"identity_card"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type employeePageResponse struct {
	Items      []employeeResponse `json:"items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalItems int                `json:"total_items"`
	TotalPages int                `json:"total_pages"`
}

type timesheetResponse struct {
	ID               int64     `json:"id"`
	EmployeeID       int64     `json:"employee_id"`
	EmployeeFullName string    `json:"employee_full_name"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Hours            float64   `json:"hours"`
	Summary          *string   `json:"summary"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toEmployeeResponse(e *employee.Employee) employeeResponse {
	resp := employeeResponse{
		ID:           e.ID,
		FullName:     e.FullName,
		Email:        e.Email,
		Phone:        e.Phone,
		DateOfBirth:  e.DateOfBirth.Format(dateLayout),
		JobTitle:     e.JobTitle,
		Department:   e.Department,
		Salary:       e.Salary,
		StartDate:    e.StartDate.Format(dateLayout),
		Photo:        e.Photo,
		IdentityCard: e.IdentityCard,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.EndDate != nil {
		end := e.EndDate.Format(dateLayout)
		resp.EndDate = &end
	}
	return resp
}

func toEmployeePageResponse(page *employee.ListPage) employeePageResponse {
	items := make([]employeeResponse, 0, len(page.Items))
	for _, emp := range page.Items {
		items = append(items, toEmployeeResponse(emp))
	}
	return employeePageResponse{
		Items:      items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}
}

func toTimesheetResponse(t *timesheet.Timesheet) timesheetResponse {
	return timesheetResponse{
		ID:               t.ID,
		EmployeeID:       t.EmployeeID,
		EmployeeFullName: t.EmployeeFullName,
		StartTime:        t.StartTime,
		EndTime:          t.EndTime,
		Hours:            t.Duration().Hours(),
		Summary:          t.Summary,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func toTimesheetResponses(entries []*timesheet.Timesheet) []timesheetResponse {
	out := make([]timesheetResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toTimesheetResponse(entry))
	}
	return out
}
