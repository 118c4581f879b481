package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ogurasousui/hr-records/internal/adapters/http/handler"
	"github.com/ogurasousui/hr-records/internal/adapters/http/middleware"
	"github.com/ogurasousui/hr-records/internal/core/employee"
	"github.com/ogurasousui/hr-records/internal/core/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryEmployees struct {
	rows []*employee.Employee
}

func (m *memoryEmployees) Create(_ context.Context, e *employee.Employee) (*employee.Employee, error) {
	copy := *e
	copy.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, &copy)
	return &copy, nil
}

func (m *memoryEmployees) Update(_ context.Context, e *employee.Employee) (*employee.Employee, error) {
	for i, row := range m.rows {
		if row.ID == e.ID {
			copy := *e
			m.rows[i] = &copy
			return &copy, nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

func (m *memoryEmployees) FindByID(_ context.Context, id int64) (*employee.Employee, error) {
	for _, row := range m.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

func (m *memoryEmployees) List(_ context.Context) ([]*employee.Employee, error) {
	return m.rows, nil
}

type noFiles struct{}

func (noFiles) Save(_ context.Context, key, _ string, _ []byte) (string, error) {
	return "/uploads/" + key, nil
}

type noTimesheets struct{}

func (noTimesheets) Create(context.Context, *timesheet.Timesheet) (*timesheet.Timesheet, error) {
	return nil, timesheet.ErrEmployeeNotFound
}
func (noTimesheets) Update(context.Context, *timesheet.Timesheet) (*timesheet.Timesheet, error) {
	return nil, timesheet.ErrTimesheetNotFound
}
func (noTimesheets) Delete(context.Context, int64) error { return nil }
func (noTimesheets) FindByID(context.Context, int64) (*timesheet.Timesheet, error) {
	return nil, timesheet.ErrTimesheetNotFound
}
func (noTimesheets) List(context.Context) ([]*timesheet.Timesheet, error) { return nil, nil }
func (noTimesheets) EmployeeExists(context.Context, int64) (bool, error) { return false, nil }

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC) }

func newTestRouter(t *testing.T, opts Options) (http.Handler, *memoryEmployees) {
	t.Helper()

	employees := &memoryEmployees{}
	h := handler.New(
		employee.NewService(employees, noFiles{}, fixedClock{}, nil),
		timesheet.NewService(noTimesheets{}, fixedClock{}, nil),
		5,
		1<<20,
	)
	return Setup(opts, h, zap.NewNop()), employees
}

func TestSetup_HealthAndRequestID(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, Options{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSetup_EmployeeFlow(t *testing.T) {
	t.Parallel()

	r, employees := newTestRouter(t, Options{})

	form := url.Values{
		"full_name":     {"Jane Doe"},
		"email":         {"jane@x.com"},
		"phone":         {"70102030"},
		"date_of_birth": {"2000-01-01"},
		"job_title":     {"Dev"},
		"department":    {"IT"},
		"salary":        {"1000"},
		"start_date":    {"2024-01-01"},
	}
	req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Len(t, employees.rows, 1)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/export.xlsx", nil))
	assert.Equal(t, http.StatusOK, w.Code, "static export route must win over :id")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"full_name":"Jane Doe"`)
}

func TestSetup_EmployeeListHugePageIsEmpty(t *testing.T) {
	t.Parallel()

	r, employees := newTestRouter(t, Options{})
	employees.rows = append(employees.rows, &employee.Employee{ID: 1, FullName: "John Doe"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees?page=2305843009213693953", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)
	assert.Contains(t, w.Body.String(), `"total_pages":1`)
}

func TestSetup_TimesheetDeleteWithoutID(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/timesheets/delete", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetup_RateLimitAppliesToMutations(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, Options{RateLimiter: middleware.NewRateLimiter(0.001, 1)})

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/timesheets/delete", strings.NewReader("timesheetId=1"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusSeeOther, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/timesheets", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestSetup_ServesUploads(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1739088000000_id.pdf"), []byte("%PDF-1.4"), 0o644))

	r, _ := newTestRouter(t, Options{UploadsDir: dir, UploadsPrefix: "/uploads"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/1739088000000_id.pdf", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.4", w.Body.String())
}
