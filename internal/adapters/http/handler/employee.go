package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/hr-records/internal/core/employee"
)

const (
	xlsxContentType      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultMultipartSize = 32 << 20
)

// EmployeeHandler は社員画面の HTTP ハンドラーです。
type EmployeeHandler struct {
	svc            employee.UseCase
	pageSize       int
	maxUploadBytes int64
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(svc employee.UseCase, pageSize int, maxUploadBytes int64) *EmployeeHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMultipartSize
	}
	return &EmployeeHandler{svc: svc, pageSize: pageSize, maxUploadBytes: maxUploadBytes}
}

// List は検索・並び替え・ページ分割した社員一覧を返します。
// GET /employees?q=&sort=&order=&page=
func (h *EmployeeHandler) List(c *gin.Context) {
	page, err := parsePage(c.Query("page"))
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.svc.ListEmployees(c.Request.Context(), employee.ListEmployeesInput{
		Query:     c.Query("q"),
		SortField: c.Query("sort"),
		SortOrder: c.Query("order"),
		Page:      page,
		PageSize:  h.pageSize,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEmployeePageResponse(result))
}

// Export は検索条件に一致する全社員を xlsx で返します。
// GET /employees/export.xlsx?q=&sort=&order=
func (h *EmployeeHandler) Export(c *gin.Context) {
	export, err := h.svc.ExportEmployees(c.Request.Context(), employee.ListEmployeesInput{
		Query:     c.Query("q"),
		SortField: c.Query("sort"),
		SortOrder: c.Query("order"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(export.Filename))
	c.Data(http.StatusOK, xlsxContentType, export.Data)
}

// Get は社員を 1 件返します。
// GET /employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		notFound(c, "Employee not found")
		return
	}

	found, err := h.svc.GetEmployee(c.Request.Context(), employee.GetEmployeeInput{ID: id})
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			notFound(c, "Employee not found")
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEmployeeResponse(found))
}

// Create は社員を登録し、一覧へリダイレクトします。
// POST /employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	fields, photo, identityCard, err := h.readForm(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if _, err := h.svc.CreateEmployee(c.Request.Context(), employee.CreateEmployeeInput{
		Fields:       fields,
		Photo:        photo,
		IdentityCard: identityCard,
	}); err != nil {
		writeError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/employees")
}

// Update は社員を更新し、詳細へリダイレクトします。
// POST /employees/:id/edit
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := parsePathID(c)
	if !ok {
		notFound(c, "Employee not found")
		return
	}

	fields, photo, identityCard, err := h.readForm(c)
	if err != nil {
		writeError(c, err)
		return
	}

	updated, err := h.svc.UpdateEmployee(c.Request.Context(), employee.UpdateEmployeeInput{
		ID:           id,
		Fields:       fields,
		Photo:        photo,
		IdentityCard: identityCard,
	})
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			notFound(c, "Employee not found")
			return
		}
		writeError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/employees/%d", updated.ID))
}

func (h *EmployeeHandler) readForm(c *gin.Context) (employee.Fields, *employee.Upload, *employee.Upload, error) {
	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return employee.Fields{}, nil, nil, formError(err)
	}

	fields := employee.Fields{
		FullName:    c.PostForm("full_name"),
		Email:       c.PostForm("email"),
		Phone:       c.PostForm("phone"),
		DateOfBirth: c.PostForm("date_of_birth"),
		JobTitle:    c.PostForm("job_title"),
		Department:  c.PostForm("department"),
		Salary:      c.PostForm("salary"),
		StartDate:   c.PostForm("start_date"),
		EndDate:     c.PostForm("end_date"),
	}

	photo, err := readUpload(c, "photo")
	if err != nil {
		return employee.Fields{}, nil, nil, err
	}
	identityCard, err := readUpload(c, "identity_card")
	if err != nil {
		return employee.Fields{}, nil, nil, err
	}

	return fields, photo, identityCard, nil
}

// readUpload はファイル項目を読み込みます。送信されていない場合は nil を返します。
func readUpload(c *gin.Context, name string) (*employee.Upload, error) {
	if c.Request.MultipartForm == nil {
		return nil, nil
	}

	header, err := c.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, formError(err)
	}

	data, err := readFileHeader(header)
	if err != nil {
		return nil, formError(err)
	}

	return &employee.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func formError(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) || strings.Contains(err.Error(), "request body too large") {
		return fmt.Errorf("%w: %v", errRequestTooLarge, err)
	}
	return fmt.Errorf("%w: %v", errMalformedForm, err)
}

func parsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("page %q: %w", raw, employee.ErrInvalidPage)
	}
	return page, nil
}

func parsePathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
