package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/hr-records/internal/core/employee"
	"github.com/ogurasousui/hr-records/internal/core/timesheet"
)

var (
	errRequestTooLarge = errors.New("request body too large")
	errMalformedForm   = errors.New("malformed form")
	errInvalidFilter   = errors.New("invalid filter")
)

// toHTTPStatus はドメインエラーを HTTP ステータスに変換します。
func toHTTPStatus(err error) int {
	var (
		empValidation *employee.ValidationError
		tsValidation  *timesheet.ValidationError
		maxBytes      *http.MaxBytesError
	)

	switch {
	case errors.As(err, &empValidation), errors.As(err, &tsValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errRequestTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, timesheet.ErrTimesheetNotFound):
		return http.StatusNotFound
	case errors.Is(err, errMalformedForm),
		errors.Is(err, errInvalidFilter),
		errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidSortField),
		errors.Is(err, employee.ErrInvalidSortOrder),
		errors.Is(err, employee.ErrInvalidPage),
		errors.Is(err, timesheet.ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError はエラーを JSON で返します。検証エラーは項目ごとのメッセージを errors に入れます。
func writeError(c *gin.Context, err error) {
	status := toHTTPStatus(err)

	var (
		empValidation *employee.ValidationError
		tsValidation  *timesheet.ValidationError
	)
	switch {
	case errors.As(err, &empValidation):
		c.JSON(status, gin.H{"errors": empValidation.Fields})
	case errors.As(err, &tsValidation):
		c.JSON(status, gin.H{"errors": tsValidation.Fields})
	case status == http.StatusInternalServerError:
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal server error"})
	default:
		c.JSON(status, gin.H{"error": err.Error()})
	}
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"error": message})
}
