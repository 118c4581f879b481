package timesheet

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は勤務記録に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は勤務記録ユースケースの公開インターフェースです。
type UseCase interface {
	CreateTimesheet(ctx context.Context, in CreateTimesheetInput) (*Timesheet, error)
	UpdateTimesheet(ctx context.Context, in UpdateTimesheetInput) (*Timesheet, error)
	DeleteTimesheet(ctx context.Context, in DeleteTimesheetInput) error
	GetTimesheet(ctx context.Context, in GetTimesheetInput) (*Timesheet, error)
	ListTimesheets(ctx context.Context, in ListTimesheetsInput) ([]*Timesheet, error)
	CalendarFeed(ctx context.Context, in ListTimesheetsInput) (string, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// CreateTimesheetInput は勤務記録作成時の入力です。
type CreateTimesheetInput struct {
	Fields Fields
}

// UpdateTimesheetInput は勤務記録更新時の入力です。ID が空の場合は何も更新しません。
type UpdateTimesheetInput struct {
	ID     string
	Fields Fields
}

// DeleteTimesheetInput は勤務記録削除時の入力です。
type DeleteTimesheetInput struct {
	ID string
}

// GetTimesheetInput は勤務記録取得時の入力です。
type GetTimesheetInput struct {
	ID int64
}

// ListTimesheetsInput は一覧取得時の絞り込み条件です。EmployeeID が 0 の場合は全社員が対象です。
type ListTimesheetsInput struct {
	Query      string
	EmployeeID int64
}

// CreateTimesheet は入力を検証し、社員の存在を確認してから勤務記録を登録します。
func (s *Service) CreateTimesheet(ctx context.Context, in CreateTimesheetInput) (*Timesheet, error) {
	valid, fieldErrs := validate(in.Fields)
	if !fieldErrs.Empty() {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	now := s.clock.Now()
	entry := valid.toTimesheet()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	var created *Timesheet
	err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureEmployee(txCtx, entry.EmployeeID); err != nil {
			return err
		}
		result, err := s.repo.Create(txCtx, entry)
		if err != nil {
			return err
		}
		created = result
		return nil
	})
	if err != nil {
		return nil, asFieldError(err)
	}

	return created, nil
}

// UpdateTimesheet は既存の勤務記録を置き換えます。
// ID が空の場合は検証のみ行い、何も更新せずに nil を返します。
func (s *Service) UpdateTimesheet(ctx context.Context, in UpdateTimesheetInput) (*Timesheet, error) {
	valid, fieldErrs := validate(in.Fields)
	if !fieldErrs.Empty() {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	rawID := strings.TrimSpace(in.ID)
	if rawID == "" {
		return nil, nil
	}
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	var updated *Timesheet
	err = s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.ensureEmployee(txCtx, valid.employeeID); err != nil {
			return err
		}

		entry := valid.toTimesheet()
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		entry.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, entry)
		if err != nil {
			return err
		}
		updated = result
		return nil
	})
	if err != nil {
		return nil, asFieldError(err)
	}

	return updated, nil
}

// DeleteTimesheet は ID を指定して勤務記録を削除します。ID がなければリポジトリに触れずにエラーを返します。
func (s *Service) DeleteTimesheet(ctx context.Context, in DeleteTimesheetInput) error {
	id, err := parseID(in.ID)
	if err != nil {
		return err
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}

// GetTimesheet は勤務記録を取得します。
func (s *Service) GetTimesheet(ctx context.Context, in GetTimesheetInput) (*Timesheet, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Timesheet
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ListTimesheets は全件を読み込み、社員名と社員 ID で絞り込んだ結果を返します。
func (s *Service) ListTimesheets(ctx context.Context, in ListTimesheetsInput) ([]*Timesheet, error) {
	if in.EmployeeID < 0 {
		return nil, fmt.Errorf("employee_id: %w", ErrInvalidID)
	}

	var records []*Timesheet
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}
		records = found
		return nil
	}); err != nil {
		return nil, err
	}

	return Filter(records, in.Query, in.EmployeeID), nil
}

// CalendarFeed は絞り込んだ勤務記録を iCalendar 形式で返します。
func (s *Service) CalendarFeed(ctx context.Context, in ListTimesheetsInput) (string, error) {
	entries, err := s.ListTimesheets(ctx, in)
	if err != nil {
		return "", err
	}
	return Calendar(entries, s.clock.Now()), nil
}

func (s *Service) ensureEmployee(ctx context.Context, employeeID int64) error {
	exists, err := s.repo.EmployeeExists(ctx, employeeID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrEmployeeNotFound
	}
	return nil
}

// asFieldError は存在しない社員の参照を employee_id の検証エラーに置き換えます。
func asFieldError(err error) error {
	if errors.Is(err, ErrEmployeeNotFound) {
		return &ValidationError{Fields: FieldErrors{EmployeeID: employeeMissingMessage}}
	}
	return err
}

func parseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("id is required: %w", ErrInvalidID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id %q: %w", raw, ErrInvalidID)
	}
	return id, nil
}

func (v validFields) toTimesheet() *Timesheet {
	return &Timesheet{
		EmployeeID: v.employeeID,
		StartTime:  v.startTime,
		EndTime:    v.endTime,
		Summary:    v.summary,
	}
}
