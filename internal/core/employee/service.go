package employee

import (
	"context"
	"fmt"
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

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	files FileStore
	clock Clock
	tx    TransactionManager
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListPage, error)
	SearchEmployees(ctx context.Context, in ListEmployeesInput) ([]*Employee, error)
	ExportEmployees(ctx context.Context, in ListEmployeesInput) (*Export, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, files FileStore, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, files: files, clock: clock, tx: tx}
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	Fields       Fields
	Photo        *Upload
	IdentityCard *Upload
}

// UpdateEmployeeInput は社員更新時の入力です。全項目を置き換え、ファイルは送信された場合のみ差し替えます。
type UpdateEmployeeInput struct {
	ID           int64
	Fields       Fields
	Photo        *Upload
	IdentityCard *Upload
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID int64
}

// ListEmployeesInput は一覧取得時の入力です。
type ListEmployeesInput struct {
	Query     string
	SortField string
	SortOrder string
	Page      int
	PageSize  int
}

// CreateEmployee は入力を検証し、添付ファイルを保存してから社員を登録します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	valid, fieldErrs := validate(in.Fields, in.Photo, in.IdentityCard, createRules, s.clock.Now())
	if !fieldErrs.Empty() {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	photoPath, err := s.storeUpload(ctx, in.Photo)
	if err != nil {
		return nil, err
	}

	identityPath, err := s.storeUpload(ctx, in.IdentityCard)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	emp := valid.toEmployee()
	emp.Photo = photoPath
	emp.IdentityCard = identityPath
	emp.CreatedAt = now
	emp.UpdatedAt = now

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Create(txCtx, emp)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateEmployee は既存の社員を全項目置き換えで更新します。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	existing, err := s.GetEmployee(ctx, GetEmployeeInput{ID: in.ID})
	if err != nil {
		return nil, err
	}

	valid, fieldErrs := validate(in.Fields, in.Photo, in.IdentityCard, updateRules, s.clock.Now())
	if !fieldErrs.Empty() {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	photoPath := existing.Photo
	if in.Photo.supplied() {
		if photoPath, err = s.storeUpload(ctx, in.Photo); err != nil {
			return nil, err
		}
	}

	identityPath := existing.IdentityCard
	if in.IdentityCard.supplied() {
		if identityPath, err = s.storeUpload(ctx, in.IdentityCard); err != nil {
			return nil, err
		}
	}

	emp := valid.toEmployee()
	emp.ID = existing.ID
	emp.Photo = photoPath
	emp.IdentityCard = identityPath
	emp.CreatedAt = existing.CreatedAt
	emp.UpdatedAt = s.clock.Now()

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Update(txCtx, emp)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// GetEmployee は社員を取得します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Employee
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

// ListEmployees は全社員を読み込み、検索・並び替え・ページ分割した結果を返します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListPage, error) {
	params, err := toListParams(in)
	if err != nil {
		return nil, err
	}

	records, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	page := Paginate(records, params)
	return &page, nil
}

// SearchEmployees はページ分割せずに、検索・並び替えした全件を返します。
func (s *Service) SearchEmployees(ctx context.Context, in ListEmployeesInput) ([]*Employee, error) {
	params, err := toListParams(in)
	if err != nil {
		return nil, err
	}

	records, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	return Arrange(records, params), nil
}

func (s *Service) loadAll(ctx context.Context) ([]*Employee, error) {
	var records []*Employee
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
	return records, nil
}

func (s *Service) storeUpload(ctx context.Context, upload *Upload) (*string, error) {
	if !upload.supplied() {
		return nil, nil
	}

	key := UploadKey(s.clock.Now(), upload.Filename)
	stored, err := s.files.Save(ctx, key, mediaType(upload.ContentType), upload.Data)
	if err != nil {
		return nil, fmt.Errorf("employee: save upload %s: %w", key, err)
	}
	return &stored, nil
}

func toListParams(in ListEmployeesInput) (ListParams, error) {
	field, err := ParseSortField(in.SortField)
	if err != nil {
		return ListParams{}, err
	}

	order, err := ParseSortOrder(in.SortOrder)
	if err != nil {
		return ListParams{}, err
	}

	page := in.Page
	if page == 0 {
		page = 1
	}
	if page < 0 {
		return ListParams{}, ErrInvalidPage
	}

	return ListParams{
		Query:     in.Query,
		SortField: field,
		SortOrder: order,
		Page:      page,
		PageSize:  in.PageSize,
	}, nil
}

func (v validFields) toEmployee() *Employee {
	return &Employee{
		FullName:    v.fullName,
		Email:       v.email,
		Phone:       v.phone,
		DateOfBirth: v.dateOfBirth,
		JobTitle:    v.jobTitle,
		Department:  v.department,
		Salary:      v.salary,
		StartDate:   v.startDate,
		EndDate:     v.endDate,
	}
}
