package employee

import "context"

// Repository は社員永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
	FindByID(ctx context.Context, id int64) (*Employee, error)
	List(ctx context.Context) ([]*Employee, error)
}

// FileStore はアップロードファイルの保存先です。保存後に参照用のパスを返します。
type FileStore interface {
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
}
