package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrReadOnlyTransaction は読み取り専用トランザクションの内側で書き込みを要求した場合に返されます。
var ErrReadOnlyTransaction = errors.New("postgres: read-write work requested inside read-only transaction")

type txContextKey struct{}

// txState はコンテキストに載せる実行中トランザクションとそのアクセスモードです。
type txState struct {
	tx   pgx.Tx
	mode pgx.TxAccessMode
}

type txStarter interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TransactionManager は社員・勤務記録サービスのトランザクション境界を pgx で実装します。
type TransactionManager struct {
	pool txStarter
}

// NewTransactionManager は TransactionManager を生成します。pool が nil の場合は nil を返し、
// その場合の WithinReadOnly / WithinReadWrite は fn をそのまま実行します。
func NewTransactionManager(pool txStarter) *TransactionManager {
	if pool == nil {
		return nil
	}
	return &TransactionManager{pool: pool}
}

// WithinReadOnly は読み取り専用トランザクションで fn を実行します。一覧・詳細・エクスポートが使用します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, pgx.ReadOnly, fn)
}

// WithinReadWrite は読み書きトランザクションで fn を実行します。
// 勤務記録の登録では社員の存在確認と INSERT が同じトランザクションに入ります。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, pgx.ReadWrite, fn)
}

func (m *TransactionManager) within(ctx context.Context, mode pgx.TxAccessMode, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("postgres: transaction function is required")
	}

	if outer, ok := stateFromContext(ctx); ok {
		if outer.mode == pgx.ReadOnly && mode == pgx.ReadWrite {
			return ErrReadOnlyTransaction
		}
		return fn(ctx)
	}

	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: mode})
	if err != nil {
		return fmt.Errorf("postgres: begin %s tx: %w", mode, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(contextWithTx(ctx, txState{tx: tx, mode: mode})); err != nil {
		return rollback(ctx, tx, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return rollback(ctx, tx, fmt.Errorf("postgres: commit: %w", err))
	}
	return nil
}

// rollback は cause を保ったままロールバックし、ロールバック自体の失敗があれば結合して返します。
func rollback(ctx context.Context, tx pgx.Tx, cause error) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return errors.Join(cause, fmt.Errorf("postgres: rollback: %w", err))
	}
	return cause
}

func contextWithTx(ctx context.Context, state txState) context.Context {
	return context.WithValue(ctx, txContextKey{}, state)
}

func stateFromContext(ctx context.Context) (txState, bool) {
	if ctx == nil {
		return txState{}, false
	}
	state, ok := ctx.Value(txContextKey{}).(txState)
	return state, ok
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	state, ok := stateFromContext(ctx)
	return state.tx, ok
}

// QueryerFromContext はコンテキスト内のトランザクションを返し、なければ fallback を返します。
func QueryerFromContext(ctx context.Context, fallback Queryer) Queryer {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return fallback
}

// Queryer は pgx.Tx と pgxpool.Pool に共通するクエリ実行インターフェースです。
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
