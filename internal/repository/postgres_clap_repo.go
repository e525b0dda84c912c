package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/bunko/internal/model"
)

// PostgresClapRepo はPostgreSQLを使用した拍手リポジトリ。
type PostgresClapRepo struct {
	db *sql.DB
}

// NewPostgresClapRepo はPostgresClapRepoを生成する。
func NewPostgresClapRepo(db *sql.DB) *PostgresClapRepo {
	return &PostgresClapRepo{db: db}
}

// Increment は拍手数を上限50で飽和加算し、保存後の値を返す。
// LEASTによる飽和をINSERT ON CONFLICTの単一文で行うため、
// 同一 (user, article) への並行加算が混在しても上限を超えることはない。
// 上限到達後の加算はエラーにせず現在値（50）を返す。
func (r *PostgresClapRepo) Increment(ctx context.Context, userID, articleID string) (int, error) {
	now := time.Now().UTC()
	var count int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO claps (id, user_id, article_id, count, created_at, updated_at)
		 VALUES ($1, $2, $3, 1, $4, $4)
		 ON CONFLICT (user_id, article_id) DO UPDATE SET
		     count = LEAST(claps.count + 1, $5),
		     updated_at = EXCLUDED.updated_at
		 RETURNING count`,
		uuid.New().String(), userID, articleID, now, model.ClapMaxCount,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("拍手の加算に失敗しました: %w", err)
	}

	return count, nil
}

// Delete は拍手レコードを削除する。存在しなかった場合はfalseを返す。
// 0へのリセットではなく行そのものを削除する。
func (r *PostgresClapRepo) Delete(ctx context.Context, userID, articleID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM claps WHERE user_id = $1 AND article_id = $2`,
		userID, articleID,
	)
	if err != nil {
		return false, fmt.Errorf("拍手の削除に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("拍手削除結果の取得に失敗しました: %w", err)
	}

	return affected > 0, nil
}

// compile-time interface check
var _ ClapRepository = (*PostgresClapRepo)(nil)
