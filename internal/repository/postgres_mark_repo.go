package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/bunko/internal/model"
)

// PostgresMarkRepo はPostgreSQLを使用したマークリポジトリ。
// ピン・お気に入り・閲覧履歴は同一のスキーマ形を持つため、
// 種別ごとにテーブル名を束ねた1実装を共有する。
type PostgresMarkRepo struct {
	db    *sql.DB
	kind  model.MarkKind
	table string
}

// newPostgresMarkRepo は指定種別のマークリポジトリを生成する。
func newPostgresMarkRepo(db *sql.DB, kind model.MarkKind) *PostgresMarkRepo {
	table, err := markTable(kind)
	if err != nil {
		// 列挙定数以外はプログラミングエラー
		panic(err)
	}
	return &PostgresMarkRepo{db: db, kind: kind, table: table}
}

// NewPostgresPinRepo はピンのマークリポジトリを生成する。
func NewPostgresPinRepo(db *sql.DB) *PostgresMarkRepo {
	return newPostgresMarkRepo(db, model.MarkPin)
}

// NewPostgresFavoriteRepo はお気に入りのマークリポジトリを生成する。
func NewPostgresFavoriteRepo(db *sql.DB) *PostgresMarkRepo {
	return newPostgresMarkRepo(db, model.MarkFavorite)
}

// NewPostgresReadingHistoryRepo は閲覧履歴のマークリポジトリを生成する。
func NewPostgresReadingHistoryRepo(db *sql.DB) *PostgresMarkRepo {
	return newPostgresMarkRepo(db, model.MarkReadingHistory)
}

// Mark はマークを冪等に作成する。既に存在する場合はfalseを返し、エラーにはしない。
// UNIQUE(user_id, article_id)制約とON CONFLICT DO NOTHINGにより、
// 並行する作成はちょうど1件に解決され、どちらの呼び出しも成功する。
func (r *PostgresMarkRepo) Mark(ctx context.Context, userID, articleID string) (bool, error) {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf(
			`INSERT INTO %s (id, user_id, article_id, created_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (user_id, article_id) DO NOTHING`, r.table),
		uuid.New().String(), userID, articleID, now,
	)
	if err != nil {
		return false, fmt.Errorf("マークの作成に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("マーク作成結果の取得に失敗しました: %w", err)
	}

	return affected > 0, nil
}

// Unmark はマークを削除する。存在しなかった場合はfalseを返す。
func (r *PostgresMarkRepo) Unmark(ctx context.Context, userID, articleID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND article_id = $2`, r.table),
		userID, articleID,
	)
	if err != nil {
		return false, fmt.Errorf("マークの削除に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("マーク削除結果の取得に失敗しました: %w", err)
	}

	return affected > 0, nil
}

// ListForUser は指定ユーザーのマーク一覧を作成日時降順で返す。
func (r *PostgresMarkRepo) ListForUser(ctx context.Context, userID string) ([]model.Mark, error) {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(
			`SELECT id, user_id, article_id, created_at
			 FROM %s WHERE user_id = $1
			 ORDER BY created_at DESC, id ASC`, r.table),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("マーク一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var marks []model.Mark
	for rows.Next() {
		var mark model.Mark
		if err := rows.Scan(&mark.ID, &mark.UserID, &mark.ArticleID, &mark.CreatedAt); err != nil {
			return nil, fmt.Errorf("マーク行の読み取りに失敗しました: %w", err)
		}
		marks = append(marks, mark)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("マーク一覧の走査に失敗しました: %w", err)
	}

	return marks, nil
}

// compile-time interface check
var _ MarkRepository = (*PostgresMarkRepo)(nil)
