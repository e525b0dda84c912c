package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/bunko/internal/model"
)

// PostgresReportRepo はPostgreSQLを使用した通報リポジトリ。
// 通報者1人につき1レコードで、UNIQUE(user_id, article_id)が重複を防ぐ。
type PostgresReportRepo struct {
	db *sql.DB
}

// NewPostgresReportRepo はPostgresReportRepoを生成する。
func NewPostgresReportRepo(db *sql.DB) *PostgresReportRepo {
	return &PostgresReportRepo{db: db}
}

// Create は通報を作成する。同一ユーザーによる重複通報の場合はfalseを返す。
func (r *PostgresReportRepo) Create(ctx context.Context, userID, articleID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (id, user_id, article_id, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, article_id) DO NOTHING`,
		uuid.New().String(), userID, articleID, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("通報の作成に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("通報作成結果の取得に失敗しました: %w", err)
	}

	return affected > 0, nil
}

// CountReporters は記事の通報者数（ユニークユーザー数）を返す。
func (r *PostgresReportRepo) CountReporters(ctx context.Context, articleID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM reports WHERE article_id = $1`,
		articleID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("通報者数の取得に失敗しました: %w", err)
	}

	return count, nil
}

// ListArticleIDsOverThreshold は通報者数がthresholdを超え、
// かつまだTrashedでない記事のIDを返す。モデレーション掃き出しで使用する。
func (r *PostgresReportRepo) ListArticleIDsOverThreshold(ctx context.Context, threshold int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rp.article_id
		 FROM reports rp
		 JOIN articles a ON a.id = rp.article_id
		 WHERE a.status <> $1
		 GROUP BY rp.article_id
		 HAVING COUNT(DISTINCT rp.user_id) > $2`,
		model.StatusTrashed, threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("閾値超過記事の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("閾値超過記事行の読み取りに失敗しました: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("閾値超過記事の走査に失敗しました: %w", err)
	}

	return ids, nil
}

// compile-time interface check
var _ ReportRepository = (*PostgresReportRepo)(nil)
