package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/bunko/internal/model"
)

// PostgresTopicFollowRepo はPostgreSQLを使用したトピックフォローリポジトリ。
type PostgresTopicFollowRepo struct {
	db *sql.DB
}

// NewPostgresTopicFollowRepo はPostgresTopicFollowRepoを生成する。
func NewPostgresTopicFollowRepo(db *sql.DB) *PostgresTopicFollowRepo {
	return &PostgresTopicFollowRepo{db: db}
}

// Create はフォローを作成する。既にフォロー済みの場合はfalseを返す。
// マークと異なりフォローの作成は冪等ではなく、呼び出し側がConflictとして扱う。
func (r *PostgresTopicFollowRepo) Create(ctx context.Context, userID, topicID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO topic_follows (id, user_id, topic_id, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, topic_id) DO NOTHING`,
		uuid.New().String(), userID, topicID, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("フォローの作成に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("フォロー作成結果の取得に失敗しました: %w", err)
	}

	return affected > 0, nil
}

// Delete はフォローを削除する。存在しなかった場合はfalseを返す。
func (r *PostgresTopicFollowRepo) Delete(ctx context.Context, userID, topicID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM topic_follows WHERE user_id = $1 AND topic_id = $2`,
		userID, topicID,
	)
	if err != nil {
		return false, fmt.Errorf("フォローの削除に失敗しました: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("フォロー削除結果の取得に失敗しました: %w", err)
	}

	return affected > 0, nil
}

// ListByUserID はユーザーのフォロー一覧を作成日時降順で返す。
func (r *PostgresTopicFollowRepo) ListByUserID(ctx context.Context, userID string) ([]model.TopicFollow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, topic_id, created_at
		 FROM topic_follows WHERE user_id = $1
		 ORDER BY created_at DESC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("フォロー一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var follows []model.TopicFollow
	for rows.Next() {
		var follow model.TopicFollow
		if err := rows.Scan(&follow.ID, &follow.UserID, &follow.TopicID, &follow.CreatedAt); err != nil {
			return nil, fmt.Errorf("フォロー行の読み取りに失敗しました: %w", err)
		}
		follows = append(follows, follow)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("フォロー一覧の走査に失敗しました: %w", err)
	}

	return follows, nil
}

// compile-time interface check
var _ TopicFollowRepository = (*PostgresTopicFollowRepo)(nil)
