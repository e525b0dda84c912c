package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/bunko/internal/model"
)

// PostgresTopicRepo はPostgreSQLを使用したトピックリポジトリ。
type PostgresTopicRepo struct {
	db *sql.DB
}

// NewPostgresTopicRepo はPostgresTopicRepoを生成する。
func NewPostgresTopicRepo(db *sql.DB) *PostgresTopicRepo {
	return &PostgresTopicRepo{db: db}
}

// FindByID は指定IDのトピックを取得する。見つからない場合はnilを返す。
func (r *PostgresTopicRepo) FindByID(ctx context.Context, id string) (*model.Topic, error) {
	topic := &model.Topic{}
	var description sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, is_active, created_at, updated_at
		 FROM topics WHERE id = $1`,
		id,
	).Scan(
		&topic.ID, &topic.Name, &description, &topic.IsActive,
		&topic.CreatedAt, &topic.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("トピックの取得に失敗しました: %w", err)
	}

	if description.Valid {
		topic.Description = description.String
	}

	return topic, nil
}

// ListActive はアクティブなトピックの一覧を名前昇順で返す。
func (r *PostgresTopicRepo) ListActive(ctx context.Context) ([]*model.Topic, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, is_active, created_at, updated_at
		 FROM topics WHERE is_active = true
		 ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("トピック一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var topics []*model.Topic
	for rows.Next() {
		topic := &model.Topic{}
		var description sql.NullString
		if err := rows.Scan(
			&topic.ID, &topic.Name, &description, &topic.IsActive,
			&topic.CreatedAt, &topic.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("トピック行の読み取りに失敗しました: %w", err)
		}
		if description.Valid {
			topic.Description = description.String
		}
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("トピック一覧の走査に失敗しました: %w", err)
	}

	return topics, nil
}

// compile-time interface check
var _ TopicRepository = (*PostgresTopicRepo)(nil)
