package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/bunko/internal/model"
)

// PostgresPreferenceRepo はPostgreSQLを使用した嗜好モデルリポジトリ。
// preferred/avoidedはuuid[]カラムとして保持する。
type PostgresPreferenceRepo struct {
	db *sql.DB
}

// NewPostgresPreferenceRepo はPostgresPreferenceRepoを生成する。
func NewPostgresPreferenceRepo(db *sql.DB) *PostgresPreferenceRepo {
	return &PostgresPreferenceRepo{db: db}
}

// FindByUserID は指定ユーザーの嗜好モデルを取得する。見つからない場合はnilを返す。
func (r *PostgresPreferenceRepo) FindByUserID(ctx context.Context, userID string) (*model.Preference, error) {
	pref := &model.Preference{}
	var preferred, avoided pq.StringArray

	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, preferred, avoided, created_at, updated_at
		 FROM preferences WHERE user_id = $1`,
		userID,
	).Scan(&pref.UserID, &preferred, &avoided, &pref.CreatedAt, &pref.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("嗜好モデルの取得に失敗しました: %w", err)
	}

	pref.Preferred = []string(preferred)
	pref.Avoided = []string(avoided)

	return pref, nil
}

// Move はトピック集合の「移動」更新を1トランザクションで適用する。
//
// レコードを初回利用時に作成した上でSELECT ... FOR UPDATEで行ロックを取得するため、
// 同一ユーザーへの並行するMoveは直列化され、
// 不変条件 preferred ∩ avoided = ∅ が常に維持される。
// 両方の半分（toPreferred/toAvoided）は同一トランザクションで適用されるか、
// いずれも適用されないかのどちらかになる。
func (r *PostgresPreferenceRepo) Move(
	ctx context.Context,
	userID string,
	toPreferred, toAvoided []string,
) (*model.Preference, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	// 初回利用時にレコードを作成（既存なら何もしない）
	_, err = tx.ExecContext(ctx,
		`INSERT INTO preferences (user_id, preferred, avoided, created_at, updated_at)
		 VALUES ($1, '{}', '{}', $2, $2)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("嗜好モデルの作成に失敗しました: %w", err)
	}

	// 行ロックで同一ユーザーへの並行更新を直列化する
	var preferred, avoided pq.StringArray
	var createdAt time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT preferred, avoided, created_at
		 FROM preferences WHERE user_id = $1 FOR UPDATE`,
		userID,
	).Scan(&preferred, &avoided, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("嗜好モデルのロック取得に失敗しました: %w", err)
	}

	preferredSet := toSet(preferred)
	avoidedSet := toSet(avoided)

	// 「もっと見たい」側: avoidedから除去してpreferredに追加
	for _, t := range toPreferred {
		delete(avoidedSet, t)
		preferredSet[t] = struct{}{}
	}
	// 「見たくない」側: preferredから除去してavoidedに追加
	for _, t := range toAvoided {
		delete(preferredSet, t)
		avoidedSet[t] = struct{}{}
	}

	newPreferred := toSortedSlice(preferredSet)
	newAvoided := toSortedSlice(avoidedSet)

	_, err = tx.ExecContext(ctx,
		`UPDATE preferences SET preferred = $2, avoided = $3, updated_at = $4
		 WHERE user_id = $1`,
		userID, pq.Array(newPreferred), pq.Array(newAvoided), now,
	)
	if err != nil {
		return nil, fmt.Errorf("嗜好モデルの更新に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}

	return &model.Preference{
		UserID:    userID,
		Preferred: newPreferred,
		Avoided:   newAvoided,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}, nil
}

// toSet は文字列スライスを集合に変換する。
func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// toSortedSlice は集合をソート済みスライスに変換する。
// 保存順を決定的にして比較やテストを容易にする。
func toSortedSlice(set map[string]struct{}) []string {
	result := make([]string, 0, len(set))
	for v := range set {
		result = append(result, v)
	}
	sort.Strings(result)
	return result
}

// compile-time interface check
var _ PreferenceRepository = (*PostgresPreferenceRepo)(nil)
