package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/hitoshi/bunko/internal/model"
)

// articleColumns は記事SELECTの共通カラムリスト。
var articleColumns = []string{
	"a.id", "a.author_id", "a.title", "a.summary", "a.body", "a.status",
	"a.views_count", "a.reads_count", "a.created_at", "a.updated_at",
}

// PostgresArticleRepo はPostgreSQLを使用した記事リポジトリ。
type PostgresArticleRepo struct {
	db *sql.DB
}

// NewPostgresArticleRepo はPostgresArticleRepoを生成する。
func NewPostgresArticleRepo(db *sql.DB) *PostgresArticleRepo {
	return &PostgresArticleRepo{db: db}
}

// FindByID は指定IDの記事をトピックID付きで取得する。見つからない場合はnilを返す。
func (r *PostgresArticleRepo) FindByID(ctx context.Context, id string) (*model.Article, error) {
	article := &model.Article{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, author_id, title, summary, body, status,
		        views_count, reads_count, created_at, updated_at
		 FROM articles WHERE id = $1`,
		id,
	).Scan(
		&article.ID, &article.AuthorID, &article.Title, &article.Summary,
		&article.Body, &article.Status,
		&article.ViewsCount, &article.ReadsCount,
		&article.CreatedAt, &article.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("記事の取得に失敗しました: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT topic_id FROM article_topics WHERE article_id = $1 ORDER BY topic_id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("記事トピックの取得に失敗しました: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var topicID string
		if err := rows.Scan(&topicID); err != nil {
			return nil, fmt.Errorf("記事トピック行の読み取りに失敗しました: %w", err)
		}
		article.TopicIDs = append(article.TopicIDs, topicID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("記事トピックの走査に失敗しました: %w", err)
	}

	return article, nil
}

// Create は記事とトピック関連を同一トランザクションで作成する。
func (r *PostgresArticleRepo) Create(ctx context.Context, article *model.Article) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO articles (id, author_id, title, summary, body, status,
		                       views_count, reads_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		article.ID, article.AuthorID, article.Title, article.Summary,
		article.Body, article.Status,
		article.ViewsCount, article.ReadsCount,
		article.CreatedAt, article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("記事の作成に失敗しました: %w", err)
	}

	for _, topicID := range article.TopicIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO article_topics (article_id, topic_id) VALUES ($1, $2)`,
			article.ID, topicID,
		)
		if err != nil {
			return fmt.Errorf("記事トピックの作成に失敗しました: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// UpdateStatus は記事の公開状態を更新する。
func (r *PostgresArticleRepo) UpdateStatus(ctx context.Context, id string, status model.ArticleStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE articles SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("記事ステータスの更新に失敗しました: %w", err)
	}
	return nil
}

// IncrementViews は閲覧数を1加算する。
// 並行する加算はどちらも反映される（exactly-onceは要求されない）。
func (r *PostgresArticleRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE articles SET views_count = views_count + 1, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("閲覧数の更新に失敗しました: %w", err)
	}
	return nil
}

// buildArticleQuery は絞り込み条件からSELECT文とバインド引数を組み立てる。
// 絞り込み条件はAND結合され、TopNが指定された場合は
// views_count降順・ID昇順に並べ替えた上で先頭N件に切り詰める。
// トピック関連の条件はEXISTSサブクエリで表現し、記事IDの重複を発生させない。
func buildArticleQuery(q ArticleQuery) (string, []interface{}, error) {
	builder := sq.Select(articleColumns...).
		From("articles a").
		Where(sq.Eq{"a.status": model.StatusPublished}).
		PlaceholderFormat(sq.Dollar)

	if q.TopicID != "" {
		builder = builder.Where(sq.Expr(
			`EXISTS (SELECT 1 FROM article_topics at
			 WHERE at.article_id = a.id AND at.topic_id = ?)`, q.TopicID))
	}

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		builder = builder.Where(sq.Or{
			sq.Expr("a.title ILIKE ?", pattern),
			sq.Expr("a.summary ILIKE ?", pattern),
			sq.Expr("a.body ILIKE ?", pattern),
			sq.Expr(
				`EXISTS (SELECT 1 FROM article_topics at
				 JOIN topics t ON t.id = at.topic_id
				 WHERE at.article_id = a.id
				   AND (t.name ILIKE ? OR t.description ILIKE ?))`,
				pattern, pattern),
		})
	}

	if len(q.Preferred) > 0 {
		builder = builder.Where(sq.Expr(
			`EXISTS (SELECT 1 FROM article_topics at
			 WHERE at.article_id = a.id AND at.topic_id = ANY(?))`,
			pq.Array(q.Preferred)))
	}
	if len(q.Avoided) > 0 {
		builder = builder.Where(sq.Expr(
			`NOT EXISTS (SELECT 1 FROM article_topics at
			 WHERE at.article_id = a.id AND at.topic_id = ANY(?))`,
			pq.Array(q.Avoided)))
	}

	if q.TopN != nil {
		// 全絞り込み適用後の終端ランキング。同数はID昇順で安定させる。
		builder = builder.OrderBy("a.views_count DESC", "a.id ASC").Limit(uint64(*q.TopN))
	} else {
		builder = builder.OrderBy("a.created_at DESC", "a.id ASC")
		if q.Limit > 0 {
			builder = builder.Limit(uint64(q.Limit))
		}
	}

	return builder.ToSql()
}

// Query は公開済み記事を対象に絞り込みクエリを1回のSQLとして実行する。
func (r *PostgresArticleRepo) Query(ctx context.Context, q ArticleQuery) ([]*model.Article, error) {
	query, args, err := buildArticleQuery(q)
	if err != nil {
		return nil, fmt.Errorf("絞り込みクエリの組み立てに失敗しました: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("絞り込みクエリの実行に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// ListByAuthor は指定ユーザーの執筆記事を全ステータス対象で返す。
// ピン留め記事が先頭（ピン作成日時降順）、続いて記事作成日時降順で並ぶ。
func (r *PostgresArticleRepo) ListByAuthor(ctx context.Context, authorID string) ([]model.ArticleWithPin, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.id, a.author_id, a.title, a.summary, a.body, a.status,
		        a.views_count, a.reads_count, a.created_at, a.updated_at,
		        p.created_at AS pinned_at
		 FROM articles a
		 LEFT JOIN pins p ON p.article_id = a.id AND p.user_id = $1
		 WHERE a.author_id = $1
		 ORDER BY (p.id IS NULL) ASC, p.created_at DESC, a.created_at DESC, a.id ASC`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("執筆記事一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var results []model.ArticleWithPin
	for rows.Next() {
		var awp model.ArticleWithPin
		var pinnedAt sql.NullTime
		if err := rows.Scan(
			&awp.ID, &awp.AuthorID, &awp.Title, &awp.Summary, &awp.Body,
			&awp.Status, &awp.ViewsCount, &awp.ReadsCount,
			&awp.CreatedAt, &awp.UpdatedAt, &pinnedAt,
		); err != nil {
			return nil, fmt.Errorf("執筆記事行の読み取りに失敗しました: %w", err)
		}
		if pinnedAt.Valid {
			awp.IsPinned = true
			t := pinnedAt.Time
			awp.PinnedAt = &t
		}
		results = append(results, awp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("執筆記事一覧の走査に失敗しました: %w", err)
	}

	return results, nil
}

// ListByMark は指定ユーザーのマーク対象記事をマーク作成日時降順で返す。
// 再定義ステージ用のため公開基準での絞り込みは行わない。
func (r *PostgresArticleRepo) ListByMark(ctx context.Context, userID string, kind model.MarkKind) ([]*model.Article, error) {
	table, err := markTable(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(
			`SELECT a.id, a.author_id, a.title, a.summary, a.body, a.status,
			        a.views_count, a.reads_count, a.created_at, a.updated_at
			 FROM %s m
			 JOIN articles a ON a.id = m.article_id
			 WHERE m.user_id = $1
			 ORDER BY m.created_at DESC, a.id ASC`, table),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("マーク記事一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// scanArticles は記事行をスキャンしてスライスに変換する。
func scanArticles(rows *sql.Rows) ([]*model.Article, error) {
	var articles []*model.Article
	for rows.Next() {
		article := &model.Article{}
		if err := rows.Scan(
			&article.ID, &article.AuthorID, &article.Title, &article.Summary,
			&article.Body, &article.Status,
			&article.ViewsCount, &article.ReadsCount,
			&article.CreatedAt, &article.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("記事行の読み取りに失敗しました: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("記事一覧の走査に失敗しました: %w", err)
	}
	return articles, nil
}

// markTable はマーク種別からテーブル名を解決する。
// SQLへ直接埋め込むため、列挙された定数以外は受け付けない。
func markTable(kind model.MarkKind) (string, error) {
	switch kind {
	case model.MarkPin:
		return "pins", nil
	case model.MarkFavorite:
		return "favorites", nil
	case model.MarkReadingHistory:
		return "reading_histories", nil
	default:
		return "", fmt.Errorf("未知のマーク種別です: %s", kind)
	}
}

// compile-time interface check
var _ ArticleRepository = (*PostgresArticleRepo)(nil)
