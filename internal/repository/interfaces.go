// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/bunko/internal/model"
)

// ArticleQuery はフィードの絞り込みクエリの実行計画を表す。
// feedパッケージがリクエストパラメータから組み立て、
// リポジトリが1回のストアクエリとして実行する。
// ゼロ値は「公開済み記事を作成日時降順で返す」ことを意味する。
type ArticleQuery struct {
	// TopicID が非空の場合、当該トピックを持つ記事のみに絞り込む。
	// 存在しないトピックIDは空の結果を返す（エラーにはしない）。
	TopicID string
	// Search が非空の場合、タイトル・要約・本文・トピック名・トピック説明への
	// 大文字小文字を区別しない部分一致で絞り込む。記事IDで重複排除される。
	Search string
	// Preferred / Avoided は嗜好モデルによる絞り込みに使うトピックID集合。
	// Preferredが非空なら「嗜好トピックを1つ以上持つ」記事に絞り、
	// Avoidedに含まれるトピックを1つでも持つ記事を除外する。
	// 両方空の場合は何もしない。
	Preferred []string
	Avoided   []string
	// TopN が非nilの場合、views_count降順（同数はID昇順）に並べ替えた上で
	// 先頭N件に切り詰める。他の絞り込みがすべて適用された後に実行される。
	TopN *int
	// Limit はTopNが指定されない場合の取得上限。0以下なら制限なし。
	Limit int
}

// ArticleRepository は記事データの永続化インターフェース。
type ArticleRepository interface {
	// FindByID は指定IDの記事をトピックID付きで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Article, error)

	// Create は記事とトピック関連を作成する。
	Create(ctx context.Context, article *model.Article) error

	// UpdateStatus は記事の公開状態を更新する。
	UpdateStatus(ctx context.Context, id string, status model.ArticleStatus) error

	// IncrementViews は閲覧数を1加算する。
	// 同一記事への並行加算は両方反映されてよい（exactly-onceは要求しない）。
	IncrementViews(ctx context.Context, id string) error

	// Query は公開済み記事を対象に絞り込みクエリを1回のSQLとして実行する。
	Query(ctx context.Context, q ArticleQuery) ([]*model.Article, error)

	// ListByAuthor は指定ユーザーの執筆記事を全ステータス対象で返す。
	// ピン留め記事が先頭（ピン作成日時降順）、続いて記事作成日時降順で並ぶ。
	ListByAuthor(ctx context.Context, authorID string) ([]model.ArticleWithPin, error)

	// ListByMark は指定ユーザーのマーク（お気に入り/閲覧履歴）対象記事を
	// マーク作成日時降順で返す。
	ListByMark(ctx context.Context, userID string, kind model.MarkKind) ([]*model.Article, error)
}

// TopicRepository はトピックデータの永続化インターフェース。
type TopicRepository interface {
	// FindByID は指定IDのトピックを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Topic, error)

	// ListActive はアクティブなトピックの一覧を名前昇順で返す。
	ListActive(ctx context.Context) ([]*model.Topic, error)
}

// PreferenceRepository はユーザーごとのトピック嗜好モデルの永続化インターフェース。
type PreferenceRepository interface {
	// FindByUserID は指定ユーザーの嗜好モデルを取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.Preference, error)

	// Move はトピック集合の「移動」更新を1トランザクションで適用する。
	// toPreferredの各トピックはavoidedから除去されpreferredに追加される。
	// toAvoidedの各トピックはpreferredから除去されavoidedに追加される。
	// レコードは初回利用時に空集合で作成され、行ロックにより同一ユーザーへの
	// 並行更新は直列化される。部分適用は発生しない。
	Move(ctx context.Context, userID string, toPreferred, toAvoided []string) (*model.Preference, error)
}

// MarkRepository はユーザーごとの記事マーク（ピン/お気に入り/閲覧履歴）の
// 永続化インターフェース。種別ごとに独立したインスタンスを使用する。
type MarkRepository interface {
	// Mark はマークを冪等に作成する。既に存在する場合はfalseを返し、エラーにはしない。
	// 同一 (user, article) への並行作成は一意制約によりちょうど1件に解決される。
	Mark(ctx context.Context, userID, articleID string) (created bool, err error)

	// Unmark はマークを削除する。存在しなかった場合はfalseを返す。
	Unmark(ctx context.Context, userID, articleID string) (removed bool, err error)

	// ListForUser は指定ユーザーのマーク一覧を作成日時降順で返す。
	ListForUser(ctx context.Context, userID string) ([]model.Mark, error)
}

// ClapRepository は拍手カウンタの永続化インターフェース。
type ClapRepository interface {
	// Increment は拍手数を上限50で飽和加算し、保存後の値を返す。
	// 加算はストア側で原子的に行われ、並行加算が混在しても上限を超えない。
	// 上限到達後の加算はエラーにせず現在値を返す。
	Increment(ctx context.Context, userID, articleID string) (int, error)

	// Delete は拍手レコードを削除する（0へのリセットではなく行の削除）。
	// 存在しなかった場合はfalseを返す。
	Delete(ctx context.Context, userID, articleID string) (removed bool, err error)
}

// ReportRepository は記事通報の永続化インターフェース。
type ReportRepository interface {
	// Create は通報を作成する。同一ユーザーによる重複通報の場合はfalseを返す。
	Create(ctx context.Context, userID, articleID string) (created bool, err error)

	// CountReporters は記事の通報者数（ユニークユーザー数）を返す。
	CountReporters(ctx context.Context, articleID string) (int, error)

	// ListArticleIDsOverThreshold は通報者数がthresholdを超える、
	// かつまだTrashedでない記事のIDを返す。モデレーション掃き出し用。
	ListArticleIDsOverThreshold(ctx context.Context, threshold int) ([]string, error)
}

// TopicFollowRepository はトピックフォローの永続化インターフェース。
type TopicFollowRepository interface {
	// Create はフォローを作成する。既にフォロー済みの場合はfalseを返す。
	// マークとは異なり、呼び出し側はこれをConflictエラーとして扱う。
	Create(ctx context.Context, userID, topicID string) (created bool, err error)

	// Delete はフォローを削除する。存在しなかった場合はfalseを返す。
	Delete(ctx context.Context, userID, topicID string) (removed bool, err error)

	// ListByUserID はユーザーのフォロー一覧を作成日時降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]model.TopicFollow, error)
}

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
// セッションの発行は外部の認証基盤が行うため、ここでは参照と削除のみ提供する。
type SessionRepository interface {
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}
