// Package model はドメインモデルを定義する。
package model

import "time"

// ArticleStatus は記事の公開状態を表す。
type ArticleStatus string

const (
	// StatusDraft は執筆中の記事を表す。
	StatusDraft ArticleStatus = "draft"
	// StatusPending は公開承認待ちの記事を表す。
	StatusPending ArticleStatus = "pending"
	// StatusPublished は公開済みの記事を表す。フィードに表示されるのはこの状態のみ。
	StatusPublished ArticleStatus = "published"
	// StatusPrivate は非公開の記事を表す。
	StatusPrivate ArticleStatus = "private"
	// StatusTrashed はゴミ箱に入った記事を表す。パイプラインでは終端的な除外として扱う。
	StatusTrashed ArticleStatus = "trashed"
	// StatusArchived はアーカイブされた記事を表す。
	StatusArchived ArticleStatus = "archived"
)

// Article は投稿された記事を表す。
type Article struct {
	ID         string
	AuthorID   string
	Title      string
	Summary    string
	Body       string // サニタイズ済みHTML
	Status     ArticleStatus
	TopicIDs   []string
	ViewsCount int
	ReadsCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsPublished は記事が公開済みかどうかを返す。
func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// ArticleWithPin は記事と執筆者自身のピン情報を結合したモデル。
// 執筆記事一覧（ピン留め優先の並び）で使用する。
type ArticleWithPin struct {
	Article
	IsPinned bool
	PinnedAt *time.Time
}
