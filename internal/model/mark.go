package model

import "time"

// MarkKind はユーザーごとの記事マークの種別を表す。
// ピン・お気に入り・閲覧履歴は同じ (user, article, created_at) の形を持ち、
// 種別ごとに独立したテーブルで管理される。
type MarkKind string

const (
	// MarkPin は執筆記事一覧で先頭に固定するピンを表す。
	MarkPin MarkKind = "pin"
	// MarkFavorite はお気に入りを表す。
	MarkFavorite MarkKind = "favorite"
	// MarkReadingHistory は閲覧履歴を表す。記事詳細の初回閲覧時に記録される。
	MarkReadingHistory MarkKind = "reading_history"
)

// Mark はユーザーと記事の間のマーク（ピン/お気に入り/閲覧履歴）を表す。
// (user_id, article_id) の組につき最大1件。作成時刻が一覧の並び順に使われる。
type Mark struct {
	ID        string
	UserID    string
	ArticleID string
	CreatedAt time.Time
}

// Clap はユーザーの記事への拍手を表す。
// (user_id, article_id) の組につき1レコードで、Countは0〜50に収まる。
type Clap struct {
	ID        string
	UserID    string
	ArticleID string
	Count     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClapMaxCount は1ユーザーが1記事に送れる拍手の上限。
const ClapMaxCount = 50

// Report はユーザーによる記事の通報を表す。通報者1人につき1レコード。
// 通報者数が ReportTrashThreshold を超えると記事はTrashedに遷移する。
type Report struct {
	ID        string
	UserID    string
	ArticleID string
	CreatedAt time.Time
}

// ReportTrashThreshold は記事を自動的にゴミ箱へ移す通報者数の閾値。
// 通報者数がこの値を超えた（> 3）時点で遷移する。
const ReportTrashThreshold = 3
