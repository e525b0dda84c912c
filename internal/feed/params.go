// Package feed はパーソナライズドフィードの絞り込み・ランキングパイプラインを提供する。
//
// パイプラインは公開済み記事のベースラインに対してAND絞り込みステージ
// （トピック・検索・嗜好モデル）を合成し、最後に終端ランキング（Top-N）を適用する。
// これとは別に、結果集合そのものを置き換える3つの再定義ステージ
// （執筆記事・閲覧履歴・お気に入り）があり、これらはベースラインと
// AND絞り込みをすべてバイパスする。
package feed

// Params はフィードクエリのリクエストパラメータを表す。
// 各パラメータは省略可能で、独立に指定できる。
type Params struct {
	// TopicID は指定トピックを持つ記事への絞り込み（AND）。
	TopicID string
	// Search はタイトル・要約・本文・トピック名・トピック説明への
	// 大文字小文字を区別しない部分一致絞り込み（AND）。
	Search string
	// IsRecommend は嗜好モデルによる絞り込み（AND）。
	// 嗜好モデルが空の場合は何もしない。
	IsRecommend bool
	// TopN は閲覧数降順の終端ランキング。全AND絞り込みの後に適用され、
	// 結果を先頭N件に切り詰める。
	TopN *int
	// IsUserFavorites は結果をお気に入り記事に置き換える再定義ステージ。
	IsUserFavorites bool
	// IsReadingHistory は結果を閲覧履歴に置き換える再定義ステージ。
	IsReadingHistory bool
	// IsAuthorArticles は結果を自身の執筆記事（全ステータス）に置き換える
	// 再定義ステージ。
	IsAuthorArticles bool
	// Limit はTopN未指定時の取得上限。0以下ならハンドラー側のデフォルトに従う。
	Limit int
}

// Source はフィードクエリのエントリポイント種別を表す。
type Source string

const (
	// SourcePublished は公開済みベースラインへのAND絞り込み。
	SourcePublished Source = "published"
	// SourceFavorites はお気に入り記事への再定義。
	SourceFavorites Source = "favorites"
	// SourceReadingHistory は閲覧履歴への再定義。
	SourceReadingHistory Source = "reading_history"
	// SourceAuthorArticles は執筆記事への再定義。
	SourceAuthorArticles Source = "author_articles"
)

// ResolveSource はパラメータからエントリポイントを決定する。
//
// 3つの再定義フラグは相互排他のエントリポイントであり、複数が同時に
// 指定された場合は固定の優先順位で1つだけを採用する:
//
//	author_articles > reading_history > favorites > published
//
// 採用された再定義ステージは公開済みベースラインと全AND絞り込みを無視する。
func ResolveSource(p Params) Source {
	switch {
	case p.IsAuthorArticles:
		return SourceAuthorArticles
	case p.IsReadingHistory:
		return SourceReadingHistory
	case p.IsUserFavorites:
		return SourceFavorites
	default:
		return SourcePublished
	}
}
