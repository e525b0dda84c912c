// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, article, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeArticleNotFound      = "ARTICLE_NOT_FOUND"
	ErrCodeArticleNotPublished  = "ARTICLE_NOT_PUBLISHED"
	ErrCodeTopicNotFound        = "TOPIC_NOT_FOUND"
	ErrCodeMarkNotFound         = "MARK_NOT_FOUND"
	ErrCodeClapNotFound         = "CLAP_NOT_FOUND"
	ErrCodeDuplicateReport      = "DUPLICATE_REPORT"
	ErrCodeDuplicateTopicFollow = "DUPLICATE_TOPIC_FOLLOW"
	ErrCodePermissionDenied     = "PERMISSION_DENIED"
	ErrCodeInvalidParameter     = "INVALID_PARAMETER"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
)

// NewArticleNotFoundError は記事未検出エラーを生成する。
func NewArticleNotFoundError(articleID string) *APIError {
	return &APIError{
		Code:     ErrCodeArticleNotFound,
		Message:  fmt.Sprintf("指定された記事が見つかりません: %s", articleID),
		Category: "article",
		Action:   "記事IDを確認してください。",
	}
}

// NewArticleNotPublishedError は公開済みでない記事を参照した場合のエラーを生成する。
// 嗜好モデルは非公開・削除済みの記事から学習してはならない。
func NewArticleNotPublishedError(articleID string) *APIError {
	return &APIError{
		Code:     ErrCodeArticleNotPublished,
		Message:  fmt.Sprintf("指定された記事は公開されていません: %s", articleID),
		Category: "article",
		Action:   "公開済みの記事を指定してください。",
	}
}

// NewTopicNotFoundError はトピック未検出エラーを生成する。
func NewTopicNotFoundError(topicID string) *APIError {
	return &APIError{
		Code:     ErrCodeTopicNotFound,
		Message:  fmt.Sprintf("指定されたトピックが見つかりません: %s", topicID),
		Category: "article",
		Action:   "トピックIDを確認してください。",
	}
}

// NewMarkNotFoundError はマーク未検出エラーを生成する。
// 存在しないマークの解除を試みた場合に返す。
func NewMarkNotFoundError(articleID string) *APIError {
	return &APIError{
		Code:     ErrCodeMarkNotFound,
		Message:  fmt.Sprintf("指定された記事へのマークが見つかりません: %s", articleID),
		Category: "article",
		Action:   "マークの状態を確認してください。",
	}
}

// NewClapNotFoundError は拍手未検出エラーを生成する。
func NewClapNotFoundError(articleID string) *APIError {
	return &APIError{
		Code:     ErrCodeClapNotFound,
		Message:  fmt.Sprintf("指定された記事への拍手が見つかりません: %s", articleID),
		Category: "article",
		Action:   "拍手の状態を確認してください。",
	}
}

// NewDuplicateReportError は同一ユーザーによる重複通報エラーを生成する。
func NewDuplicateReportError(articleID string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateReport,
		Message:  fmt.Sprintf("この記事は既に通報済みです: %s", articleID),
		Category: "article",
		Action:   "同じ記事を複数回通報することはできません。",
	}
}

// NewDuplicateTopicFollowError は重複フォローエラーを生成する。
func NewDuplicateTopicFollowError(topicID string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateTopicFollow,
		Message:  fmt.Sprintf("このトピックは既にフォローしています: %s", topicID),
		Category: "article",
		Action:   "フォロー状態を確認してください。",
	}
}

// NewPermissionDeniedError は権限エラーを生成する。
// 所有者以外による変更操作を拒否する場合に返す。
func NewPermissionDeniedError() *APIError {
	return &APIError{
		Code:     ErrCodePermissionDenied,
		Message:  "この操作を行う権限がありません。",
		Category: "auth",
		Action:   "対象リソースの所有者としてログインしているか確認してください。",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "再度ログインしてください。",
	}
}

// NewInvalidParameterError はパラメータ不正エラーを生成する。
func NewInvalidParameterError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidParameter,
		Message:  fmt.Sprintf("無効なパラメータです: %s", reason),
		Category: "validation",
		Action:   "リクエストパラメータを確認してください。",
	}
}
