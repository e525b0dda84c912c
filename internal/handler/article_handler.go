// Package handler はHTTP APIのハンドラー層を提供する。
// サービス層の結果をHTTPレスポンスに変換する薄い層で、
// ドメインロジックは持たない。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/bunko/internal/article"
	"github.com/hitoshi/bunko/internal/feed"
	"github.com/hitoshi/bunko/internal/middleware"
	"github.com/hitoshi/bunko/internal/model"
)

// FeedServiceInterface はフィードクエリのサービスインターフェース。
type FeedServiceInterface interface {
	// Select はフィードクエリを実行し、順序付きの記事列を返す。
	Select(ctx context.Context, userID string, p feed.Params) ([]*model.Article, error)
}

// ArticleServiceInterface は記事ハンドラーが必要とするサービスインターフェース。
type ArticleServiceInterface interface {
	// Create は記事をDraft状態で作成する。
	Create(ctx context.Context, authorID string, input article.CreateInput) (*model.Article, error)
	// GetDetail は記事詳細を取得し、副作用として閲覧数・閲覧履歴を記録する。
	GetDetail(ctx context.Context, userID, articleID string) (*model.Article, error)
	// Pin は自身の執筆記事をピン留めする。
	Pin(ctx context.Context, userID, articleID string) (*article.MarkResult, error)
	// Unpin はピンを解除する。
	Unpin(ctx context.Context, userID, articleID string) error
	// Favorite は記事をお気に入りに追加する。
	Favorite(ctx context.Context, userID, articleID string) (*article.MarkResult, error)
	// Unfavorite はお気に入りを解除する。
	Unfavorite(ctx context.Context, userID, articleID string) error
	// ListPins はユーザーのピン一覧を返す。
	ListPins(ctx context.Context, userID string) ([]model.Mark, error)
	// ListFavorites はユーザーのお気に入り記事一覧を返す。
	ListFavorites(ctx context.Context, userID string) ([]*model.Article, error)
	// ListReadingHistory はユーザーの閲覧履歴記事一覧を返す。
	ListReadingHistory(ctx context.Context, userID string) ([]*model.Article, error)
}

// ArticleHandler は記事とフィードのHTTPハンドラー。
type ArticleHandler struct {
	feedService    FeedServiceInterface
	articleService ArticleServiceInterface
	// defaultLimit はTop-N未指定時のフィード取得上限。
	defaultLimit int
}

// NewArticleHandler はArticleHandlerを生成する。
func NewArticleHandler(feedService FeedServiceInterface, articleService ArticleServiceInterface, defaultLimit int) *ArticleHandler {
	return &ArticleHandler{
		feedService:    feedService,
		articleService: articleService,
		defaultLimit:   defaultLimit,
	}
}

// createArticleRequest は記事作成リクエストのボディ。
type createArticleRequest struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Body     string   `json:"body"`
	TopicIDs []string `json:"topic_ids"`
}

// articleResponse は記事のAPIレスポンス。
type articleResponse struct {
	ID         string   `json:"id"`
	AuthorID   string   `json:"author_id"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Body       string   `json:"body,omitempty"`
	Status     string   `json:"status"`
	TopicIDs   []string `json:"topic_ids"`
	ViewsCount int      `json:"views_count"`
	CreatedAt  string   `json:"created_at"`
}

// articleListResponse は記事一覧のAPIレスポンス。
type articleListResponse struct {
	Articles []articleResponse `json:"articles"`
}

// markResponse はマーク操作の結果レスポンス。
type markResponse struct {
	Created bool `json:"created"`
}

// pinListResponse はピン一覧のAPIレスポンス。
type pinListResponse struct {
	Pins []pinResponse `json:"pins"`
}

type pinResponse struct {
	ArticleID string `json:"article_id"`
	CreatedAt string `json:"created_at"`
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// ListArticles はフィードクエリを処理する。
// GET /api/articles
//
// クエリパラメータ:
//
//	topic_id           トピック絞り込み（AND）
//	search             部分一致検索（AND）
//	is_recommend       嗜好モデル絞り込み（AND）
//	get_top_articles   閲覧数上位N件への終端ランキング
//	is_user_favorites  お気に入りへの再定義
//	is_reading_history 閲覧履歴への再定義
//	is_author_articles 執筆記事への再定義
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	params, apiErr := h.parseFeedParams(r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	articles, err := h.feedService.Select(r.Context(), userID, params)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toArticleListResponse(articles))
}

// CreateArticle は記事作成を処理する。
// POST /api/articles
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req createArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	created, err := h.articleService.Create(r.Context(), userID, article.CreateInput{
		Title:    req.Title,
		Summary:  req.Summary,
		Body:     req.Body,
		TopicIDs: req.TopicIDs,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toArticleResponse(created))
}

// GetArticle は記事詳細を取得する。
// GET /api/articles/:id
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	articleID := chi.URLParam(r, "id")

	a, err := h.articleService.GetDetail(r.Context(), userID, articleID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toArticleResponse(a))
}

// PinArticle は記事のピン留めを処理する。
// POST /api/articles/:id/pin
func (h *ArticleHandler) PinArticle(w http.ResponseWriter, r *http.Request) {
	h.handleMark(w, r, h.articleService.Pin)
}

// UnpinArticle はピンの解除を処理する。
// DELETE /api/articles/:id/pin
func (h *ArticleHandler) UnpinArticle(w http.ResponseWriter, r *http.Request) {
	h.handleUnmark(w, r, h.articleService.Unpin)
}

// FavoriteArticle は記事のお気に入り追加を処理する。
// POST /api/articles/:id/favorite
func (h *ArticleHandler) FavoriteArticle(w http.ResponseWriter, r *http.Request) {
	h.handleMark(w, r, h.articleService.Favorite)
}

// UnfavoriteArticle はお気に入りの解除を処理する。
// DELETE /api/articles/:id/favorite
func (h *ArticleHandler) UnfavoriteArticle(w http.ResponseWriter, r *http.Request) {
	h.handleUnmark(w, r, h.articleService.Unfavorite)
}

// ListPins はピン一覧を取得する。
// GET /api/users/me/pins
func (h *ArticleHandler) ListPins(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	pins, err := h.articleService.ListPins(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := pinListResponse{Pins: make([]pinResponse, 0, len(pins))}
	for _, p := range pins {
		resp.Pins = append(resp.Pins, pinResponse{
			ArticleID: p.ArticleID,
			CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListFavorites はお気に入り記事一覧を取得する。
// GET /api/users/me/favorites
func (h *ArticleHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	h.handleArticleListing(w, r, h.articleService.ListFavorites)
}

// ListReadingHistory は閲覧履歴記事一覧を取得する。
// GET /api/users/me/history
func (h *ArticleHandler) ListReadingHistory(w http.ResponseWriter, r *http.Request) {
	h.handleArticleListing(w, r, h.articleService.ListReadingHistory)
}

// --- 内部ヘルパー ---

// parseFeedParams はクエリパラメータからfeed.Paramsを組み立てる。
// get_top_articlesが整数でない場合はバリデーションエラーを返す。
func (h *ArticleHandler) parseFeedParams(r *http.Request) (feed.Params, *model.APIError) {
	q := r.URL.Query()

	params := feed.Params{
		TopicID:          q.Get("topic_id"),
		Search:           q.Get("search"),
		IsRecommend:      q.Get("is_recommend") == "true",
		IsUserFavorites:  q.Get("is_user_favorites") == "true",
		IsReadingHistory: q.Get("is_reading_history") == "true",
		IsAuthorArticles: q.Get("is_author_articles") == "true",
		Limit:            h.defaultLimit,
	}

	if raw := q.Get("get_top_articles"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return feed.Params{}, model.NewInvalidParameterError("get_top_articlesは整数で指定してください")
		}
		params.TopN = &n
	}

	return params, nil
}

func (h *ArticleHandler) handleMark(
	w http.ResponseWriter,
	r *http.Request,
	mark func(ctx context.Context, userID, articleID string) (*article.MarkResult, error),
) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	articleID := chi.URLParam(r, "id")

	result, err := mark(r.Context(), userID, articleID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if result.Created {
		w.WriteHeader(http.StatusCreated)
	}
	json.NewEncoder(w).Encode(markResponse{Created: result.Created})
}

func (h *ArticleHandler) handleUnmark(
	w http.ResponseWriter,
	r *http.Request,
	unmark func(ctx context.Context, userID, articleID string) error,
) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	articleID := chi.URLParam(r, "id")

	if err := unmark(r.Context(), userID, articleID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ArticleHandler) handleArticleListing(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, userID string) ([]*model.Article, error),
) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	articles, err := list(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toArticleListResponse(articles))
}

// --- 共通ヘルパー ---

// toArticleResponse はmodel.ArticleからAPIレスポンスに変換する。
func toArticleResponse(a *model.Article) articleResponse {
	topicIDs := a.TopicIDs
	if topicIDs == nil {
		topicIDs = []string{}
	}
	return articleResponse{
		ID:         a.ID,
		AuthorID:   a.AuthorID,
		Title:      a.Title,
		Summary:    a.Summary,
		Body:       a.Body,
		Status:     string(a.Status),
		TopicIDs:   topicIDs,
		ViewsCount: a.ViewsCount,
		CreatedAt:  a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// toArticleListResponse は一覧用に本文を省いたレスポンスに変換する。
func toArticleListResponse(articles []*model.Article) articleListResponse {
	resp := articleListResponse{Articles: make([]articleResponse, 0, len(articles))}
	for _, a := range articles {
		item := toArticleResponse(a)
		item.Body = ""
		resp.Articles = append(resp.Articles, item)
	}
	return resp
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// writeUnauthorized は認証エラーレスポンスを書き込む。
func writeUnauthorized(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusUnauthorized, &model.APIError{
		Code:     "UNAUTHORIZED",
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	})
}

// writeInvalidRequestBody はリクエストボディ解析エラーレスポンスを書き込む。
func writeInvalidRequestBody(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeArticleNotFound,
		model.ErrCodeArticleNotPublished,
		model.ErrCodeTopicNotFound,
		model.ErrCodeMarkNotFound,
		model.ErrCodeClapNotFound,
		model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateReport, model.ErrCodeDuplicateTopicFollow:
		return http.StatusConflict
	case model.ErrCodePermissionDenied:
		return http.StatusForbidden
	case model.ErrCodeInvalidParameter:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
