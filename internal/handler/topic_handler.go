package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/bunko/internal/middleware"
	"github.com/hitoshi/bunko/internal/model"
)

// TopicServiceInterface はトピックハンドラーが必要とするサービスインターフェース。
type TopicServiceInterface interface {
	// ListActive はアクティブなトピック一覧を返す。
	ListActive(ctx context.Context) ([]*model.Topic, error)
	// Get はトピックを取得する。
	Get(ctx context.Context, topicID string) (*model.Topic, error)
	// Follow はトピックをフォローする。重複フォローはConflictになる。
	Follow(ctx context.Context, userID, topicID string) error
	// Unfollow はフォローを解除する。
	Unfollow(ctx context.Context, userID, topicID string) error
	// ListFollows はユーザーのフォロー一覧を返す。
	ListFollows(ctx context.Context, userID string) ([]model.TopicFollow, error)
}

// TopicHandler はトピックのHTTPハンドラー。
type TopicHandler struct {
	service TopicServiceInterface
}

// NewTopicHandler はTopicHandlerを生成する。
func NewTopicHandler(service TopicServiceInterface) *TopicHandler {
	return &TopicHandler{service: service}
}

// topicResponse はトピックのAPIレスポンス。
type topicResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// topicListResponse はトピック一覧のAPIレスポンス。
type topicListResponse struct {
	Topics []topicResponse `json:"topics"`
}

// followListResponse はフォロー中トピックID一覧のAPIレスポンス。
type followListResponse struct {
	TopicIDs []string `json:"topic_ids"`
}

// ListTopics はアクティブなトピック一覧を取得する。
// GET /api/topics
func (h *TopicHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.service.ListActive(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := topicListResponse{Topics: make([]topicResponse, 0, len(topics))}
	for _, t := range topics {
		resp.Topics = append(resp.Topics, topicResponse{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetTopic はトピック詳細を取得する。
// GET /api/topics/:id
func (h *TopicHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "id")

	topic, err := h.service.Get(r.Context(), topicID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(topicResponse{
		ID:          topic.ID,
		Name:        topic.Name,
		Description: topic.Description,
	})
}

// FollowTopic はトピックのフォローを処理する。
// POST /api/topics/:id/follow
func (h *TopicHandler) FollowTopic(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	topicID := chi.URLParam(r, "id")

	if err := h.service.Follow(r.Context(), userID, topicID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// UnfollowTopic はフォローの解除を処理する。
// DELETE /api/topics/:id/follow
func (h *TopicHandler) UnfollowTopic(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	topicID := chi.URLParam(r, "id")

	if err := h.service.Unfollow(r.Context(), userID, topicID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListFollows はフォロー中のトピックID一覧を取得する。
// GET /api/users/me/topic-follows
func (h *TopicHandler) ListFollows(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	follows, err := h.service.ListFollows(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := followListResponse{TopicIDs: make([]string, 0, len(follows))}
	for _, f := range follows {
		resp.TopicIDs = append(resp.TopicIDs, f.TopicID)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
