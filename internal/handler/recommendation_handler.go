package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/bunko/internal/middleware"
	"github.com/hitoshi/bunko/internal/model"
)

// PreferenceServiceInterface は嗜好モデルハンドラーが必要とするサービスインターフェース。
type PreferenceServiceInterface interface {
	// Record はフィードバックを嗜好モデルに反映する。
	Record(ctx context.Context, userID string, moreArticleID, lessArticleID string) (*model.Preference, error)
	// Get はユーザーの嗜好モデルを返す。未作成の場合は空集合を返す。
	Get(ctx context.Context, userID string) (*model.Preference, error)
}

// RecommendationHandler は嗜好モデルフィードバックのHTTPハンドラー。
type RecommendationHandler struct {
	service PreferenceServiceInterface
}

// NewRecommendationHandler はRecommendationHandlerを生成する。
func NewRecommendationHandler(service PreferenceServiceInterface) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

// recordFeedbackRequest はフィードバックリクエストのボディ。
// 「この記事をもっと見たい」「この記事はもう見たくない」のいずれか、
// または両方を同時に指定できる。
type recordFeedbackRequest struct {
	MoreArticleID string `json:"more_article_id"`
	LessArticleID string `json:"less_article_id"`
}

// preferenceResponse は嗜好モデルのAPIレスポンス。
type preferenceResponse struct {
	Preferred []string `json:"preferred_topic_ids"`
	Avoided   []string `json:"avoided_topic_ids"`
}

// RecordFeedback はフィードバックの記録を処理する。
// POST /api/recommendations
func (h *RecommendationHandler) RecordFeedback(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req recordFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	pref, err := h.service.Record(r.Context(), userID, req.MoreArticleID, req.LessArticleID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPreferenceResponse(pref))
}

// GetPreference は嗜好モデルを取得する。
// GET /api/recommendations
func (h *RecommendationHandler) GetPreference(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	pref, err := h.service.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toPreferenceResponse(pref))
}

func toPreferenceResponse(pref *model.Preference) preferenceResponse {
	resp := preferenceResponse{Preferred: []string{}, Avoided: []string{}}
	if pref != nil {
		if pref.Preferred != nil {
			resp.Preferred = pref.Preferred
		}
		if pref.Avoided != nil {
			resp.Avoided = pref.Avoided
		}
	}
	return resp
}
