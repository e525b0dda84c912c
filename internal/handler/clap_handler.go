package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/bunko/internal/middleware"
)

// ClapServiceInterface は拍手ハンドラーが必要とするサービスインターフェース。
type ClapServiceInterface interface {
	// Increment は拍手を1つ加算し、加算後の件数を返す。上限到達後はno-op。
	Increment(ctx context.Context, userID, articleID string) (int, error)
	// Remove は拍手レコードを削除する。
	Remove(ctx context.Context, userID, articleID string) error
}

// ClapHandler は拍手のHTTPハンドラー。
type ClapHandler struct {
	service ClapServiceInterface
}

// NewClapHandler はClapHandlerを生成する。
func NewClapHandler(service ClapServiceInterface) *ClapHandler {
	return &ClapHandler{service: service}
}

// clapResponse は拍手加算後の件数レスポンス。
type clapResponse struct {
	Count int `json:"count"`
}

// AddClap は拍手の加算を処理する。
// POST /api/articles/:id/claps
func (h *ClapHandler) AddClap(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	articleID := chi.URLParam(r, "id")

	count, err := h.service.Increment(r.Context(), userID, articleID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(clapResponse{Count: count})
}

// RemoveClaps は拍手の取り消しを処理する。
// DELETE /api/articles/:id/claps
func (h *ClapHandler) RemoveClaps(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	articleID := chi.URLParam(r, "id")

	if err := h.service.Remove(r.Context(), userID, articleID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
