package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/bunko/internal/middleware"
	"github.com/hitoshi/bunko/internal/model"
)

// セッションCookie名。middlewareのセッション検証と同じCookieを参照する。
const sessionCookieName = "session_id"

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// GetMe は操作ユーザー自身の情報を返す。
	GetMe(ctx context.Context, userID string) (*model.User, error)
	// Logout はセッションをストアから削除する。
	Logout(ctx context.Context, sessionID string) error
}

// UserHandler はユーザー参照とログアウトのHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
	// Cookieクリア時の属性。セッション発行側の設定と一致させる。
	cookieSecure bool
	cookieDomain string
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface, cookieSecure bool, cookieDomain string) *UserHandler {
	return &UserHandler{
		service:      service,
		cookieSecure: cookieSecure,
		cookieDomain: cookieDomain,
	}
}

// userResponse はユーザーのレスポンスDTO。
type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// Me は操作ユーザー自身の情報を返す。
// GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	user, err := h.service.GetMe(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// Logout はセッションを破棄し、Cookieをクリアする。
// セッション削除が失敗してもCookieはクリアする。
// POST /api/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.cookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}
