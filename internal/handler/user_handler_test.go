package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/bunko/internal/model"
)

// mockUserService はUserServiceInterfaceのモック実装。
type mockUserService struct {
	getMeFn  func(ctx context.Context, userID string) (*model.User, error)
	logoutFn func(ctx context.Context, sessionID string) error
}

func (m *mockUserService) GetMe(ctx context.Context, userID string) (*model.User, error) {
	if m.getMeFn != nil {
		return m.getMeFn(ctx, userID)
	}
	return &model.User{ID: userID}, nil
}

func (m *mockUserService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

// TestUserHandler_Me は操作ユーザー自身の情報取得を検証する。
func TestUserHandler_Me(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	service := &mockUserService{
		getMeFn: func(ctx context.Context, userID string) (*model.User, error) {
			return &model.User{
				ID:        userID,
				Email:     "hitoshi@example.com",
				Name:      "hitoshi",
				CreatedAt: now,
			}, nil
		},
	}
	h := NewUserHandler(service, false, "")

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), "user-123")
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp userResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "user-123" {
		t.Errorf("id = %q, want %q", resp.ID, "user-123")
	}
	if resp.Email != "hitoshi@example.com" {
		t.Errorf("email = %q, want %q", resp.Email, "hitoshi@example.com")
	}
	if resp.CreatedAt != "2026-08-01T12:00:00Z" {
		t.Errorf("created_at = %q, want RFC3339 UTC", resp.CreatedAt)
	}
}

// TestUserHandler_Me_NotFound はユーザー行が存在しない場合の404を検証する。
func TestUserHandler_Me_NotFound(t *testing.T) {
	service := &mockUserService{
		getMeFn: func(ctx context.Context, userID string) (*model.User, error) {
			return nil, model.NewUserNotFoundError()
		},
	}
	h := NewUserHandler(service, false, "")

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), "user-123")
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	result := parseAPIErrorResponse(t, w)
	if result["code"] != model.ErrCodeUserNotFound {
		t.Errorf("code = %q, want %q", result["code"], model.ErrCodeUserNotFound)
	}
}

// TestUserHandler_Me_Unauthorized は未認証リクエストの401を検証する。
func TestUserHandler_Me_Unauthorized(t *testing.T) {
	h := NewUserHandler(&mockUserService{}, false, "")

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// TestUserHandler_Logout はセッション破棄とCookieクリアを検証する。
func TestUserHandler_Logout(t *testing.T) {
	var deletedSession string
	service := &mockUserService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			deletedSession = sessionID
			return nil
		},
	}
	h := NewUserHandler(service, true, "example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "session-1"})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if deletedSession != "session-1" {
		t.Errorf("deleted session = %q, want %q", deletedSession, "session-1")
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	cleared := cookies[0]
	if cleared.Name != "session_id" || cleared.Value != "" {
		t.Errorf("cookie = %s=%q, want cleared session_id", cleared.Name, cleared.Value)
	}
	if cleared.MaxAge != -1 {
		t.Errorf("MaxAge = %d, want -1", cleared.MaxAge)
	}
	if !cleared.Secure || cleared.Domain != "example.com" {
		t.Errorf("cookie attributes = secure:%v domain:%q, want configured values", cleared.Secure, cleared.Domain)
	}
}

// TestUserHandler_Logout_NoCookie はCookieなしでもCookieクリアだけ行われることを検証する。
func TestUserHandler_Logout_NoCookie(t *testing.T) {
	service := &mockUserService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			t.Error("session delete should not run without a cookie")
			return nil
		},
	}
	h := NewUserHandler(service, false, "")

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	w := httptest.NewRecorder()

	h.Logout(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if len(w.Result().Cookies()) != 1 {
		t.Error("expected session cookie to be cleared")
	}
}

// TestUserHandler_Logout_DeleteFails はセッション削除が失敗しても
// Cookieがクリアされることを検証する。
func TestUserHandler_Logout_DeleteFails(t *testing.T) {
	service := &mockUserService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			return context.DeadlineExceeded
		},
	}
	h := NewUserHandler(service, false, "")

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "session-1"})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Error("expected session cookie to be cleared even when delete fails")
	}
}
