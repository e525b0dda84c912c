package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/bunko/internal/model"
)

// --- モック ---

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.findByIDFn(ctx, id)
}

type mockSessionRepo struct {
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return nil, nil
}
func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	return m.deleteByIDFn(ctx, id)
}

// --- テスト ---

// TestService_GetMe は操作ユーザー自身の情報取得を検証する。
func TestService_GetMe(t *testing.T) {
	now := time.Now()
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{
				ID:        id,
				Email:     "hitoshi@example.com",
				Name:      "hitoshi",
				CreatedAt: now,
			}, nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{})

	user, err := svc.GetMe(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetMe returned error: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("ID = %q, want %q", user.ID, "user-1")
	}
	if user.Email != "hitoshi@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "hitoshi@example.com")
	}
}

// TestService_GetMe_NotFound はユーザー行が存在しない場合を検証する。
func TestService_GetMe_NotFound(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
	}

	svc := NewService(userRepo, &mockSessionRepo{})

	_, err := svc.GetMe(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for missing user")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeUserNotFound)
	}
}

// TestService_Logout はセッション削除の委譲を検証する。
func TestService_Logout(t *testing.T) {
	var deletedID string
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}

	svc := NewService(&mockUserRepo{}, sessionRepo)

	if err := svc.Logout(context.Background(), "session-1"); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if deletedID != "session-1" {
		t.Errorf("deleted session = %q, want %q", deletedID, "session-1")
	}
}

// TestService_Logout_Error はストアエラーの伝播を検証する。
func TestService_Logout_Error(t *testing.T) {
	wantErr := errors.New("db down")
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			return wantErr
		},
	}

	svc := NewService(&mockUserRepo{}, sessionRepo)

	if err := svc.Logout(context.Background(), "session-1"); !errors.Is(err, wantErr) {
		t.Errorf("Logout error = %v, want %v", err, wantErr)
	}
}
