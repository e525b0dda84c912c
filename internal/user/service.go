// Package user はユーザーの参照とセッション破棄を提供する。
// ユーザーの作成・削除とトークン発行は外部の認証基盤の責務。
package user

import (
	"context"

	"github.com/hitoshi/bunko/internal/model"
	"github.com/hitoshi/bunko/internal/repository"
)

// Service はユーザー管理のサービス。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}

// GetMe は操作ユーザー自身の情報を返す。
// セッションは有効だがユーザー行が存在しない場合はNotFoundを返す。
func (s *Service) GetMe(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// Logout はセッションをストアから削除する。
// 存在しないセッションIDの削除はno-opで成功する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.DeleteByID(ctx, sessionID)
}
