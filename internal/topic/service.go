// Package topic はトピックの参照とフォロー管理を提供する。
package topic

import (
	"context"

	"github.com/hitoshi/bunko/internal/model"
	"github.com/hitoshi/bunko/internal/repository"
)

// Service はトピック管理のサービス。
type Service struct {
	topicRepo  repository.TopicRepository
	followRepo repository.TopicFollowRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	topicRepo repository.TopicRepository,
	followRepo repository.TopicFollowRepository,
) *Service {
	return &Service{
		topicRepo:  topicRepo,
		followRepo: followRepo,
	}
}

// ListActive はアクティブなトピック一覧を名前昇順で返す。
func (s *Service) ListActive(ctx context.Context) ([]*model.Topic, error) {
	return s.topicRepo.ListActive(ctx)
}

// Get は指定IDのトピックを返す。見つからない場合はNotFoundを返す。
func (s *Service) Get(ctx context.Context, topicID string) (*model.Topic, error) {
	topic, err := s.topicRepo.FindByID(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, model.NewTopicNotFoundError(topicID)
	}
	return topic, nil
}

// Follow はトピックをフォローする。
// 非アクティブなトピックは新規フォローの対象外（NotFound）。
// 重複フォローはConflictエラーになる（マークと異なり冪等ではない）。
func (s *Service) Follow(ctx context.Context, userID, topicID string) error {
	topic, err := s.topicRepo.FindByID(ctx, topicID)
	if err != nil {
		return err
	}
	if topic == nil || !topic.IsActive {
		return model.NewTopicNotFoundError(topicID)
	}

	created, err := s.followRepo.Create(ctx, userID, topicID)
	if err != nil {
		return err
	}
	if !created {
		return model.NewDuplicateTopicFollowError(topicID)
	}
	return nil
}

// Unfollow はフォローを解除する。フォローが存在しない場合はNotFoundを返す。
func (s *Service) Unfollow(ctx context.Context, userID, topicID string) error {
	removed, err := s.followRepo.Delete(ctx, userID, topicID)
	if err != nil {
		return err
	}
	if !removed {
		return model.NewTopicNotFoundError(topicID)
	}
	return nil
}

// ListFollows はユーザーのフォロー一覧を作成日時降順で返す。
func (s *Service) ListFollows(ctx context.Context, userID string) ([]model.TopicFollow, error) {
	return s.followRepo.ListByUserID(ctx, userID)
}
