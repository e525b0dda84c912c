// Package preference は暗黙のフィードバックからユーザーごとの
// トピック嗜好モデルを維持するフィードバック更新処理を提供する。
package preference

import (
	"context"

	"github.com/hitoshi/bunko/internal/model"
	"github.com/hitoshi/bunko/internal/repository"
)

// UpdateRecorder は嗜好モデル更新のメトリクス記録インターフェース。
type UpdateRecorder interface {
	RecordPreferenceUpdate()
}

// Service は嗜好モデルのフィードバック更新サービス。
// PreferenceModelへの唯一の書き込み経路であり、更新は
// リポジトリのトランザクションでユーザーごとに直列化される。
type Service struct {
	prefRepo    repository.PreferenceRepository
	articleRepo repository.ArticleRepository
	recorder    UpdateRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderはnilでもよい。
func NewService(
	prefRepo repository.PreferenceRepository,
	articleRepo repository.ArticleRepository,
	recorder UpdateRecorder,
) *Service {
	return &Service{
		prefRepo:    prefRepo,
		articleRepo: articleRepo,
		recorder:    recorder,
	}
}

// Record は「この記事のような記事をもっと/もっと少なく」のフィードバックを
// 嗜好モデルに反映する。
//
// moreArticleIDのトピックはavoidedから除去されpreferredへ、
// lessArticleIDのトピックはpreferredから除去されavoidedへ移動する。
// 両方指定された場合は同一の論理操作として一括適用される。
//
// 参照する記事は公開済みでなければならない（非公開・削除済みからは学習しない）。
// 検証は一切の変更の前に行われ、部分適用は発生しない。
// トピックのアクティブ状態は問わない。
func (s *Service) Record(ctx context.Context, userID string, moreArticleID, lessArticleID string) (*model.Preference, error) {
	if moreArticleID == "" && lessArticleID == "" {
		return nil, model.NewInvalidParameterError("more_article_idまたはless_article_idのいずれかを指定してください")
	}

	var toPreferred, toAvoided []string

	if moreArticleID != "" {
		topicIDs, err := s.publishedArticleTopics(ctx, moreArticleID)
		if err != nil {
			return nil, err
		}
		toPreferred = topicIDs
	}

	if lessArticleID != "" {
		topicIDs, err := s.publishedArticleTopics(ctx, lessArticleID)
		if err != nil {
			return nil, err
		}
		toAvoided = topicIDs
	}

	pref, err := s.prefRepo.Move(ctx, userID, toPreferred, toAvoided)
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.RecordPreferenceUpdate()
	}

	return pref, nil
}

// Get はユーザーの嗜好モデルを返す。未作成の場合は空集合のモデルを返す。
func (s *Service) Get(ctx context.Context, userID string) (*model.Preference, error) {
	pref, err := s.prefRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return &model.Preference{UserID: userID}, nil
	}
	return pref, nil
}

// publishedArticleTopics は公開済み記事のトピックID集合を返す。
// 記事が存在しない、または公開済みでない場合はNotFound系のエラーを返す。
func (s *Service) publishedArticleTopics(ctx context.Context, articleID string) ([]string, error) {
	article, err := s.articleRepo.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, model.NewArticleNotFoundError(articleID)
	}
	if !article.IsPublished() {
		return nil, model.NewArticleNotPublishedError(articleID)
	}
	return article.TopicIDs, nil
}
