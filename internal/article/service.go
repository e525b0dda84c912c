// Package article は記事の作成・閲覧とユーザーごとのマーク操作を提供する。
package article

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/bunko/internal/model"
	"github.com/hitoshi/bunko/internal/repository"
)

// Sanitizer は記事本文HTMLのサニタイズインターフェース。
// security.ContentSanitizerServiceの部分集合として定義する。
type Sanitizer interface {
	Sanitize(rawHTML string) string
}

// Service は記事管理のサービス。
type Service struct {
	articleRepo repository.ArticleRepository
	topicRepo   repository.TopicRepository
	pinRepo     repository.MarkRepository
	favRepo     repository.MarkRepository
	historyRepo repository.MarkRepository
	sanitizer   Sanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	articleRepo repository.ArticleRepository,
	topicRepo repository.TopicRepository,
	pinRepo repository.MarkRepository,
	favRepo repository.MarkRepository,
	historyRepo repository.MarkRepository,
	sanitizer Sanitizer,
) *Service {
	return &Service{
		articleRepo: articleRepo,
		topicRepo:   topicRepo,
		pinRepo:     pinRepo,
		favRepo:     favRepo,
		historyRepo: historyRepo,
		sanitizer:   sanitizer,
	}
}

// CreateInput は記事作成の入力。
type CreateInput struct {
	Title    string
	Summary  string
	Body     string // 未サニタイズのHTML
	TopicIDs []string
}

// Create は記事をDraft状態で作成する。
// 本文はbluemondayポリシーでサニタイズされ、
// 非アクティブなトピックは新規の関連付けから除外される。
func (s *Service) Create(ctx context.Context, authorID string, input CreateInput) (*model.Article, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, model.NewInvalidParameterError("タイトルは必須です")
	}

	var topicIDs []string
	for _, topicID := range input.TopicIDs {
		topic, err := s.topicRepo.FindByID(ctx, topicID)
		if err != nil {
			return nil, err
		}
		if topic == nil {
			return nil, model.NewTopicNotFoundError(topicID)
		}
		if !topic.IsActive {
			continue
		}
		topicIDs = append(topicIDs, topicID)
	}

	now := time.Now().UTC()
	article := &model.Article{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Title:     title,
		Summary:   input.Summary,
		Body:      s.sanitizer.Sanitize(input.Body),
		Status:    model.StatusDraft,
		TopicIDs:  topicIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}

	return article, nil
}

// GetDetail は記事詳細を取得する。
//
// 公開済みでない記事は執筆者本人にしか見えない（他者にはNotFound）。
// 取得の副作用として閲覧数を加算し、閲覧履歴を記録する。
// 履歴はストア側の一意制約により同一 (user, article) につき最大1件で、
// 同一記事の並行閲覧でも重複しない。閲覧数の加算は競合してもどちらも反映される。
func (s *Service) GetDetail(ctx context.Context, userID, articleID string) (*model.Article, error) {
	article, err := s.articleRepo.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, model.NewArticleNotFoundError(articleID)
	}
	if !article.IsPublished() && article.AuthorID != userID {
		return nil, model.NewArticleNotFoundError(articleID)
	}

	if err := s.articleRepo.IncrementViews(ctx, articleID); err != nil {
		return nil, err
	}
	if _, err := s.historyRepo.Mark(ctx, userID, articleID); err != nil {
		return nil, err
	}

	article.ViewsCount++
	return article, nil
}

// MarkResult はマーク操作の結果を表す。
// 冪等な操作のため、no-opの結果もエラーではなく状態として報告する。
type MarkResult struct {
	Created bool
}

// Pin は記事を執筆記事一覧の先頭に固定する。冪等で、2回目以降はCreated=falseを返す。
// 自身の執筆記事以外へのピンはPermissionDeniedになる。
func (s *Service) Pin(ctx context.Context, userID, articleID string) (*MarkResult, error) {
	article, err := s.articleRepo.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, model.NewArticleNotFoundError(articleID)
	}
	if article.AuthorID != userID {
		return nil, model.NewPermissionDeniedError()
	}

	created, err := s.pinRepo.Mark(ctx, userID, articleID)
	if err != nil {
		return nil, err
	}
	return &MarkResult{Created: created}, nil
}

// Unpin はピンを解除する。ピンが存在しない場合はNotFoundを返す。
func (s *Service) Unpin(ctx context.Context, userID, articleID string) error {
	removed, err := s.pinRepo.Unmark(ctx, userID, articleID)
	if err != nil {
		return err
	}
	if !removed {
		return model.NewMarkNotFoundError(articleID)
	}
	return nil
}

// Favorite は記事をお気に入りに追加する。冪等で、2回目以降はCreated=falseを返す。
func (s *Service) Favorite(ctx context.Context, userID, articleID string) (*MarkResult, error) {
	article, err := s.articleRepo.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, model.NewArticleNotFoundError(articleID)
	}

	created, err := s.favRepo.Mark(ctx, userID, articleID)
	if err != nil {
		return nil, err
	}
	return &MarkResult{Created: created}, nil
}

// Unfavorite はお気に入りを解除する。存在しない場合はNotFoundを返す。
func (s *Service) Unfavorite(ctx context.Context, userID, articleID string) error {
	removed, err := s.favRepo.Unmark(ctx, userID, articleID)
	if err != nil {
		return err
	}
	if !removed {
		return model.NewMarkNotFoundError(articleID)
	}
	return nil
}

// ListPins はユーザーのピン一覧を作成日時降順で返す。
func (s *Service) ListPins(ctx context.Context, userID string) ([]model.Mark, error) {
	return s.pinRepo.ListForUser(ctx, userID)
}

// ListFavorites はユーザーのお気に入り記事を作成日時降順で返す。
func (s *Service) ListFavorites(ctx context.Context, userID string) ([]*model.Article, error) {
	return s.articleRepo.ListByMark(ctx, userID, model.MarkFavorite)
}

// ListReadingHistory はユーザーの閲覧履歴記事を作成日時降順で返す。
func (s *Service) ListReadingHistory(ctx context.Context, userID string) ([]*model.Article, error) {
	return s.articleRepo.ListByMark(ctx, userID, model.MarkReadingHistory)
}
