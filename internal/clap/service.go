// Package clap は記事への拍手（上限付きカウンタ）を提供する。
package clap

import (
	"context"

	"github.com/hitoshi/bunko/internal/model"
	"github.com/hitoshi/bunko/internal/repository"
)

// ClapRecorder は拍手のメトリクス記録インターフェース。
type ClapRecorder interface {
	RecordClap()
}

// Service は拍手管理のサービス。
type Service struct {
	clapRepo    repository.ClapRepository
	articleRepo repository.ArticleRepository
	recorder    ClapRecorder
}

// NewService はServiceの新しいインスタンスを生成する。recorderはnilでもよい。
func NewService(
	clapRepo repository.ClapRepository,
	articleRepo repository.ArticleRepository,
	recorder ClapRecorder,
) *Service {
	return &Service{
		clapRepo:    clapRepo,
		articleRepo: articleRepo,
		recorder:    recorder,
	}
}

// Increment は公開済み記事への拍手を1加算し、保存後の値を返す。
// 加算はストア側で原子的に min(count+1, 50) として適用され、
// 上限到達後の加算はエラーにならず現在値を返す。
func (s *Service) Increment(ctx context.Context, userID, articleID string) (int, error) {
	article, err := s.articleRepo.FindByID(ctx, articleID)
	if err != nil {
		return 0, err
	}
	if article == nil || !article.IsPublished() {
		return 0, model.NewArticleNotFoundError(articleID)
	}

	count, err := s.clapRepo.Increment(ctx, userID, articleID)
	if err != nil {
		return 0, err
	}

	if s.recorder != nil {
		s.recorder.RecordClap()
	}

	return count, nil
}

// Remove は拍手レコードを削除する（0へのリセットではなく行の削除）。
// レコードが存在しない場合はNotFoundを返す。
func (s *Service) Remove(ctx context.Context, userID, articleID string) error {
	removed, err := s.clapRepo.Delete(ctx, userID, articleID)
	if err != nil {
		return err
	}
	if !removed {
		return model.NewClapNotFoundError(articleID)
	}
	return nil
}
