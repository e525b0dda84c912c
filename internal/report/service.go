// Package report は記事の通報と、通報数閾値による自動ゴミ箱遷移を提供する。
package report

import (
	"context"
	"log/slog"

	"github.com/hitoshi/bunko/internal/model"
	"github.com/hitoshi/bunko/internal/repository"
)

// ReportRecorder は通報と自動遷移のメトリクス記録インターフェース。
type ReportRecorder interface {
	RecordReport()
	RecordArticleTrashed()
}

// Service は通報管理のサービス。
type Service struct {
	reportRepo  repository.ReportRepository
	articleRepo repository.ArticleRepository
	recorder    ReportRecorder
}

// NewService はServiceの新しいインスタンスを生成する。recorderはnilでもよい。
func NewService(
	reportRepo repository.ReportRepository,
	articleRepo repository.ArticleRepository,
	recorder ReportRecorder,
) *Service {
	return &Service{
		reportRepo:  reportRepo,
		articleRepo: articleRepo,
		recorder:    recorder,
	}
}

// Report は記事を通報する。
// 同一ユーザーによる重複通報はConflictエラーになる。
// 通報者数が閾値（3人）を超えた時点で記事はTrashedへ遷移する。
// Trashedはパイプラインにとって終端的な除外となる。
func (s *Service) Report(ctx context.Context, userID, articleID string) error {
	article, err := s.articleRepo.FindByID(ctx, articleID)
	if err != nil {
		return err
	}
	if article == nil {
		return model.NewArticleNotFoundError(articleID)
	}

	created, err := s.reportRepo.Create(ctx, userID, articleID)
	if err != nil {
		return err
	}
	if !created {
		return model.NewDuplicateReportError(articleID)
	}

	if s.recorder != nil {
		s.recorder.RecordReport()
	}

	count, err := s.reportRepo.CountReporters(ctx, articleID)
	if err != nil {
		return err
	}

	if count > model.ReportTrashThreshold && article.Status != model.StatusTrashed {
		if err := s.articleRepo.UpdateStatus(ctx, articleID, model.StatusTrashed); err != nil {
			return err
		}
		slog.Info("記事を通報によりゴミ箱へ移動しました",
			slog.String("article_id", articleID),
			slog.Int("reporter_count", count),
		)
		if s.recorder != nil {
			s.recorder.RecordArticleTrashed()
		}
	}

	return nil
}
