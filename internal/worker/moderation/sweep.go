// Package moderation は通報数閾値による記事の自動ゴミ箱遷移を
// 定期的に再適用する掃き出しジョブを提供する。
//
// 通常はreportサービスが通報時に同期的に遷移を行うが、
// 外部ツールが直接通報行を書き込んだ場合の安全網として日次バッチで再適用する。
package moderation

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/bunko/internal/model"
	"github.com/hitoshi/bunko/internal/repository"
)

// SweepJob は閾値超過記事の掃き出しジョブ。冪等に実行できる。
type SweepJob struct {
	reportRepo  repository.ReportRepository
	articleRepo repository.ArticleRepository
	logger      *slog.Logger
	Threshold   int // 通報者数の閾値（デフォルト: model.ReportTrashThreshold）
}

// NewSweepJob は新しいSweepJobを生成する。
func NewSweepJob(
	reportRepo repository.ReportRepository,
	articleRepo repository.ArticleRepository,
	logger *slog.Logger,
) *SweepJob {
	return &SweepJob{
		reportRepo:  reportRepo,
		articleRepo: articleRepo,
		logger:      logger,
		Threshold:   model.ReportTrashThreshold,
	}
}

// Run は通報者数が閾値を超えた未処理の記事をTrashedへ遷移させる。
// 対象がない場合でもエラーにならない。
func (j *SweepJob) Run(ctx context.Context) error {
	start := time.Now()

	ids, err := j.reportRepo.ListArticleIDsOverThreshold(ctx, j.Threshold)
	if err != nil {
		j.logger.Error("閾値超過記事の取得に失敗しました",
			slog.String("error", err.Error()),
		)
		return err
	}

	trashed := 0
	for _, id := range ids {
		if err := j.articleRepo.UpdateStatus(ctx, id, model.StatusTrashed); err != nil {
			j.logger.Error("記事のゴミ箱遷移に失敗しました",
				slog.String("article_id", id),
				slog.String("error", err.Error()),
			)
			return err
		}
		trashed++
	}

	j.logger.Info("モデレーション掃き出しジョブが完了しました",
		slog.Int("trashed_count", trashed),
		slog.Int("threshold", j.Threshold),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return nil
}

// RunLoop は指定間隔でRunを繰り返し実行する。
// コンテキストのキャンセルで停止する。
func (j *SweepJob) RunLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				// 失敗しても次の周期で再試行する
				continue
			}
		}
	}
}
