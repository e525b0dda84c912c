package moderation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hitoshi/bunko/internal/model"
	"github.com/hitoshi/bunko/internal/repository"
)

// --- モック ---

type mockReportRepo struct {
	listOverThresholdFn func(ctx context.Context, threshold int) ([]string, error)
}

func (m *mockReportRepo) Create(ctx context.Context, userID, articleID string) (bool, error) {
	return false, nil
}
func (m *mockReportRepo) CountReporters(ctx context.Context, articleID string) (int, error) {
	return 0, nil
}
func (m *mockReportRepo) ListArticleIDsOverThreshold(ctx context.Context, threshold int) ([]string, error) {
	return m.listOverThresholdFn(ctx, threshold)
}

type mockArticleRepo struct {
	updateStatusFn func(ctx context.Context, id string, status model.ArticleStatus) error
}

func (m *mockArticleRepo) FindByID(ctx context.Context, id string) (*model.Article, error) {
	return nil, nil
}
func (m *mockArticleRepo) Create(ctx context.Context, article *model.Article) error {
	return nil
}
func (m *mockArticleRepo) UpdateStatus(ctx context.Context, id string, status model.ArticleStatus) error {
	return m.updateStatusFn(ctx, id, status)
}
func (m *mockArticleRepo) IncrementViews(ctx context.Context, id string) error {
	return nil
}
func (m *mockArticleRepo) Query(ctx context.Context, q repository.ArticleQuery) ([]*model.Article, error) {
	return nil, nil
}
func (m *mockArticleRepo) ListByAuthor(ctx context.Context, authorID string) ([]model.ArticleWithPin, error) {
	return nil, nil
}
func (m *mockArticleRepo) ListByMark(ctx context.Context, userID string, kind model.MarkKind) ([]*model.Article, error) {
	return nil, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- テスト ---

// TestSweepJob_Run は閾値超過記事のゴミ箱遷移を検証する。
func TestSweepJob_Run(t *testing.T) {
	var gotThreshold int
	reportRepo := &mockReportRepo{
		listOverThresholdFn: func(ctx context.Context, threshold int) ([]string, error) {
			gotThreshold = threshold
			return []string{"article-1", "article-2"}, nil
		},
	}
	var trashed []string
	articleRepo := &mockArticleRepo{
		updateStatusFn: func(ctx context.Context, id string, status model.ArticleStatus) error {
			if status != model.StatusTrashed {
				t.Errorf("status = %q, want %q", status, model.StatusTrashed)
			}
			trashed = append(trashed, id)
			return nil
		},
	}

	job := NewSweepJob(reportRepo, articleRepo, discardLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if gotThreshold != model.ReportTrashThreshold {
		t.Errorf("threshold = %d, want %d", gotThreshold, model.ReportTrashThreshold)
	}
	if len(trashed) != 2 || trashed[0] != "article-1" || trashed[1] != "article-2" {
		t.Errorf("trashed = %v, want [article-1 article-2]", trashed)
	}
}

// TestSweepJob_Run_NoTargets は対象がない場合にno-opで成功することを検証する。
func TestSweepJob_Run_NoTargets(t *testing.T) {
	reportRepo := &mockReportRepo{
		listOverThresholdFn: func(ctx context.Context, threshold int) ([]string, error) {
			return nil, nil
		},
	}
	articleRepo := &mockArticleRepo{
		updateStatusFn: func(ctx context.Context, id string, status model.ArticleStatus) error {
			t.Error("no status update expected")
			return nil
		},
	}

	job := NewSweepJob(reportRepo, articleRepo, discardLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

// TestSweepJob_Run_ListError は取得失敗がエラーとして返ることを検証する。
func TestSweepJob_Run_ListError(t *testing.T) {
	wantErr := errors.New("db down")
	reportRepo := &mockReportRepo{
		listOverThresholdFn: func(ctx context.Context, threshold int) ([]string, error) {
			return nil, wantErr
		},
	}

	job := NewSweepJob(reportRepo, &mockArticleRepo{}, discardLogger())

	if err := job.Run(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("Run error = %v, want %v", err, wantErr)
	}
}

// TestSweepJob_Run_UpdateError は遷移失敗がエラーとして返ることを検証する。
func TestSweepJob_Run_UpdateError(t *testing.T) {
	wantErr := errors.New("update failed")
	reportRepo := &mockReportRepo{
		listOverThresholdFn: func(ctx context.Context, threshold int) ([]string, error) {
			return []string{"article-1"}, nil
		},
	}
	articleRepo := &mockArticleRepo{
		updateStatusFn: func(ctx context.Context, id string, status model.ArticleStatus) error {
			return wantErr
		},
	}

	job := NewSweepJob(reportRepo, articleRepo, discardLogger())

	if err := job.Run(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("Run error = %v, want %v", err, wantErr)
	}
}

// TestSweepJob_CustomThreshold は閾値の上書きがそのままクエリに渡ることを検証する。
func TestSweepJob_CustomThreshold(t *testing.T) {
	var gotThreshold int
	reportRepo := &mockReportRepo{
		listOverThresholdFn: func(ctx context.Context, threshold int) ([]string, error) {
			gotThreshold = threshold
			return nil, nil
		},
	}

	job := NewSweepJob(reportRepo, &mockArticleRepo{}, discardLogger())
	job.Threshold = 10

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if gotThreshold != 10 {
		t.Errorf("threshold = %d, want 10", gotThreshold)
	}
}

// TestSweepJob_RunLoop はコンテキストのキャンセルでループが停止することを検証する。
func TestSweepJob_RunLoop(t *testing.T) {
	reportRepo := &mockReportRepo{
		listOverThresholdFn: func(ctx context.Context, threshold int) ([]string, error) {
			return nil, nil
		},
	}

	job := NewSweepJob(reportRepo, &mockArticleRepo{}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.RunLoop(ctx, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunLoop did not stop after context cancellation")
	}
}
