package report

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/bunko/internal/model"
	"github.com/hitoshi/bunko/internal/repository"
)

// --- モック ---

type mockReportRepo struct {
	createFn         func(ctx context.Context, userID, articleID string) (bool, error)
	countReportersFn func(ctx context.Context, articleID string) (int, error)
}

func (m *mockReportRepo) Create(ctx context.Context, userID, articleID string) (bool, error) {
	return m.createFn(ctx, userID, articleID)
}
func (m *mockReportRepo) CountReporters(ctx context.Context, articleID string) (int, error) {
	return m.countReportersFn(ctx, articleID)
}
func (m *mockReportRepo) ListArticleIDsOverThreshold(ctx context.Context, threshold int) ([]string, error) {
	return nil, nil
}

type mockArticleRepo struct {
	findByIDFn     func(ctx context.Context, id string) (*model.Article, error)
	updateStatusFn func(ctx context.Context, id string, status model.ArticleStatus) error
}

func (m *mockArticleRepo) FindByID(ctx context.Context, id string) (*model.Article, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockArticleRepo) Create(ctx context.Context, article *model.Article) error {
	return nil
}
func (m *mockArticleRepo) UpdateStatus(ctx context.Context, id string, status model.ArticleStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
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

type mockReportRecorder struct {
	reports int
	trashed int
}

func (m *mockReportRecorder) RecordReport()         { m.reports++ }
func (m *mockReportRecorder) RecordArticleTrashed() { m.trashed++ }

func articleRepoWithStatus(status model.ArticleStatus) *mockArticleRepo {
	return &mockArticleRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Article, error) {
			return &model.Article{ID: id, Status: status}, nil
		},
	}
}

func assertAPIErrorCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %q, got nil", wantCode)
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Code != wantCode {
		t.Errorf("Code = %q, want %q", apiErr.Code, wantCode)
	}
}

// --- テスト ---

// TestService_Report は通報の作成を検証する。
// 閾値以下では記事の状態は変わらない。
func TestService_Report(t *testing.T) {
	reportRepo := &mockReportRepo{
		createFn: func(ctx context.Context, userID, articleID string) (bool, error) {
			return true, nil
		},
		countReportersFn: func(ctx context.Context, articleID string) (int, error) {
			return 1, nil
		},
	}
	articleRepo := articleRepoWithStatus(model.StatusPublished)
	articleRepo.updateStatusFn = func(ctx context.Context, id string, status model.ArticleStatus) error {
		t.Error("status should not change below threshold")
		return nil
	}
	recorder := &mockReportRecorder{}

	svc := NewService(reportRepo, articleRepo, recorder)

	if err := svc.Report(context.Background(), "user-1", "article-1"); err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if recorder.reports != 1 {
		t.Errorf("RecordReport called %d times, want 1", recorder.reports)
	}
	if recorder.trashed != 0 {
		t.Errorf("RecordArticleTrashed called %d times, want 0", recorder.trashed)
	}
}

// TestService_Report_ArticleNotFound は存在しない記事の通報を検証する。
func TestService_Report_ArticleNotFound(t *testing.T) {
	articleRepo := &mockArticleRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Article, error) {
			return nil, nil
		},
	}
	reportRepo := &mockReportRepo{
		createFn: func(ctx context.Context, userID, articleID string) (bool, error) {
			t.Error("report should not be created for missing article")
			return false, nil
		},
	}

	svc := NewService(reportRepo, articleRepo, nil)

	err := svc.Report(context.Background(), "user-1", "missing")
	assertAPIErrorCode(t, err, model.ErrCodeArticleNotFound)
}

// TestService_Report_Duplicate は同一ユーザーによる重複通報がConflictに
// なることを検証する。
func TestService_Report_Duplicate(t *testing.T) {
	reportRepo := &mockReportRepo{
		createFn: func(ctx context.Context, userID, articleID string) (bool, error) {
			return false, nil
		},
		countReportersFn: func(ctx context.Context, articleID string) (int, error) {
			t.Error("reporter count should not be checked for duplicate report")
			return 0, nil
		},
	}
	recorder := &mockReportRecorder{}

	svc := NewService(reportRepo, articleRepoWithStatus(model.StatusPublished), recorder)

	err := svc.Report(context.Background(), "user-1", "article-1")
	assertAPIErrorCode(t, err, model.ErrCodeDuplicateReport)
	if recorder.reports != 0 {
		t.Errorf("RecordReport called %d times, want 0", recorder.reports)
	}
}

// TestService_Report_AtThreshold は通報者数がちょうど閾値の場合に
// まだ遷移しないことを検証する（遷移は「閾値を超えた」時点）。
func TestService_Report_AtThreshold(t *testing.T) {
	reportRepo := &mockReportRepo{
		createFn: func(ctx context.Context, userID, articleID string) (bool, error) {
			return true, nil
		},
		countReportersFn: func(ctx context.Context, articleID string) (int, error) {
			return model.ReportTrashThreshold, nil
		},
	}
	articleRepo := articleRepoWithStatus(model.StatusPublished)
	articleRepo.updateStatusFn = func(ctx context.Context, id string, status model.ArticleStatus) error {
		t.Error("status should not change at exactly the threshold")
		return nil
	}

	svc := NewService(reportRepo, articleRepo, nil)

	if err := svc.Report(context.Background(), "user-4", "article-1"); err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
}

// TestService_Report_OverThreshold は通報者数が閾値を超えた時点で
// 記事がTrashedへ遷移することを検証する。
func TestService_Report_OverThreshold(t *testing.T) {
	reportRepo := &mockReportRepo{
		createFn: func(ctx context.Context, userID, articleID string) (bool, error) {
			return true, nil
		},
		countReportersFn: func(ctx context.Context, articleID string) (int, error) {
			return model.ReportTrashThreshold + 1, nil
		},
	}
	var gotStatus model.ArticleStatus
	articleRepo := articleRepoWithStatus(model.StatusPublished)
	articleRepo.updateStatusFn = func(ctx context.Context, id string, status model.ArticleStatus) error {
		gotStatus = status
		return nil
	}
	recorder := &mockReportRecorder{}

	svc := NewService(reportRepo, articleRepo, recorder)

	if err := svc.Report(context.Background(), "user-4", "article-1"); err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if gotStatus != model.StatusTrashed {
		t.Errorf("status = %q, want %q", gotStatus, model.StatusTrashed)
	}
	if recorder.trashed != 1 {
		t.Errorf("RecordArticleTrashed called %d times, want 1", recorder.trashed)
	}
}

// TestService_Report_AlreadyTrashed は既にTrashedの記事が再遷移しないことを検証する。
func TestService_Report_AlreadyTrashed(t *testing.T) {
	reportRepo := &mockReportRepo{
		createFn: func(ctx context.Context, userID, articleID string) (bool, error) {
			return true, nil
		},
		countReportersFn: func(ctx context.Context, articleID string) (int, error) {
			return model.ReportTrashThreshold + 5, nil
		},
	}
	articleRepo := articleRepoWithStatus(model.StatusTrashed)
	articleRepo.updateStatusFn = func(ctx context.Context, id string, status model.ArticleStatus) error {
		t.Error("trashed article should not transition again")
		return nil
	}

	svc := NewService(reportRepo, articleRepo, nil)

	if err := svc.Report(context.Background(), "user-9", "article-1"); err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
}
