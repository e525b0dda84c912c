package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/bunko/internal/model"
)

// mockReportService はReportServiceInterfaceのモック実装。
type mockReportService struct {
	reportFn func(ctx context.Context, userID, articleID string) error
}

func (m *mockReportService) Report(ctx context.Context, userID, articleID string) error {
	if m.reportFn != nil {
		return m.reportFn(ctx, userID, articleID)
	}
	return nil
}

func TestReportHandler_ReportArticle_Success(t *testing.T) {
	svc := &mockReportService{
		reportFn: func(ctx context.Context, userID, articleID string) error {
			if userID != "user-123" {
				t.Errorf("userID = %q, want %q", userID, "user-123")
			}
			if articleID != "article-1" {
				t.Errorf("articleID = %q, want %q", articleID, "article-1")
			}
			return nil
		},
	}

	h := NewReportHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/articles/article-1/report", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "article-1")
	w := httptest.NewRecorder()

	h.ReportArticle(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
}

func TestReportHandler_ReportArticle_Duplicate_ReturnsConflict(t *testing.T) {
	svc := &mockReportService{
		reportFn: func(ctx context.Context, userID, articleID string) error {
			return model.NewDuplicateReportError(articleID)
		},
	}

	h := NewReportHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/articles/article-1/report", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "article-1")
	w := httptest.NewRecorder()

	h.ReportArticle(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
	result := parseAPIErrorResponse(t, w)
	if result["code"] != model.ErrCodeDuplicateReport {
		t.Errorf("code = %q, want %q", result["code"], model.ErrCodeDuplicateReport)
	}
}

func TestReportHandler_ReportArticle_ArticleNotFound(t *testing.T) {
	svc := &mockReportService{
		reportFn: func(ctx context.Context, userID, articleID string) error {
			return model.NewArticleNotFoundError(articleID)
		},
	}

	h := NewReportHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/articles/missing/report", nil)
	req = withUserID(req, "user-123")
	req = withChiURLParam(req, "id", "missing")
	w := httptest.NewRecorder()

	h.ReportArticle(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestReportHandler_ReportArticle_Unauthorized(t *testing.T) {
	h := NewReportHandler(&mockReportService{})

	req := httptest.NewRequest(http.MethodPost, "/api/articles/article-1/report", nil)
	w := httptest.NewRecorder()

	h.ReportArticle(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
