package repository

import (
	"testing"
	"time"

	"github.com/hitoshi/bunko/internal/model"
)

// ピン/お気に入り/閲覧履歴の各コンストラクタが正しいテーブルを使うことを検証
func TestNewPostgresMarkRepos_Tables(t *testing.T) {
	tests := []struct {
		name      string
		repo      *PostgresMarkRepo
		wantTable string
	}{
		{"pin", NewPostgresPinRepo(nil), "pins"},
		{"favorite", NewPostgresFavoriteRepo(nil), "favorites"},
		{"reading_history", NewPostgresReadingHistoryRepo(nil), "reading_histories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.repo == nil {
				t.Fatal("expected non-nil repo")
			}
			if tt.repo.table != tt.wantTable {
				t.Errorf("table = %q, want %q", tt.repo.table, tt.wantTable)
			}
		})
	}
}

// Markモデルのフィールドが正しく構築されることを検証
func TestPostgresMarkRepo_MarkModel_Fields(t *testing.T) {
	now := time.Now()
	mark := &model.Mark{
		ID:        "mark-id-1",
		UserID:    "user-id-1",
		ArticleID: "article-id-1",
		CreatedAt: now,
	}

	if mark.UserID != "user-id-1" {
		t.Errorf("mark.UserID = %q, want %q", mark.UserID, "user-id-1")
	}
	if mark.ArticleID != "article-id-1" {
		t.Errorf("mark.ArticleID = %q, want %q", mark.ArticleID, "article-id-1")
	}
}
