package feed

import (
	"context"
	"time"

	"github.com/hitoshi/bunko/internal/model"
	"github.com/hitoshi/bunko/internal/repository"
)

// QueryRecorder はフィードクエリのメトリクス記録インターフェース。
// metrics.Collectorが実装する。
type QueryRecorder interface {
	RecordFeedQuery(source string, duration time.Duration)
}

// Service はフィードクエリの実行サービス。
// パラメータからエントリポイントを解決し、絞り込み計画を1回のストアクエリとして
// 実行するか、再定義ソースの専用クエリへ委譲する。
type Service struct {
	articleRepo repository.ArticleRepository
	prefRepo    repository.PreferenceRepository
	recorder    QueryRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// recorderはnilでもよい（メトリクスなしで動作する）。
func NewService(
	articleRepo repository.ArticleRepository,
	prefRepo repository.PreferenceRepository,
	recorder QueryRecorder,
) *Service {
	return &Service{
		articleRepo: articleRepo,
		prefRepo:    prefRepo,
		recorder:    recorder,
	}
}

// Select はフィードクエリを実行し、順序付きの記事列を返す。
// userIDは操作ユーザーの識別子で、再定義ステージと嗜好モデルの解決に使う。
//
// エラーにならないエッジケース:
//   - 存在しないトピックID、一致しない検索文字列は空の結果を返す。
//   - TopN=0 はストアに問い合わせず空の結果を返す。
//
// TopNが負の場合はValidationErrorを返す。
func (s *Service) Select(ctx context.Context, userID string, p Params) ([]*model.Article, error) {
	source := ResolveSource(p)
	start := time.Now()

	articles, err := s.selectFrom(ctx, userID, source, p)
	if err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.RecordFeedQuery(string(source), time.Since(start))
	}

	return articles, nil
}

// selectFrom は解決済みのエントリポイントに応じてクエリを実行する。
func (s *Service) selectFrom(ctx context.Context, userID string, source Source, p Params) ([]*model.Article, error) {
	switch source {
	case SourceAuthorArticles:
		return s.selectAuthorArticles(ctx, userID)
	case SourceReadingHistory:
		return s.articleRepo.ListByMark(ctx, userID, model.MarkReadingHistory)
	case SourceFavorites:
		return s.articleRepo.ListByMark(ctx, userID, model.MarkFavorite)
	default:
		return s.selectPublished(ctx, userID, p)
	}
}

// selectAuthorArticles は自身の執筆記事を全ステータス対象で返す。
// ピン留め記事が先頭（ピン作成日時降順）、続いて記事作成日時降順。
func (s *Service) selectAuthorArticles(ctx context.Context, userID string) ([]*model.Article, error) {
	withPins, err := s.articleRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	articles := make([]*model.Article, len(withPins))
	for i := range withPins {
		a := withPins[i].Article
		articles[i] = &a
	}
	return articles, nil
}

// selectPublished は公開済みベースラインへのAND絞り込み計画を組み立てて実行する。
func (s *Service) selectPublished(ctx context.Context, userID string, p Params) ([]*model.Article, error) {
	if p.TopN != nil {
		if *p.TopN < 0 {
			return nil, model.NewInvalidParameterError("get_top_articlesは0以上で指定してください")
		}
		if *p.TopN == 0 {
			return []*model.Article{}, nil
		}
	}

	q := repository.ArticleQuery{
		TopicID: p.TopicID,
		Search:  p.Search,
		TopN:    p.TopN,
		Limit:   p.Limit,
	}

	if p.IsRecommend {
		pref, err := s.prefRepo.FindByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		// 嗜好モデル未作成または両集合とも空の場合はno-op
		if pref != nil {
			q.Preferred = pref.Preferred
			q.Avoided = pref.Avoided
		}
	}

	return s.articleRepo.Query(ctx, q)
}
