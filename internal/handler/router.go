package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/bunko/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// フィード・記事
	FeedService      FeedServiceInterface
	ArticleService   ArticleServiceInterface
	FeedDefaultLimit int

	// 嗜好モデル
	PreferenceService PreferenceServiceInterface

	// 拍手・通報
	ClapService   ClapServiceInterface
	ReportService ReportServiceInterface

	// トピック
	TopicService TopicServiceInterface

	// ユーザー参照・ログアウト
	UserService UserServiceInterface
	// セッションCookieクリア時の属性（発行側の設定と一致させる）
	CookieSecure bool
	CookieDomain string

	// ヘルスチェック・メトリクス（認証の外に公開する）
	Healthz http.HandlerFunc
	Metrics http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → CORS → Session → RateLimit(General)
//
// /healthz と /metrics は認証・レート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	// CORS ミドルウェアを認証より先に適用（プリフライトに効く）
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	articleHandler := NewArticleHandler(deps.FeedService, deps.ArticleService, deps.FeedDefaultLimit)
	recHandler := NewRecommendationHandler(deps.PreferenceService)
	clapHandler := NewClapHandler(deps.ClapService)
	reportHandler := NewReportHandler(deps.ReportService)
	topicHandler := NewTopicHandler(deps.TopicService)
	userHandler := NewUserHandler(deps.UserService, deps.CookieSecure, deps.CookieDomain)

	// --- 認証不要のルート ---

	if deps.Healthz != nil {
		r.Get("/healthz", deps.Healthz)
	}
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// フィード・記事
		r.Route("/api/articles", func(r chi.Router) {
			r.Get("/", articleHandler.ListArticles)
			// POST /api/articles - 記事作成（投稿専用レート制限を追加）
			r.With(deps.RateLimiter.PublishMiddleware()).Post("/", articleHandler.CreateArticle)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", articleHandler.GetArticle)

				r.Post("/pin", articleHandler.PinArticle)
				r.Delete("/pin", articleHandler.UnpinArticle)

				r.Post("/favorite", articleHandler.FavoriteArticle)
				r.Delete("/favorite", articleHandler.UnfavoriteArticle)

				r.Post("/claps", clapHandler.AddClap)
				r.Delete("/claps", clapHandler.RemoveClaps)

				r.Post("/report", reportHandler.ReportArticle)
			})
		})

		// 嗜好モデルフィードバック
		r.Route("/api/recommendations", func(r chi.Router) {
			r.Get("/", recHandler.GetPreference)
			r.Post("/", recHandler.RecordFeedback)
		})

		// トピック
		r.Route("/api/topics", func(r chi.Router) {
			r.Get("/", topicHandler.ListTopics)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", topicHandler.GetTopic)
				r.Post("/follow", topicHandler.FollowTopic)
				r.Delete("/follow", topicHandler.UnfollowTopic)
			})
		})

		// ユーザー自身の情報とシグナル一覧
		r.Route("/api/users/me", func(r chi.Router) {
			r.Get("/", userHandler.Me)
			r.Get("/pins", articleHandler.ListPins)
			r.Get("/favorites", articleHandler.ListFavorites)
			r.Get("/history", articleHandler.ListReadingHistory)
			r.Get("/topic-follows", topicHandler.ListFollows)
		})

		// ログアウト（セッション破棄とCookieクリア）
		r.Post("/api/logout", userHandler.Logout)
	})

	return r
}
