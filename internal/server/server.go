// Package server は Studio を JSON API として公開する HTTP サーバーです。
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/shouni/gemini-studio-kit/pkg/studio"
)

const shutdownTimeout = 10 * time.Second

// Server は Studio のインテントを HTTP ルートに割り当てます。
type Server struct {
	studio *studio.Studio
	engine *gin.Engine
}

// New はルーティング済みのサーバーを作成します。
func New(st *studio.Studio) (*Server, error) {
	if st == nil {
		return nil, fmt.Errorf("studio is required")
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestID())
	engine.Use(accessLog())

	s := &Server{studio: st, engine: engine}
	s.setRoutes()
	return s, nil
}

// Handler は http.Handler としてのエンジンを返します。
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setRoutes() {
	api := s.engine.Group("/api")
	api.Use(gzip.Gzip(gzip.DefaultCompression))
	{
		api.GET("/health", s.health)
		api.GET("/state", s.state)
		api.GET("/options", s.options)
		api.PUT("/mode", s.setMode)
		api.PUT("/settings", s.updateSettings)
		api.PUT("/negative-prompt", s.setNegativePrompt)

		api.PUT("/slots/:index", s.setSlot)
		api.DELETE("/slots/:index", s.clearSlot)

		api.POST("/seeds", s.createSeed)
		api.PATCH("/seeds/:id", s.updateSeed)
		api.DELETE("/seeds/:id", s.removeSeed)

		historyRoute := api.Group("/history")
		{
			historyRoute.POST("/commit", s.commit)
			historyRoute.POST("/undo", s.undo)
			historyRoute.POST("/redo", s.redo)
		}

		mentionRoute := api.Group("/mentions")
		{
			mentionRoute.POST("/complete", s.completeMention)
			mentionRoute.POST("/insert", s.insertMention)
		}

		api.POST("/generate", s.generate)
		api.POST("/rewrite", s.rewrite)
		api.POST("/chat", s.chat)
		api.DELETE("/chat", s.resetChat)
		api.POST("/gallery/:id/feedback", s.setFeedback)
	}
}

// Run は addr で待ち受け、ctx がキャンセルされたらグレースフルに停止します。
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP サーバーを起動します", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP サーバーが停止しました: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("HTTP サーバーを停止します")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP サーバーの停止に失敗しました: %w", err)
	}
	return nil
}
