package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/gemini-studio-kit/internal/config"
	"github.com/shouni/gemini-studio-kit/pkg/cache"
	"github.com/shouni/gemini-studio-kit/pkg/generator"
	"github.com/shouni/gemini-studio-kit/pkg/memory"
	"github.com/shouni/gemini-studio-kit/pkg/prompt"
	"github.com/shouni/gemini-studio-kit/pkg/store"
	"github.com/shouni/gemini-studio-kit/pkg/studio"
)

const referenceFetchTimeout = 30 * time.Second

// app は設定から組み立てた依存関係一式です。
type app struct {
	studio  *studio.Studio
	memory  *memory.Memory
	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			_ = a.Close()
		}
	}()

	model, err := generator.NewContentModel(ctx, cfg.ResolvedAPIKey())
	if err != nil {
		return nil, err
	}

	var cacher generator.ImageCacher
	if url := config.ResolveEnvVars(cfg.Cache.RedisURL); url != "" {
		rc, err := cache.Open(ctx, url)
		if err != nil {
			// キャッシュなしでも動作できる
			slog.WarnContext(ctx, "Redis キャッシュを無効にして続行します", "error", err)
		} else {
			cacher = rc
			a.closers = append(a.closers, rc.Close)
		}
	}

	core, err := generator.NewGeminiImageCore(nil, httpkit.New(referenceFetchTimeout), cacher, cfg.Cache.TTL)
	if err != nil {
		return nil, err
	}
	gen, err := generator.NewGeminiGenerator(core, model, cfg.GeneratorConfig())
	if err != nil {
		return nil, err
	}

	a.memory = memory.New(gen, cfg.MemoryOptions())
	a.closers = append(a.closers, func() error {
		a.memory.Close()
		return nil
	})

	builder, err := prompt.NewBuilder(cfg.Prompt)
	if err != nil {
		return nil, fmt.Errorf("指示テンプレートが不正です: %w", err)
	}

	var st studio.Store
	if cfg.Store.Path != "" {
		s, err := store.Open(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		st = s
		a.closers = append(a.closers, s.Close)
	}

	a.studio, err = studio.New(studio.Deps{
		Generator: gen,
		Assistant: gen,
		Memory:    a.memory,
		Builder:   builder,
		Probe:     core.Dimensions,
		Store:     st,
	}, cfg.StudioOptions())
	if err != nil {
		return nil, err
	}
	if err := a.studio.Load(ctx); err != nil {
		return nil, err
	}
	// ストアを閉じる前に、実行中の要約を待って最新の記述子を保存する
	a.closers = append(a.closers, func() error {
		a.memory.Wait()
		a.studio.SaveMemory(context.Background())
		return nil
	})

	ok = true
	return a, nil
}

// applyConfig はホットリロードされた設定のうち、再起動せずに反映できるものを適用します。
func (a *app) applyConfig(cfg *config.Config) {
	builder, err := prompt.NewBuilder(cfg.Prompt)
	if err != nil {
		slog.Warn("指示テンプレートが不正なため変更を無視します", "error", err)
	} else {
		a.studio.SetBuilder(builder)
	}
	a.memory.SetOptions(cfg.MemoryOptions())
	slog.Info("設定を反映しました")
}

// Close は後から開いたものから順に閉じます。
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
