package config

import (
	"time"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
	"github.com/shouni/gemini-studio-kit/pkg/generator"
	"github.com/shouni/gemini-studio-kit/pkg/memory"
	"github.com/shouni/gemini-studio-kit/pkg/prompt"
	"github.com/shouni/gemini-studio-kit/pkg/studio"
)

// Config はアプリケーション全体の設定です。
type Config struct {
	APIKey string            `mapstructure:"api_key" yaml:"api_key"` // ${ENV_VAR} 記法に対応
	Models ModelsCfg         `mapstructure:"models" yaml:"models"`
	Retry  RetryCfg          `mapstructure:"retry" yaml:"retry"`
	Prompt prompt.Directives `mapstructure:"prompt" yaml:"prompt"`
	Memory MemoryCfg         `mapstructure:"memory" yaml:"memory"`
	Studio StudioCfg         `mapstructure:"studio" yaml:"studio"`
	Store  StoreCfg          `mapstructure:"store" yaml:"store"`
	Cache  CacheCfg          `mapstructure:"cache" yaml:"cache"`
	Server ServerCfg         `mapstructure:"server" yaml:"server"`
}

// ModelsCfg は利用するモデル名です。
type ModelsCfg struct {
	Image            string `mapstructure:"image" yaml:"image"`
	Text             string `mapstructure:"text" yaml:"text"`
	ChatSystemPrompt string `mapstructure:"chat_system_prompt" yaml:"chat_system_prompt"`
}

// RetryCfg は過負荷時の再試行設定です。
type RetryCfg struct {
	Attempts uint          `mapstructure:"attempts" yaml:"attempts"`
	Delay    time.Duration `mapstructure:"delay" yaml:"delay"`
}

// MemoryCfg はニューラルメモリの設定です。
type MemoryCfg struct {
	HistoryLimit   int           `mapstructure:"history_limit" yaml:"history_limit"`
	RefreshEvery   int           `mapstructure:"refresh_every" yaml:"refresh_every"`
	RefreshTimeout time.Duration `mapstructure:"refresh_timeout" yaml:"refresh_timeout"`
}

// StudioCfg は状態コンテナの初期値です。
type StudioCfg struct {
	Mode             string `mapstructure:"mode" yaml:"mode"`
	GalleryCapacity  int    `mapstructure:"gallery_capacity" yaml:"gallery_capacity"`
	ChatHistoryLimit int    `mapstructure:"chat_history_limit" yaml:"chat_history_limit"`
}

// StoreCfg は SQLite の保存先です。空文字なら永続化しません。
type StoreCfg struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// CacheCfg は参照画像キャッシュの設定です。RedisURL が空ならキャッシュしません。
type CacheCfg struct {
	RedisURL string        `mapstructure:"redis_url" yaml:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// ServerCfg は HTTP サーバーの設定です。
type ServerCfg struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// DefaultConfig は既定の設定を返します。
func DefaultConfig() *Config {
	gen := generator.DefaultConfig()
	return &Config{
		APIKey: "${GEMINI_API_KEY}",
		Models: ModelsCfg{
			Image:            gen.ImageModel,
			Text:             gen.TextModel,
			ChatSystemPrompt: gen.ChatSystemPrompt,
		},
		Retry: RetryCfg{
			Attempts: gen.Retry.Attempts,
			Delay:    gen.Retry.Delay,
		},
		Prompt: prompt.DefaultDirectives(),
		Memory: MemoryCfg{
			HistoryLimit:   memory.DefaultHistoryLimit,
			RefreshEvery:   memory.DefaultRefreshEvery,
			RefreshTimeout: memory.DefaultRefreshTimeout,
		},
		Studio: StudioCfg{
			Mode:             string(domain.ModeSingleSubject),
			GalleryCapacity:  studio.DefaultGalleryCapacity,
			ChatHistoryLimit: studio.DefaultChatHistoryLimit,
		},
		Store:  StoreCfg{Path: "studio.db"},
		Cache:  CacheCfg{TTL: generator.DefaultCacheTTL},
		Server: ServerCfg{Addr: ":8080"},
	}
}

// GeneratorConfig は generator パッケージ向けの設定に変換します。
func (c *Config) GeneratorConfig() generator.Config {
	return generator.Config{
		ImageModel:       c.Models.Image,
		TextModel:        c.Models.Text,
		ChatSystemPrompt: c.Models.ChatSystemPrompt,
		Retry: generator.RetryPolicy{
			Attempts: c.Retry.Attempts,
			Delay:    c.Retry.Delay,
		},
	}
}

// MemoryOptions は memory パッケージ向けの設定に変換します。
func (c *Config) MemoryOptions() memory.Options {
	return memory.Options{
		HistoryLimit:   c.Memory.HistoryLimit,
		RefreshEvery:   c.Memory.RefreshEvery,
		RefreshTimeout: c.Memory.RefreshTimeout,
	}
}

// StudioOptions は studio パッケージ向けの設定に変換します。解釈できないモードは既定値になります。
func (c *Config) StudioOptions() studio.Options {
	mode, err := domain.ParseMode(c.Studio.Mode)
	if err != nil {
		mode = domain.ModeSingleSubject
	}
	return studio.Options{
		Mode:             mode,
		GalleryCapacity:  c.Studio.GalleryCapacity,
		ChatHistoryLimit: c.Studio.ChatHistoryLimit,
	}
}

// ResolvedAPIKey は ${ENV_VAR} を展開した API キーを返します。
func (c *Config) ResolvedAPIKey() string {
	return ResolveEnvVars(c.APIKey)
}
