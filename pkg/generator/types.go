package generator

import "time"

const (
	DefaultImageModel = "gemini-3-pro-image-preview"
	DefaultTextModel  = "gemini-3-flash-preview"

	ImageCompressionQuality = 75
	// ShrinkThreshold を超える参照画像はJPEGに再圧縮してから送信します。
	ShrinkThreshold = 4 << 20

	DefaultCacheTTL   = time.Hour
	cacheKeyReference = "ref:"

	summaryTemperature  = 0.3
	rewriteTemperature  = 0.7
	chatTemperature     = 0.7
	creativeTemperature = 1.2
	reasoningBudget     = 8192
)

// Config は GeminiGenerator の動作設定です。
type Config struct {
	ImageModel       string
	TextModel        string
	ChatSystemPrompt string
	Retry            RetryPolicy
}

// DefaultConfig は既定の設定を返します。
func DefaultConfig() Config {
	return Config{
		ImageModel:       DefaultImageModel,
		TextModel:        DefaultTextModel,
		ChatSystemPrompt: "You are a creative director for an AI photo studio. Answer concisely and suggest concrete visual directions.",
		Retry:            DefaultRetryPolicy(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ImageModel == "" {
		c.ImageModel = d.ImageModel
	}
	if c.TextModel == "" {
		c.TextModel = d.TextModel
	}
	if c.ChatSystemPrompt == "" {
		c.ChatSystemPrompt = d.ChatSystemPrompt
	}
	if c.Retry.Attempts == 0 {
		c.Retry.Attempts = d.Retry.Attempts
	}
	if c.Retry.Delay <= 0 {
		c.Retry.Delay = d.Retry.Delay
	}
	return c
}
