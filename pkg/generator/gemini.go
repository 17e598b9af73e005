package generator

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
)

// GeminiGenerator は画像生成・チャット・要約・書き換えを Gemini API で行う統合ジェネレーターです。
type GeminiGenerator struct {
	imgCore ReferenceLoader
	model   ContentModel
	cfg     Config
}

// NewGeminiGenerator は GeminiGenerator を初期化します。
func NewGeminiGenerator(core ReferenceLoader, model ContentModel, cfg Config) (*GeminiGenerator, error) {
	if core == nil {
		return nil, fmt.Errorf("core (ReferenceLoader) is required")
	}
	if model == nil {
		return nil, fmt.Errorf("model (ContentModel) is required")
	}
	return &GeminiGenerator{
		imgCore: core,
		model:   model,
		cfg:     cfg.withDefaults(),
	}, nil
}

// NewContentModel は APIキーから Gemini API のクライアントを生成します。
func NewContentModel(ctx context.Context, apiKey string) (ContentModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini APIキーが設定されていません")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w", err)
	}
	return client.Models, nil
}

// Generate は指示文と参照画像から画像を生成します。
// 画像が1枚も返らなくてもエラーにはなりません（安全フィルタ等で停止した場合を除く）。
func (g *GeminiGenerator) Generate(ctx context.Context, req domain.ImageGenerationRequest) ([]domain.ImageResponse, error) {
	slog.InfoContext(ctx, "Gemini画像生成リクエスト準備中", "model", g.cfg.ImageModel, "ref_count", len(req.Images), "aspect_ratio", req.AspectRatio)

	parts := []*genai.Part{{Text: req.Instruction}}
	parts = append(parts, g.imageParts(ctx, req.Images)...)

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		Seed:               seedToPtrInt32(req.Seed),
		ImageConfig: &genai.ImageConfig{
			AspectRatio: req.AspectRatio,
			ImageSize:   req.ImageSize,
		},
	}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}

	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}
	resp, err := withRetry(ctx, g.cfg.Retry, "generate", func() (*genai.GenerateContentResponse, error) {
		return g.model.GenerateContent(ctx, g.cfg.ImageModel, contents, config)
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini画像生成エラー: %w", err)
	}

	images, err := parseImages(resp, dereferenceSeed(req.Seed))
	if err != nil {
		return nil, fmt.Errorf("Gemini画像生成エラー: %w", err)
	}
	return images, nil
}

// imageParts は参照画像をパーツに変換します。読み込めない参照は警告して除外します。
func (g *GeminiGenerator) imageParts(ctx context.Context, refs []string) []*genai.Part {
	parts := make([]*genai.Part, 0, len(refs))
	for i, ref := range refs {
		if ref == "" {
			continue
		}
		part, err := g.imgCore.PrepareImagePart(ctx, ref)
		if err != nil {
			slog.WarnContext(ctx, "参照画像をスキップしました", "index", i, "error", err)
			continue
		}
		parts = append(parts, part)
	}
	return parts
}
