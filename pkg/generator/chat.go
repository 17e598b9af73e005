package generator

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"google.golang.org/genai"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
)

const summaryInstruction = `You maintain the "neural memory" of an AI photo studio.
Summarize the user's recurring creative direction (subjects, styles, lighting, mood) from the prompt history below.
Answer in at most 2 sentences. Do not add commentary.

PROMPT HISTORY:
%s`

const rewriteInstruction = `Rewrite the following image prompt into a vivid, professional photography prompt.
Keep every @tag exactly as written (for example @image1 or @Alice). Do not add new @tags.
Return only the rewritten prompt.
%s
PROMPT: %s`

var labelPrefix = regexp.MustCompile(`(?i)^\s*(professional ai prompt|refined prompt|ai prompt|prompt|output|result)\s*:\s*`)

// Chat は履歴と添付画像を含めてモデルと対話します。
// research ではGoogle検索のグラウンディング、reasoning では思考予算、creative では高めの温度を使います。
func (g *GeminiGenerator) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		parts := []*genai.Part{{Text: turn.Text}}
		parts = append(parts, g.imageParts(ctx, turn.Images)...)
		contents = append(contents, &genai.Content{Role: string(turn.Role), Parts: parts})
	}
	parts := []*genai.Part{{Text: req.Message}}
	parts = append(parts, g.imageParts(ctx, req.Images)...)
	contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: parts})

	temperature := float32(chatTemperature)
	if req.HasMode(domain.IntelligenceCreative) {
		temperature = creativeTemperature
	}
	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(temperature),
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: g.cfg.ChatSystemPrompt}}},
	}
	if req.HasMode(domain.IntelligenceResearch) {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	if req.HasMode(domain.IntelligenceReasoning) {
		config.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](reasoningBudget)}
	}

	slog.InfoContext(ctx, "Geminiチャットリクエスト", "model", g.cfg.TextModel, "turns", len(contents), "modes", req.Modes)
	resp, err := withRetry(ctx, g.cfg.Retry, "chat", func() (*genai.GenerateContentResponse, error) {
		return g.model.GenerateContent(ctx, g.cfg.TextModel, contents, config)
	})
	if err != nil {
		return nil, fmt.Errorf("Geminiチャットエラー: %w", err)
	}

	return &domain.ChatResponse{
		Text:      parseText(resp),
		Grounding: parseGrounding(resp),
	}, nil
}

// Summarize はプロンプト履歴からニューラルメモリの記述子を作ります。履歴が空なら空文字を返します。
func (g *GeminiGenerator) Summarize(ctx context.Context, history []string) (string, error) {
	if len(history) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for _, p := range history {
		sb.WriteString("- ")
		sb.WriteString(strings.TrimSpace(p))
		sb.WriteString("\n")
	}

	text, err := g.generateText(ctx, "summarize", fmt.Sprintf(summaryInstruction, sb.String()), summaryTemperature)
	if err != nil {
		return "", fmt.Errorf("ニューラルメモリの要約に失敗しました: %w", err)
	}
	return text, nil
}

// Rewrite はプロンプトを洗練します。@tag はそのまま残るよう指示し、出力の装飾やラベルを取り除きます。
// モデルが空文字を返した場合は元のプロンプトを返します。
func (g *GeminiGenerator) Rewrite(ctx context.Context, prompt, memory string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return prompt, nil
	}
	var memoryLine string
	if memory != "" {
		memoryLine = "Respect this established creative direction: " + memory + "\n"
	}

	text, err := g.generateText(ctx, "rewrite", fmt.Sprintf(rewriteInstruction, memoryLine, prompt), rewriteTemperature)
	if err != nil {
		return "", fmt.Errorf("プロンプトの書き換えに失敗しました: %w", err)
	}
	text = CleanRewrite(text)
	if text == "" {
		return prompt, nil
	}
	return text, nil
}

// CleanRewrite は書き換え結果から強調記号と先頭のラベル（"Prompt:" など）を取り除きます。
func CleanRewrite(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = labelPrefix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func (g *GeminiGenerator) generateText(ctx context.Context, op, prompt string, temperature float32) (string, error) {
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: []*genai.Part{{Text: prompt}}}}
	config := &genai.GenerateContentConfig{Temperature: genai.Ptr(temperature)}
	resp, err := withRetry(ctx, g.cfg.Retry, op, func() (*genai.GenerateContentResponse, error) {
		return g.model.GenerateContent(ctx, g.cfg.TextModel, contents, config)
	})
	if err != nil {
		return "", err
	}
	return parseText(resp), nil
}
