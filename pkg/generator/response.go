package generator

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
)

// parseImages はレスポンスの全候補からインライン画像を取り出します。
func parseImages(resp *genai.GenerateContentResponse, seed int64) ([]domain.ImageResponse, error) {
	if resp == nil {
		return nil, fmt.Errorf("invalid response")
	}
	if pf := resp.PromptFeedback; pf != nil && pf.BlockReason != "" {
		return nil, fmt.Errorf("プロンプトがブロックされました: %s", pf.BlockReason)
	}

	var out []domain.ImageResponse
	var abnormal genai.FinishReason
	for _, cand := range resp.Candidates {
		if cand == nil {
			continue
		}
		if cand.FinishReason != "" && cand.FinishReason != genai.FinishReasonStop {
			abnormal = cand.FinishReason
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			out = append(out, domain.ImageResponse{
				Data:     part.InlineData.Data,
				MimeType: part.InlineData.MIMEType,
				UsedSeed: seed,
			})
		}
	}

	if len(out) == 0 && abnormal != "" {
		return nil, fmt.Errorf("画像が生成されませんでした (finish_reason=%s)", abnormal)
	}
	return out, nil
}

// parseText は先頭候補のテキストパーツを連結します。思考パーツは除外します。
func parseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String())
}

// parseGrounding は検索グラウンディングの引用元を URI で重複排除して返します。
func parseGrounding(resp *genai.GenerateContentResponse) []domain.Grounding {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}
	var out []domain.Grounding
	seen := make(map[string]bool)
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		out = append(out, domain.Grounding{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return out
}
