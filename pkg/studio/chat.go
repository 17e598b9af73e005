package studio

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
	"github.com/shouni/gemini-studio-kit/pkg/mention"
)

const transformationFormat = "Update the current vision: %s. Preserve the subject's face and basic structure from the provided reference image, but apply the requested transformation."

var chatSeedTags = []string{"chat", "vault"}

var markdownHeading = regexp.MustCompile(`(?m)^#{1,6}\s*`)

// ChatInput はチャット1回分の入力です。
type ChatInput struct {
	Message string
	Images  []string
	Modes   []domain.IntelligenceMode
}

// ChatResult はチャット1回分の結果です。意図に応じて Text、Items、Seed のいずれかが入ります。
type ChatResult struct {
	Intent    ChatIntent           `json:"intent"`
	Text      string               `json:"text"`
	Grounding []domain.Grounding   `json:"grounding,omitempty"`
	Items     []domain.GalleryItem `json:"items,omitempty"`
	Seed      *domain.IdentitySeed `json:"seed,omitempty"`
}

// Chat は入力の意図を判定し、シード登録・画像生成・会話のいずれかを行います。
func (s *Studio) Chat(ctx context.Context, in ChatInput) (*ChatResult, error) {
	intent := ClassifyChat(in.Message)
	switch intent.Kind {
	case IntentAddSeed:
		return s.chatAddSeed(ctx, in, intent)
	case IntentGenerate:
		return s.chatGenerate(ctx, in, intent)
	default:
		return s.chatConverse(ctx, in, intent)
	}
}

// ResetChat は会話履歴と直前のプレビューを破棄します。
func (s *Studio) ResetChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = nil
	s.lastPreview = ""
}

func (s *Studio) chatAddSeed(ctx context.Context, in ChatInput, intent ChatIntent) (*ChatResult, error) {
	source := ""
	if len(in.Images) > 0 {
		source = in.Images[0]
	} else {
		s.mu.Lock()
		source = s.lastPreview
		s.mu.Unlock()
	}
	if source == "" {
		return nil, ErrNoSeedSource
	}

	seed, err := s.CreateSeed(ctx, source, intent.SeedName, chatSeedTags)
	if err != nil {
		return nil, err
	}
	return &ChatResult{
		Intent: intent,
		Text:   fmt.Sprintf("Identity %q saved to the vault. Use @%s to keep this face in future generations.", seed.Name, seed.MentionTag()),
		Seed:   &seed,
	}, nil
}

func (s *Studio) chatGenerate(ctx context.Context, in ChatInput, intent ChatIntent) (*ChatResult, error) {
	s.mu.Lock()
	preview := s.lastPreview
	seeds := append([]domain.IdentitySeed(nil), s.seeds...)
	g := generation{
		prompt:   in.Message,
		mode:     s.registry.Mode(),
		settings: s.settings,
		negative: s.negative,
	}
	s.mu.Unlock()

	keepPreview := preview != "" && !intent.NewRequest

	// 添付画像、直前のプレビュー、言及されたシードの順
	res := mention.Resolve(in.Message, nil, seeds)
	images := append([]string(nil), in.Images...)
	if keepPreview {
		images = append(images, preview)
	}
	g.images = mention.Dedupe(append(images, res.Images...)...)
	g.mentions = reindexSeedMentions(res.Mentions, seeds, g.images)
	g.text = res.Text
	if intent.Transformation && keepPreview {
		g.text = fmt.Sprintf(transformationFormat, g.text)
	}

	result, err := s.run(ctx, g)
	if err != nil {
		return nil, err
	}

	text := "Here's the vision!"
	if intent.Transformation && keepPreview {
		text = "New vision ready with your changes applied."
	}
	return &ChatResult{Intent: intent, Text: text, Items: result.Items}, nil
}

func (s *Studio) chatConverse(ctx context.Context, in ChatInput, intent ChatIntent) (*ChatResult, error) {
	if s.assistant == nil {
		return nil, ErrAssistantMissing
	}
	s.mu.Lock()
	history := append([]domain.ChatTurn(nil), s.chat...)
	s.mu.Unlock()

	resp, err := s.assistant.Chat(ctx, domain.ChatRequest{
		Message: in.Message,
		Images:  in.Images,
		History: history,
		Modes:   in.Modes,
	})
	if err != nil {
		return nil, fmt.Errorf("チャットに失敗しました: %w", err)
	}

	s.mu.Lock()
	s.chat = append(s.chat,
		domain.ChatTurn{Role: domain.ChatRoleUser, Text: in.Message},
		domain.ChatTurn{Role: domain.ChatRoleModel, Text: resp.Text},
	)
	if over := len(s.chat) - s.chatLimit; over > 0 {
		s.chat = append([]domain.ChatTurn(nil), s.chat[over:]...)
	}
	s.mu.Unlock()

	return &ChatResult{
		Intent:    intent,
		Text:      stripMarkdown(resp.Text),
		Grounding: resp.Grounding,
	}, nil
}

// reindexSeedMentions はシードのメンションが指す画像位置を最終的な画像一覧に合わせます。
func reindexSeedMentions(mentions []mention.Mention, seeds []domain.IdentitySeed, images []string) []mention.Mention {
	pos := make(map[string]int, len(images))
	for i, img := range images {
		if _, ok := pos[img]; !ok {
			pos[img] = i + 1
		}
	}
	byID := make(map[string]string, len(seeds))
	for _, seed := range seeds {
		byID[seed.ID] = seed.ImageData
	}
	out := make([]mention.Mention, len(mentions))
	for i, m := range mentions {
		m.Image = pos[byID[m.SeedID]]
		out[i] = m
	}
	return out
}

// stripMarkdown は表示用に見出し記号と強調記号を取り除きます。
func stripMarkdown(s string) string {
	s = markdownHeading.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return strings.TrimSpace(s)
}
