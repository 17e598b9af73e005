package studio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
	"github.com/shouni/gemini-studio-kit/pkg/mention"
	"github.com/shouni/gemini-studio-kit/pkg/prompt"
)

// SubmitRequest は送信時の入力です。
type SubmitRequest struct {
	Prompt string
	Seed   *int64
}

// SubmitResult は生成に成功したときの結果です。
type SubmitResult struct {
	Items       []domain.GalleryItem `json:"items"`
	Resolution  mention.Resolution   `json:"resolution"`
	AspectRatio string               `json:"aspect_ratio"`
	Instruction string               `json:"instruction"`
}

// generation は1回の生成に必要な値のスナップショットです。
type generation struct {
	prompt   string // 履歴・ギャラリー・メモリに記録する元のプロンプト
	text     string // メンション解決済みのテキスト
	images   []string
	mentions []mention.Mention
	mode     domain.Mode
	settings domain.GenSettings
	negative string
	seed     *int64
}

// Submit はプロンプトのメンションを解決し、指示ブロックを組み立てて画像を生成します。
// 1枚以上の画像が返った場合だけギャラリー・履歴・メモリを更新します。
func (s *Studio) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	s.mu.Lock()
	slotList := s.registry.Slots()
	populated := len(s.registry.Populated())
	seeds := append([]domain.IdentitySeed(nil), s.seeds...)
	pinned := s.pinnedSeed
	g := generation{
		prompt:   req.Prompt,
		mode:     s.registry.Mode(),
		settings: s.settings,
		negative: s.negative,
		seed:     req.Seed,
	}
	s.mu.Unlock()

	if strings.TrimSpace(req.Prompt) == "" && populated == 0 && len(seeds) == 0 {
		return nil, ErrNothingToGenerate
	}

	res := mention.Resolve(req.Prompt, slotList, seeds)
	g.text = res.Text
	g.images = res.Images
	g.mentions = res.Mentions

	if pinned != "" {
		g.images, g.mentions = prependPinned(g.images, g.mentions, seeds, pinned)
	}

	result, err := s.run(ctx, g)
	if err != nil {
		return nil, err
	}
	result.Resolution = res
	result.Resolution.Images = g.images
	result.Resolution.Mentions = g.mentions
	return result, nil
}

// prependPinned は固定シードの画像が未収集なら先頭に加え、メンションの画像位置をずらします。
func prependPinned(images []string, mentions []mention.Mention, seeds []domain.IdentitySeed, pinned string) ([]string, []mention.Mention) {
	for _, seed := range seeds {
		if seed.ID != pinned || seed.ImageData == "" {
			continue
		}
		for _, img := range images {
			if img == seed.ImageData {
				return images, mentions
			}
		}
		shifted := make([]mention.Mention, len(mentions))
		for i, m := range mentions {
			m.Image++
			shifted[i] = m
		}
		return append([]string{seed.ImageData}, images...), shifted
	}
	return images, mentions
}

// run は組み立てと生成を行い、成功したら結果を状態に反映します。
func (s *Studio) run(ctx context.Context, g generation) (*SubmitResult, error) {
	ratio := prompt.ResolveAspectRatio(ctx, g.settings.AspectRatio, g.images, s.probe)

	var memory string
	if s.memory != nil {
		memory = s.memory.Descriptor()
	}
	instruction, err := s.currentBuilder().Build(prompt.Input{
		Mode:           g.mode,
		Prompt:         g.text,
		Settings:       g.settings,
		NegativePrompt: g.negative,
		Memory:         memory,
		Mentions:       g.mentions,
	})
	if err != nil {
		return nil, err
	}

	req := domain.ImageGenerationRequest{
		Instruction: instruction,
		Images:      g.images,
		AspectRatio: ratio,
		ImageSize:   prompt.NormalizeImageSize(g.settings.ImageSize),
		Temperature: prompt.ClampTemperature(g.settings.Temperature),
		Seed:        g.seed,
	}

	slog.InfoContext(ctx, "画像生成を開始します", "mode", g.mode, "images", len(g.images), "aspect_ratio", ratio, "count", max(g.settings.NumberOfImages, 1))
	var outputs []domain.ImageResponse
	for i := 0; i < max(g.settings.NumberOfImages, 1); i++ {
		out, err := s.gen.Generate(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("画像生成に失敗しました: %w", err)
		}
		outputs = append(outputs, out...)
	}
	if len(outputs) == 0 {
		return nil, ErrNoOutput
	}

	items := s.commit(ctx, g, outputs)
	return &SubmitResult{Items: items, AspectRatio: ratio, Instruction: instruction}, nil
}

// commit は生成結果をギャラリー・履歴・メモリに記録します。
func (s *Studio) commit(ctx context.Context, g generation, outputs []domain.ImageResponse) []domain.GalleryItem {
	ts := s.now().UnixMilli()
	items := make([]domain.GalleryItem, len(outputs))
	for i, out := range outputs {
		items[i] = domain.GalleryItem{
			ID:        s.newID(),
			URL:       out.DataURL(),
			Prompt:    g.prompt,
			Settings:  g.settings,
			Timestamp: ts,
		}
	}

	var evicted []domain.GalleryItem
	s.mu.Lock()
	for _, item := range items {
		evicted = append(evicted, s.gallery.Add(item)...)
	}
	s.history.Push(domain.HistoryState{Prompt: g.prompt, Settings: g.settings, NegativePrompt: g.negative})
	s.lastPreview = items[0].URL
	s.mu.Unlock()

	if s.memory != nil {
		s.memory.Record(g.prompt)
		s.SaveMemory(ctx)
	}
	for _, item := range items {
		s.persist(ctx, "gallery", func(st Store) error { return st.SaveGalleryItem(ctx, item) })
	}
	for _, item := range evicted {
		s.persist(ctx, "gallery", func(st Store) error { return st.DeleteGalleryItem(ctx, item.ID) })
	}
	slog.InfoContext(ctx, "生成結果を記録しました", "items", len(items), "evicted", len(evicted))
	return items
}

// Rewrite はニューラルメモリを踏まえてプロンプトを書き換えます。@tag はそのまま残ります。
func (s *Studio) Rewrite(ctx context.Context, promptText string) (string, error) {
	if s.assistant == nil {
		return "", ErrAssistantMissing
	}
	var memory string
	if s.memory != nil {
		memory = s.memory.Descriptor()
	}
	out, err := s.assistant.Rewrite(ctx, promptText, memory)
	if err != nil {
		return "", fmt.Errorf("プロンプトの書き換えに失敗しました: %w", err)
	}
	return out, nil
}
