package studio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
)

func TestStudio_Chat_AddSeed(t *testing.T) {
	ctx := context.Background()

	t.Run("添付画像からシードを作る", func(t *testing.T) {
		f := newFixture(t, Options{})
		res, err := f.studio.Chat(ctx, ChatInput{Message: "add this image as a seed named Mika Tanaka", Images: []string{"ATT.png"}})
		require.NoError(t, err)
		require.NotNil(t, res.Seed)
		assert.Equal(t, "Mika Tanaka", res.Seed.Name)
		assert.Equal(t, "ATT.png", res.Seed.ImageData)
		assert.Equal(t, chatSeedTags, res.Seed.Tags)
		assert.Contains(t, res.Text, "@MikaTanaka")
		assert.Empty(t, f.gen.calls())
	})

	t.Run("添付がなければ直前のプレビュー", func(t *testing.T) {
		f := newFixture(t, Options{})
		_, err := f.studio.Submit(ctx, SubmitRequest{Prompt: "a cat"})
		require.NoError(t, err)
		preview := f.studio.Snapshot().LastPreview

		res, err := f.studio.Chat(ctx, ChatInput{Message: "add the image to my identity seeds"})
		require.NoError(t, err)
		assert.Equal(t, preview, res.Seed.ImageData)
		assert.Equal(t, domain.DefaultSeedName, res.Seed.Name)
	})

	t.Run("画像がなければエラー", func(t *testing.T) {
		f := newFixture(t, Options{})
		_, err := f.studio.Chat(ctx, ChatInput{Message: "add the image as seed"})
		assert.ErrorIs(t, err, ErrNoSeedSource)
		assert.Empty(t, f.studio.Snapshot().Seeds)
	})
}

func TestStudio_Chat_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("添付・プレビュー・言及シードを参照する", func(t *testing.T) {
		f := newFixture(t, Options{})
		_, err := f.studio.CreateSeed(ctx, "FACE.png", "Alice", nil)
		require.NoError(t, err)
		_, err = f.studio.Submit(ctx, SubmitRequest{Prompt: "first"})
		require.NoError(t, err)
		preview := f.studio.Snapshot().LastPreview

		res, err := f.studio.Chat(ctx, ChatInput{Message: "change the jacket on @Alice", Images: []string{"ATT.png"}})
		require.NoError(t, err)
		assert.Equal(t, IntentGenerate, res.Intent.Kind)
		require.Len(t, res.Items, 1)

		req := f.gen.calls()[len(f.gen.calls())-1]
		assert.Equal(t, []string{"ATT.png", preview, "FACE.png"}, req.Images)
		assert.Contains(t, req.Instruction, "Update the current vision: change the jacket on [IDENTITY_SEED_Avatar_Seed_001].")
		assert.Contains(t, req.Instruction, "[IDENTITY_SEED_Avatar_Seed_001] = image 3 (@Alice)")
		assert.Equal(t, "change the jacket on @Alice", f.studio.Snapshot().Gallery[0].Prompt)
	})

	t.Run("start over はプレビューを使わない", func(t *testing.T) {
		f := newFixture(t, Options{})
		_, err := f.studio.Submit(ctx, SubmitRequest{Prompt: "first"})
		require.NoError(t, err)

		_, err = f.studio.Chat(ctx, ChatInput{Message: "start over and draw a dog"})
		require.NoError(t, err)
		req := f.gen.calls()[len(f.gen.calls())-1]
		assert.Empty(t, req.Images)
		assert.Contains(t, req.Instruction, "PROMPT: start over and draw a dog")
	})
}

func TestStudio_Chat_Converse(t *testing.T) {
	ctx := context.Background()

	t.Run("履歴を渡して会話する", func(t *testing.T) {
		f := newFixture(t, Options{ChatHistoryLimit: 2})
		f.assistant.chatResp = &domain.ChatResponse{
			Text:      "## Tip\n**Use** a 85mm lens.",
			Grounding: []domain.Grounding{{URI: "https://a.example", Title: "A"}},
		}

		res, err := f.studio.Chat(ctx, ChatInput{Message: "Which lens suits portraits?", Modes: []domain.IntelligenceMode{domain.IntelligenceResearch}})
		require.NoError(t, err)
		assert.Equal(t, IntentConversation, res.Intent.Kind)
		assert.Equal(t, "Tip\nUse a 85mm lens.", res.Text)
		assert.Len(t, res.Grounding, 1)

		_, err = f.studio.Chat(ctx, ChatInput{Message: "And for landscapes?"})
		require.NoError(t, err)

		reqs := f.assistant.chatReqs
		require.Len(t, reqs, 2)
		assert.Empty(t, reqs[0].History)
		require.Len(t, reqs[1].History, 2)
		assert.Equal(t, domain.ChatRoleUser, reqs[1].History[0].Role)
		assert.Equal(t, domain.ChatRoleModel, reqs[1].History[1].Role)
		assert.Equal(t, []domain.IntelligenceMode{domain.IntelligenceResearch}, reqs[0].Modes)
		assert.Equal(t, 2, f.studio.Snapshot().ChatTurns, "上限で古いターンを捨てる")
		assert.Empty(t, f.gen.calls())
	})

	t.Run("ResetChat で履歴を消す", func(t *testing.T) {
		f := newFixture(t, Options{})
		_, err := f.studio.Chat(ctx, ChatInput{Message: "hello there"})
		require.NoError(t, err)
		f.studio.ResetChat()
		assert.Zero(t, f.studio.Snapshot().ChatTurns)
	})

	t.Run("アシスタント未設定はエラー", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.studio.assistant = nil
		_, err := f.studio.Chat(ctx, ChatInput{Message: "hello there"})
		assert.ErrorIs(t, err, ErrAssistantMissing)
	})
}
