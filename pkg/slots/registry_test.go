package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
)

func TestRegistry_SetAndPopulated(t *testing.T) {
	r := NewRegistry(domain.ModeGroupComposition)
	require.NoError(t, r.Set(3, "C.png"))
	require.NoError(t, r.Set(0, "A.png"))

	populated := r.Populated()
	require.Len(t, populated, 2)
	assert.Equal(t, "identity1", populated[0].Tag)
	assert.Equal(t, "A.png", populated[0].Data)
	assert.Equal(t, "scene", populated[1].Tag)
	assert.Equal(t, "[SCENE_REFERENCE]", populated[1].Placeholder)

	require.NoError(t, r.Clear(0))
	assert.Len(t, r.Populated(), 1)
}

func TestRegistry_OutOfRange(t *testing.T) {
	r := NewRegistry(domain.ModeThumbnail)
	assert.ErrorIs(t, r.Set(6, "x"), ErrSlotOutOfRange)
	assert.Error(t, r.Set(-1, "x"))
	assert.Equal(t, "", r.Get(99))
}

func TestRegistry_SetMode(t *testing.T) {
	t.Run("同じタグのスロットへ移す", func(t *testing.T) {
		r := NewRegistry(domain.ModeGroupComposition)
		require.NoError(t, r.Set(0, "face"))
		require.NoError(t, r.Set(3, "scene"))
		require.NoError(t, r.Set(4, "style-a"))
		require.NoError(t, r.Set(6, "style-c"))

		r.SetMode(domain.ModeThumbnail)

		assert.Equal(t, domain.ModeThumbnail, r.Mode())
		assert.Equal(t, 6, r.Len())
		populated := r.Populated()
		require.Len(t, populated, 1, "identity1・scene・style3 は thumbnail に存在しない")
		assert.Equal(t, "style1", populated[0].Tag)
		assert.Equal(t, "style-a", populated[0].Data)
	})

	t.Run("役割が変わる位置には持ち越さない", func(t *testing.T) {
		r := NewRegistry(domain.ModeGroupComposition)
		require.NoError(t, r.Set(6, "style-c"))

		r.SetMode(domain.ModeSingleSubject)

		assert.Empty(t, r.Populated(), "style3 が image7 として扱われてはいけない")
	})

	t.Run("identity はモードをまたいで保たれる", func(t *testing.T) {
		r := NewRegistry(domain.ModeAccessories)
		require.NoError(t, r.Set(0, "face"))
		require.NoError(t, r.Set(2, "hat"))

		r.SetMode(domain.ModeGroupComposition)

		assert.Equal(t, "face", r.Get(0))
		assert.Len(t, r.Populated(), 1)
	})
}
