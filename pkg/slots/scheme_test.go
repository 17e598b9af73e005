package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
)

func TestDeriveTag_UniqueAndDeterministic(t *testing.T) {
	for _, mode := range domain.Modes() {
		t.Run(string(mode), func(t *testing.T) {
			n := SlotCount(mode)
			require.Greater(t, n, 0)

			seen := make(map[string]int)
			placeholders := make(map[string]int)
			for i := 0; i < n; i++ {
				d := DeriveTag(mode, i)
				assert.Equal(t, d, DeriveTag(mode, i), "同じ入力には同じ結果を返す")
				if prev, dup := seen[d.Tag]; dup {
					t.Errorf("タグ %q が番号 %d と %d で重複しています", d.Tag, prev, i)
				}
				if prev, dup := placeholders[d.Placeholder]; dup {
					t.Errorf("プレースホルダー %q が番号 %d と %d で重複しています", d.Placeholder, prev, i)
				}
				seen[d.Tag] = i
				placeholders[d.Placeholder] = i
			}
		})
	}
}

func TestDeriveTag_GroupComposition(t *testing.T) {
	want := []Descriptor{
		{Tag: "identity1", Label: "Identity 1", Placeholder: "[PRIMARY_IDENTITY_1]"},
		{Tag: "identity2", Label: "Identity 2", Placeholder: "[PRIMARY_IDENTITY_2]"},
		{Tag: "identity3", Label: "Identity 3", Placeholder: "[PRIMARY_IDENTITY_3]"},
		{Tag: "scene", Label: "Scene", Placeholder: "[SCENE_REFERENCE]"},
		{Tag: "style1", Label: "Style 1", Placeholder: "[STYLE_REFERENCE_1]"},
	}
	for i, w := range want {
		assert.Equal(t, w, DeriveTag(domain.ModeGroupComposition, i))
	}
	assert.Equal(t, "style6", DeriveTag(domain.ModeGroupComposition, 9).Tag)
	assert.Equal(t, 10, SlotCount(domain.ModeGroupComposition))
}

func TestDeriveTag_SlotCounts(t *testing.T) {
	assert.Equal(t, 9, SlotCount(domain.ModeSingleSubject))
	assert.Equal(t, 10, SlotCount(domain.ModeAccessories))
	assert.Equal(t, 6, SlotCount(domain.ModeThumbnail))
	assert.Equal(t, 0, SlotCount(domain.Mode("landing")))
	assert.Equal(t, "[REFERENCE_IMAGE_9]", DeriveTag(domain.ModeSingleSubject, 8).Placeholder)
}

func TestDeriveTag_OutOfRangePanics(t *testing.T) {
	assert.Panics(t, func() { DeriveTag(domain.ModeSingleSubject, 9) })
	assert.Panics(t, func() { DeriveTag(domain.ModeSingleSubject, -1) })
	assert.Panics(t, func() { DeriveTag(domain.Mode("unknown"), 0) })
}

func TestTags(t *testing.T) {
	assert.Equal(t, []string{"source1", "source2", "source3", "source4", "style1", "style2"}, Tags(domain.ModeThumbnail))
}
