package store

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
	"github.com/shouni/gemini-studio-kit/pkg/studio"
)

var _ studio.Store = (*Store)(nil)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Seeds(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	seeds := []domain.IdentitySeed{
		{ID: "Avatar_Seed_010", Name: "Ten", ImageData: "T.png"},
		{ID: "Avatar_Seed_002", Name: "Two", ImageData: "B.png", Tags: []string{"face", "vault"}},
		{ID: "Avatar_Seed_1000", Name: "Thousand", ImageData: "K.png"},
	}
	for _, seed := range seeds {
		require.NoError(t, s.SaveSeed(ctx, seed))
	}

	t.Run("採番順に読み込む", func(t *testing.T) {
		got, err := s.LoadSeeds(ctx)
		require.NoError(t, err)
		want := []domain.IdentitySeed{seeds[1], seeds[0], seeds[2]}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("seeds mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("保存し直すと更新になる", func(t *testing.T) {
		renamed := seeds[0]
		renamed.Name = "Renamed"
		require.NoError(t, s.SaveSeed(ctx, renamed))
		got, err := s.LoadSeeds(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "Renamed", got[1].Name)
	})

	t.Run("削除", func(t *testing.T) {
		require.NoError(t, s.DeleteSeed(ctx, "Avatar_Seed_002"))
		require.NoError(t, s.DeleteSeed(ctx, "missing"))
		got, err := s.LoadSeeds(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestStore_Gallery(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	settings := domain.DefaultSettings()
	settings.Temperature = 1.1
	items := []domain.GalleryItem{
		{ID: "a", URL: "data:a", Prompt: "first", Settings: settings, Timestamp: 100},
		{ID: "b", URL: "data:b", Prompt: "second", Settings: settings, Timestamp: 200},
		{ID: "c", URL: "data:c", Prompt: "third", Settings: settings, Timestamp: 200},
	}
	for _, item := range items {
		require.NoError(t, s.SaveGalleryItem(ctx, item))
	}

	t.Run("新しい順で上限付き", func(t *testing.T) {
		got, err := s.LoadGallery(ctx, 2)
		require.NoError(t, err)
		if diff := cmp.Diff([]domain.GalleryItem{items[2], items[1]}, got); diff != "" {
			t.Errorf("gallery mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("評価の更新", func(t *testing.T) {
		liked := items[0]
		liked.Feedback = domain.FeedbackLike
		require.NoError(t, s.SaveGalleryItem(ctx, liked))
		got, err := s.LoadGallery(ctx, 0)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, domain.FeedbackLike, got[2].Feedback)
		assert.Equal(t, 1.1, got[2].Settings.Temperature)
	})

	t.Run("削除", func(t *testing.T) {
		require.NoError(t, s.DeleteGalleryItem(ctx, "b"))
		got, err := s.LoadGallery(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})
}

func TestStore_GallerySchema(t *testing.T) {
	s := openTestStore(t)
	m := s.db.Migrator()

	cols, err := m.ColumnTypes(&galleryRecord{})
	require.NoError(t, err)
	var tsType string
	for _, c := range cols {
		if c.Name() == "timestamp" {
			tsType = c.DatabaseTypeName()
		}
	}
	assert.True(t, strings.EqualFold(tsType, "bigint"), "timestamp 列は bigint: %q", tsType)
	assert.True(t, m.HasIndex(&galleryRecord{}, "Timestamp"))
}

func TestStore_Memory(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	t.Run("未保存なら空の状態", func(t *testing.T) {
		got, err := s.LoadMemory(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.MemoryState{}, got)
	})

	t.Run("上書き保存して読み戻せる", func(t *testing.T) {
		require.NoError(t, s.SaveMemory(ctx, domain.MemoryState{Descriptor: "old", History: []string{"a"}}))
		want := domain.MemoryState{Descriptor: "cinematic, warm light", History: []string{"a", "b"}}
		require.NoError(t, s.SaveMemory(ctx, want))

		got, err := s.LoadMemory(ctx)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("memory mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestNew_NilDB(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}
