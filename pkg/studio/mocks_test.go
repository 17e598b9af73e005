package studio

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
	"github.com/shouni/gemini-studio-kit/pkg/prompt"
)

// --- Mocks ---

type mockGenerator struct {
	mu      sync.Mutex
	reqs    []domain.ImageGenerationRequest
	outputs []domain.ImageResponse
	err     error
}

func (m *mockGenerator) Generate(ctx context.Context, req domain.ImageGenerationRequest) ([]domain.ImageResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reqs = append(m.reqs, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.outputs, nil
}

func (m *mockGenerator) calls() []domain.ImageGenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ImageGenerationRequest(nil), m.reqs...)
}

type mockAssistant struct {
	chatReqs []domain.ChatRequest
	chatResp *domain.ChatResponse
	rewrite  string
	memory   string
	err      error
}

func (m *mockAssistant) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	m.chatReqs = append(m.chatReqs, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.chatResp, nil
}

func (m *mockAssistant) Rewrite(ctx context.Context, p, memory string) (string, error) {
	m.memory = memory
	if m.err != nil {
		return "", m.err
	}
	return m.rewrite, nil
}

type mockMemory struct {
	recorded   []string
	descriptor string
}

func (m *mockMemory) History() []string { return append([]string(nil), m.recorded...) }

func (m *mockMemory) Restore(descriptor string, history []string) {
	m.descriptor = descriptor
	m.recorded = append([]string(nil), history...)
}

func (m *mockMemory) Record(p string) bool {
	m.recorded = append(m.recorded, p)
	return false
}

func (m *mockMemory) Descriptor() string { return m.descriptor }

type mockStore struct {
	seeds   map[string]domain.IdentitySeed
	gallery map[string]domain.GalleryItem
	memory  domain.MemoryState
	loadErr error
	saveErr error
}

func newMockStore() *mockStore {
	return &mockStore{seeds: map[string]domain.IdentitySeed{}, gallery: map[string]domain.GalleryItem{}}
}

func (m *mockStore) SaveSeed(ctx context.Context, seed domain.IdentitySeed) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.seeds[seed.ID] = seed
	return nil
}

func (m *mockStore) DeleteSeed(ctx context.Context, id string) error {
	delete(m.seeds, id)
	return nil
}

func (m *mockStore) LoadSeeds(ctx context.Context) ([]domain.IdentitySeed, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	var out []domain.IdentitySeed
	for i := 1; i <= 999; i++ {
		if s, ok := m.seeds[fmt.Sprintf(seedIDFormat, i)]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockStore) SaveGalleryItem(ctx context.Context, item domain.GalleryItem) error {
	m.gallery[item.ID] = item
	return nil
}

func (m *mockStore) DeleteGalleryItem(ctx context.Context, id string) error {
	delete(m.gallery, id)
	return nil
}

func (m *mockStore) LoadGallery(ctx context.Context, limit int) ([]domain.GalleryItem, error) {
	var out []domain.GalleryItem
	for _, item := range m.gallery {
		out = append(out, item)
	}
	return out, nil
}

func (m *mockStore) SaveMemory(ctx context.Context, state domain.MemoryState) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.memory = state
	return nil
}

func (m *mockStore) LoadMemory(ctx context.Context) (domain.MemoryState, error) {
	if m.loadErr != nil {
		return domain.MemoryState{}, m.loadErr
	}
	return m.memory, nil
}

// --- Helpers ---

type fixture struct {
	studio    *Studio
	gen       *mockGenerator
	assistant *mockAssistant
	memory    *mockMemory
	store     *mockStore
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	builder, err := prompt.NewBuilder(prompt.DefaultDirectives())
	require.NoError(t, err)

	f := &fixture{
		gen:       &mockGenerator{outputs: []domain.ImageResponse{{Data: []byte("out"), MimeType: "image/png"}}},
		assistant: &mockAssistant{chatResp: &domain.ChatResponse{Text: "ok"}},
		memory:    &mockMemory{},
		store:     newMockStore(),
	}
	s, err := New(Deps{
		Generator: f.gen,
		Assistant: f.assistant,
		Memory:    f.memory,
		Builder:   builder,
		Probe: func(ctx context.Context, image string) (int, int, error) {
			return 1920, 1080, nil
		},
		Store: f.store,
	}, opts)
	require.NoError(t, err)

	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	f.studio = s
	return f
}
