package server

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
	"github.com/shouni/gemini-studio-kit/pkg/prompt"
	"github.com/shouni/gemini-studio-kit/pkg/studio"
)

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

type mockAssistant struct {
	chatReqs []domain.ChatRequest
	rewrite  string
}

func (m *mockAssistant) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	m.chatReqs = append(m.chatReqs, req)
	return &domain.ChatResponse{Text: "**nice** idea"}, nil
}

func (m *mockAssistant) Rewrite(ctx context.Context, p, memory string) (string, error) {
	return m.rewrite, nil
}

type fixture struct {
	gen       *mockGenerator
	assistant *mockAssistant
	studio    *studio.Studio
	server    *Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	builder, err := prompt.NewBuilder(prompt.DefaultDirectives())
	require.NoError(t, err)

	f := &fixture{
		gen:       &mockGenerator{outputs: []domain.ImageResponse{{Data: []byte("out"), MimeType: "image/png"}}},
		assistant: &mockAssistant{rewrite: "refined @image1"},
	}
	f.studio, err = studio.New(studio.Deps{
		Generator: f.gen,
		Assistant: f.assistant,
		Builder:   builder,
	}, studio.Options{})
	require.NoError(t, err)

	f.server, err = New(f.studio)
	require.NoError(t, err)
	return f
}
