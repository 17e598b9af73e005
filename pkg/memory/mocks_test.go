package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
)

// mockSummarizer は履歴の件数と末尾を記述子として返すのだ。
type mockSummarizer struct {
	mu      sync.Mutex
	inputs  [][]string
	fail    atomic.Bool
	running atomic.Int32
	maxSeen atomic.Int32
	block   chan struct{}
}

func (m *mockSummarizer) Summarize(ctx context.Context, history []string) (string, error) {
	n := m.running.Add(1)
	defer m.running.Add(-1)
	for {
		cur := m.maxSeen.Load()
		if n <= cur || m.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	m.inputs = append(m.inputs, append([]string(nil), history...))
	m.mu.Unlock()

	if m.fail.Load() {
		return "", errors.New("summarizer down")
	}
	return "last: " + history[len(history)-1] + " / " + strings.Repeat("*", len(history)), nil
}

func (m *mockSummarizer) calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.inputs...)
}
