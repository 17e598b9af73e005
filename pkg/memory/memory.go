package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultHistoryLimit   = 10
	DefaultRefreshEvery   = 2
	DefaultRefreshTimeout = 30 * time.Second
)

// Summarizer はプロンプト履歴を短い記述子に要約します。
type Summarizer interface {
	Summarize(ctx context.Context, history []string) (string, error)
}

// Options は Memory の動作設定です。
type Options struct {
	HistoryLimit   int
	RefreshEvery   int
	RefreshTimeout time.Duration
}

// Memory はプロンプト履歴から「ニューラルメモリ」の記述子を非同期に更新します。
// 更新はベストエフォートで、失敗しても直前の記述子を保持します。
type Memory struct {
	summarizer Summarizer
	opts       Options

	mu         sync.RWMutex
	history    []string
	sinceFresh int
	descriptor string
	closed     bool

	group singleflight.Group
	wg    sync.WaitGroup
}

// New は Memory を生成します。
func New(s Summarizer, opts Options) *Memory {
	return &Memory{summarizer: s, opts: opts.withDefaults()}
}

func (o Options) withDefaults() Options {
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = DefaultHistoryLimit
	}
	if o.RefreshEvery <= 0 {
		o.RefreshEvery = DefaultRefreshEvery
	}
	if o.RefreshTimeout <= 0 {
		o.RefreshTimeout = DefaultRefreshTimeout
	}
	return o
}

// SetOptions は設定を差し替えます。履歴が新しい上限を超えていれば古いものから捨てます。
// 実行中の更新には影響しません。
func (m *Memory) SetOptions(opts Options) {
	opts = opts.withDefaults()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts = opts
	if over := len(m.history) - opts.HistoryLimit; over > 0 {
		m.history = append([]string(nil), m.history[over:]...)
	}
}

// Record は送信済みプロンプトを履歴に追加し、必要なら裏で記述子を更新します。
// 更新が始まった場合は true を返します。
func (m *Memory) Record(prompt string) bool {
	m.mu.Lock()
	if m.closed || prompt == "" {
		m.mu.Unlock()
		return false
	}
	m.history = append(m.history, prompt)
	if over := len(m.history) - m.opts.HistoryLimit; over > 0 {
		m.history = append([]string(nil), m.history[over:]...)
	}
	m.sinceFresh++
	if m.summarizer == nil || m.sinceFresh < m.opts.RefreshEvery {
		m.mu.Unlock()
		return false
	}
	m.sinceFresh = 0
	snapshot := append([]string(nil), m.history...)
	timeout := m.opts.RefreshTimeout
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		m.refresh(snapshot, timeout)
	}()
	return true
}

// refresh は要約を実行します。同時に走る更新は1つに抑えます。
func (m *Memory) refresh(history []string, timeout time.Duration) {
	_, _, _ = m.group.Do("refresh", func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		desc, err := m.summarizer.Summarize(ctx, history)
		if err != nil {
			slog.WarnContext(ctx, "ニューラルメモリの更新に失敗しました。直前の記述子を保持します", "error", err)
			return nil, err
		}
		if desc == "" {
			return nil, nil
		}
		m.mu.Lock()
		m.descriptor = desc
		m.mu.Unlock()
		slog.DebugContext(ctx, "ニューラルメモリを更新しました", "entries", len(history))
		return nil, nil
	})
}

// Descriptor は現在の記述子を返します。ブロックしません。
func (m *Memory) Descriptor() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.descriptor
}

// History は保持している履歴のコピーを返します。
func (m *Memory) History() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.history...)
}

// Restore は永続化された記述子と履歴を復元します。
func (m *Memory) Restore(descriptor string, history []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.descriptor = descriptor
	if over := len(history) - m.opts.HistoryLimit; over > 0 {
		history = history[over:]
	}
	m.history = append([]string(nil), history...)
	m.sinceFresh = 0
}

// Wait は実行中の更新がすべて終わるまで待ちます。
func (m *Memory) Wait() {
	m.wg.Wait()
}

// Close は新しい更新の受け付けを止め、実行中の更新を待ちます。
func (m *Memory) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.wg.Wait()
}
