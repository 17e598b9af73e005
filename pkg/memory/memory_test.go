package memory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMemory_Record(t *testing.T) {
	t.Run("2件ごとに更新する", func(t *testing.T) {
		s := &mockSummarizer{}
		m := New(s, Options{})
		defer m.Close()

		assert.False(t, m.Record("a"))
		assert.True(t, m.Record("b"))
		m.Wait()
		assert.Equal(t, "last: b / **", m.Descriptor())

		assert.False(t, m.Record("c"))
		assert.True(t, m.Record("d"))
		m.Wait()
		assert.Equal(t, "last: d / ****", m.Descriptor())
		assert.Len(t, s.calls(), 2)
	})

	t.Run("履歴は直近10件に制限される", func(t *testing.T) {
		s := &mockSummarizer{}
		m := New(s, Options{})
		defer m.Close()

		for i := 1; i <= 14; i++ {
			m.Record(fmt.Sprintf("p%d", i))
			m.Wait()
		}
		h := m.History()
		require.Len(t, h, DefaultHistoryLimit)
		assert.Equal(t, "p5", h[0])
		assert.Equal(t, "p14", h[9])

		calls := s.calls()
		assert.Len(t, calls[len(calls)-1], DefaultHistoryLimit)
	})

	t.Run("失敗しても直前の記述子を保持する", func(t *testing.T) {
		s := &mockSummarizer{}
		m := New(s, Options{})
		defer m.Close()

		m.Record("a")
		m.Record("b")
		m.Wait()
		before := m.Descriptor()
		require.NotEmpty(t, before)

		s.fail.Store(true)
		m.Record("c")
		m.Record("d")
		m.Wait()
		assert.Equal(t, before, m.Descriptor())
	})

	t.Run("空文字は記録しない", func(t *testing.T) {
		m := New(&mockSummarizer{}, Options{})
		defer m.Close()
		assert.False(t, m.Record(""))
		assert.Empty(t, m.History())
	})

	t.Run("要約器がなければ記録のみ", func(t *testing.T) {
		m := New(nil, Options{})
		defer m.Close()
		m.Record("a")
		assert.False(t, m.Record("b"))
		assert.Equal(t, []string{"a", "b"}, m.History())
		assert.Empty(t, m.Descriptor())
	})
}

func TestMemory_SingleRefreshInFlight(t *testing.T) {
	s := &mockSummarizer{block: make(chan struct{})}
	m := New(s, Options{RefreshEvery: 1})

	for i := 0; i < 5; i++ {
		m.Record(fmt.Sprintf("p%d", i))
	}
	assert.Empty(t, m.Descriptor(), "更新中も Descriptor はブロックしない")

	close(s.block)
	m.Close()

	assert.Equal(t, int32(1), s.maxSeen.Load(), "同時に走る要約は1つだけ")
	assert.NotEmpty(t, m.Descriptor())
}

func TestMemory_Close(t *testing.T) {
	s := &mockSummarizer{}
	m := New(s, Options{RefreshEvery: 1})
	m.Close()
	assert.False(t, m.Record("late"))
	assert.Empty(t, s.calls())
}

func TestMemory_Restore(t *testing.T) {
	m := New(&mockSummarizer{}, Options{HistoryLimit: 3})
	defer m.Close()
	m.Restore("kept", []string{"a", "b", "c", "d"})
	assert.Equal(t, "kept", m.Descriptor())
	assert.Equal(t, []string{"b", "c", "d"}, m.History())
}

func TestMemory_SetOptions(t *testing.T) {
	s := &mockSummarizer{}
	m := New(s, Options{})
	defer m.Close()

	for _, p := range []string{"a", "b", "c", "d"} {
		m.Record(p)
	}
	m.Wait()

	t.Run("上限を下げると古い履歴から捨てる", func(t *testing.T) {
		m.SetOptions(Options{HistoryLimit: 2, RefreshEvery: 3})
		assert.Equal(t, []string{"c", "d"}, m.History())
	})

	t.Run("更新間隔の変更が次の記録から効く", func(t *testing.T) {
		before := len(s.calls())
		assert.False(t, m.Record("e"))
		assert.False(t, m.Record("f"))
		assert.True(t, m.Record("g"))
		m.Wait()
		assert.Len(t, s.calls(), before+1)
		assert.Equal(t, []string{"f", "g"}, m.History())
	})
}
