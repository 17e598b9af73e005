package studio

import "github.com/shouni/gemini-studio-kit/pkg/domain"

// History は Undo/Redo 用の編集履歴です。
// 現在位置より後ろの状態は新しい Push で破棄されます。
type History struct {
	states []domain.HistoryState
	index  int
}

// NewHistory は初期状態1件を持つ履歴を作成します。
func NewHistory(initial domain.HistoryState) *History {
	return &History{states: []domain.HistoryState{initial}}
}

// Push は状態を追加します。現在の状態と同値なら追加せず false を返します。
func (h *History) Push(s domain.HistoryState) bool {
	if h.states[h.index] == s {
		return false
	}
	h.states = append(h.states[:h.index+1], s)
	h.index = len(h.states) - 1
	return true
}

// Undo は1つ前の状態に戻ります。先頭では何もせず false を返します。
func (h *History) Undo() (domain.HistoryState, bool) {
	if h.index == 0 {
		return h.states[h.index], false
	}
	h.index--
	return h.states[h.index], true
}

// Redo は1つ先の状態に進みます。末尾では何もせず false を返します。
func (h *History) Redo() (domain.HistoryState, bool) {
	if h.index == len(h.states)-1 {
		return h.states[h.index], false
	}
	h.index++
	return h.states[h.index], true
}

// Current は現在の状態を返します。
func (h *History) Current() domain.HistoryState {
	return h.states[h.index]
}

func (h *History) CanUndo() bool { return h.index > 0 }
func (h *History) CanRedo() bool { return h.index < len(h.states)-1 }

// Len は保持している状態数です。
func (h *History) Len() int { return len(h.states) }

// Index は現在位置です。
func (h *History) Index() int { return h.index }
