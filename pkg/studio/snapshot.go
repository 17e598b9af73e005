package studio

import (
	"github.com/shouni/gemini-studio-kit/pkg/domain"
	"github.com/shouni/gemini-studio-kit/pkg/mention"
)

// HistoryInfo は履歴の現在位置です。
type HistoryInfo struct {
	Index   int                 `json:"index"`
	Len     int                 `json:"len"`
	CanUndo bool                `json:"can_undo"`
	CanRedo bool                `json:"can_redo"`
	Current domain.HistoryState `json:"current"`
}

// Snapshot は Studio の読み取り専用コピーです。変更しても Studio には影響しません。
type Snapshot struct {
	Mode           domain.Mode           `json:"mode"`
	Slots          []domain.Slot         `json:"slots"`
	Seeds          []domain.IdentitySeed `json:"seeds"`
	PinnedSeed     string                `json:"pinned_seed,omitempty"`
	Settings       domain.GenSettings    `json:"settings"`
	NegativePrompt string                `json:"negative_prompt"`
	History        HistoryInfo           `json:"history"`
	Gallery        []domain.GalleryItem  `json:"gallery"`
	LastPreview    string                `json:"last_preview,omitempty"`
	Memory         string                `json:"memory,omitempty"`
	ChatTurns      int                   `json:"chat_turns"`
}

func (s *Studio) snapshotLocked() Snapshot {
	seeds := make([]domain.IdentitySeed, len(s.seeds))
	for i, seed := range s.seeds {
		seeds[i] = cloneSeed(seed)
	}
	snap := Snapshot{
		Mode:           s.registry.Mode(),
		Slots:          s.registry.Slots(),
		Seeds:          seeds,
		PinnedSeed:     s.pinnedSeed,
		Settings:       s.settings,
		NegativePrompt: s.negative,
		History: HistoryInfo{
			Index:   s.history.Index(),
			Len:     s.history.Len(),
			CanUndo: s.history.CanUndo(),
			CanRedo: s.history.CanRedo(),
			Current: s.history.Current(),
		},
		Gallery:     s.gallery.Items(),
		LastPreview: s.lastPreview,
		ChatTurns:   len(s.chat),
	}
	if s.memory != nil {
		snap.Memory = s.memory.Descriptor()
	}
	return snap
}

// CompleteMention はキャレット位置の入力途中メンションを検出し、補完候補を返します。
func (s *Studio) CompleteMention(text string, caret int) (mention.Query, []mention.Candidate, bool) {
	q, ok := mention.Detect(text, caret)
	if !ok {
		return mention.Query{}, nil, false
	}
	s.mu.Lock()
	slotList := s.registry.Slots()
	seeds := append([]domain.IdentitySeed(nil), s.seeds...)
	s.mu.Unlock()
	return q, mention.Complete(q, slotList, seeds), true
}

// InsertMention は選択された候補をテキストに挿入し、新しいキャレット位置を返します。
func (s *Studio) InsertMention(text string, q mention.Query, tag string) (string, int) {
	return mention.Insert(text, q, tag)
}
