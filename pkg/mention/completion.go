package mention

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
)

// Query は入力途中のメンションです。位置はすべてルーン単位です。
type Query struct {
	Start  int    `json:"start"`  // '@' の位置
	Caret  int    `json:"caret"`  // キャレット位置
	Filter string `json:"filter"` // '@' からキャレットまでの文字列（'@' を含まない）
}

// CandidateKind は補完候補の種別です。
type CandidateKind string

const (
	KindSeed CandidateKind = "seed"
	KindSlot CandidateKind = "slot"
)

// Candidate はメンション補完の候補です。
type Candidate struct {
	Kind   CandidateKind `json:"kind"`
	Tag    string        `json:"tag"`
	Label  string        `json:"label"`
	SeedID string        `json:"seed_id,omitempty"`
	Index  int           `json:"index"`
}

// Detect はキャレット直前の未完了メンションを探します。
// キャレットより前で最後の '@' を探し、その間に空白や改行があれば未検出とします。
func Detect(text string, caret int) (Query, bool) {
	runes := []rune(text)
	if caret < 0 {
		return Query{}, false
	}
	if caret > len(runes) {
		caret = len(runes)
	}
	for i := caret - 1; i >= 0; i-- {
		r := runes[i]
		if r == '@' {
			return Query{Start: i, Caret: caret, Filter: string(runes[i+1 : caret])}, true
		}
		if unicode.IsSpace(r) {
			return Query{}, false
		}
	}
	return Query{}, false
}

// Complete はクエリに一致する候補を返します。
// アイデンティティシードが先（名前の完全一致、部分一致の順）、続いて画像がセット済みのスロットです。
// フィルタが空、または一致なしの場合は空の一覧を返します。
func Complete(q Query, slots []domain.Slot, seeds []domain.IdentitySeed) []Candidate {
	filter := strings.ToLower(q.Filter)
	if filter == "" {
		return nil
	}

	var exact, partial, slotHits []Candidate
	for _, s := range seeds {
		tag := s.MentionTag()
		if tag == "" {
			continue
		}
		name := strings.ToLower(s.Name)
		lowerTag := strings.ToLower(tag)
		c := Candidate{Kind: KindSeed, Tag: tag, Label: s.Name, SeedID: s.ID, Index: -1}
		switch {
		case name == filter || lowerTag == filter:
			exact = append(exact, c)
		case strings.Contains(name, filter) || strings.Contains(lowerTag, filter):
			partial = append(partial, c)
		}
	}
	for _, s := range slots {
		if !s.Populated() {
			continue
		}
		if strings.Contains(strings.ToLower(s.Tag), filter) {
			slotHits = append(slotHits, Candidate{Kind: KindSlot, Tag: s.Tag, Label: s.Label, Index: s.Index})
		}
	}

	out := make([]Candidate, 0, len(exact)+len(partial)+len(slotHits))
	out = append(out, exact...)
	out = append(out, partial...)
	return append(out, slotHits...)
}

// Insert は入力途中のメンションを "@tag " に置き換え、新しいテキストと挿入した空白直後のキャレット位置を返します。
func Insert(text string, q Query, tag string) (string, int) {
	runes := []rune(text)
	start := min(max(q.Start, 0), len(runes))
	caret := min(max(q.Caret, start), len(runes))

	var b strings.Builder
	b.WriteString(string(runes[:start]))
	b.WriteByte('@')
	b.WriteString(tag)
	b.WriteByte(' ')
	b.WriteString(string(runes[caret:]))
	return b.String(), start + utf8.RuneCountInString(tag) + 2
}
