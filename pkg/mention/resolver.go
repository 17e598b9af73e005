package mention

import (
	"sort"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
)

// Mention は解決済みのメンション1件です。
type Mention struct {
	Kind        CandidateKind `json:"kind"`
	Tag         string        `json:"tag"`
	Placeholder string        `json:"placeholder"`
	Index       int           `json:"index"`
	SeedID      string        `json:"seed_id,omitempty"`
	Count       int           `json:"count"`
	Image       int           `json:"image"` // Resolution.Images 内の位置（1始まり）
}

// Resolution は送信時のメンション解決結果です。
type Resolution struct {
	Text     string    `json:"text"`
	Images   []string  `json:"-"`
	Mentions []Mention `json:"mentions"`
	Fallback bool      `json:"fallback"` // メンションが1件も解決せず全スロット画像を採用した
}

type hit struct {
	pos     int
	image   string
	mention Mention
}

// Resolve はテキスト中の @tag をプレースホルダーに置換し、参照画像を収集します。
//
// スロット（番号順）、シード（登録順）の順に照合し、画像が存在するタグだけを置換します。
// 画像は内容で重複排除し、テキスト中で最初に言及された順に並べます。
// 1件も解決しなかった場合は、画像がセット済みの全スロットを番号順に採用します。
// 一致しない @ はそのまま残ります。
func Resolve(text string, slots []domain.Slot, seeds []domain.IdentitySeed) Resolution {
	out := text
	var hits []hit

	for _, s := range slots {
		if !s.Populated() || s.Tag == "" {
			continue
		}
		pos := indexToken(text, s.Tag)
		if pos < 0 {
			continue
		}
		replaced, n := replaceToken(out, s.Tag, s.Placeholder)
		if n == 0 {
			continue
		}
		out = replaced
		hits = append(hits, hit{pos: pos, image: s.Data, mention: Mention{
			Kind: KindSlot, Tag: s.Tag, Placeholder: s.Placeholder, Index: s.Index, Count: n,
		}})
	}

	for _, s := range seeds {
		tag := s.MentionTag()
		if tag == "" || s.ImageData == "" {
			continue
		}
		pos := indexToken(text, tag)
		if pos < 0 {
			continue
		}
		placeholder := SeedPlaceholder(s.ID)
		replaced, n := replaceToken(out, tag, placeholder)
		if n == 0 {
			continue
		}
		out = replaced
		hits = append(hits, hit{pos: pos, image: s.ImageData, mention: Mention{
			Kind: KindSeed, Tag: tag, Placeholder: placeholder, Index: -1, SeedID: s.ID, Count: n,
		}})
	}

	res := Resolution{Text: out}
	var images imageSet

	if len(hits) == 0 {
		res.Fallback = true
		for _, s := range slots {
			if s.Populated() {
				images.add(s.Data)
			}
		}
		res.Images = images.list
		return res
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	for _, h := range hits {
		h.mention.Image = images.add(h.image)
		res.Mentions = append(res.Mentions, h.mention)
	}
	res.Images = images.list
	return res
}

// SeedPlaceholder はシードのプレースホルダーを返します。
func SeedPlaceholder(id string) string {
	return "[IDENTITY_SEED_" + id + "]"
}

// imageSet は内容で重複排除しながら挿入順を保持する画像一覧です。
type imageSet struct {
	seen map[string]int
	list []string
}

// add は画像を追加し、一覧内の位置（1始まり）を返します。既出の画像は既存の位置を返します。
func (s *imageSet) add(img string) int {
	if img == "" {
		return 0
	}
	if s.seen == nil {
		s.seen = make(map[string]int)
	}
	if pos, ok := s.seen[img]; ok {
		return pos
	}
	s.list = append(s.list, img)
	s.seen[img] = len(s.list)
	return len(s.list)
}

// Dedupe は内容が同じ画像を取り除き、最初の出現順で返します。
func Dedupe(images ...string) []string {
	var set imageSet
	for _, img := range images {
		set.add(img)
	}
	return set.list
}
