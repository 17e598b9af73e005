package studio

import "github.com/shouni/gemini-studio-kit/pkg/domain"

// DefaultGalleryCapacity はギャラリーが保持する最大件数です。
const DefaultGalleryCapacity = 50

// Gallery は新しい順に並ぶ上限付きの生成結果一覧です。
type Gallery struct {
	items    []domain.GalleryItem
	capacity int
}

// NewGallery は上限 capacity のギャラリーを作成します。0以下なら既定値を使います。
func NewGallery(capacity int) *Gallery {
	if capacity <= 0 {
		capacity = DefaultGalleryCapacity
	}
	return &Gallery{capacity: capacity}
}

// Add は項目を先頭に追加し、上限を超えて押し出された項目を返します。
func (g *Gallery) Add(item domain.GalleryItem) []domain.GalleryItem {
	g.items = append([]domain.GalleryItem{item}, g.items...)
	if len(g.items) <= g.capacity {
		return nil
	}
	evicted := append([]domain.GalleryItem(nil), g.items[g.capacity:]...)
	g.items = g.items[:g.capacity]
	return evicted
}

// SetFeedback は項目の評価を更新し、更新後の項目を返します。
func (g *Gallery) SetFeedback(id string, fb domain.Feedback) (domain.GalleryItem, error) {
	for i := range g.items {
		if g.items[i].ID == id {
			g.items[i].Feedback = fb
			return g.items[i], nil
		}
	}
	return domain.GalleryItem{}, ErrGalleryItemNotFound
}

// Items は項目のコピーを新しい順に返します。
func (g *Gallery) Items() []domain.GalleryItem {
	return append([]domain.GalleryItem(nil), g.items...)
}

// Len は保持件数です。
func (g *Gallery) Len() int { return len(g.items) }
