package slots

import (
	"errors"
	"fmt"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
)

// ErrSlotOutOfRange はモードのスロット数を超える番号が指定されたときに返ります。
var ErrSlotOutOfRange = errors.New("スロット番号が範囲外です")

// Registry は1つのワークスペースが保持するスロット画像の配列です。
// 排他制御は所有者（studio.Studio）が行います。
type Registry struct {
	mode domain.Mode
	data []string
}

// NewRegistry はモードのスロット数で空のレジストリを作成します。
func NewRegistry(mode domain.Mode) *Registry {
	return &Registry{mode: mode, data: make([]string, SlotCount(mode))}
}

// Mode は現在のモードを返します。
func (r *Registry) Mode() domain.Mode {
	return r.mode
}

// Len はスロット数を返します。
func (r *Registry) Len() int {
	return len(r.data)
}

// SetMode はモードを切り替えます。画像は同じタグのスロットへ移り、
// 新しいモードに同じタグがない画像は破棄されます（style3 が image6 になることはありません）。
func (r *Registry) SetMode(mode domain.Mode) {
	next := make([]string, SlotCount(mode))
	byTag := make(map[string]int, len(next))
	for i := range next {
		byTag[DeriveTag(mode, i).Tag] = i
	}
	for i, d := range r.data {
		if d == "" {
			continue
		}
		if j, ok := byTag[DeriveTag(r.mode, i).Tag]; ok {
			next[j] = d
		}
	}
	r.mode = mode
	r.data = next
}

// Set は指定スロットに画像をセットします。
func (r *Registry) Set(index int, data string) error {
	if err := r.check(index); err != nil {
		return err
	}
	r.data[index] = data
	return nil
}

// Clear は指定スロットを空にします。
func (r *Registry) Clear(index int) error {
	return r.Set(index, "")
}

// Get は指定スロットの画像を返します。範囲外や未設定の場合は空文字です。
func (r *Registry) Get(index int) string {
	if index < 0 || index >= len(r.data) {
		return ""
	}
	return r.data[index]
}

// Slot は指定スロットをメタデータ付きで返します。
func (r *Registry) Slot(index int) domain.Slot {
	d := DeriveTag(r.mode, index)
	return domain.Slot{
		Index:       index,
		Data:        r.data[index],
		Tag:         d.Tag,
		Label:       d.Label,
		Placeholder: d.Placeholder,
	}
}

// Slots は全スロットを番号順に返します。
func (r *Registry) Slots() []domain.Slot {
	out := make([]domain.Slot, 0, len(r.data))
	for i := range r.data {
		out = append(out, r.Slot(i))
	}
	return out
}

// Populated は画像がセットされているスロットのみを番号順に返します。
func (r *Registry) Populated() []domain.Slot {
	var out []domain.Slot
	for i, d := range r.data {
		if d != "" {
			out = append(out, r.Slot(i))
		}
	}
	return out
}

func (r *Registry) check(index int) error {
	if index < 0 || index >= len(r.data) {
		return fmt.Errorf("%w: %d (mode=%s, count=%d)", ErrSlotOutOfRange, index, r.mode, len(r.data))
	}
	return nil
}
