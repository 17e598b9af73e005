package slots

import (
	"fmt"
	"strconv"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
)

// family は連続したスロット番号帯の命名規則です。
type family struct {
	prefix   string
	count    int
	numbered bool // false のとき count は 1 で、タグは prefix そのもの
	label    string
	role     string // プレースホルダー識別子
}

// schemes はモードごとのスロット構成表です。各モードのスロット数はここで固定されます。
//
//	single      : image1..image9
//	group       : identity1..identity3, scene, style1..style6
//	accessories : identity1, source1..source9
//	thumbnail   : source1..source4, style1..style2
var schemes = map[domain.Mode][]family{
	domain.ModeSingleSubject: {
		{prefix: "image", count: 9, numbered: true, label: "Image", role: "REFERENCE_IMAGE"},
	},
	domain.ModeGroupComposition: {
		{prefix: "identity", count: 3, numbered: true, label: "Identity", role: "PRIMARY_IDENTITY"},
		{prefix: "scene", count: 1, label: "Scene", role: "SCENE_REFERENCE"},
		{prefix: "style", count: 6, numbered: true, label: "Style", role: "STYLE_REFERENCE"},
	},
	domain.ModeAccessories: {
		{prefix: "identity", count: 1, numbered: true, label: "Identity", role: "PRIMARY_IDENTITY"},
		{prefix: "source", count: 9, numbered: true, label: "Accessory", role: "ACCESSORY_REFERENCE"},
	},
	domain.ModeThumbnail: {
		{prefix: "source", count: 4, numbered: true, label: "Source", role: "SOURCE_IMAGE"},
		{prefix: "style", count: 2, numbered: true, label: "Style", role: "STYLE_REFERENCE"},
	},
}

// Descriptor はスロット番号から導出されるメタデータです。
type Descriptor struct {
	Tag         string
	Label       string
	Placeholder string
}

// SlotCount はモードのスロット数を返します。未定義のモードは 0 です。
func SlotCount(mode domain.Mode) int {
	n := 0
	for _, f := range schemes[mode] {
		n += f.count
	}
	return n
}

// DeriveTag は (モード, 番号) からタグ・表示名・プレースホルダーを決定的に導出します。
// 番号が範囲外の場合は呼び出し側の誤りとして panic します。
func DeriveTag(mode domain.Mode, index int) Descriptor {
	if index >= 0 {
		offset := index
		for _, f := range schemes[mode] {
			if offset < f.count {
				return f.describe(offset)
			}
			offset -= f.count
		}
	}
	panic(fmt.Sprintf("slots: index %d out of range for mode %q (count %d)", index, mode, SlotCount(mode)))
}

// Tags はモードの全タグを番号順に返します。
func Tags(mode domain.Mode) []string {
	n := SlotCount(mode)
	tags := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tags = append(tags, DeriveTag(mode, i).Tag)
	}
	return tags
}

func (f family) describe(offset int) Descriptor {
	if !f.numbered {
		return Descriptor{
			Tag:         f.prefix,
			Label:       f.label,
			Placeholder: "[" + f.role + "]",
		}
	}
	n := strconv.Itoa(offset + 1)
	return Descriptor{
		Tag:         f.prefix + n,
		Label:       f.label + " " + n,
		Placeholder: "[" + f.role + "_" + n + "]",
	}
}
