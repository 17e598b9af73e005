package domain

import (
	"fmt"
	"strings"
)

// Mode はプロダクトのワークスペース種別です。モードごとにスロット構成が異なります。
type Mode string

const (
	ModeSingleSubject    Mode = "single"
	ModeGroupComposition Mode = "group"
	ModeAccessories      Mode = "accessories"
	ModeThumbnail        Mode = "thumbnail"
)

// Modes は定義済みのモードを表示順に返します。
func Modes() []Mode {
	return []Mode{ModeSingleSubject, ModeGroupComposition, ModeAccessories, ModeThumbnail}
}

// ParseMode は文字列をモードに変換します。大文字小文字と一部の別名を許容します。
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "single-subject", "single_play", "portrait":
		return ModeSingleSubject, nil
	case "group", "group-composition", "group_photo":
		return ModeGroupComposition, nil
	case "accessories", "accessory":
		return ModeAccessories, nil
	case "thumbnail", "thumbnail_creator":
		return ModeThumbnail, nil
	}
	return "", fmt.Errorf("未対応のモードです: %q", s)
}
