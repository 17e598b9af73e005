package domain

import (
	"strings"
	"unicode"
)

// DefaultSeedName は名前未指定で作成されたシードの表示名です。
const DefaultSeedName = "Unnamed Avatar"

// IdentitySeed は @名前 で参照できる、ユーザーが命名した参照画像（主に顔）です。
// ID は採番後に変更されません。Name は変更可能です。
type IdentitySeed struct {
	ID        string   `json:"id"`
	ImageData string   `json:"image_data"`
	Name      string   `json:"name"`
	Tags      []string `json:"tags,omitempty"`
}

// MentionTag は @ に続けて書くタグ文字列です。名前から空白をすべて取り除いたものになります。
func (s IdentitySeed) MentionTag() string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s.Name)
}
