package mention

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// isTagRune はタグの一部とみなす文字かを返します。
// @image1 が @image10 の先頭に一致しないよう、直後の文字の判定に使います。
func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

// indexToken は text 中で @tag が完全なトークンとして現れる最初のバイト位置を返します。
func indexToken(text, tag string) int {
	needle := "@" + tag
	for i := 0; ; {
		j := strings.Index(text[i:], needle)
		if j < 0 {
			return -1
		}
		j += i
		end := j + len(needle)
		if atBoundary(text, end) {
			return j
		}
		i = end
	}
}

// replaceToken は完全なトークンとして現れる @tag をすべて placeholder に置換し、置換数を返します。
func replaceToken(text, tag, placeholder string) (string, int) {
	needle := "@" + tag
	var b strings.Builder
	count := 0
	i := 0
	for {
		j := strings.Index(text[i:], needle)
		if j < 0 {
			break
		}
		j += i
		end := j + len(needle)
		if !atBoundary(text, end) {
			b.WriteString(text[i:end])
			i = end
			continue
		}
		b.WriteString(text[i:j])
		b.WriteString(placeholder)
		i = end
		count++
	}
	if count == 0 {
		return text, 0
	}
	b.WriteString(text[i:])
	return b.String(), count
}

func atBoundary(text string, pos int) bool {
	if pos >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return !isTagRune(r)
}
