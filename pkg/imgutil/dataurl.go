package imgutil

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// ErrNotDataURL は data URL 形式でない文字列を渡したときのエラーです。
var ErrNotDataURL = errors.New("data URL 形式ではありません")

var dataURLPattern = regexp.MustCompile(`^data:([^;,]+)?(;[^,]*)?,(.*)$`)

// IsDataURL は文字列が data URL かどうかを返します。
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// ParseDataURL は base64 の data URL をデコードし、MIMEタイプとバイト列を返します。
// MIMEタイプが省略されている場合は内容から推定します。
func ParseDataURL(s string) (string, []byte, error) {
	m := dataURLPattern.FindStringSubmatch(s)
	if m == nil {
		return "", nil, ErrNotDataURL
	}
	if !strings.Contains(m[2], "base64") {
		return "", nil, fmt.Errorf("base64 以外の data URL には対応していません")
	}
	data, err := base64.StdEncoding.DecodeString(m[3])
	if err != nil {
		return "", nil, fmt.Errorf("data URL のデコードに失敗しました: %w", err)
	}
	mimeType := m[1]
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return mimeType, data, nil
}

// EncodeDataURL はバイト列を data URL に変換します。MIMEタイプは内容から推定します。
func EncodeDataURL(data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", http.DetectContentType(data), base64.StdEncoding.EncodeToString(data))
}
