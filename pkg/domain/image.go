package domain

import (
	"encoding/base64"
	"fmt"
)

// ImageGenerationRequest は単一の画像生成要求です。
// Images には data URL、http(s) URL、gs:// URI のいずれかを指定できます。
type ImageGenerationRequest struct {
	Instruction string
	Images      []string
	AspectRatio string
	ImageSize   string
	Temperature float64
	Seed        *int64 // nil でランダム、値指定で固定
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
	UsedSeed int64 // 戻り値は情報欠落を防ぐため int64
}

// DataURL は画像を data URL 形式の文字列に変換します。
func (r ImageResponse) DataURL() string {
	mimeType := r.MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(r.Data))
}
