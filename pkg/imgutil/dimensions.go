package imgutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Dimensions は画像のヘッダーのみを読み、幅と高さを返します。
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("画像サイズの取得に失敗しました: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// DataURLDimensions は data URL の画像サイズを返します。
func DataURLDimensions(s string) (int, int, error) {
	_, data, err := ParseDataURL(s)
	if err != nil {
		return 0, 0, err
	}
	return Dimensions(data)
}
