package imgutil

import (
	"bytes"
	"image"
	"image/jpeg"
)

// CompressToJPEG は画像データ（PNG, GIF, JPEG, WebP）をJPEG形式に圧縮します。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ShrinkReference は threshold バイトを超える参照画像をJPEGに再圧縮します。
// 圧縮に失敗した場合や小さくならなかった場合は元データを返し、第2戻り値は false になります。
func ShrinkReference(data []byte, threshold, quality int) ([]byte, bool) {
	if threshold <= 0 || len(data) <= threshold {
		return data, false
	}
	compressed, err := CompressToJPEG(data, quality)
	if err != nil || len(compressed) >= len(data) {
		return data, false
	}
	return compressed, true
}
