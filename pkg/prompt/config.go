package prompt

import "strings"

const (
	MinTemperature = 0.1
	MaxTemperature = 1.5

	DefaultImageSize = "1K"
)

// ImageSizes は選択できる出力解像度です。
var ImageSizes = []string{"1K", "2K", "4K"}

// NormalizeImageSize は出力解像度を 1K/2K/4K のいずれかに寄せます。
// 8K は未対応のため 4K に、解釈できない値は 1K になります。
func NormalizeImageSize(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1K":
		return "1K"
	case "2K":
		return "2K"
	case "4K", "8K":
		return "4K"
	}
	return DefaultImageSize
}

// ClampTemperature は温度を [0.1, 1.5] に収めます。
func ClampTemperature(t float64) float64 {
	return min(max(t, MinTemperature), MaxTemperature)
}
