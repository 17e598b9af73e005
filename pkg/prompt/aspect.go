package prompt

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
)

// DefaultAspectRatio は判定できない場合に使う縦横比です。
const DefaultAspectRatio = "1:1"

// SupportedAspectRatios は生成APIが受け付ける縦横比です。
var SupportedAspectRatios = []string{"1:1", "2:3", "3:2", "3:4", "4:3", "4:5", "5:4", "9:16", "16:9", "21:9"}

// DimensionProbe は参照画像の幅と高さを返す関数です。
type DimensionProbe func(ctx context.Context, image string) (width, height int, err error)

// ClassifyRatio は画像サイズを代表的な縦横比に分類します。
//
//	w/h > 1.6        → 16:9
//	w/h < 0.6        → 9:16
//	0.9 < w/h < 1.1  → 1:1
//	それ以外          → 横長なら 4:3、縦長なら 3:4
func ClassifyRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return DefaultAspectRatio
	}
	r := float64(width) / float64(height)
	switch {
	case r > 1.6:
		return "16:9"
	case r < 0.6:
		return "9:16"
	case r > 0.9 && r < 1.1:
		return "1:1"
	case r > 1:
		return "4:3"
	default:
		return "3:4"
	}
}

// NormalizeAspectRatio は任意の縦横比指定を対応済みの値に寄せます。
// "W:H"（"x" や "/" 区切りも可）を解釈できれば最も近い対応値、できなければ 1:1 を返します。
func NormalizeAspectRatio(s string) string {
	s = strings.TrimSpace(s)
	for _, v := range SupportedAspectRatios {
		if s == v {
			return v
		}
	}
	r, ok := parseRatio(s)
	if !ok {
		return DefaultAspectRatio
	}
	best, bestDiff := DefaultAspectRatio, math.Inf(1)
	for _, v := range SupportedAspectRatios {
		vr, _ := parseRatio(v)
		if d := math.Abs(math.Log(r) - math.Log(vr)); d < bestDiff {
			best, bestDiff = v, d
		}
	}
	return best
}

// ResolveAspectRatio は最終的な縦横比を決定します。
// selected が "Original" の場合は先頭の参照画像のサイズから判定し、画像がなければ 1:1 にします。
func ResolveAspectRatio(ctx context.Context, selected string, images []string, probe DimensionProbe) string {
	if !strings.EqualFold(strings.TrimSpace(selected), domain.AspectRatioOriginal) {
		return NormalizeAspectRatio(selected)
	}
	if len(images) == 0 || probe == nil {
		return DefaultAspectRatio
	}
	w, h, err := probe(ctx, images[0])
	if err != nil {
		slog.WarnContext(ctx, "参照画像のサイズ判定に失敗しました。既定の縦横比を使用します", "error", err)
		return DefaultAspectRatio
	}
	return ClassifyRatio(w, h)
}

func parseRatio(s string) (float64, bool) {
	sep := strings.IndexAny(s, ":x/")
	if sep < 0 {
		return 0, false
	}
	w, err1 := strconv.ParseFloat(strings.TrimSpace(s[:sep]), 64)
	h, err2 := strconv.ParseFloat(strings.TrimSpace(s[sep+1:]), 64)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return 0, false
	}
	return w / h, true
}
