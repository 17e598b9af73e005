package prompt

import (
	"sort"
	"strings"
)

// DefaultStylePreset は未知のプリセット名に対して使われるプリセットです。
const DefaultStylePreset = "Photorealistic"

var stylePresets = map[string]string{
	"Photorealistic":    "Photorealism: cinematic RAW photograph, natural skin texture, physically accurate lighting, 8k detail.",
	"Cinematic":         "Cinematic film still: anamorphic lens, shallow depth of field, teal and orange grade, subtle film grain.",
	"Studio Portrait":   "Studio portrait: softbox key light with rim light, seamless backdrop, tack-sharp eyes.",
	"Editorial Fashion": "High-fashion editorial: bold styling, magazine-grade retouching, dramatic directional light.",
	"Anime":             "Anime illustration: clean line art, cel shading, vibrant palette, expressive eyes.",
	"Oil Painting":      "Oil painting: visible impasto brush strokes, rich pigments, classical composition.",
	"Product Shot":      "Commercial product photography: crisp focus on small objects, controlled reflections, clean background.",
	"Thumbnail Pop":     "Video thumbnail: high contrast, saturated colors, bold subject separation, room for title text.",
}

// PresetText はプリセット名に対応する説明文を返します。未知の名前は既定プリセットの説明文になります。
func PresetText(name string) string {
	if text, ok := stylePresets[name]; ok {
		return text
	}
	for k, text := range stylePresets {
		if strings.EqualFold(k, strings.TrimSpace(name)) {
			return text
		}
	}
	return stylePresets[DefaultStylePreset]
}

// PresetNames はプリセット名を名前順に返します。
func PresetNames() []string {
	names := make([]string, 0, len(stylePresets))
	for k := range stylePresets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// CameraAngles はUIで選択できるカメラアングルです。
var CameraAngles = []string{
	"Default",
	"Extreme close-up wide-angle",
	"Cinematic Wide Angle",
	"Cowboy Shot",
	"Heroic low angle",
	"Bird's eye view",
	"Dutch angle",
}

// Poses はUIで選択できるポーズです。
var Poses = []string{
	"Default",
	"High fashion editorial",
	"Relaxed sitting",
	"Couple embrace",
	"Symmetrical power stance",
	"Dynamic action pose",
}
