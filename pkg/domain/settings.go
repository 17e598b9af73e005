package domain

// AspectRatioOriginal は参照画像の縦横比から自動判定することを示す特別値です。
const AspectRatioOriginal = "Original"

// PerspectiveDefault はカメラアングル・ポーズを指定しないことを示す値です。
const PerspectiveDefault = "Default"

// GenSettings は生成パラメータのスナップショットです。
// ポインタやスライスを持たない値型なので、コピーした時点で履歴やギャラリーから独立します。
type GenSettings struct {
	Temperature     float64 `json:"temperature"`
	Variation       float64 `json:"variation"`
	FaceFidelity    float64 `json:"face_fidelity"`
	Strictness      float64 `json:"strictness"`
	MicroDetailBias float64 `json:"micro_detail_bias"` // ペンダントや宝飾品など小物への注力度
	AspectRatio     string  `json:"aspect_ratio"`
	NumberOfImages  int     `json:"number_of_images"`
	ImageSize       string  `json:"image_size"`
	StylePreset     string  `json:"style_preset"`
	CameraAngle     string  `json:"camera_angle"`
	Pose            string  `json:"pose"`
}

// DefaultSettings は新規セッションの初期設定を返します。
func DefaultSettings() GenSettings {
	return GenSettings{
		Temperature:     0.9,
		Variation:       0.5,
		FaceFidelity:    0.85,
		Strictness:      0.5,
		MicroDetailBias: 0.3,
		AspectRatio:     AspectRatioOriginal,
		NumberOfImages:  1,
		ImageSize:       "1K",
		StylePreset:     "Photorealistic",
		CameraAngle:     PerspectiveDefault,
		Pose:            PerspectiveDefault,
	}
}
