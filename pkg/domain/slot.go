package domain

// Slot はモード内の1つの参照画像枠です。
// Tag / Label / Placeholder は (モード, 番号) から都度導出され、保存されません。
type Slot struct {
	Index       int    `json:"index"`
	Data        string `json:"data,omitempty"`
	Tag         string `json:"tag"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
}

// Populated は画像がセットされているかを返します。
func (s Slot) Populated() bool {
	return s.Data != ""
}
