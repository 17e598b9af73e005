package domain

// HistoryState は Undo/Redo の単位となる編集状態です。
// 比較演算子 == でそのまま同値判定できます。
type HistoryState struct {
	Prompt         string      `json:"prompt"`
	Settings       GenSettings `json:"settings"`
	NegativePrompt string      `json:"negative_prompt"`
}
