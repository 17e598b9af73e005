package domain

import "fmt"

// Feedback は生成結果に対するユーザー評価です。
type Feedback string

const (
	FeedbackNone    Feedback = ""
	FeedbackLike    Feedback = "like"
	FeedbackDislike Feedback = "dislike"
)

// ParseFeedback は文字列を Feedback に変換します。空文字は評価の取り消しです。
func ParseFeedback(s string) (Feedback, error) {
	switch f := Feedback(s); f {
	case FeedbackNone, FeedbackLike, FeedbackDislike:
		return f, nil
	}
	return FeedbackNone, fmt.Errorf("未対応のフィードバックです: %q", s)
}

// GalleryItem は生成に成功した1枚の画像の記録です。
// Settings は生成時点の値コピーで、以後の設定変更の影響を受けません。
type GalleryItem struct {
	ID        string      `json:"id"`
	URL       string      `json:"url"`
	Prompt    string      `json:"prompt"`
	Settings  GenSettings `json:"settings"`
	Timestamp int64       `json:"timestamp"` // Unix ミリ秒
	Feedback  Feedback    `json:"feedback,omitempty"`
}
