package generator

import (
	"context"
	"time"

	"google.golang.org/genai"
)

// ContentModel は Gemini の GenerateContent 呼び出しを抽象化します。
// *genai.Models がこのインターフェースを満たします。
type ContentModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ReferenceLoader は参照画像（data URL、http(s)、gs://）をリクエスト用のパーツに変換します。
type ReferenceLoader interface {
	PrepareImagePart(ctx context.Context, ref string) (*genai.Part, error)
}

// ImageCacher は取得済みの参照画像をキャッシュするためのインターフェースです。
type ImageCacher interface {
	// Get は、指定されたキーに紐づく画像を取得します。
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set は、指定されたキーと画像、有効期限でアイテムを保存します。
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}
