package generator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

func (c *GeminiImageCore) fetchImageData(ctx context.Context, rawURL string) ([]byte, error) {
	if strings.HasPrefix(rawURL, "gs://") {
		if c.reader == nil {
			return nil, fmt.Errorf("gs:// の参照を読み込むリーダーが設定されていません")
		}
		rc, err := c.reader.Open(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}

	safe, err := c.httpClient.IsSafeURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("安全ではないURLが指定されました: %w", err)
	}
	if !safe {
		return nil, fmt.Errorf("安全ではないURLが指定されました: %s", rawURL)
	}
	return c.httpClient.FetchBytes(ctx, rawURL)
}

func (c *GeminiImageCore) toPart(data []byte) (*genai.Part, error) {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("画像ではないデータです: %s", mimeType)
	}
	return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}, nil
}
