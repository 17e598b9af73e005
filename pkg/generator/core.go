package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"golang.org/x/sync/singleflight"
	"google.golang.org/genai"

	"github.com/shouni/gemini-studio-kit/pkg/imgutil"
)

// GeminiImageCore は参照画像の取得・圧縮・キャッシュを担う基盤です。
type GeminiImageCore struct {
	reader     remoteio.InputReader
	httpClient httpkit.ClientInterface
	cache      ImageCacher
	expiration time.Duration
	inflight   singleflight.Group
}

// NewGeminiImageCore は依存関係を注入して GeminiImageCore を初期化します。
// reader が nil の場合 gs:// の参照はエラーになります。cache は nil を許容します。
func NewGeminiImageCore(reader remoteio.InputReader, httpClient httpkit.ClientInterface, cache ImageCacher, cacheTTL time.Duration) (*GeminiImageCore, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &GeminiImageCore{
		reader:     reader,
		httpClient: httpClient,
		cache:      cache,
		expiration: cacheTTL,
	}, nil
}

// PrepareImagePart は参照画像をインラインデータのパーツに変換します。
func (c *GeminiImageCore) PrepareImagePart(ctx context.Context, ref string) (*genai.Part, error) {
	data, err := c.LoadImage(ctx, ref)
	if err != nil {
		return nil, err
	}
	if shrunk, ok := imgutil.ShrinkReference(data, ShrinkThreshold, ImageCompressionQuality); ok {
		slog.DebugContext(ctx, "参照画像を再圧縮しました", "before", len(data), "after", len(shrunk))
		data = shrunk
	}
	return c.toPart(data)
}

// LoadImage は参照画像のバイト列を返します。リモートの参照はキャッシュされます。
func (c *GeminiImageCore) LoadImage(ctx context.Context, ref string) ([]byte, error) {
	if imgutil.IsDataURL(ref) {
		_, data, err := imgutil.ParseDataURL(ref)
		return data, err
	}

	key := cacheKeyReference + ref
	if c.cache != nil {
		if data, ok := c.cache.Get(ctx, key); ok {
			return data, nil
		}
	}

	// 同じ参照への同時取得はまとめる
	v, err, _ := c.inflight.Do(ref, func() (any, error) {
		return c.fetchImageData(ctx, ref)
	})
	if err != nil {
		return nil, fmt.Errorf("参照画像の取得に失敗しました (%s): %w", ref, err)
	}
	data := v.([]byte)

	if c.cache != nil {
		c.cache.Set(ctx, key, data, c.expiration)
	}
	return data, nil
}

// Dimensions は参照画像の幅と高さを返します。縦横比の自動判定に使います。
// data URL はキャッシュを通さずヘッダーだけを読みます。
func (c *GeminiImageCore) Dimensions(ctx context.Context, ref string) (int, int, error) {
	if imgutil.IsDataURL(ref) {
		return imgutil.DataURLDimensions(ref)
	}
	data, err := c.LoadImage(ctx, ref)
	if err != nil {
		return 0, 0, err
	}
	return imgutil.Dimensions(data)
}
