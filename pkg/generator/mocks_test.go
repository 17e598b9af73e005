package generator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"google.golang.org/genai"
)

// --- Mocks ---

type modelCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

// mockModel は ContentModel を実装し、キューに積まれた応答を順に返すのだ。
type mockModel struct {
	mu        sync.Mutex
	calls     []modelCall
	responses []*genai.GenerateContentResponse
	errs      []error
}

func (m *mockModel) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.calls)
	m.calls = append(m.calls, modelCall{model: model, contents: contents, config: config})
	if n < len(m.errs) && m.errs[n] != nil {
		return nil, m.errs[n]
	}
	if n < len(m.responses) {
		return m.responses[n], nil
	}
	if len(m.responses) > 0 {
		return m.responses[len(m.responses)-1], nil
	}
	return &genai.GenerateContentResponse{}, nil
}

func (m *mockModel) lastCall() modelCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

func (m *mockModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockLoader は ReferenceLoader を実装するのだ。
type mockLoader struct {
	failFor map[string]bool
	loaded  []string
}

func (m *mockLoader) PrepareImagePart(ctx context.Context, ref string) (*genai.Part, error) {
	if m.failFor[ref] {
		return nil, io.ErrUnexpectedEOF
	}
	m.loaded = append(m.loaded, ref)
	return &genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte(ref)}}, nil
}

// mockReader は remoteio.InputReader を実装するのだ。
type mockReader struct {
	data   map[string][]byte
	opened []string
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	m.opened = append(m.opened, uri)
	data, ok := m.data[uri]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	return nil
}

var _ httpkit.ClientInterface = (*mockHTTPClient)(nil)

// mockHTTPClient は httpkit.ClientInterface を実装します。
// unsafe に登録した URL は IsSafeURL でエラーになるのだ。
type mockHTTPClient struct {
	data    []byte
	err     error
	fetched []string
	unsafe  map[string]bool
	checked []string
}

func (m *mockHTTPClient) IsSafeURL(urlStr string) (bool, error) {
	m.checked = append(m.checked, urlStr)
	if m.unsafe[urlStr] {
		return false, errors.New("restricted network")
	}
	return true, nil
}

func (m *mockHTTPClient) IsSecureServiceURL(serviceURL string) bool {
	return strings.HasPrefix(serviceURL, "https://")
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return nil, errors.New("not implemented")
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.fetched = append(m.fetched, url)
	return m.data, m.err
}

// インターフェースを満たすための空実装群なのだ
func (m *mockHTTPClient) DoRequest(req *http.Request) ([]byte, error) {
	return nil, nil
}

func (m *mockHTTPClient) FetchAndDecodeJSON(ctx context.Context, url string, v any) error {
	return nil
}

func (m *mockHTTPClient) PostJSONAndFetchBytes(ctx context.Context, url string, data any) ([]byte, error) {
	return nil, nil
}

func (m *mockHTTPClient) PostRawBodyAndFetchBytes(ctx context.Context, url string, body []byte, contentType string) ([]byte, error) {
	return nil, nil
}

type mockCache struct {
	data map[string][]byte
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	m.data[key] = value
}

// --- Helpers ---

// PNGの最小構成バイナリ（シグネチャ含む）
var validPNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00\x90w\x53\xde")

func imageResponse(data ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, 0, len(data))
	for _, d := range data {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte(d)}})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: parts},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.Retry = RetryPolicy{Attempts: 3, Delay: time.Millisecond}
	return cfg
}
