package generator

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"google.golang.org/genai"
)

// RetryPolicy は過負荷応答に対する再試行の設定です。
type RetryPolicy struct {
	Attempts uint
	Delay    time.Duration // 初回待機時間。以降は指数的に伸びます
}

// DefaultRetryPolicy は 2秒から始まる指数バックオフで最大3回試行する設定を返します。
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Delay: 2 * time.Second}
}

// IsOverloaded はエラーがモデル側の過負荷（HTTP 503 / UNAVAILABLE / overloaded）を示すかを返します。
func IsOverloaded(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && overloadedAPIError(apiErr) {
		return true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && overloadedAPIError(*apiErrPtr) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "overloaded")
}

func overloadedAPIError(e genai.APIError) bool {
	return e.Code == http.StatusServiceUnavailable ||
		strings.EqualFold(e.Status, "UNAVAILABLE") ||
		strings.Contains(strings.ToLower(e.Message), "overloaded")
}

// withRetry は過負荷エラーのときだけ fn を再試行します。それ以外のエラーは即座に返します。
func withRetry[T any](ctx context.Context, p RetryPolicy, op string, fn func() (T, error)) (T, error) {
	if p.Attempts == 0 {
		p.Attempts = 1
	}
	return retry.DoWithData(
		fn,
		retry.Context(ctx),
		retry.Attempts(p.Attempts),
		retry.Delay(p.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(IsOverloaded),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.WarnContext(ctx, "モデルが過負荷のため再試行します", "op", op, "attempt", n+1, "error", err)
		}),
	)
}
