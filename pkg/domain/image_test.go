package domain

import (
	"testing"
)

func TestImageGenerationRequest_Seed(t *testing.T) {
	t.Run("Seedがnilの場合はランダムとして扱える", func(t *testing.T) {
		req := ImageGenerationRequest{Instruction: "走るずんだもん"}
		if req.Seed != nil {
			t.Error("Seedはnilであるべきです")
		}
	})

	t.Run("Seedに値を指定して固定できる", func(t *testing.T) {
		var val int64 = 42
		req := ImageGenerationRequest{Instruction: "笑うずんだもん", Seed: &val}
		if req.Seed == nil || *req.Seed != 42 {
			t.Errorf("Seedが正しく保持されていません。値: %v", req.Seed)
		}
	})
}

func TestImageResponse_DataURL(t *testing.T) {
	t.Run("MIMEタイプ付きのdata URLを生成する", func(t *testing.T) {
		resp := ImageResponse{Data: []byte("abc"), MimeType: "image/jpeg"}
		if got, want := resp.DataURL(), "data:image/jpeg;base64,YWJj"; got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})

	t.Run("MIMEタイプが空ならimage/pngとして扱う", func(t *testing.T) {
		resp := ImageResponse{Data: []byte("abc")}
		if got, want := resp.DataURL(), "data:image/png;base64,YWJj"; got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})

	t.Run("大きなシード値がint64で保持される", func(t *testing.T) {
		var largeSeed int64 = 9223372036854775807
		resp := ImageResponse{Data: []byte{0xFF, 0xD8}, MimeType: "image/jpeg", UsedSeed: largeSeed}
		if resp.UsedSeed != largeSeed {
			t.Errorf("大きなシード値が維持されていません: %d", resp.UsedSeed)
		}
	})
}
