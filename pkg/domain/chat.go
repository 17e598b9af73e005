package domain

import (
	"fmt"
	"strings"
)

// IntelligenceMode はチャットで有効にする推論モードです。
type IntelligenceMode string

const (
	IntelligenceCreative  IntelligenceMode = "creative"
	IntelligenceResearch  IntelligenceMode = "research"
	IntelligenceReasoning IntelligenceMode = "reasoning"
)

// ParseIntelligenceMode は文字列を IntelligenceMode に変換します。
func ParseIntelligenceMode(s string) (IntelligenceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "creative":
		return IntelligenceCreative, nil
	case "research", "web search", "web-search", "search":
		return IntelligenceResearch, nil
	case "reasoning":
		return IntelligenceReasoning, nil
	}
	return "", fmt.Errorf("未対応のインテリジェンスモードです: %q", s)
}

// ChatRole は会話ターンの話者です。Gemini API の role 名に合わせています。
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatTurn は過去の会話1ターンです。
type ChatTurn struct {
	Role   ChatRole `json:"role"`
	Text   string   `json:"text"`
	Images []string `json:"images,omitempty"`
}

// Grounding は検索グラウンディングの引用元です。
type Grounding struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// ChatRequest はチャット呼び出しの入力です。
type ChatRequest struct {
	Message string
	Images  []string
	History []ChatTurn
	Modes   []IntelligenceMode
}

// ChatResponse はチャット呼び出しの結果です。
type ChatResponse struct {
	Text      string      `json:"text"`
	Grounding []Grounding `json:"grounding,omitempty"`
}

// HasMode は指定モードが含まれているかを返します。
func (r ChatRequest) HasMode(m IntelligenceMode) bool {
	for _, v := range r.Modes {
		if v == m {
			return true
		}
	}
	return false
}
