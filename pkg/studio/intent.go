package studio

import (
	"regexp"
	"strings"
)

// ChatIntentKind はチャット入力の解釈結果です。
type ChatIntentKind string

const (
	IntentAddSeed      ChatIntentKind = "add_seed"
	IntentGenerate     ChatIntentKind = "generate"
	IntentConversation ChatIntentKind = "conversation"
)

// ChatIntent はチャット入力から読み取った意図です。
type ChatIntent struct {
	Kind ChatIntentKind `json:"kind"`
	// NewRequest は直前のプレビューを引き継がない（"start over" など）ことを示します。
	NewRequest bool `json:"new_request"`
	// Transformation は直前のプレビューを編集する依頼であることを示します。
	Transformation bool `json:"transformation"`
	// SeedName は IntentAddSeed のときに抽出した名前です。
	SeedName string `json:"seed_name,omitempty"`
}

var (
	newRequestPattern     = regexp.MustCompile(`(?i)start over|new image|different person|reset`)
	transformationPattern = regexp.MustCompile(`(?i)convert|change|transform|style|make it|edit|modify|into`)
	generationPattern     = regexp.MustCompile(`(?i)generate|create|render|make|change|add|put|swap|move|image|look like|draw|style`)

	seedNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)name (?:her|him|it|the seed) ([^.,!?]+)`),
		regexp.MustCompile(`(?i)named? ([^.,!?]+)`),
		regexp.MustCompile(`(?i)\bas ([^.,!?]+)`),
	}
)

// ClassifyChat はチャット入力を シード追加 / 画像生成 / 会話 のいずれかに分類します。
func ClassifyChat(message string) ChatIntent {
	lower := strings.ToLower(message)
	if strings.Contains(lower, "add") && strings.Contains(lower, "seed") &&
		(strings.Contains(lower, "identity") || strings.Contains(lower, "image")) {
		return ChatIntent{Kind: IntentAddSeed, SeedName: extractSeedName(message)}
	}

	intent := ChatIntent{
		Kind:           IntentConversation,
		NewRequest:     newRequestPattern.MatchString(message),
		Transformation: transformationPattern.MatchString(message),
	}
	if generationPattern.MatchString(message) {
		intent.Kind = IntentGenerate
	}
	return intent
}

func extractSeedName(message string) string {
	for _, p := range seedNamePatterns {
		if m := p.FindStringSubmatch(message); m != nil {
			if name := strings.TrimSpace(m[len(m)-1]); name != "" {
				return name
			}
		}
	}
	return ""
}
