package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
	"github.com/shouni/gemini-studio-kit/pkg/mention"
)

// Directives は指示ブロックの文言です。設定ファイルから差し替えられます。
type Directives struct {
	Header             string                 `mapstructure:"header" yaml:"header"`
	FidelityThreshold  float64                `mapstructure:"fidelity_threshold" yaml:"fidelity_threshold"`
	StrictFidelity     string                 `mapstructure:"strict_fidelity" yaml:"strict_fidelity"`
	LooseFidelity      string                 `mapstructure:"loose_fidelity" yaml:"loose_fidelity"`
	Environment        string                 `mapstructure:"environment" yaml:"environment"`
	NoMemory           string                 `mapstructure:"no_memory" yaml:"no_memory"`
	NoNegative         string                 `mapstructure:"no_negative" yaml:"no_negative"`
	NaturalPerspective string                 `mapstructure:"natural_perspective" yaml:"natural_perspective"`
	ModeRoles          map[domain.Mode]string `mapstructure:"mode_roles" yaml:"mode_roles"`
	Template           string                 `mapstructure:"template" yaml:"template"`
}

// DefaultDirectives は既定の指示文言を返します。
func DefaultDirectives() Directives {
	return Directives{
		Header:             "SYSTEM ARCHITECTURE: STUDIO IMAGE PIPELINE.",
		FidelityThreshold:  0.8,
		StrictFidelity:     "STRICT IDENTITY LOCK: PRESERVE BIOMETRIC FEATURES OF HUMAN SUBJECTS EXACTLY. DO NOT AGE, CHANGE ETHNICITY, OR ALTER FACIAL STRUCTURE.",
		LooseFidelity:      "Maintain similarity while blending lighting and pose.",
		Environment:        "Respect the context of uploaded source images.",
		NoMemory:           "None active.",
		NoNegative:         "None",
		NaturalPerspective: "Natural perspective.",
		ModeRoles: map[domain.Mode]string{
			domain.ModeSingleSubject:    "Render a single subject based on the reference images.",
			domain.ModeGroupComposition: "Compose every PRIMARY_IDENTITY into one coherent group shot inside the SCENE_REFERENCE, styled after the STYLE_REFERENCE images.",
			domain.ModeAccessories:      "Dress the PRIMARY_IDENTITY with the ACCESSORY_REFERENCE items. Reproduce each accessory exactly.",
			domain.ModeThumbnail:        "Design an eye-catching thumbnail from the SOURCE_IMAGE material in the manner of the STYLE_REFERENCE images.",
		},
		Template: defaultTemplate,
	}
}

const defaultTemplate = `{{.Header}}

CORE DIRECTIVES:
1. FIDELITY LOCK [STRENGTH: {{num .Settings.FaceFidelity}}]: {{.Fidelity}}
2. STRICTNESS [LEVEL: {{num .Settings.Strictness}}]: Follow the prompt and references {{.StrictnessWord}}.
3. PERSPECTIVE: {{.Perspective}}
4. ENVIRONMENT RIGIDITY: {{.Environment}}
5. STYLE: {{.Style}}
6. NEURAL MEMORY: {{.Memory}}
7. NEGATIVE SYNTHESIS FILTER: {{.Negative}}
{{- if .MicroDetail}}
8. MICRO-DETAIL FOCUS [BIAS: {{num .Settings.MicroDetailBias}}]: Render small objects such as pendants, jewelry and fabric weave with exact fidelity.
{{- end}}
{{- if .Role}}

TASK: {{.Role}}
{{- end}}
{{- if .References}}

REFERENCE MAP:
{{- range .References}}
{{.Placeholder}} = image {{.Image}} (@{{.Tag}})
{{- end}}
{{- end}}

PROMPT: {{.Prompt}}`

// Input は指示ブロックの組み立てに必要な値です。
type Input struct {
	Mode           domain.Mode
	Prompt         string // メンション解決済みのテキスト
	Settings       domain.GenSettings
	NegativePrompt string
	Memory         string
	Mentions       []mention.Mention
}

type templateData struct {
	Header         string
	Settings       domain.GenSettings
	Fidelity       string
	StrictnessWord string
	Perspective    string
	Environment    string
	Style          string
	Memory         string
	Negative       string
	MicroDetail    bool
	Role           string
	References     []mention.Mention
	Prompt         string
}

// Builder は生成APIへ送る最終的な指示文を組み立てます。
type Builder struct {
	directives Directives
	tmpl       *template.Template
}

// NewBuilder は指示文言からBuilderを生成します。テンプレートが空の場合は既定のものを使います。
func NewBuilder(d Directives) (*Builder, error) {
	src := d.Template
	if strings.TrimSpace(src) == "" {
		src = defaultTemplate
	}
	tmpl, err := template.New("directive").Funcs(template.FuncMap{
		"num": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("指示テンプレートの解析に失敗しました: %w", err)
	}
	return &Builder{directives: d, tmpl: tmpl}, nil
}

// Build は入力から指示文を生成します。
func (b *Builder) Build(in Input) (string, error) {
	d := b.directives
	s := in.Settings

	fidelity := d.LooseFidelity
	if s.FaceFidelity > d.FidelityThreshold {
		fidelity = d.StrictFidelity
	}

	data := templateData{
		Header:         d.Header,
		Settings:       s,
		Fidelity:       fidelity,
		StrictnessWord: strictnessWord(s.Strictness),
		Perspective:    perspective(s, d.NaturalPerspective),
		Environment:    d.Environment,
		Style:          PresetText(s.StylePreset),
		Memory:         orDefault(in.Memory, d.NoMemory),
		Negative:       orDefault(in.NegativePrompt, d.NoNegative),
		MicroDetail:    in.Mode == domain.ModeAccessories || s.MicroDetailBias >= 0.5,
		Role:           d.ModeRoles[in.Mode],
		References:     in.Mentions,
		Prompt:         strings.TrimSpace(in.Prompt),
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("指示ブロックの生成に失敗しました: %w", err)
	}
	return buf.String(), nil
}

func strictnessWord(v float64) string {
	switch {
	case v >= 0.75:
		return "literally, without creative additions"
	case v >= 0.4:
		return "closely, allowing minor creative interpretation"
	default:
		return "loosely, with creative freedom"
	}
}

func perspective(s domain.GenSettings, fallback string) string {
	var mods []string
	if s.CameraAngle != "" && s.CameraAngle != domain.PerspectiveDefault {
		mods = append(mods, "Camera Angle: "+s.CameraAngle)
	}
	if s.Pose != "" && s.Pose != domain.PerspectiveDefault {
		mods = append(mods, "Pose: "+s.Pose)
	}
	if len(mods) == 0 {
		return fallback
	}
	return strings.Join(mods, ", ")
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
