package studio

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
	"github.com/shouni/gemini-studio-kit/pkg/prompt"
	"github.com/shouni/gemini-studio-kit/pkg/slots"
)

const (
	seedIDFormat            = "Avatar_Seed_%03d"
	DefaultChatHistoryLimit = 20
	MaxImagesPerRequest     = 4
)

// Generator は画像生成の呼び出し先です。
type Generator interface {
	Generate(ctx context.Context, req domain.ImageGenerationRequest) ([]domain.ImageResponse, error)
}

// Assistant はチャットとプロンプト書き換えの呼び出し先です。
type Assistant interface {
	Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error)
	Rewrite(ctx context.Context, prompt, memory string) (string, error)
}

// Memory はニューラルメモリです。
type Memory interface {
	Record(prompt string) bool
	Descriptor() string
	History() []string
	Restore(descriptor string, history []string)
}

// Store はシードとギャラリーの永続化先です。
type Store interface {
	SaveSeed(ctx context.Context, seed domain.IdentitySeed) error
	DeleteSeed(ctx context.Context, id string) error
	LoadSeeds(ctx context.Context) ([]domain.IdentitySeed, error)
	SaveGalleryItem(ctx context.Context, item domain.GalleryItem) error
	DeleteGalleryItem(ctx context.Context, id string) error
	LoadGallery(ctx context.Context, limit int) ([]domain.GalleryItem, error)
	SaveMemory(ctx context.Context, state domain.MemoryState) error
	LoadMemory(ctx context.Context) (domain.MemoryState, error)
}

// Deps は Studio の依存関係です。Generator と Builder 以外は nil を許容します。
type Deps struct {
	Generator Generator
	Assistant Assistant
	Memory    Memory
	Builder   *prompt.Builder
	Probe     prompt.DimensionProbe
	Store     Store
}

// Options は Studio の初期設定です。
type Options struct {
	Mode             domain.Mode
	Settings         *domain.GenSettings
	GalleryCapacity  int
	ChatHistoryLimit int
}

// Studio はシード・ギャラリー・設定・履歴を一元管理する状態コンテナです。
// 変更はすべてメソッド（インテント）経由で行い、外部には Snapshot のコピーだけを渡します。
// リモート呼び出しの間はロックを保持しません。
type Studio struct {
	gen       Generator
	assistant Assistant
	memory    Memory
	probe     prompt.DimensionProbe
	store     Store
	now       func() time.Time
	newID     func() string
	chatLimit int

	mu          sync.Mutex
	builder     *prompt.Builder
	registry    *slots.Registry
	seeds       []domain.IdentitySeed
	seedCounter int
	pinnedSeed  string
	settings    domain.GenSettings
	negative    string
	history     *History
	gallery     *Gallery
	lastPreview string
	chat        []domain.ChatTurn
}

// New は Studio を初期化します。
func New(deps Deps, opts Options) (*Studio, error) {
	if deps.Generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if deps.Builder == nil {
		return nil, fmt.Errorf("prompt builder is required")
	}
	mode := opts.Mode
	if mode == "" {
		mode = domain.ModeSingleSubject
	}
	if slots.SlotCount(mode) == 0 {
		return nil, fmt.Errorf("未対応のモードです: %q", mode)
	}
	settings := domain.DefaultSettings()
	if opts.Settings != nil {
		settings = NormalizeSettings(*opts.Settings)
	}
	chatLimit := opts.ChatHistoryLimit
	if chatLimit <= 0 {
		chatLimit = DefaultChatHistoryLimit
	}

	return &Studio{
		gen:       deps.Generator,
		assistant: deps.Assistant,
		memory:    deps.Memory,
		builder:   deps.Builder,
		probe:     deps.Probe,
		store:     deps.Store,
		now:       time.Now,
		newID:     uuid.NewString,
		chatLimit: chatLimit,
		registry:  slots.NewRegistry(mode),
		settings:  settings,
		history:   NewHistory(domain.HistoryState{Settings: settings}),
		gallery:   NewGallery(opts.GalleryCapacity),
	}, nil
}

// Load は永続化されたシード・ギャラリー・ニューラルメモリを復元します。Store が未設定なら何もしません。
func (s *Studio) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	seeds, err := s.store.LoadSeeds(ctx)
	if err != nil {
		return fmt.Errorf("シードの読み込みに失敗しました: %w", err)
	}
	items, err := s.store.LoadGallery(ctx, s.gallery.capacity)
	if err != nil {
		return fmt.Errorf("ギャラリーの読み込みに失敗しました: %w", err)
	}
	if s.memory != nil {
		state, err := s.store.LoadMemory(ctx)
		if err != nil {
			return fmt.Errorf("ニューラルメモリの読み込みに失敗しました: %w", err)
		}
		s.memory.Restore(state.Descriptor, state.History)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeds = append([]domain.IdentitySeed(nil), seeds...)
	for _, seed := range seeds {
		s.seedCounter = max(s.seedCounter, seedNumber(seed.ID))
	}
	// 新しい順で返るので古いものから積む
	for i := len(items) - 1; i >= 0; i-- {
		s.gallery.Add(items[i])
	}
	slog.InfoContext(ctx, "保存済みの状態を復元しました", "seeds", len(seeds), "gallery", len(items))
	return nil
}

// Snapshot は現在の状態のコピーを返します。
func (s *Studio) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetBuilder は指示ブロックの組み立て器を差し替えます。設定の再読み込み時に使います。
func (s *Studio) SetBuilder(b *prompt.Builder) {
	if b == nil {
		return
	}
	s.mu.Lock()
	s.builder = b
	s.mu.Unlock()
}

func (s *Studio) currentBuilder() *prompt.Builder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builder
}

// SetMode はワークスペースのモードを切り替えます。画像は同じタグのスロットにだけ引き継がれます。
func (s *Studio) SetMode(mode domain.Mode) error {
	if slots.SlotCount(mode) == 0 {
		return fmt.Errorf("未対応のモードです: %q", mode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.SetMode(mode)
	return nil
}

// SetSlot はスロットに画像をセットします。
func (s *Studio) SetSlot(index int, data string) error {
	if data == "" {
		return ErrEmptyImage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Set(index, data)
}

// ClearSlot はスロットの画像を取り除きます。
func (s *Studio) ClearSlot(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Clear(index)
}

// CreateSeed はアイデンティティシードを登録します。名前が空なら既定名になります。
// 他のシードとメンションタグが重なる名前には " 2", " 3" ... を付けます。
func (s *Studio) CreateSeed(ctx context.Context, imageData, name string, tags []string) (domain.IdentitySeed, error) {
	if imageData == "" {
		return domain.IdentitySeed{}, ErrEmptyImage
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.DefaultSeedName
	}

	s.mu.Lock()
	s.seedCounter++
	id := fmt.Sprintf(seedIDFormat, s.seedCounter)
	seed := domain.IdentitySeed{
		ID:        id,
		ImageData: imageData,
		Name:      s.uniqueSeedNameLocked(name, id),
		Tags:      append([]string(nil), tags...),
	}
	s.seeds = append(s.seeds, seed)
	s.mu.Unlock()

	slog.InfoContext(ctx, "アイデンティティシードを登録しました", "id", seed.ID, "name", seed.Name)
	s.persist(ctx, "seed", func(st Store) error { return st.SaveSeed(ctx, seed) })
	return cloneSeed(seed), nil
}

// RenameSeed はシードの表示名を変更します。ID は変わりません。
func (s *Studio) RenameSeed(ctx context.Context, id, name string) (domain.IdentitySeed, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.DefaultSeedName
	}
	s.mu.Lock()
	i := s.seedIndexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return domain.IdentitySeed{}, fmt.Errorf("%w: %s", ErrSeedNotFound, id)
	}
	s.seeds[i].Name = s.uniqueSeedNameLocked(name, id)
	seed := cloneSeed(s.seeds[i])
	s.mu.Unlock()

	s.persist(ctx, "seed", func(st Store) error { return st.SaveSeed(ctx, seed) })
	return seed, nil
}

// RemoveSeed はシードを削除します。固定中のシードなら固定も解除します。
func (s *Studio) RemoveSeed(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.seedIndexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSeedNotFound, id)
	}
	s.seeds = append(s.seeds[:i], s.seeds[i+1:]...)
	if s.pinnedSeed == id {
		s.pinnedSeed = ""
	}
	s.mu.Unlock()

	s.persist(ctx, "seed", func(st Store) error { return st.DeleteSeed(ctx, id) })
	return nil
}

// PinSeed は送信時に必ず参照画像へ含めるシードを指定します。空文字で解除します。
func (s *Studio) PinSeed(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" && s.seedIndexLocked(id) < 0 {
		return fmt.Errorf("%w: %s", ErrSeedNotFound, id)
	}
	s.pinnedSeed = id
	return nil
}

// UpdateSettings は生成設定を正規化して置き換え、適用後の値を返します。
func (s *Studio) UpdateSettings(settings domain.GenSettings) domain.GenSettings {
	settings = NormalizeSettings(settings)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return settings
}

// SetNegativePrompt はネガティブプロンプトを設定します。
func (s *Studio) SetNegativePrompt(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.negative = text
}

// Commit は現在の設定とプロンプトを履歴に積みます。直前と同じなら積まずに false を返します。
func (s *Studio) Commit(promptText string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Push(s.currentStateLocked(promptText))
}

// Undo は1つ前の履歴に戻し、その状態を返します。戻れない場合は false です。
func (s *Studio) Undo() (domain.HistoryState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.history.Undo()
	if ok {
		s.applyLocked(st)
	}
	return st, ok
}

// Redo は1つ先の履歴に進め、その状態を返します。進めない場合は false です。
func (s *Studio) Redo() (domain.HistoryState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.history.Redo()
	if ok {
		s.applyLocked(st)
	}
	return st, ok
}

// SetFeedback はギャラリー項目に評価を付けます。
func (s *Studio) SetFeedback(ctx context.Context, id string, fb domain.Feedback) (domain.GalleryItem, error) {
	s.mu.Lock()
	item, err := s.gallery.SetFeedback(id, fb)
	s.mu.Unlock()
	if err != nil {
		return domain.GalleryItem{}, fmt.Errorf("%w: %s", err, id)
	}
	s.persist(ctx, "gallery", func(st Store) error { return st.SaveGalleryItem(ctx, item) })
	return item, nil
}

// SaveMemory はニューラルメモリの現在の状態を保存します。
// 非同期の更新が終わった後（終了時など）に呼ぶと最新の記述子が残ります。
func (s *Studio) SaveMemory(ctx context.Context) {
	if s.memory == nil {
		return
	}
	state := domain.MemoryState{Descriptor: s.memory.Descriptor(), History: s.memory.History()}
	s.persist(ctx, "memory", func(st Store) error { return st.SaveMemory(ctx, state) })
}

// persist は Store があれば保存を行います。失敗はログに残して続行します。
func (s *Studio) persist(ctx context.Context, kind string, fn func(Store) error) {
	if s.store == nil {
		return
	}
	if err := fn(s.store); err != nil {
		slog.WarnContext(ctx, "状態の保存に失敗しました", "kind", kind, "error", err)
	}
}

// uniqueSeedNameLocked は excludeID 以外のシードとメンションタグが重ならない名前を返します。
func (s *Studio) uniqueSeedNameLocked(name, excludeID string) string {
	taken := func(candidate string) bool {
		tag := domain.IdentitySeed{Name: candidate}.MentionTag()
		for _, seed := range s.seeds {
			if seed.ID != excludeID && strings.EqualFold(seed.MentionTag(), tag) {
				return true
			}
		}
		return false
	}
	if !taken(name) {
		return name
	}
	for n := 2; ; n++ {
		if candidate := fmt.Sprintf("%s %d", name, n); !taken(candidate) {
			return candidate
		}
	}
}

func (s *Studio) seedIndexLocked(id string) int {
	for i, seed := range s.seeds {
		if seed.ID == id {
			return i
		}
	}
	return -1
}

func (s *Studio) currentStateLocked(promptText string) domain.HistoryState {
	return domain.HistoryState{Prompt: promptText, Settings: s.settings, NegativePrompt: s.negative}
}

func (s *Studio) applyLocked(st domain.HistoryState) {
	s.settings = st.Settings
	s.negative = st.NegativePrompt
}

// NormalizeSettings は範囲外の値や未対応の指定を補正します。
func NormalizeSettings(in domain.GenSettings) domain.GenSettings {
	out := in
	out.Temperature = prompt.ClampTemperature(in.Temperature)
	out.Variation = clamp01(in.Variation)
	out.FaceFidelity = clamp01(in.FaceFidelity)
	out.Strictness = clamp01(in.Strictness)
	out.MicroDetailBias = clamp01(in.MicroDetailBias)
	out.ImageSize = prompt.NormalizeImageSize(in.ImageSize)
	if !strings.EqualFold(strings.TrimSpace(in.AspectRatio), domain.AspectRatioOriginal) {
		out.AspectRatio = prompt.NormalizeAspectRatio(in.AspectRatio)
	} else {
		out.AspectRatio = domain.AspectRatioOriginal
	}
	out.NumberOfImages = min(max(in.NumberOfImages, 1), MaxImagesPerRequest)
	if out.CameraAngle == "" {
		out.CameraAngle = domain.PerspectiveDefault
	}
	if out.Pose == "" {
		out.Pose = domain.PerspectiveDefault
	}
	if out.StylePreset == "" {
		out.StylePreset = prompt.DefaultStylePreset
	}
	return out
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

func cloneSeed(seed domain.IdentitySeed) domain.IdentitySeed {
	seed.Tags = append([]string(nil), seed.Tags...)
	return seed
}

func seedNumber(id string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(id, "Avatar_Seed_"))
	if err != nil {
		return 0
	}
	return n
}
