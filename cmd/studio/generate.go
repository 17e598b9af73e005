package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-studio-kit/pkg/domain"
	"github.com/shouni/gemini-studio-kit/pkg/imgutil"
	"github.com/shouni/gemini-studio-kit/pkg/studio"
)

var (
	genMode   string
	genSlots  []string
	genSeed   int64
	genOut    string
	genAspect string
	genCount  int
	genSize   string
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "プロンプトから画像を1回生成してファイルに保存します",
	Long: `スロットにローカル画像をセットし、@メンション付きのプロンプトで生成します。

Examples:
  studio generate "a portrait of @image1 at golden hour" --slot 0=face.png
  studio generate "@identity1 and @identity2 in @scene" --mode group \
      --slot 0=a.png --slot 1=b.png --slot 3=beach.jpg --aspect 16:9`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cm, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(ctx, cm.Get())
		if err != nil {
			return err
		}
		defer a.Close()

		if genMode != "" {
			mode, err := domain.ParseMode(genMode)
			if err != nil {
				return err
			}
			if err := a.studio.SetMode(mode); err != nil {
				return err
			}
		}
		for _, arg := range genSlots {
			index, data, err := loadSlot(arg)
			if err != nil {
				return err
			}
			if err := a.studio.SetSlot(index, data); err != nil {
				return err
			}
		}

		settings := a.studio.Snapshot().Settings
		if genAspect != "" {
			settings.AspectRatio = genAspect
		}
		if genCount > 0 {
			settings.NumberOfImages = genCount
		}
		if genSize != "" {
			settings.ImageSize = genSize
		}
		a.studio.UpdateSettings(settings)

		req := studio.SubmitRequest{Prompt: args[0]}
		if cmd.Flags().Changed("seed") {
			req.Seed = &genSeed
		}
		res, err := a.studio.Submit(ctx, req)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(genOut, 0o755); err != nil {
			return fmt.Errorf("出力先を作成できませんでした: %w", err)
		}
		for _, item := range res.Items {
			path, err := writeItem(genOut, item)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&genMode, "mode", "", "モード: single, group, accessories, thumbnail")
	generateCmd.Flags().StringArrayVar(&genSlots, "slot", nil, "スロット画像 (index=path、複数指定可)")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "乱数シード")
	generateCmd.Flags().StringVarP(&genOut, "out", "O", ".", "出力ディレクトリ")
	generateCmd.Flags().StringVar(&genAspect, "aspect", "", "アスペクト比 (例: 16:9、Original)")
	generateCmd.Flags().IntVarP(&genCount, "count", "n", 0, "生成枚数")
	generateCmd.Flags().StringVar(&genSize, "size", "", "解像度 (1K, 2K, 4K)")
}

// loadSlot は "index=path" を解釈し、画像を data URL として読み込みます。
func loadSlot(arg string) (int, string, error) {
	idx, path, found := strings.Cut(arg, "=")
	if !found {
		return 0, "", fmt.Errorf("--slot は index=path の形式で指定してください: %q", arg)
	}
	index, err := strconv.Atoi(strings.TrimSpace(idx))
	if err != nil {
		return 0, "", fmt.Errorf("スロット番号が不正です: %q", idx)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, "", fmt.Errorf("画像を読み込めませんでした: %w", err)
	}
	return index, imgutil.EncodeDataURL(data), nil
}

func writeItem(dir string, item domain.GalleryItem) (string, error) {
	mimeType, data, err := imgutil.ParseDataURL(item.URL)
	if err != nil {
		return "", err
	}
	ext := ".png"
	switch mimeType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
	default:
		if exts, _ := mime.ExtensionsByType(mimeType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	path := filepath.Join(dir, item.ID+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("画像を保存できませんでした: %w", err)
	}
	return path, nil
}
