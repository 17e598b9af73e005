package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-studio-kit/internal/config"
)

// version はビルド時に -ldflags "-X main.version=..." で上書きされます。
var version = "dev"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "studio",
	Short: "Gemini を使ったアイデンティティ保持型の画像生成スタジオ",
	Long: `studio は参照画像スロット・アイデンティティシード・@メンションを組み合わせて
Gemini の画像生成モデルに送る指示ブロックを組み立てるバックエンドです。

  - serve    : JSON API サーバーを起動します
  - generate : コマンドラインから1回だけ生成します
  - config   : 設定ファイルを扱います`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "設定ファイル (既定: ./config.yaml または ~/.gemini-studio/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "デバッグログを出力します")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}

	rootCmd.AddCommand(serveCmd, generateCmd, configCmd)
}

func loadConfig() (*config.Manager, error) {
	cm, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}
	if f := cm.ConfigFile(); f != "" {
		slog.Debug("設定ファイルを読み込みました", "file", f)
	}
	return cm, nil
}
