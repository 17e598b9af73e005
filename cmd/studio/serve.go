package main

import (
	"github.com/spf13/cobra"

	"github.com/shouni/gemini-studio-kit/internal/config"
	"github.com/shouni/gemini-studio-kit/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "JSON API サーバーを起動します",
	Long: `Studio の状態操作と生成を /api 配下の JSON API として公開します。

設定ファイルの prompt セクションは変更を検知して再起動なしで反映されます。

Examples:
  studio serve                  # 設定ファイルのアドレス（既定 :8080）で起動
  studio serve --addr :3000     # アドレスを指定して起動`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cm, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := cm.Get()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if cm.ConfigFile() != "" {
			cm.OnChange(func(c *config.Config) { a.applyConfig(c) })
			cm.WatchConfig()
		}

		srv, err := server.New(a.studio)
		if err != nil {
			return err
		}
		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "待ち受けアドレス (既定: server.addr の値)")
}
