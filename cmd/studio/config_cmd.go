package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-studio-kit/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "設定ファイルを扱います",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "既定の設定ファイルを書き出します",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "config.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s は既に存在します (上書きするには --force)", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "設定ファイルを作成しました: %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "既存のファイルを上書きします")
	configCmd.AddCommand(configInitCmd)
}
