// Package config はファイル・環境変数からの設定読み込みとホットリロードを扱います。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix は環境変数の接頭辞です（例: STUDIO_SERVER_ADDR）。
const EnvPrefix = "STUDIO"

// envKeys は環境変数から上書きできるキーです。
var envKeys = []string{
	"api_key",
	"models.image",
	"models.text",
	"retry.attempts",
	"retry.delay",
	"memory.history_limit",
	"memory.refresh_every",
	"studio.mode",
	"studio.gallery_capacity",
	"store.path",
	"cache.redis_url",
	"cache.ttl",
	"server.addr",
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Manager は設定の読み込みとホットリロードを管理します。
type Manager struct {
	v *viper.Viper

	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// NewManager は設定を読み込んだ Manager を作成します。cfgFile が空なら既定の場所を探します。
// 設定ファイルが見つからない場合は既定値と環境変数だけで動作します。
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{v: viper.New()}
	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}
	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg
	return cm, nil
}

func (cm *Manager) initViper(cfgFile string) error {
	v := cm.v
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("環境変数のバインドに失敗しました (%s): %w", key, err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.gemini-studio")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
		}
	}
	return nil
}

// load は既定値の上に viper の状態を重ねて Config を作ります。
func (cm *Manager) load() (*Config, error) {
	cfg := DefaultConfig()
	if err := cm.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("設定の解析に失敗しました: %w", err)
	}
	return cfg, nil
}

// Get は現在の設定を返します。
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFile は読み込んだ設定ファイルのパスを返します。見つからなかった場合は空文字です。
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// OnChange は設定変更時のコールバックを登録します。
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig は設定ファイルの変更を監視し、再読み込みしてコールバックを呼びます。
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cm.reload(e.Name)
	})
	cm.v.WatchConfig()
}

func (cm *Manager) reload(name string) {
	cfg, err := cm.load()
	if err != nil {
		slog.Warn("設定の再読み込みに失敗しました", "file", name, "error", err)
		return
	}

	cm.mu.Lock()
	cm.config = cfg
	callbacks := make([]func(*Config), len(cm.callbacks))
	copy(callbacks, cm.callbacks)
	cm.mu.Unlock()

	slog.Info("設定を再読み込みしました", "file", name)
	for _, fn := range callbacks {
		fn(cfg)
	}
}

// ResolveEnvVars は文字列中の ${ENV_VAR} を環境変数の値に置き換えます。
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envPattern.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// WriteDefault は既定の設定を YAML で書き出します。
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("設定のシリアライズに失敗しました: %w", err)
	}

	header := []byte(`# gemini-studio-kit configuration
# API キーは ${ENV_VAR} 記法で環境変数を参照できます: export GEMINI_API_KEY=xxx
# 各キーは STUDIO_ 接頭辞の環境変数でも上書きできます（例: STUDIO_SERVER_ADDR=:9000）

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
