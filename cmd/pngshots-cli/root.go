// root.go — корневая команда и конфигурация CLI (cobra + viper).
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bigkaa/pngshots/internal/config"
	"github.com/bigkaa/pngshots/internal/imagekit"
	"github.com/bigkaa/pngshots/internal/relayclient"
)

// Ключи конфигурации. Переменные окружения: PS_ + ключ в верхнем регистре,
// точки и дефисы заменяются на подчёркивания (PS_IMAGEKIT_PUBLIC_KEY).
const (
	keyRelayURL   = "relay-url"
	keyPublicKey  = "imagekit.public-key"
	keyUploadURL  = "imagekit.upload-url"
	keyCACertPath = "imagekit.ca-cert-path"
	keyTimeout    = "timeout"
	keyLogLevel   = "log-level"
	keyJSON       = "json"
)

// cli — состояние команд: конфигурация, вывод и логгер.
type cli struct {
	v       *viper.Viper
	out     io.Writer
	errOut  io.Writer
	cfgFile string
	logger  *slog.Logger
}

// newRootCommand собирает дерево команд.
func newRootCommand(out, errOut io.Writer) *cobra.Command {
	c := &cli{
		v:      viper.New(),
		out:    out,
		errOut: errOut,
	}

	rootCmd := &cobra.Command{
		Use:           "pngshots-cli",
		Short:         "Консольный клиент витрины скриншотов",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "Файл конфигурации (yaml/json/toml)")
	flags.String(keyRelayURL, "http://localhost:8040", "Базовый URL relay")
	flags.String("public-key", "", "Публичный ключ ImageKit")
	flags.Duration(keyTimeout, 60*time.Second, "Таймаут HTTP-запросов")
	flags.String(keyLogLevel, "warn", "Уровень логирования (debug, info, warn, error)")
	flags.Bool(keyJSON, false, "Вывод в JSON")

	_ = c.v.BindPFlag(keyRelayURL, flags.Lookup(keyRelayURL))
	_ = c.v.BindPFlag(keyPublicKey, flags.Lookup("public-key"))
	_ = c.v.BindPFlag(keyTimeout, flags.Lookup(keyTimeout))
	_ = c.v.BindPFlag(keyLogLevel, flags.Lookup(keyLogLevel))
	_ = c.v.BindPFlag(keyJSON, flags.Lookup(keyJSON))
	c.v.SetDefault(keyUploadURL, imagekit.DefaultUploadURL)

	c.v.SetEnvPrefix("PS")
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	c.v.AutomaticEnv()

	rootCmd.AddCommand(
		newImagesCommand(c),
		newAppsCommand(c),
		newTagsCommand(c),
		newDeleteCommand(c),
		newUploadCommand(c),
		newCoverCommand(c),
		newAuthCommand(c),
	)

	return rootCmd
}

// init читает файл конфигурации (если задан) и настраивает логгер.
func (c *cli) init() error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("чтение конфигурации %s: %w", c.cfgFile, err)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.v.GetString(keyLogLevel))); err != nil {
		return fmt.Errorf("некорректный %s: %w", keyLogLevel, err)
	}
	c.logger = slog.New(slog.NewTextHandler(c.errOut, &slog.HandlerOptions{Level: level}))
	return nil
}

// relay создаёт клиент relay по текущей конфигурации.
func (c *cli) relay() (*relayclient.Client, error) {
	timeout := c.v.GetDuration(keyTimeout)
	if timeout <= 0 {
		return nil, errors.New("timeout должен быть положительным")
	}
	return relayclient.New(c.v.GetString(keyRelayURL), timeout, c.logger)
}

// uploader создаёт клиент ImageKit для прямой загрузки.
// Приватный ключ не нужен: запрос подписан параметрами от relay.
func (c *cli) uploader() (*imagekit.Client, error) {
	return imagekit.New(imagekit.Config{
		UploadURL:  c.v.GetString(keyUploadURL),
		CACertPath: c.v.GetString(keyCACertPath),
		Timeout:    c.v.GetDuration(keyTimeout),
	}, c.logger)
}

// printJSON выводит значение в JSON с отступами.
func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// jsonOutput сообщает, запрошен ли вывод в JSON.
func (c *cli) jsonOutput() bool {
	return c.v.GetBool(keyJSON)
}
