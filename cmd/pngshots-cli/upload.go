// upload.go — команды загрузки: upload, cover, auth.
package main

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bigkaa/pngshots/internal/upload"
)

// parseAspect разбирает значение --crop: "W:H" или "none".
// Для "none" возвращает нули (кадрирование не выполняется).
func parseAspect(value string) (int, int, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "none") {
		return 0, 0, nil
	}

	w, h, ok := strings.Cut(value, ":")
	if !ok {
		return 0, 0, fmt.Errorf("некорректный формат --crop %q, ожидался W:H или none", value)
	}
	aw, err := strconv.Atoi(w)
	if err != nil || aw <= 0 {
		return 0, 0, fmt.Errorf("некорректная ширина в --crop %q", value)
	}
	ah, err := strconv.Atoi(h)
	if err != nil || ah <= 0 {
		return 0, 0, fmt.Errorf("некорректная высота в --crop %q", value)
	}
	return aw, ah, nil
}

// cropRect — центрированная рамка для изображения с границами bounds.
func cropRect(bounds image.Rectangle, aw, ah int) image.Rectangle {
	if aw == 0 || ah == 0 {
		return image.Rectangle{}
	}
	return upload.CenteredCrop(bounds.Dx(), bounds.Dy(), aw, ah)
}

// submit проводит файл через форму: выбор, кадрирование, метаданные, отправка.
func (c *cli) submit(cmd *cobra.Command, mode upload.Mode, path, crop string, meta upload.Metadata) error {
	aw, ah, err := parseAspect(crop)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: путь задаёт пользователь
	if err != nil {
		return fmt.Errorf("чтение файла: %w", err)
	}

	relay, err := c.relay()
	if err != nil {
		return err
	}
	uploader, err := c.uploader()
	if err != nil {
		return err
	}

	form := upload.NewForm(relay, uploader, upload.Options{
		PublicKey: c.v.GetString(keyPublicKey),
		Mode:      mode,
	}, c.logger)

	if err := form.SelectFile(path, data); err != nil {
		return err
	}
	_, bounds := form.Preview()
	if err := form.ConfirmCrop(cropRect(bounds, aw, ah)); err != nil {
		return err
	}
	if err := form.SetMetadata(meta); err != nil {
		return err
	}

	result, err := form.Submit(cmd.Context())
	if err != nil {
		return err
	}

	// Новая обложка должна быть видна сразу, а не по истечении кэша relay
	if mode == upload.ModeCover {
		if _, err := relay.RefreshThumbnails(cmd.Context()); err != nil {
			c.logger.Warn("Не удалось обновить кэш обложек relay",
				slog.String("error", err.Error()),
			)
		}
	}

	if c.jsonOutput() {
		return c.printJSON(result)
	}
	fmt.Fprintf(c.out, "Загружено: %s (%s) %dx%d\n%s\n",
		result.Name, result.FileID, result.Width, result.Height, result.URL)
	return nil
}

func newUploadCommand(c *cli) *cobra.Command {
	var (
		app   string
		title string
		tags  []string
		crop  string
	)

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Загрузка скриншота в галерею",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.submit(cmd, upload.ModeShot, args[0], crop, upload.Metadata{
				App:   app,
				Title: title,
				Tags:  tags,
			})
		},
	}

	cmd.Flags().StringVar(&app, "app", "", "Категория (обязательно)")
	cmd.Flags().StringVar(&title, "title", "", "Заголовок")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Тег (можно повторять)")
	cmd.Flags().StringVar(&crop, "crop", fmt.Sprintf("%d:%d", upload.AspectWidth, upload.AspectHeight),
		"Соотношение сторон центрированной рамки W:H или none")
	return cmd
}

func newCoverCommand(c *cli) *cobra.Command {
	var (
		app  string
		crop string
	)

	cmd := &cobra.Command{
		Use:   "cover <file>",
		Short: "Загрузка обложки категории",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.submit(cmd, upload.ModeCover, args[0], crop, upload.Metadata{App: app})
		},
	}

	cmd.Flags().StringVar(&app, "app", "", "Категория (обязательно)")
	cmd.Flags().StringVar(&crop, "crop", "none", "Соотношение сторон центрированной рамки W:H или none")
	return cmd
}

func newAuthCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Выпуск одноразовых параметров загрузки",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.relay()
			if err != nil {
				return err
			}
			params, err := client.MintAuthParams(cmd.Context())
			if err != nil {
				return err
			}
			return c.printJSON(params)
		},
	}
}
