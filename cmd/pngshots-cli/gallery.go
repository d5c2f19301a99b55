// gallery.go — команды просмотра и удаления: images, apps, tags, delete.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bigkaa/pngshots/internal/gallery"
	"github.com/bigkaa/pngshots/internal/imagekit"
)

func newImagesCommand(c *cli) *cobra.Command {
	var (
		app  string
		tags []string
	)

	cmd := &cobra.Command{
		Use:   "images",
		Short: "Изображения галереи (все или одной категории)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.relay()
			if err != nil {
				return err
			}
			browser := gallery.NewBrowser(client, imagekit.PreviewURL)

			var (
				shots    []gallery.Shot
				allTags  []string
				selected []string
				view     any
			)
			if app != "" {
				appView, err := browser.App(cmd.Context(), app, tags)
				if err != nil {
					return err
				}
				shots, allTags, selected, view = appView.Items, appView.Tags, appView.Selected, appView
			} else {
				shotsView, err := browser.Shots(cmd.Context(), tags)
				if err != nil {
					return err
				}
				shots, allTags, selected, view = shotsView.Items, shotsView.Tags, shotsView.Selected, shotsView
			}

			if c.jsonOutput() {
				return c.printJSON(view)
			}

			tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE ID\tКАТЕГОРИЯ\tИМЯ\tТЕГИ\tПРЕВЬЮ")
			for _, s := range shots {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					s.FileID, s.App, s.Name, strings.Join(s.Tags, ","), s.PreviewURL)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "\nВсего: %d. Теги: %s. Фильтр: %s\n",
				len(shots), joinOrDash(allTags), joinOrDash(selected))
			return nil
		},
	}

	cmd.Flags().StringVar(&app, "app", "", "Категория")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Фильтр по тегу (достаточно одного совпадения)")
	return cmd
}

func newAppsCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "apps",
		Short: "Алфавитный указатель категорий",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.relay()
			if err != nil {
				return err
			}
			view, err := gallery.NewBrowser(client, imagekit.PreviewURL).Apps(cmd.Context())
			if err != nil {
				return err
			}
			if c.jsonOutput() {
				return c.printJSON(view)
			}

			for _, section := range view.Sections {
				fmt.Fprintf(c.out, "%s\n", section.Letter)
				for _, a := range section.Apps {
					fmt.Fprintf(c.out, "  %s (%d)\n", a.Name, a.Count)
				}
			}
			return nil
		},
	}
}

func newTagsCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "Все теги галереи",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.relay()
			if err != nil {
				return err
			}
			records, err := client.ListImages(cmd.Context())
			if err != nil {
				return err
			}
			tags := gallery.DistinctTags(gallery.OnlyFiles(records))
			if c.jsonOutput() {
				return c.printJSON(tags)
			}
			for _, tag := range tags {
				fmt.Fprintln(c.out, tag)
			}
			return nil
		},
	}
}

func newDeleteCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <fileId>",
		Short: "Удаление изображения",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileID := strings.TrimSpace(args[0])
			if fileID == "" {
				return errors.New("fileId не может быть пустым")
			}

			client, err := c.relay()
			if err != nil {
				return err
			}
			records, err := client.ListImages(cmd.Context())
			if err != nil {
				return err
			}

			collection := gallery.NewCollection(gallery.OnlyFiles(records))
			if err := collection.Remove(cmd.Context(), client, fileID); err != nil {
				return err
			}
			// Свежий листинг может ещё содержать удалённый файл: он скрыт до подтверждения
			if err := collection.Refresh(cmd.Context(), client); err != nil {
				c.logger.Warn("Не удалось обновить список после удаления", slog.String("error", err.Error()))
			}

			fmt.Fprintf(c.out, "Удалено: %s. Осталось изображений: %d\n",
				fileID, len(gallery.OnlyFiles(collection.Records())))
			return nil
		},
	}
}

// joinOrDash склеивает значения через запятую, пустой список — "-".
func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ",")
}
