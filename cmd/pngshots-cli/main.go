// main.go — точка входа CLI pngshots.
// Консольный клиент витрины: просмотр галереи через relay, удаление
// и загрузка изображений напрямую в ImageKit.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}
}
