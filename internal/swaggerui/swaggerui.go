// Пакет swaggerui — Swagger UI для контракта relay (статика встроена, без CDN).
package swaggerui

import (
	"net/http"

	swgui "github.com/swaggest/swgui/v5"
)

// BasePath — путь, на котором монтируется Swagger UI.
const BasePath = "/swagger"

// Handler возвращает обработчик Swagger UI. specPath — URL контракта OpenAPI.
func Handler(title, specPath string) http.Handler {
	return swgui.New(title, specPath, BasePath)
}
