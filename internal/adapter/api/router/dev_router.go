package router

import (
	"github.com/labstack/echo/v4"

	"medconnect/internal/adapter/api/handler"
)

func SetupDevRouter(e *echo.Echo, environment string) {
	if environment != "development" {
		return
	}
	devTokenHandler := handler.GetDevTokenHandler()

	e.POST("/_dev/token/:uid", devTokenHandler.GenerateToken)
}
