package server

import (
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/repository"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handlersはルート登録に必要なハンドラ一式。
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
}

// New はEchoアプリを組み立てる。
func New(cfg config.Config, userRepo repository.UserRepository, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.Validator = validator.NewEchoValidator()

	RegisterRoutes(e, cfg, userRepo, h)
	return e
}

// Start はサーバーを起動する。
func Start(addr string, cfg config.Config, userRepo repository.UserRepository, h Handlers) error {
	e := New(cfg, userRepo, h)
	return e.Start(addr)
}
