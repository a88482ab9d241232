package server

import (
	"storefront/internal/config"
	"storefront/internal/repository"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	h.Auth.RegisterRoutes(e, cfg, userRepo)
	h.Product.RegisterRoutes(e)
	h.AdminProduct.RegisterRoutes(e, cfg, userRepo)
	h.Cart.RegisterRoutes(e, cfg, userRepo)
	h.Order.RegisterRoutes(e, cfg, userRepo)
}
