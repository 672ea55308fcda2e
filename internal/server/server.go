package server

import (
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"printshop/internal/cart"
	"printshop/internal/config"
	"printshop/internal/handler"
	"printshop/internal/service"
)

type Server struct {
	echo            *echo.Echo
	catalogHandler  *handler.CatalogHandler
	cartHandler     *handler.CartHandler
	checkoutHandler *handler.CheckoutHandler
}

func NewServer(
	cfg *config.Config,
	catalogService service.CatalogService,
	cartService service.CartService,
	checkoutService service.CheckoutService,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	cookieStore := sessions.NewCookieStore([]byte(cfg.Shop.SessionSecret))
	cookieStore.Options.Path = "/"
	cookieStore.Options.HttpOnly = true
	cookieStore.Options.MaxAge = 86400 * 7
	e.Use(session.Middleware(cookieStore))

	store := cart.NewStore()

	s := &Server{
		echo:            e,
		catalogHandler:  handler.NewCatalogHandler(catalogService),
		cartHandler:     handler.NewCartHandler(cartService, store, cfg.Shop.HomeCountry),
		checkoutHandler: handler.NewCheckoutHandler(checkoutService, store, cfg.Shop.HomeCountry),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.GET("/products", s.catalogHandler.ListProducts)
	api.GET("/products/:slug", s.catalogHandler.GetProduct)

	// -------- cart --------
	s.echo.POST("/cart/add/:productID", s.cartHandler.AddToCart)
	s.echo.POST("/cart/remove/:key", s.cartHandler.RemoveFromCart)
	api.GET("/cart", s.cartHandler.GetCart)
	api.POST("/shipping-country", s.cartHandler.SetShippingCountry)

	// -------- checkout --------
	api.POST("/checkout/session", s.checkoutHandler.CreateSession)
	api.POST("/calculate-shipping", s.checkoutHandler.CalculateShipping)
	api.POST("/checkout/confirm", s.checkoutHandler.Confirm)
	api.GET("/orders/last", s.checkoutHandler.LastOrder)
	s.echo.GET("/checkout/success", s.checkoutHandler.Success)

	// -------- provider webhooks / callbacks --------
	api.POST("/stripe/webhook", s.checkoutHandler.StripeWebhook)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
