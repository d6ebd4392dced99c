package server

import (
	"context"
	"net/http"

	"nook-pos/internal/handler"
	appmw "nook-pos/internal/middleware"
	"nook-pos/internal/model"
	"nook-pos/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Services struct {
	Auth     service.AuthService
	Catalog  service.CatalogService
	Member   service.MemberService
	Settings service.SettingsService
	Pos      service.PosService
}

type Server struct {
	echo            *echo.Echo
	authService     service.AuthService
	authHandler     *handler.AuthHandler
	catalogHandler  *handler.CatalogHandler
	memberHandler   *handler.MemberHandler
	settingsHandler *handler.SettingsHandler
	posHandler      *handler.PosHandler
}

func NewServer(services Services, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		authService:     services.Auth,
		authHandler:     handler.NewAuthHandler(services.Auth),
		catalogHandler:  handler.NewCatalogHandler(services.Catalog),
		memberHandler:   handler.NewMemberHandler(services.Member),
		settingsHandler: handler.NewSettingsHandler(services.Settings),
		posHandler:      handler.NewPosHandler(services.Pos),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	api.POST("/login", s.authHandler.Login)

	secured := api.Group("", appmw.AuthMiddleware(s.authService))

	// -------- catalog --------
	products := secured.Group("/products")
	products.GET("", s.catalogHandler.ListProducts)
	products.POST("", s.catalogHandler.CreateProduct)
	products.GET("/export", s.catalogHandler.ExportProducts)
	products.POST("/import", s.catalogHandler.ImportProducts)
	products.POST("/describe", s.catalogHandler.DescribeProduct)
	products.GET("/:id", s.catalogHandler.GetProduct)
	products.PUT("/:id", s.catalogHandler.UpdateProduct)
	products.DELETE("/:id", s.catalogHandler.DeleteProduct)

	// -------- members --------
	members := secured.Group("/members")
	members.GET("", s.memberHandler.ListMembers)
	members.POST("", s.memberHandler.RegisterMember)
	members.GET("/:id", s.memberHandler.GetMember)

	// -------- till sessions --------
	sessions := secured.Group("/sessions")
	sessions.POST("", s.posHandler.OpenSession)
	sessions.GET("/:id", s.posHandler.GetSession)
	sessions.DELETE("/:id", s.posHandler.CloseSession)
	sessions.POST("/:id/items", s.posHandler.AddItem)
	sessions.DELETE("/:id/items/:productID", s.posHandler.RemoveItem)
	sessions.PATCH("/:id/items/:productID", s.posHandler.ChangeQuantity)
	sessions.PUT("/:id/member", s.posHandler.AttachMember)
	sessions.DELETE("/:id/member", s.posHandler.DetachMember)
	sessions.POST("/:id/checkout", s.posHandler.RequestCheckout)
	sessions.POST("/:id/checkout/cancel", s.posHandler.CancelCheckout)
	sessions.POST("/:id/checkout/confirm", s.posHandler.ConfirmCheckout)
	sessions.POST("/:id/checkout/abort", s.posHandler.AbortCheckout)
	sessions.POST("/:id/receipt/dismiss", s.posHandler.DismissReceipt)

	// -------- settings (admin) --------
	settings := secured.Group("/settings", appmw.RequireRole(model.RoleAdmin))
	settings.GET("", s.settingsHandler.GetSettings)
	settings.PUT("", s.settingsHandler.UpdateSettings)
	settings.POST("/sync", s.settingsHandler.SyncMarketplace)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
