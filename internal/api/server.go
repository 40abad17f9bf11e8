package api

import (
	"fmt"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/viastore/viastore/docs"
	v1 "github.com/viastore/viastore/internal/api/handler/v1"
	"github.com/viastore/viastore/internal/api/handler/web"
	"github.com/viastore/viastore/internal/api/middleware"
	"github.com/viastore/viastore/internal/config"
	"github.com/viastore/viastore/internal/lookup"
	"github.com/viastore/viastore/internal/repository"
	"github.com/viastore/viastore/internal/repository/dao"
	"github.com/viastore/viastore/internal/service"
	"github.com/viastore/viastore/internal/session"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
	// Feed must be started with Run before stock events are delivered.
	Feed *v1.StockFeed

	sessions session.Store
	auth     *middleware.Authenticator
}

// handlers groups everything MountHandlers routes to.
type handlers struct {
	auth      *v1.AuthHandler
	user      *v1.UserHandler
	inventory *v1.InventoryHandler
	web       *web.Handler
}

// NewServer wires the application. rdb may be nil, in which case sessions
// live in process and lookups are not cached.
func NewServer(conf *config.AppConfig, db *gorm.DB, rdb *redis.Client) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("web.Templates -> %w", err)
	}
	engine.SetHTMLTemplate(tmpl)

	var sessions session.Store = session.NewMemoryStore(conf.API.SessionTTL)
	if rdb != nil {
		sessions = session.NewRedisStore(rdb, conf.API.SessionTTL)
	}

	s := &Server{
		Config:   conf,
		Router:   engine,
		Feed:     v1.NewStockFeed(conf.API.AllowedCORSDomains),
		sessions: sessions,
		auth:     middleware.NewAuthenticator(conf.API.JWTSigningKey, sessions),
	}

	s.MountMiddlewares()

	h, err := s.initHandlers(db, rdb)
	if err != nil {
		return nil, err
	}
	s.MountHandlers(h)

	return s, nil
}

func (s *Server) initHandlers(db *gorm.DB, rdb *redis.Client) (handlers, error) {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	inventoryRepo := repository.NewInventoryRepository(dao.NewInventoryDAO(db))

	lookupConf := s.Config.Lookup
	strategies := lookup.Strategies(lookupConf, inventoryRepo)

	touch, err := lookup.NewChain("touch", lookupConf.TouchChain, strategies, rdb, lookupConf.CacheTTL)
	if err != nil {
		return handlers{}, err
	}
	info, err := lookup.NewChain("info", lookupConf.InfoChain, strategies, rdb, lookupConf.CacheTTL)
	if err != nil {
		return handlers{}, err
	}
	google, err := lookup.NewChain("google", []string{"google"}, strategies, rdb, lookupConf.CacheTTL)
	if err != nil {
		return handlers{}, err
	}

	authSvc := service.NewAuthService(userRepo)
	userSvc := service.NewUserService(userRepo)
	catalogSvc := service.NewCatalogService(inventoryRepo)
	ledgerSvc := service.NewLedgerService(inventoryRepo, touch, s.Feed)
	sheetSvc := service.NewSpreadsheetService(inventoryRepo, s.Feed)

	return handlers{
		auth:      v1.NewAuthHandler(s.Config.API, authSvc, s.sessions),
		user:      v1.NewUserHandler(userSvc),
		inventory: v1.NewInventoryHandler(catalogSvc, ledgerSvc, sheetSvc, info, google),
		web:       web.NewHandler(s.Config.API, authSvc, userSvc, s.sessions, catalogSvc, ledgerSvc, sheetSvc),
	}, nil
}

func (s *Server) MountMiddlewares() {
	// Recovery is needed unless we use gin.Default().
	s.Router.Use(middleware.RequestLogger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.GET("/", v1.HandleHealthcheck)
		public.POST("/auth/token", h.auth.HandleTokenLogin)
		public.POST("/auth/login", h.auth.HandleSessionLogin)
		public.GET("/google-item-info/:sku", h.inventory.HandleGoogleItemInfo)
	}

	api := s.Router.Group(basePath, s.auth.VerifyJWT())
	{
		api.POST("/auth/logout", h.auth.HandleLogout)
		api.GET("/auth/me", h.user.HandleGetMe)
		api.POST("/users", h.auth.HandleCreateUser)

		api.GET("/dashboard", h.inventory.HandleDashboard)

		api.GET("/warehouses", h.inventory.HandleListWarehouses)
		api.POST("/warehouses", h.inventory.HandleCreateWarehouse)
		api.GET("/warehouses/:id", h.inventory.HandleGetWarehouse)
		api.PUT("/warehouses/:id", h.inventory.HandleUpdateWarehouse)
		api.DELETE("/warehouses/:id", h.inventory.HandleDeleteWarehouse)

		api.GET("/items", h.inventory.HandleListItems)
		api.POST("/items", h.inventory.HandleCreateItem)
		api.GET("/items/:id", h.inventory.HandleGetItem)
		api.PUT("/items/:id", h.inventory.HandleUpdateItem)
		api.PATCH("/items/:id", h.inventory.HandlePatchItem)
		api.DELETE("/items/:id", h.inventory.HandleDeleteItem)
		api.GET("/items/:id/stock", h.inventory.HandleItemStock)
		api.GET("/items/:id/movements", h.inventory.HandleItemMovements)
		api.GET("/item-info/:sku", h.inventory.HandleItemInfo)
		api.GET("/item-lookup/:sku", h.inventory.HandleItemLookup)

		api.GET("/orders", h.inventory.HandleListOrders)
		api.POST("/orders", h.inventory.HandleCreateOrder)
		api.GET("/orders/:id", h.inventory.HandleGetOrder)
		api.PUT("/orders/:id", h.inventory.HandleUpdateOrder)
		api.DELETE("/orders/:id", h.inventory.HandleDeleteOrder)

		api.POST("/goods-receipts", h.inventory.HandleGoodsReceipt)
		api.POST("/goods-receipts/touch", h.inventory.HandleTouchReceipt)
		api.POST("/stock-corrections", h.inventory.HandleStockCorrection)
		api.GET("/stock", h.inventory.HandleStockListing)
		api.GET("/stock/export", h.inventory.HandleStockExport)
		api.GET("/stock/feed", s.Feed.HandleWebSocket)

		api.POST("/imports", h.inventory.HandleImport)
		api.GET("/imports/template", h.inventory.HandleImportTemplate)
	}

	h.web.Mount(s.Router, s.Router.Group("", s.auth.RequireSession("/login")))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "viastore API"
	docs.SwaggerInfo.Description = "Warehouses, items, orders and stock movements."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
