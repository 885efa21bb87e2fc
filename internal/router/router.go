package router

import (
	"time"

	"jumboscan/internal/config"
	"jumboscan/internal/handler"
	"jumboscan/internal/infra"
	"jumboscan/internal/middleware"
	"jumboscan/internal/repository"
	"jumboscan/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are built by the composition root. RDB and Encolador are nil when
// Redis is not configured; Cache must be set.
type Deps struct {
	Cfg        *config.Config
	DB         *gorm.DB
	RDB        *redis.Client
	Cache      *infra.CacheProductos
	Importador handler.Importador
	Encolador  handler.Encolador
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(d Deps) *gin.Engine {
	if d.Cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(600, time.Minute))

	usuarioRepo := repository.NewUsuarioRepository(d.DB)
	productoRepo := repository.NewProductoRepository(d.DB)
	vencimientoRepo := repository.NewVencimientoRepository(d.DB)

	authSvc := service.NewAuthService(usuarioRepo, d.Cfg)
	productoSvc := service.NewProductoService(productoRepo, d.Cache)
	alertaSvc := service.NewAlertaService(vencimientoRepo, d.Cfg.AlertThresholdDays, d.Cfg.Location(), d.Cfg.SystemEmail)

	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	alertasH := handler.NewAlertasHandler(alertaSvc)
	importH := handler.NewImportacionHandler(d.Importador, d.Encolador, d.Cfg.ExcelPath)

	r.GET("/health", handler.Health(d.DB, d.RDB))

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.LoginRateLimiter(), authH.Register)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	protegido := api.Group("", middleware.JWTAuth(d.Cfg.JWTSecret))
	{
		protegido.GET("/products/ean/:codigo", productosH.PorCodigo)
		protegido.GET("/products/search/:query", productosH.Buscar)

		protegido.GET("/alerts", alertasH.Listar)
		protegido.POST("/alerts", alertasH.Crear)
		protegido.GET("/alerts/reporte.pdf", alertasH.ReportePDF)

		protegido.GET("/users/me", authH.Me)

		admin := protegido.Group("/admin", middleware.RequireAdmin(d.Cfg.Admins()))
		{
			admin.POST("/import", importH.Disparar)
			admin.GET("/import/ultimo", importH.Ultimo)
		}
	}

	return r
}
