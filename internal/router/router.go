package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agenda-cultural/agenda-api/internal/handler"
	"github.com/agenda-cultural/agenda-api/internal/metrics"
	"github.com/agenda-cultural/agenda-api/internal/middleware"
	"github.com/agenda-cultural/agenda-api/internal/models"
	"github.com/agenda-cultural/agenda-api/internal/service"
	"github.com/agenda-cultural/agenda-api/pkg/config"
	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
	"github.com/agenda-cultural/agenda-api/pkg/logger"
	"github.com/agenda-cultural/agenda-api/pkg/middleware/cors"
	"github.com/agenda-cultural/agenda-api/pkg/middleware/requestid"
	"github.com/agenda-cultural/agenda-api/pkg/response"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Evento    *handler.EventoHandler
	Categoria *handler.CategoriaHandler
	Solicitud *handler.SolicitudHandler
	Usuario   *handler.UsuarioHandler
	Health    *handler.HealthHandler
}

// New assembles the Gin engine with the full route table.
func New(cfg *config.Config, log *zap.Logger, auth *service.AuthService, m *metrics.Metrics, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestid.Middleware())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(cors.New(cfg.CORS))
	if m != nil {
		engine.Use(m.Middleware())
	}

	engine.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "ruta no encontrada"))
	})

	engine.GET("/health", h.Health.Health)
	engine.GET("/ready", h.Health.Ready)
	if m != nil {
		engine.GET("/metrics", m.Handler())
	}

	api := engine.Group(cfg.APIPrefix)
	requiereAuth := middleware.Auth(auth)
	authOpcional := middleware.AuthOpcional(auth)
	soloAdmin := middleware.RequireRol(models.RolAdmin)

	grupoAuth := api.Group("/auth")
	{
		grupoAuth.POST("/registro", h.Auth.Registro)
		grupoAuth.POST("/login", h.Auth.Login)
		grupoAuth.POST("/refresh", h.Auth.Refresh)
		grupoAuth.POST("/logout", requiereAuth, h.Auth.Logout)
		grupoAuth.POST("/cambiar-password", requiereAuth, h.Auth.CambiarPassword)
	}

	eventos := api.Group("/eventos")
	{
		eventos.GET("", authOpcional, h.Evento.Listar)
		eventos.GET("/destacados", h.Evento.Destacados)
		eventos.GET("/:id", h.Evento.Obtener)
		eventos.POST("/:id/vistas", h.Evento.RegistrarVista)
		eventos.POST("", requiereAuth, soloAdmin, h.Evento.Crear)
		eventos.PUT("/:id", requiereAuth, soloAdmin, h.Evento.Actualizar)
		eventos.DELETE("/:id", requiereAuth, soloAdmin, h.Evento.Eliminar)
	}

	categorias := api.Group("/categorias")
	{
		categorias.GET("", h.Categoria.Listar)
		categorias.GET("/:id", h.Categoria.Obtener)
		categorias.POST("", requiereAuth, soloAdmin, h.Categoria.Crear)
		categorias.PUT("/:id", requiereAuth, soloAdmin, h.Categoria.Actualizar)
		categorias.DELETE("/:id", requiereAuth, soloAdmin, h.Categoria.Eliminar)
	}

	solicitudes := api.Group("/solicitudes", requiereAuth)
	{
		solicitudes.GET("", h.Solicitud.Listar)
		solicitudes.GET("/exportar", soloAdmin, h.Solicitud.Exportar)
		solicitudes.GET("/:id", h.Solicitud.Obtener)
		solicitudes.POST("", h.Solicitud.Crear)
		solicitudes.PUT("/:id", h.Solicitud.Actualizar)
		solicitudes.PATCH("/:id/estado", h.Solicitud.CambiarEstado)
		solicitudes.POST("/:id/calificar", h.Solicitud.Calificar)
	}

	usuarios := api.Group("/usuarios", requiereAuth)
	{
		usuarios.GET("", soloAdmin, h.Usuario.Listar)
		usuarios.GET("/perfil", h.Usuario.Perfil)
		usuarios.GET("/:id", h.Usuario.Obtener)
		usuarios.PUT("/:id", h.Usuario.Actualizar)
		usuarios.DELETE("/:id", soloAdmin, h.Usuario.Eliminar)
		usuarios.PATCH("/:id/cambiar-rol", soloAdmin, h.Usuario.CambiarRol)
	}

	return engine
}
