package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	appanalytics "github.com/marianodev72/sitio98plus-sub001/internal/application/analytics"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/anexo11"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/auth"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/comunicacion"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/usecase"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/authz"
	"github.com/marianodev72/sitio98plus-sub001/internal/infrastructure/metrics"
	"github.com/marianodev72/sitio98plus-sub001/pkg/logger"
)

// AppOptions configuración del servidor Fiber.
type AppOptions struct {
	Name        string
	Dev         bool // errores internos con detalle
	BodyLimitMB int
	Log         *logger.Logger
	Metrics     *metrics.Metrics // opcional
}

// NewApp crea la app con el ErrorHandler común y los middlewares transversales.
func NewApp(opts AppOptions) *fiber.App {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	bodyLimit := opts.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 60
	}
	app := fiber.New(fiber.Config{
		AppName:      opts.Name,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    bodyLimit << 20,
		ErrorHandler: NewErrorHandler(opts.Dev, opts.Log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(opts.Log.Component("http")))
	if opts.Metrics != nil {
		app.Use(Metrics(opts.Metrics))
	}
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	RegistroUC     *auth.RegistrationUseCase
	UserUC         *usecase.UserUseCase
	Anexo11UC      *anexo11.UseCase
	ComunicacionUC *comunicacion.UseCase
	ViviendaUC     *usecase.ViviendaUseCase
	PostulacionUC  *usecase.PostulacionUseCase
	DashboardUC    *appanalytics.DashboardUseCase
	Verifier       TokenVerifier
	Metrics        *metrics.Metrics
	Ping           func(ctx context.Context) error // health check de la base; opcional
	AuthRatePerMin int
	AuthRateBurst  int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", health(deps.Ping))
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.Verifier)

	// Users: alta y login públicos con rate limit por IP
	authHandler := NewAuthHandler(deps.AuthUC, deps.RegistroUC)
	userHandler := NewUserHandler(deps.UserUC)
	limited := RateLimit(deps.AuthRatePerMin, deps.AuthRateBurst)
	users := api.Group("/users")
	users.Post("/register-init", limited, authHandler.RegisterInit)
	users.Post("/register-verify", limited, authHandler.RegisterVerify)
	users.Post("/login", limited, authHandler.Login)
	users.Get("/me", requireAuth, authHandler.Me)
	users.Get("/admin", requireAuth, RequireAccess(authz.ResourceUsers, authz.ActionAdmin), userHandler.List)
	users.Patch("/admin/:id/role-estado", requireAuth, RequireAccess(authz.ResourceUsers, authz.ActionAdmin), userHandler.UpdateRoleEstado)

	// Anexo 11: el alcance por rol y por arista lo decide el caso de uso
	anexoHandler := NewAnexo11Handler(deps.Anexo11UC)
	anexo := api.Group("/anexo11", requireAuth)
	anexo.Post("/", RequireAccess(authz.ResourceAnexo11, authz.ActionCreate), anexoHandler.Create)
	anexo.Get("/", anexoHandler.List)
	anexo.Get("/:id", anexoHandler.Get)
	anexo.Post("/:id/transicion", anexoHandler.Transition)
	anexo.Patch("/:id/observaciones", RequireAccess(authz.ResourceAnexo11, authz.ActionAnnotate), anexoHandler.Annotate)
	anexo.Get("/:id/pdf", anexoHandler.PDF)

	// Permisionario
	comHandler := NewComunicacionHandler(deps.ComunicacionUC)
	perm := api.Group("/permisionario", requireAuth)
	perm.Get("/comunicaciones", comHandler.List)
	perm.Post("/comunicaciones", comHandler.Send)
	perm.Get("/comunicaciones/:id/adjuntos/:idx", comHandler.Attachment)
	perm.Get("/mis-datos", RequireAccess(authz.ResourceMisDatos, authz.ActionReadOwn), userHandler.GetMisDatos)
	perm.Put("/mis-datos", RequireAccess(authz.ResourceMisDatos, authz.ActionUpdateOwn), userHandler.UpdateMisDatos)

	// Viviendas
	vivHandler := NewViviendaHandler(deps.ViviendaUC)
	viv := api.Group("/viviendas/admin", requireAuth)
	canRead := RequireAccess(authz.ResourceViviendas, authz.ActionRead)
	canManage := RequireAccess(authz.ResourceViviendas, authz.ActionManage)
	viv.Get("/list", canRead, vivHandler.List)
	viv.Post("/", canManage, vivHandler.Create)
	viv.Get("/:id", canRead, vivHandler.Get)
	viv.Put("/:id", canManage, vivHandler.Update)
	viv.Post("/:id/titular", canManage, vivHandler.AssignTitular)
	viv.Delete("/:id/titular", canManage, vivHandler.Vacate)

	// Postulaciones
	postHandler := NewPostulacionHandler(deps.PostulacionUC)
	post := api.Group("/postulaciones", requireAuth)
	post.Post("/", RequireAccess(authz.ResourcePostulaciones, authz.ActionCreate), postHandler.Create)
	post.Get("/", postHandler.List)
	post.Get("/:id", postHandler.Get)
	post.Patch("/:id/estado", RequireAccess(authz.ResourcePostulaciones, authz.ActionDecide), postHandler.Decide)
	post.Get("/:id/pdf", postHandler.PDF)

	// Dashboard
	dashHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/admin/dashboard", requireAuth, RequireAccess(authz.ResourceDashboard, authz.ActionRead), dashHandler.GetSummary)
}

func health(ping func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "db": "down"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
