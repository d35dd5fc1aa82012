package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	appanalytics "github.com/marianodev72/sitio98plus-sub001/internal/application/analytics"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/anexo11"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/auth"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/comunicacion"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/usecase"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/adjunto"
	"github.com/marianodev72/sitio98plus-sub001/internal/infrastructure/mail"
	"github.com/marianodev72/sitio98plus-sub001/internal/infrastructure/metrics"
	"github.com/marianodev72/sitio98plus-sub001/internal/infrastructure/padron"
	infrapdf "github.com/marianodev72/sitio98plus-sub001/internal/infrastructure/pdf"
	"github.com/marianodev72/sitio98plus-sub001/internal/infrastructure/postgres"
	"github.com/marianodev72/sitio98plus-sub001/internal/infrastructure/scheduler"
	"github.com/marianodev72/sitio98plus-sub001/internal/infrastructure/storage"
	httpRouter "github.com/marianodev72/sitio98plus-sub001/internal/interfaces/http"
	"github.com/marianodev72/sitio98plus-sub001/pkg/config"
	"github.com/marianodev72/sitio98plus-sub001/pkg/jwt"
	"github.com/marianodev72/sitio98plus-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.Migrate {
		version, err := postgres.Migrate(pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Uint("version", version).Msg("esquema actualizado")
	}

	// Sin padrón no hay alta posible: se corta el arranque.
	allow, err := padron.Load(cfg.Registro.PadronPath, log)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Registro.PadronPath).Msg("padrón de matrículas")
	}
	go func() {
		if err := allow.Watch(ctx); err != nil {
			log.Warn().Err(err).Msg("recarga automática del padrón deshabilitada")
		}
	}()

	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("almacenamiento de adjuntos")
	}

	tokens, err := jwt.LoadSigner(cfg.JWT.PrivateKeyPath, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Msg("llave JWT")
	}
	var verifier httpRouter.TokenVerifier = tokens
	if cfg.JWT.PublicKeyPath != "" {
		pub, err := jwt.LoadVerifier(cfg.JWT.PublicKeyPath, cfg.JWT.Issuer)
		if err != nil {
			log.Fatal().Err(err).Msg("llave pública JWT")
		}
		verifier = pub
	}

	m := metrics.New()
	mailer := mail.New(cfg.Mail, log)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)

	userRepo := postgres.NewUserRepository(pool)
	preRepo := postgres.NewPrePostulanteRepository(pool)
	anexoRepo := postgres.NewAnexo11Repository(pool)
	mensajeRepo := postgres.NewMensajeRepository(pool)
	viviendaRepo := postgres.NewViviendaRepository(pool)
	postulacionRepo := postgres.NewPostulacionRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	registroUC := auth.NewRegistrationUseCase(userRepo, preRepo, txRunner, allow, mailer, auth.RegistrationConfig{
		CodeTTL:     cfg.Registro.CodeTTL(),
		MaxIntentos: cfg.Registro.MaxIntentos,
	})

	cron := scheduler.New(log)
	if err := cron.AddPurge(cfg.Registro.PurgeCron, registroUC, m, 30*time.Second); err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}
	cron.Start()

	app := httpRouter.NewApp(httpRouter.AppOptions{
		Name:        cfg.App.Name,
		Dev:         cfg.App.IsDevelopment(),
		BodyLimitMB: cfg.HTTP.BodyLimitMB,
		Log:         log,
		Metrics:     m,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Portal de Viviendas API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     auth.NewAuthUseCase(userRepo, tokens),
		RegistroUC: registroUC,
		UserUC:     usecase.NewUserUseCase(userRepo, viviendaRepo),
		Anexo11UC:  anexo11.NewUseCase(anexoRepo, userRepo, pdfGenerator, m),
		ComunicacionUC: comunicacion.NewUseCase(mensajeRepo, userRepo, files, adjunto.Policy{
			MaxBytes: int64(cfg.Adjuntos.MaxMB) << 20,
			MaxFiles: cfg.Adjuntos.MaxFiles,
		}),
		ViviendaUC:     usecase.NewViviendaUseCase(viviendaRepo, userRepo),
		PostulacionUC:  usecase.NewPostulacionUseCase(postulacionRepo, pdfGenerator),
		DashboardUC:    appanalytics.NewDashboardUseCase(dashboardRepo),
		Verifier:       verifier,
		Metrics:        m,
		Ping:           pool.Ping,
		AuthRatePerMin: cfg.HTTP.AuthRatePerMin,
		AuthRateBurst:  cfg.HTTP.AuthRateBurst,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	cron.Stop(shutdownCtx)

	log.Info().Msg("aplicación detenida")
}
