package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/pos-repuestos/internal/bootstrap"
	"github.com/jhoicas/pos-repuestos/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/pos-repuestos/internal/interfaces/http"
	"github.com/jhoicas/pos-repuestos/pkg/config"
	"github.com/jhoicas/pos-repuestos/pkg/logger"
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
		Str("storage", cfg.DB.Driver).
		Bool("spool", cfg.Spool.Enabled()).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	// Esquema al día antes de aceptar tráfico
	if cfg.DB.Driver == config.StoragePostgres {
		mg, err := postgres.NewMigrator(cfg.DB.ConnectionString(), cfg.DB.MigrationsDir, log.Component("migrate"))
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		if err := mg.Up(); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		_ = mg.Close()
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	container, err := bootstrap.Build(ctx, cfg, log.Component("engine"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar dependencias")
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar dependencias")
		}
	}()

	if container.Replayer != nil {
		go container.Replayer.Run(ctx, cfg.Spool.ReplayInterval)
	}

	httpLog := log.Component("http")
	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		SwaggerFile: "./docs/swagger.json",
	}, httpLog)
	httpRouter.Router(app, container.RouterDeps(cfg.JWT.Secret, httpLog))

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
