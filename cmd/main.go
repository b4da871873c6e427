package main

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"datachat-resultview/config"
	_ "datachat-resultview/docs"
	"datachat-resultview/internal/controller"
	"datachat-resultview/internal/kafka"
	"datachat-resultview/internal/scheduler"
	"datachat-resultview/internal/service"
	"datachat-resultview/internal/store"
)

// @title           Result View API
// @version         1.0
// @description     Turns chatbot answers into sortable, searchable tables and charts with spreadsheet and PNG export.

// @contact.name   API Support Team

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

// @tag.name         results
// @tag.description  Registering answers and switching between table and chart

// @tag.name         table
// @tag.description  Sorting, search and the virtualized row window

// @tag.name         export
// @tag.description  Spreadsheet and PNG downloads

func main() {
	var wg sync.WaitGroup

	app := fx.New(
		// Core Dependencies
		fx.Provide(
			NewConfig,
		),
		// Infrastructure Dependencies
		fx.Provide(
			NewGinEngine,
			store.NewInMemoryResultStore,
			kafka.NewKafkaAnswerConsumer,
			kafka.NewKafkaResultEventProducer,
			service.NewResultService,
			service.NewAnswerIngestService,
			controller.NewResultController,
		),
		fx.Invoke(RegisterAPIRoutes,
			RegisterScheduler,
			func(lc fx.Lifecycle, ingestService service.AnswerIngestService) {
				startAnswerIngest(lc, &wg, ingestService)
			},
		),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}
	<-app.Done()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStop()
	log.Info().Msg("Shutting down application...")
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
	}

	log.Info().Msg("Waiting for background goroutines to finish...")
	wg.Wait()
	log.Info().Msg("All background processes finished. Exiting.")
}

func NewConfig() (*config.Config, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	setupLogger(cfg.Log.Level)
	return cfg, nil
}

func setupLogger(level string) {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		log.Warn().Str("level", level).Msg("Unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func RegisterAPIRoutes(
	lifecycle fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	resultController *controller.ResultController,
) {
	controller.RegisterResultRoutes(router, resultController)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Starting HTTP server on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("HTTP server ListenAndServe error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

// --- Invoker Functions ---

func RegisterScheduler(lc fx.Lifecycle, cfg *config.Config, resultSvc service.ResultService) error {
	_, err := scheduler.NewScheduler(lc, cfg, resultSvc)
	return err
}

// startAnswerIngest runs the Kafka answer ingestion until the app stops.
func startAnswerIngest(lc fx.Lifecycle, wg *sync.WaitGroup, ingestService service.AnswerIngestService) {
	if ingestService == nil {
		log.Info().Msg("Answer ingestion disabled")
		return
	}
	wg.Add(1)
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info().Msg("Starting answer ingest goroutine")
			go ingestService.Run(ctx, wg)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			log.Info().Msg("Signaling answer ingest goroutine to stop...")
			cancel()
			return nil
		},
	})
}
