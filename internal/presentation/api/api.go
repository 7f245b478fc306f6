package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hilthontt/secretsanta/internal/infrastructure/configs"
	"github.com/hilthontt/secretsanta/internal/infrastructure/logging"
	"github.com/hilthontt/secretsanta/internal/infrastructure/ratelimiter"
	healthHandler "github.com/hilthontt/secretsanta/internal/presentation/handler/health"
	roomHandler "github.com/hilthontt/secretsanta/internal/presentation/handler/rooms"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Application struct {
	config        configs.Config
	roomHandler   roomHandler.Handler
	healthHandler healthHandler.Handler
	logger        logging.Logger
	ratelimiter   ratelimiter.Limiter
}

func NewApplication(
	config configs.Config,
	roomHandler roomHandler.Handler,
	healthHandler healthHandler.Handler,
	logger logging.Logger,
	ratelimiter ratelimiter.Limiter,
) *Application {
	return &Application{
		config:        config,
		roomHandler:   roomHandler,
		healthHandler: healthHandler,
		logger:        logger,
		ratelimiter:   ratelimiter,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(app.loggerMiddleware)
	r.Use(app.prometheusMiddleware)
	r.Use(app.rateLimiterMiddleware)
	r.Use(app.enableCors)

	r.Route("/api/secret-santa", func(r chi.Router) {
		r.Post("/room", app.roomHandler.CreateRoomHandler)
		r.Get("/rooms", app.roomHandler.ListRoomsHandler)
		// Legacy clients list through the singular path
		r.Get("/room", app.roomHandler.ListRoomsHandler)

		r.Route("/room/{roomId}", func(r chi.Router) {
			r.Get("/", app.roomHandler.GetRoomHandler)
			r.Delete("/", app.roomHandler.DeleteRoomHandler)
			r.Post("/shuffle", app.roomHandler.ShuffleHandler)
			r.Get("/participant/{participantId}", app.roomHandler.RevealAssigneeHandler)
			r.Get("/watch", app.roomHandler.WatchRoomHandler)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      otelhttp.NewHandler(mux, "secretsanta-http"),
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Info(logging.General, logging.Shutdown, "signal caught", map[logging.ExtraKey]any{
			"signal": s.String(),
		})

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Shutdown, "server has stopped", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	return nil
}
