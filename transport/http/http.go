package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"shareit/config"
	"shareit/docs"
	"shareit/shared/constant"
	"shareit/transport/http/middleware"
	"shareit/transport/http/response"
	"shareit/transport/http/router"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const (
	healthPath             = "/health"
	docPath                = "/swagger/doc.json"
	defaultShutdownTimeout = 10 * time.Second
)

type HTTP struct {
	Config     *config.Config
	Router     router.Router
	Middleware middleware.AppMiddleware

	state   atomic.Int32
	handler http.Handler
	server  *http.Server
	done    chan struct{}
}

func New(cfg *config.Config, r router.Router, mw middleware.AppMiddleware) *HTTP {
	return &HTTP{
		Config:     cfg,
		Router:     r,
		Middleware: mw,
	}
}

// Serve blocks until the server has been shut down by a signal or failed to start.
func (h *HTTP) Serve() {
	h.setup()

	address := net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port)

	h.server = &http.Server{
		Addr:         address,
		Handler:      h.handler,
		ReadTimeout:  time.Duration(h.Config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(h.Config.Server.WriteTimeoutSeconds) * time.Second,
	}

	h.done = make(chan struct{})
	h.setupGracefulShutdown()

	log.Info().Str("address", address).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}

	<-h.done
}

// ServeHTTP lets the whole application be mounted as a plain handler.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.handler == nil {
		h.setup()
	}

	h.handler.ServeHTTP(w, r)
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

func (h *HTTP) setState(state ServerState) {
	h.state.Store(int32(state))
}

func (h *HTTP) setup() {
	h.setupRoutes()
	h.setState(ServerStateReady)
}

func (h *HTTP) setupRoutes() {
	mux := chi.NewRouter()

	mux.Use(chiMiddleware.Recoverer)
	mux.Use(chiMiddleware.RealIP)
	mux.Use(h.Middleware.RequestID)

	if h.Config.App.CORS.Enable {
		mux.Use(h.cors())
	}

	mux.Use(h.Middleware.Tracing)
	mux.Use(h.Middleware.RateLimit())

	mux.Get(healthPath, h.health)
	mux.Get(docPath, h.doc)

	h.Router.SetupRoutes(mux)

	mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.WithMessage(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	h.handler = mux
}

func (h *HTTP) cors() func(http.Handler) http.Handler {
	corsConfig := h.Config.App.CORS

	origins := corsConfig.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{constant.Asterix}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   corsConfig.AllowedMethods,
		AllowedHeaders:   corsConfig.AllowedHeaders,
		AllowCredentials: corsConfig.AllowCredentials,
		MaxAge:           corsConfig.MaxAgeSeconds,
	})
}

func (h *HTTP) health(w http.ResponseWriter, _ *http.Request) {
	switch h.State() {
	case ServerStateReady:
		response.WithMessage(w, http.StatusOK, "OK")
	case ServerStateInGracePeriod, ServerStateInCleanupPeriod:
		response.WithPreparingShutdown(w)
	default:
		response.WithUnhealthy(w)
	}
}

func (h *HTTP) doc(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	if _, err := w.Write([]byte(docs.SwaggerInfo.ReadDoc())); err != nil {
		log.Error().Err(err).Msg("failed to write api doc")
	}
}

func (h *HTTP) setupGracefulShutdown() {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh)
}

func (h *HTTP) respondToSigterm(done chan os.Signal) {
	<-done

	defer close(h.done)

	shutdownConfig := h.Config.Server.Shutdown

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")
	} else {
		log.Info().Msg("Received SIGTERM.")
		log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

		h.setState(ServerStateInGracePeriod)

		time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)
	}

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.setState(ServerStateInCleanupPeriod)

	timeout := time.Duration(shutdownConfig.CleanupPeriodSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server forced shutdown")
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}
