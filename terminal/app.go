package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/alovak/terminal-backend/internal/stripegw"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const shutdownTimeout = 10 * time.Second

// App is the main application, it wires the device registry, the payment
// gateway and the HTTP server and is responsible for starting and stopping them.
type App struct {
	srv     *http.Server
	wg      *sync.WaitGroup
	Addr    string
	logger  *slog.Logger
	config  *Config
	gateway Gateway
}

// NewApp creates the application. When gateway is nil a Stripe gateway is
// built from the config on Start.
func NewApp(logger *slog.Logger, config *Config, gateway Gateway) *App {
	logger = logger.With(slog.String("app", "terminal"))

	if config == nil {
		config = DefaultConfig()
	}

	return &App{
		wg:      &sync.WaitGroup{},
		logger:  logger,
		config:  config,
		gateway: gateway,
	}
}

func (a *App) Start() error {
	a.logger.Info("starting app...")

	registry, err := NewRegistry(a.config.Devices)
	if err != nil {
		return fmt.Errorf("building device registry: %w", err)
	}
	a.logger.Info("device registry loaded", slog.Any("devices", registry.IDs()))

	if a.gateway == nil {
		if a.config.StripeSecretKey == "" {
			return fmt.Errorf("stripe secret key is required")
		}
		a.gateway = stripegw.New(stripegw.Config{
			SecretKey: a.config.StripeSecretKey,
			APIURL:    a.config.StripeAPIURL,
			Logger:    a.logger,
		})
	}

	svc := NewService(registry, a.gateway, a.config)
	router := NewRouter(a.logger, NewAPI(svc, a.logger))

	l, err := net.Listen("tcp", a.config.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening tcp port: %w", err)
	}

	a.Addr = l.Addr().String()

	a.srv = &http.Server{
		Handler:           otelhttp.NewHandler(router, "terminal-backend"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.wg.Add(1)
	go func() {
		a.logger.Info("http server started", slog.String("addr", a.Addr))

		if err := a.srv.Serve(l); err != nil {
			if err != http.ErrServerClosed {
				a.logger.Error("starting http server", "err", err)
			}

			a.logger.Info("http server stopped")
		}

		a.wg.Done()
	}()

	return nil
}

func (a *App) Shutdown() {
	a.logger.Info("shutting down app...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.srv != nil {
		if err := a.srv.Shutdown(ctx); err != nil {
			a.logger.Error("shutting down http server", "err", err)
		}
	}

	a.wg.Wait()

	a.logger.Info("app stopped")
}
