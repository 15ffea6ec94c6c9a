package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/blogem/object-log/authenticator"
	"github.com/blogem/object-log/contenttypes"
	"github.com/blogem/object-log/controllers"
	"github.com/blogem/object-log/database"
	"github.com/blogem/object-log/metrics"
	"github.com/blogem/object-log/repositories"
	"github.com/blogem/object-log/services"
	"github.com/blogem/object-log/templatetags"
	"github.com/blogem/object-log/views"
)

// contentTypeCacheTTL bounds how long content type lookups are cached
const contentTypeCacheTTL = 10 * time.Minute

var registerMetrics sync.Once

// NewServeCommand creates the serve command
func NewServeCommand(globalOptions *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), globalOptions)
		},
	}
}

// newHandler builds the application handler. closeDB releases the database.
func newHandler(ctx context.Context, options *GlobalOptions) (handler http.Handler, closeDB func() error, err error) {
	cfg := options.Conf
	log := options.Logger

	db, err := database.InitializeDatabase(cfg.DBPath, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	// Initialize repositories
	repos := repositories.NewRepositories(db)

	types := contenttypes.NewRegistry(repos.ContentTypes, contentTypeCacheTTL)
	contenttypes.RegisterBuiltins(types)
	if err := types.Sync(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to sync content types: %w", err)
	}

	// Initialize services
	srvs := services.NewServices(repos, types, log)
	if err := srvs.Logs.RegisterDefaultActions(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to register log actions: %w", err)
	}

	registerMetrics.Do(func() { metrics.Register(prometheus.DefaultRegisterer) })

	lib := templatetags.NewLibrary(types, srvs.Logs, templatetags.Options{
		UserLogsDesc: cfg.UserLogsDesc,
		Observe:      metrics.ObserveHelper,
	})

	var auth authenticator.Provider
	if cfg.OIDC.Enabled() {
		auth, err = authenticator.NewOpenIDProvider(ctx, cfg.OIDC)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize OpenID provider: %w", err)
		}
	} else {
		log.Warn("OIDC is not configured, login is disabled")
	}

	engine, err := views.NewEngine(lib)
	if err != nil {
		return nil, nil, err
	}
	ctrl := controllers.NewControllers(srvs, types, engine, auth, log)

	r, err := controllers.NewRouter(ctrl, srvs.Users, controllers.RouterOptions{UseHTTPS: cfg.UseHTTPS}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to setup router: %w", err)
	}

	return r, db.Close, nil
}

// serve runs the HTTP server until SIGINT or SIGTERM
func serve(ctx context.Context, options *GlobalOptions) error {
	log := options.Logger

	handler, closeDB, err := newHandler(ctx, options)
	if err != nil {
		return err
	}
	defer closeDB()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", options.Conf.Port),
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).WithField("database", options.Conf.DBPath).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
		return err
	}
	return nil
}
