// Package serve implements the command running the notes API server.
package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/tphakala/simple-notes/internal/api"
	"github.com/tphakala/simple-notes/internal/conf"
	"github.com/tphakala/simple-notes/internal/datastore"
	"github.com/tphakala/simple-notes/internal/errors"
	"github.com/tphakala/simple-notes/internal/logger"
	"github.com/tphakala/simple-notes/internal/observability"
)

const sentryFlushTimeout = 2 * time.Second

// Command creates the serve command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the notes API server",
		Long:  "Connect to the configured store and serve the notes REST API, health checks, metrics and the web client.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), settings)
		},
	}

	cmd.Flags().String("host", "", "Interface to listen on")
	cmd.Flags().Int("port", 5000, "Port to listen on")
	cmd.Flags().String("backend", conf.BackendMongo, "Store backend (mongo, sqlite, mysql, bolt)")
	cmd.Flags().String("mongo-uri", conf.DefaultMongoURI, "MongoDB connection string")

	for key, name := range map[string]string{
		"webserver.host": "host",
		"webserver.port": "port",
		"store.backend":  "backend",
		"store.uri":      "mongo-uri",
	} {
		_ = viper.BindPFlag(key, cmd.Flags().Lookup(name))
	}

	return cmd
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives. A store that
// cannot be reached at startup is returned as an error.
func Run(ctx context.Context, settings *conf.Settings) error {
	log := logger.Global().Module("serve")

	if settings.Sentry.Enabled {
		if err := errors.InitSentry(settings.Sentry.DSN, settings.Main.Environment, conf.Version); err != nil {
			log.Warn("sentry disabled", logger.Error(err))
		} else {
			defer errors.FlushSentry(sentryFlushTimeout)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		metrics *observability.Metrics
		err     error
	)
	if settings.Metrics.Enabled {
		if metrics, err = observability.NewMetrics(); err != nil {
			return err
		}
	}

	store, err := datastore.New(ctx, &settings.Store, logger.Global().Module("datastore"))
	if err != nil {
		log.Error("failed to connect to store",
			logger.String("backend", settings.Store.Backend),
			logger.Error(err))
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("error closing store", logger.Error(err))
		}
	}()
	log.Info("store connected", logger.String("backend", settings.Store.Backend))

	if metrics != nil {
		store = datastore.WithMetrics(store, metrics.Datastore, settings.Store.Backend)
	}

	server, err := api.New(settings, api.WithDataStore(store), api.WithMetrics(metrics))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		return server.Shutdown(context.WithoutCancel(gctx))
	})

	return g.Wait()
}
