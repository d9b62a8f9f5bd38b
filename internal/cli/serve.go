package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kikisite/internal/database"
	"kikisite/internal/repositories"
	"kikisite/internal/server"
	"kikisite/internal/services"
	"kikisite/pkg/rabbitmq"
	"kikisite/pkg/storage"

	"github.com/spf13/cobra"
)

func NewServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()
			return serve(cmd.Context(), rt, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, rt *runtime, migrate bool) error {
	cfg, log := rt.cfg, rt.log
	if cfg.UsesDefaultSecret() {
		log.Warn().Msg("JWT_SECRET is not set, using the development secret")
	}

	if migrate {
		if err := database.Migrate(rt.db, cfg.Database.Driver, log); err != nil {
			return err
		}
	}

	// --- Initialize RabbitMQ Client ---
	var publisher services.EventPublisher
	if cfg.Events.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.Events.URL, Exchange: cfg.Events.Exchange}, log)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		publisher = mqClient
	} else {
		log.Info().Msg("RABBITMQ_URL is empty, content events are disabled")
	}

	// --- Initialize Blob Store ---
	store, err := storage.NewMinioStore(ctx, storage.Config{
		Endpoint:  cfg.Blob.Endpoint,
		AccessKey: cfg.Blob.AccessKey,
		SecretKey: cfg.Blob.SecretKey,
		Secure:    cfg.Blob.Secure,
		Bucket:    cfg.Blob.Bucket,
		PublicURL: cfg.Blob.PublicURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize blob store: %w", err)
	}

	app := server.NewApp(server.Deps{
		Config:   cfg.Server,
		DB:       rt.db,
		Auth:     rt.authService(),
		Articles: rt.articleService(publisher),
		Images:   services.NewImageService(repositories.NewGORMImageRepository(rt.db), publisher, log),
		Uploads:  services.NewUploadService(store, log),
		Log:      log,
	})

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).Str("env", cfg.Server.Env).Msg("Starting server")
		errCh <- app.Listen(cfg.Server.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info().Msg("Shutting down server...")
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("Error during Fiber shutdown")
	}
	log.Info().Msg("Server gracefully stopped")
	return nil
}
