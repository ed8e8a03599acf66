package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/navidved/storefront/internal/blog"
	"github.com/navidved/storefront/internal/config"
	"github.com/navidved/storefront/internal/db"
	"github.com/navidved/storefront/internal/enquiry"
	"github.com/navidved/storefront/internal/product"
	"github.com/navidved/storefront/internal/resource"
	"github.com/navidved/storefront/internal/server"
	"github.com/navidved/storefront/internal/sitemap"
	"github.com/navidved/storefront/internal/storage"
)

// media holds the store used by each resource. uploads is set only for the
// local backend, which serves its own files.
type media struct {
	products storage.Storage
	blogs    storage.Storage
	uploads  http.Handler
}

func newMedia(ctx context.Context, cfg *config.Config) (*media, error) {
	switch cfg.MediaBackend {
	case config.MediaLocal:
		local, err := storage.NewLocalStorage(afero.NewOsFs(), cfg.UploadDir, "/uploads")
		if err != nil {
			return nil, fmt.Errorf("local media init: %w", err)
		}
		return &media{products: local, blogs: local, uploads: local.Handler()}, nil

	case config.MediaMinio:
		stores := make(map[string]storage.Storage, 2)
		for _, prefix := range []string{"products", "blogs"} {
			s, err := storage.NewMinioStorage(ctx,
				cfg.StorageEndpoint,
				cfg.StorageAccessKey,
				cfg.StorageSecretKey,
				cfg.StorageBucket,
				prefix,
				cfg.StoragePublicBase,
				cfg.StorageUseSSL,
			)
			if err != nil {
				return nil, fmt.Errorf("object storage init: %w", err)
			}
			stores[prefix] = s
		}
		return &media{products: stores["products"], blogs: stores["blogs"]}, nil
	}
	return nil, fmt.Errorf("unknown MEDIA_BACKEND %q", cfg.MediaBackend)
}

func serve(ctx context.Context, cfg *config.Config) error {
	pool, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DBConnectAttempts)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	m, err := newMedia(ctx, cfg)
	if err != nil {
		return err
	}

	// Wire dependencies: repository → service → handler
	debug := cfg.IsDevelopment()
	saveTimeout := resource.WithSaveTimeout(cfg.SaveTimeout)

	productSvc := resource.NewService[*product.Product]("product", product.NewRepository(pool), m.products, saveTimeout)
	blogSvc := resource.NewService[*blog.Blog]("blog", blog.NewRepository(pool), m.blogs, saveTimeout)

	mailer := enquiry.NewSMTPSender(enquiry.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		To:       cfg.MailTo,
	})

	router := server.NewRouter(server.Routes{
		Products: product.NewHandler(productSvc, debug).Routes(),
		Blogs:    blog.NewHandler(blogSvc, debug).Routes(),
		Enquiry:  enquiry.NewHandler(enquiry.NewService(mailer), debug).Submit,
		Sitemap:  sitemap.NewBuilder(cfg.SiteURL, cfg.SitemapCategories, productSvc, blogSvc),
		Uploads:  m.uploads,
		Ping:     pool.Ping,
	})

	srv := server.New(cfg.Port, router, cfg.SaveTimeout)

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Str("media", cfg.MediaBackend).Msg("server listening")
		log.Info().Msgf("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}
	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
