// Command pixvault serves a PIN-gated photo gallery backed by an
// S3-compatible bucket.
//
// Configuration comes from an optional YAML file plus environment
// variables; see internal/config. Secrets (PIXVAULT_PIN,
// PIXVAULT_ACCESS_KEY, PIXVAULT_SECRET_KEY) are env-only.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nmurali/pixvault/internal/auth"
	"github.com/nmurali/pixvault/internal/config"
	"github.com/nmurali/pixvault/internal/errs"
	"github.com/nmurali/pixvault/internal/gallery"
	"github.com/nmurali/pixvault/internal/logger"
	"github.com/nmurali/pixvault/internal/server"
	"github.com/nmurali/pixvault/internal/storage"
	"github.com/nmurali/pixvault/internal/storage/minio"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Config errors are operator-facing and fatal before the
		// logger is configured.
		logger.New(nil).Fatal(err.Error())
	}

	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal(err.Error())
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	store, err := minio.New(&storage.Config{
		Provider:  storage.ProviderMinIO,
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Region:    cfg.Storage.Region,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	// Probe the bucket up front so access problems surface as a startup
	// message instead of empty galleries.
	probeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Head(probeCtx, cfg.Storage.Bucket); err != nil {
		switch {
		case errs.IsNotFound(err):
			return errs.Wrap(errs.ErrKindNotFound,
				"bucket '"+cfg.Storage.Bucket+"' not found", err)
		case errs.IsPermissionDenied(err):
			return errs.Wrap(errs.ErrKindPermissionDenied,
				"access denied to bucket '"+cfg.Storage.Bucket+"' — check credentials and policy", err)
		default:
			return err
		}
	}
	log.With().Str("bucket", cfg.Storage.Bucket).Logger().Info("bucket probe ok")

	gate, err := auth.NewGate(cfg.Auth.PIN, &auth.Config{
		MaxAttempts:    cfg.Auth.MaxAttempts,
		Lockout:        cfg.Auth.Lockout.Std(),
		SessionTimeout: cfg.Auth.SessionTimeout.Std(),
	})
	if err != nil {
		return err
	}

	svc := gallery.NewService(store, &gallery.Config{
		MaxKeys:         cfg.Gallery.MaxKeys,
		ListingTTL:      cfg.Gallery.ListingTTL.Std(),
		ThumbnailTTL:    cfg.Gallery.ThumbnailTTL.Std(),
		PreviewBound:    cfg.Gallery.PreviewBound,
		FullscreenBound: cfg.Gallery.FullscreenBound,
		Extensions:      cfg.Gallery.Extensions,
	}, log)

	srv := server.New(gate, svc, store, server.Config{
		Bucket:        cfg.Storage.Bucket,
		ImagesPerPage: cfg.Gallery.ImagesPerPage,
	}, log)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.With().Str("addr", cfg.Server.Addr).Logger().Info("gallery listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-stop:
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}
