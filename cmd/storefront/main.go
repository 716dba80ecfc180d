package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/chat"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/httpapi"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/sink"
)

func main() {
	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.Lshortfile)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := catalogSource(ctx, cfg)
	if err != nil {
		logger.Fatalf("catalog source: %v", err)
	}
	cat, err := catalog.Load(ctx, src)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	logger.Printf("catalog: %d products from %s", cat.Len(), cfg.CatalogSource)

	sessions := session.NewManager(cfg.SessionTTL, logger)
	go sessions.Run(ctx, 0)

	m := metrics.New(sessions.Len)

	recordSink, closers, err := buildSinks(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("sinks: %v", err)
	}
	defer closeAll(logger, closers)
	logger.Printf("record sink: %s", recordSink.Name())

	submitter := sink.NewSubmitter(recordSink, sink.SubmitterOptions{
		Timeout: cfg.SinkTimeout,
		Logger:  logger,
		OnFinish: func(s sink.Submission, d time.Duration) {
			m.Submission(s.Sink, string(s.Status), d)
		},
	})

	if cfg.GeminiAPIKey == "" {
		logger.Printf("WARN: GEMINI_API_KEY not set, assistant will answer offline")
	}
	gemini := chat.NewGeminiClient(chat.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  logger,
	})
	assistant := chat.NewService(gemini, chat.SystemInstruction(cfg.StoreName, cat.Products()), cfg.ChatTimeout, logger)
	assistant.Observe = m.Chat

	h := httpapi.NewHandler(httpapi.Deps{
		Logger:   logger,
		Catalog:  cat,
		Sessions: sessions,
		Assembler: &order.Assembler{
			StoreName:      cfg.StoreName,
			WhatsAppNumber: cfg.WhatsAppNumber,
			OwnerEmail:     cfg.OwnerEmail,
			UPIID:          cfg.UPIID,
		},
		Submitter:        submitter,
		Chat:             assistant,
		Metrics:          m,
		StoreName:        cfg.StoreName,
		PublicBaseURL:    cfg.PublicBaseURL,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		SecureCookies:    cfg.SecureCookies,
		SinkWait:         cfg.SinkWait,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("storefront listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
	if err := submitter.Shutdown(shutdownCtx); err != nil {
		logger.Printf("pending order records not finished: %v", err)
	}
}

func catalogSource(ctx context.Context, cfg config.Config) (catalog.Source, error) {
	switch cfg.CatalogSource {
	case "file":
		return catalog.FileSource{Path: cfg.CatalogFile}, nil
	case "s3":
		return catalog.OpenS3Source(ctx, catalog.S3Config{
			Bucket:    cfg.CatalogS3Bucket,
			Key:       cfg.CatalogS3Key,
			Region:    cfg.CatalogS3Region,
			Endpoint:  cfg.CatalogS3Endpoint,
			PathStyle: cfg.CatalogS3PathStyle,
		})
	default:
		return catalog.EmbeddedSource{}, nil
	}
}
