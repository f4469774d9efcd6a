package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awscfg "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-chi/chi/v5"

	appaudit "github.com/bryanwahyu/brand-audit/internal/application/audit"
	"github.com/bryanwahyu/brand-audit/internal/config"
	openaiClient "github.com/bryanwahyu/brand-audit/internal/infra/ai/openai"
	"github.com/bryanwahyu/brand-audit/internal/infra/awsmedia"
	"github.com/bryanwahyu/brand-audit/internal/infra/httpserver"
	"github.com/bryanwahyu/brand-audit/internal/infra/search"
	minioStore "github.com/bryanwahyu/brand-audit/internal/infra/storage"
	"github.com/bryanwahyu/brand-audit/internal/infra/video"
	"github.com/bryanwahyu/brand-audit/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init aws analysis clients
	awsOpts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(cfg.AWS.Region)}
	if cfg.AWS.AccessKey != "" {
		awsOpts = append(awsOpts, awscfg.WithCredentialsProvider(
			awscreds.NewStaticCredentialsProvider(cfg.AWS.AccessKey, cfg.AWS.SecretKey, "")))
	}
	awsConf, err := awscfg.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		log.Fatalf("aws config error: %v", err)
	}
	labels := awsmedia.NewLabelDetector(awsConf, cfg.Minio.BucketName)
	speech := awsmedia.NewTranscriber(awsConf, cfg.Minio.BucketName, cfg.Audit.Language)

	// init model + retrieval
	ai := openaiClient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.EmbeddingModel)
	retriever, err := search.New(cfg.Search.Endpoint, cfg.Search.Username, cfg.Search.Password, cfg.Search.Index, ai)
	if err != nil {
		log.Fatalf("search init error: %v", err)
	}

	// init service
	svc := &appaudit.Service{
		Source:    video.NewDownloader(cfg.Audit.ScratchDir),
		Store:     store,
		Labels:    labels,
		Speech:    speech,
		Retriever: retriever,
		Model:     ai,
		Policy: appaudit.RetryPolicy{
			Interval:    cfg.PollInterval(),
			MaxAttempts: cfg.Audit.PollMaxAttempts,
		},
		RetrievalTopK:    cfg.Audit.RetrievalTopK,
		RetrievalTimeout: cfg.RetrievalTimeout(),
	}

	checkers := map[string]middleware.HealthChecker{
		"storage": &middleware.PingChecker{Target: store},
		"search":  &middleware.PingChecker{Target: retriever},
	}

	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(svc, checkers))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
		// audits run synchronously inside the request and can take
		// minutes, so the write timeout has to cover a full session
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
