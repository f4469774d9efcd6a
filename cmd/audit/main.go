package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	awscfg "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/google/uuid"

	appaudit "github.com/bryanwahyu/brand-audit/internal/application/audit"
	"github.com/bryanwahyu/brand-audit/internal/config"
	openaiClient "github.com/bryanwahyu/brand-audit/internal/infra/ai/openai"
	"github.com/bryanwahyu/brand-audit/internal/infra/awsmedia"
	"github.com/bryanwahyu/brand-audit/internal/infra/search"
	minioStore "github.com/bryanwahyu/brand-audit/internal/infra/storage"
	"github.com/bryanwahyu/brand-audit/internal/infra/video"
)

// Runs one audit session from the command line and prints the final
// state. Useful for trying a rule set against a single video without
// the HTTP front end.
func main() {
	configPath := flag.String("config", "config.yaml", "path to config.yaml")
	videoURL := flag.String("url", "", "public video URL to audit")
	flag.Parse()

	if *videoURL == "" {
		fmt.Fprintln(os.Stderr, "usage: audit -url <video url> [-config config.yaml]")
		os.Exit(2)
	}

	if v := os.Getenv("CONFIG_PATH"); v != "" && *configPath == "config.yaml" {
		*configPath = v
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

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

	awsOpts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(cfg.AWS.Region)}
	if cfg.AWS.AccessKey != "" {
		awsOpts = append(awsOpts, awscfg.WithCredentialsProvider(
			awscreds.NewStaticCredentialsProvider(cfg.AWS.AccessKey, cfg.AWS.SecretKey, "")))
	}
	awsConf, err := awscfg.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		log.Fatalf("aws config error: %v", err)
	}

	ai := openaiClient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.EmbeddingModel)
	retriever, err := search.New(cfg.Search.Endpoint, cfg.Search.Username, cfg.Search.Password, cfg.Search.Index, ai)
	if err != nil {
		log.Fatalf("search init error: %v", err)
	}

	svc := &appaudit.Service{
		Source:    video.NewDownloader(cfg.Audit.ScratchDir),
		Store:     store,
		Labels:    awsmedia.NewLabelDetector(awsConf, cfg.Minio.BucketName),
		Speech:    awsmedia.NewTranscriber(awsConf, cfg.Minio.BucketName, cfg.Audit.Language),
		Retriever: retriever,
		Model:     ai,
		Policy: appaudit.RetryPolicy{
			Interval:    cfg.PollInterval(),
			MaxAttempts: cfg.Audit.PollMaxAttempts,
		},
		RetrievalTopK:    cfg.Audit.RetrievalTopK,
		RetrievalTimeout: cfg.RetrievalTimeout(),
	}

	sessionID := uuid.New().String()
	videoID := sessionID[:8]
	log.Printf("starting audit session %s for %s", sessionID, *videoURL)

	state := svc.RunAudit(ctx, *videoURL, videoID)

	fmt.Println("============================================================")
	fmt.Println("Workflow Completed")
	fmt.Println("============================================================")
	fmt.Printf("video id     : %s\n", state.VideoID)
	fmt.Printf("final status : %s\n", state.FinalStatus)
	fmt.Printf("report       : %s\n", state.FinalReport)
	if len(state.Error) > 0 {
		fmt.Printf("errors       : %v\n", state.Error)
	}

	if len(state.ComplianceResult) == 0 {
		fmt.Println("No compliance issues found.")
		return
	}
	for _, issue := range state.ComplianceResult {
		fmt.Printf("- [%s] [%s] %s\n", issue.Severity, issue.Category, issue.Description)
		if issue.Suggestion != "" {
			fmt.Printf("  suggestion: %s\n", issue.Suggestion)
		}
	}
}
