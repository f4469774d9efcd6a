package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/bryanwahyu/brand-audit/internal/config"
	minioStore "github.com/bryanwahyu/brand-audit/internal/infra/storage"
)

// Credential diagnostics: verifies the storage credentials by listing
// buckets and the uploaded session videos.
func main() {
	configPath := flag.String("config", "config.yaml", "path to config.yaml")
	flag.Parse()
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

	buckets, err := store.ListBuckets(ctx)
	if err != nil {
		log.Fatalf("list buckets error: %v", err)
	}
	fmt.Printf("credentials ok, %d bucket(s) visible:\n", len(buckets))
	for _, b := range buckets {
		marker := " "
		if b == store.Bucket() {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, b)
	}

	keys, err := store.ListVideos(ctx)
	if err != nil {
		log.Fatalf("list videos error: %v", err)
	}
	fmt.Printf("\n%d uploaded session video(s) in %s:\n", len(keys), store.Bucket())
	for _, k := range keys {
		fmt.Println("  " + k)
	}
}
