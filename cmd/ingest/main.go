// Command ingest populates the similarity index from the corpus manifest.
// It reads from the local data directory by default, or from S3 when AWS
// credentials and a bucket are configured. With -push the local corpus tree
// is mirrored into the bucket first. Safe to re-run: chunk ids are stable,
// so existing rows are replaced rather than duplicated.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/finsolve-tech/finsight/internal/config"
	"github.com/finsolve-tech/finsight/internal/core"
	db "github.com/finsolve-tech/finsight/internal/core/database"
	"github.com/finsolve-tech/finsight/internal/core/ingestion"
	"github.com/finsolve-tech/finsight/internal/core/llm"
	objectclient "github.com/finsolve-tech/finsight/internal/core/object-client"
)

func main() {
	push := flag.Bool("push", false, "mirror the local corpus tree into the S3 bucket before ingesting")
	flag.Parse()

	ctx := context.Background()
	cfg := config.LoadConfig()

	dbClient, err := db.NewDatabaseClient(ctx, cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer dbClient.Close()

	embedder, err := llm.NewGeminiEmbedder(ctx, cfg.EmbedAPIKey, cfg.EmbedModel)
	if err != nil {
		log.Fatalf("embedder: %v", err)
	}
	defer embedder.Close()

	var obj core.ObjectClient
	if cfg.BucketName != "" && cfg.AwsAccessKey != "" {
		obj, err = objectclient.NewS3Client(ctx, cfg)
		if err != nil {
			log.Fatalf("object storage: %v", err)
		}
		log.Printf("ingesting corpus from s3 bucket %s", cfg.BucketName)
	} else {
		log.Printf("ingesting corpus from local dir %s", cfg.DataDir)
	}

	corpus := ingestion.DefaultCorpus()

	if *push {
		if obj == nil {
			log.Fatal("-push requires S3 credentials and a bucket")
		}
		if err := ingestion.PushCorpus(ctx, obj, cfg.DataDir, corpus); err != nil {
			log.Fatalf("push failed: %v", err)
		}
	}

	ing := ingestion.NewIngestor(dbClient, obj, ingestion.NewDocconvExtractor(false), embedder, ingestion.Config{
		ChunkWords:   500,
		OverlapWords: 50,
		BatchSize:    16,
		DataDir:      cfg.DataDir,
	})

	if err := ing.Run(ctx, corpus); err != nil {
		log.Fatalf("ingestion failed: %v", err)
	}
	log.Println("ingestion complete")
}
