package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bryanwahyu/brand-audit/internal/config"
	openaiClient "github.com/bryanwahyu/brand-audit/internal/infra/ai/openai"
	"github.com/bryanwahyu/brand-audit/internal/infra/search"
)

// text-embedding-3-small output size; the index mapping is created with
// this dimension.
const embeddingDimension = 1536

const maxChunkLen = 1200

// Ingests a brand-rules document into the retrieval index: split into
// passages, embed each, store with its vector. Run once per rules
// revision before serving audits.
func main() {
	configPath := flag.String("config", "config.yaml", "path to config.yaml")
	docPath := flag.String("doc", "", "path to the rules document (plain text)")
	flag.Parse()

	if *docPath == "" {
		fmt.Fprintln(os.Stderr, "usage: indexdocs -doc <rules.txt> [-config config.yaml]")
		os.Exit(2)
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" && *configPath == "config.yaml" {
		*configPath = v
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	data, err := os.ReadFile(*docPath)
	if err != nil {
		log.Fatalf("read document error: %v", err)
	}

	ai := openaiClient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.EmbeddingModel)
	idx, err := search.New(cfg.Search.Endpoint, cfg.Search.Username, cfg.Search.Password, cfg.Search.Index, ai)
	if err != nil {
		log.Fatalf("search init error: %v", err)
	}

	ctx := context.Background()
	if err := idx.EnsureIndex(ctx, embeddingDimension); err != nil {
		log.Fatalf("ensure index error: %v", err)
	}

	chunks := splitPassages(string(data))
	log.Printf("indexing %d passages from %s into %s", len(chunks), *docPath, cfg.Search.Index)

	for i, chunk := range chunks {
		id := fmt.Sprintf("%s-%04d", sanitizeID(*docPath), i)
		if err := idx.IndexPassage(ctx, id, chunk); err != nil {
			log.Fatalf("index passage %d error: %v", i, err)
		}
	}
	log.Printf("done, %d passages indexed", len(chunks))
}

// splitPassages cuts the document on blank lines, re-splitting any
// paragraph that exceeds maxChunkLen on sentence boundaries.
func splitPassages(text string) []string {
	var out []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if len(para) <= maxChunkLen {
			out = append(out, para)
			continue
		}
		var buf strings.Builder
		for _, sentence := range strings.SplitAfter(para, ". ") {
			if buf.Len()+len(sentence) > maxChunkLen && buf.Len() > 0 {
				out = append(out, strings.TrimSpace(buf.String()))
				buf.Reset()
			}
			buf.WriteString(sentence)
		}
		if strings.TrimSpace(buf.String()) != "" {
			out = append(out, strings.TrimSpace(buf.String()))
		}
	}
	return out
}

func sanitizeID(path string) string {
	id := strings.ToLower(path)
	id = strings.NewReplacer("/", "-", "\\", "-", " ", "-", ".", "-").Replace(id)
	return strings.Trim(id, "-")
}
