package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/propstack/propsearch/internal/es"
	"github.com/propstack/propsearch/internal/metrics"
	"github.com/propstack/propsearch/internal/usecase/ingest"
	"github.com/propstack/propsearch/internal/usecase/provision"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Provision the index and bulk load the listings dataset",
	Long: `load runs the full batch job: connect to the store, (re)create the index
from the mapping file, register the search template, then bulk load the
dataset with concurrent workers.

WARNING: provisioning is destructive. An existing index of the same name is
deleted, along with all of its documents, before the fresh one is created.`,
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := es.New(es.Config{
		Endpoint:       cfg.Elasticsearch.Endpoint,
		APIKey:         cfg.Elasticsearch.APIKey,
		RequestTimeout: time.Duration(cfg.Elasticsearch.RequestTimeoutSec) * time.Second,
	})
	if err != nil {
		return err
	}
	if err := store.Ping(ctx); err != nil {
		return err
	}
	log.Info("connected to search store", zap.String("endpoint", cfg.Elasticsearch.Endpoint))

	metrics.RegisterIngestMetrics()

	// Provisioning. Any failure here aborts before a single document is written.
	mapping, err := provision.LoadMapping(cfg.Index.MappingFile)
	if err != nil {
		return err
	}
	prov := provision.New(store, log)
	if err := prov.EnsureIndex(ctx, cfg.Index.Name, mapping); err != nil {
		return err
	}

	source, err := provision.LoadTemplate(cfg.Index.TemplateFile)
	if err != nil {
		return err
	}
	if err := prov.RegisterTemplate(ctx, cfg.Index.TemplateID, source); err != nil {
		return err
	}

	docs, err := ingest.LoadDataset(cfg.Ingest.DatasetFile)
	if err != nil {
		return err
	}
	log.Info("dataset loaded",
		zap.String("file", cfg.Ingest.DatasetFile),
		zap.Int("documents", len(docs)),
	)

	bar := progressbar.NewOptions(len(docs),
		progressbar.OptionSetDescription("indexing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionOnCompletion(func() { fmt.Println() }),
	)

	svc := ingest.New(store, cfg.Index.Name, log).
		WithConcurrency(cfg.Ingest.Workers, cfg.Ingest.ChunkSize).
		WithProgress(func(n int) { _ = bar.Add(n) })

	report, runErr := svc.Run(ctx, docs)
	_ = bar.Finish()

	fmt.Printf("\nBulk load report for index %q\n", cfg.Index.Name)
	fmt.Printf("  attempted: %d\n", report.Attempted)
	fmt.Printf("  succeeded: %d\n", report.Succeeded)
	fmt.Printf("  failed:    %d\n", report.Failed)
	fmt.Printf("  in store:  %d\n", report.IndexedTotal)
	fmt.Printf("  duration:  %s\n", report.Duration.Round(time.Millisecond))

	if len(report.Failures) > 0 {
		fmt.Printf("\nFailed documents:\n")
		for i, f := range report.Failures {
			fmt.Printf("  %d. line %d: %s - %s\n", i+1, f.Line, f.ErrorType, f.ErrorReason)
		}
	}

	if runErr != nil {
		return runErr
	}
	log.Info("ingestion complete", zap.String("index", cfg.Index.Name))
	return nil
}
