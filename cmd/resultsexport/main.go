package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/democrasee/internal/adapters/repository/kv"
	"github.com/vncsmyrnk/democrasee/internal/adapters/store"
	"github.com/vncsmyrnk/democrasee/internal/config"
	"github.com/vncsmyrnk/democrasee/internal/core/services"
	"github.com/vncsmyrnk/democrasee/internal/logger"
)

// resultsexport writes a point-in-time results snapshot for one poll, as JSON
// or as a plain-text report.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var (
		pollID string
		format string
		out    string
	)
	flag.StringVar(&pollID, "poll", "", "Poll id to export")
	flag.StringVar(&format, "format", "json", "Output format: json or report")
	flag.StringVar(&out, "out", "", "Output path (defaults to the conventional export file name)")
	flag.Parse()

	id, err := uuid.Parse(pollID)
	if err != nil {
		log.Fatalf("a valid -poll id is required: %v", err)
	}
	if format != "json" && format != "report" {
		log.Fatalf("unknown format %q", format)
	}

	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := logger.Init(conf.Environment); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	st, closeStore, err := store.Open(ctx, conf.Storage)
	if err != nil {
		zap.L().Fatal("failed to open store", zap.Error(err))
	}
	defer closeStore()

	pollRepo := kv.NewPollRepository(st)
	candidateRepo := kv.NewCandidateRepository(st)
	exportService := services.NewExportService(pollRepo, candidateRepo)

	snapshot, err := exportService.Snapshot(ctx, id)
	if err != nil {
		zap.L().Fatal("failed to build snapshot", zap.Error(err))
	}

	if out == "" {
		out = exportService.FileName(snapshot)
	}

	f, err := os.Create(out)
	if err != nil {
		zap.L().Fatal("failed to create output file", zap.Error(err))
	}
	defer f.Close()

	switch format {
	case "json":
		err = exportService.WriteJSON(f, snapshot)
	case "report":
		err = exportService.WriteReport(f, snapshot)
	}
	if err != nil {
		zap.L().Fatal("failed to write export", zap.Error(err))
	}

	zap.L().Info("results exported",
		zap.String("poll", id.String()),
		zap.String("file", out),
		zap.Int("total_votes", snapshot.TotalVotes))
}
