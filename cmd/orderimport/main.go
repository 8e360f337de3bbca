// Command orderimport bulk-loads a CSV export of order lines into ClickHouse.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"salesdash/api/config"
	"salesdash/api/database"
	"salesdash/api/dataset"
	"salesdash/api/logger"
	"salesdash/api/models"
	"salesdash/api/store"
)

func main() {
	csvPath := flag.String("csv", "all_data.csv", "Order lines CSV export")
	batchSize := flag.Int("batch", 5000, "Rows per ClickHouse batch")
	flag.Parse()

	if *batchSize <= 0 {
		fmt.Println("--batch must be positive")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, "console", "stderr"); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if !cfg.ClickHouse.Enabled() {
		logger.Fatal("ClickHouse is not configured; set CLICKHOUSE_HOST, CLICKHOUSE_NATIVE_PORT and CLICKHOUSE_DB_NAME")
	}

	ctx := context.Background()
	chClient, err := database.NewClickHouseDB(cfg.ClickHouse)
	if err != nil {
		logger.Fatal("Failed to initialize ClickHouse database", zap.Error(err))
	}
	defer chClient.Close()

	orders := store.NewClickHouseOrderStore(chClient)
	if err := orders.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to initialize ClickHouse schema", zap.Error(err))
	}

	ds, err := dataset.LoadCSV(*csvPath)
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.String("path", *csvPath), zap.Error(err))
	}

	rows := ds.Rows()
	bar := progressbar.Default(int64(len(rows)), "importing")
	for i := 0; i < len(rows); i += *batchSize {
		j := min(i+*batchSize, len(rows))
		batch := append([]models.OrderLine(nil), rows[i:j]...)
		for k := range batch {
			if batch[k].LineID == "" {
				batch[k].LineID = uuid.NewString()
			}
		}
		if err := orders.InsertOrderLines(ctx, batch); err != nil {
			logger.Fatal("Failed to insert batch", zap.Int("offset", i), zap.Error(err))
		}
		_ = bar.Add(len(batch))
	}

	logger.Info("Import finished", zap.Int("lines", len(rows)), zap.String("database", cfg.ClickHouse.DBName))
}
