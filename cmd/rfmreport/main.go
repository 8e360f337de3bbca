// Command rfmreport builds the sales dashboard from a CSV export and writes
// it to a timestamped JSON file, including per-customer RFM scores.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"salesdash/api/dataset"
	"salesdash/api/logger"
	"salesdash/api/models"
	"salesdash/api/report"
	"salesdash/api/utils"
)

func main() {
	csvPath := flag.String("csv", "all_data.csv", "Order lines CSV export")
	start := flag.String("start", "", "First day to include (YYYY-MM-DD, default: earliest purchase)")
	end := flag.String("end", "", "Last day bound (YYYY-MM-DD, default: latest purchase)")
	output := flag.String("output", "reports/", "Output folder path")
	customers := flag.Bool("customers", true, "Include per-customer RFM rows")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	if err := logger.Init(*logLevel, "console", "stderr"); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	bar := progressbar.Default(4, "rfm report")

	ds, err := dataset.LoadCSV(*csvPath)
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.String("path", *csvPath), zap.Error(err))
	}
	_ = bar.Add(1)

	first, last, err := ds.Bounds(context.Background())
	if err != nil {
		logger.Fatal("Failed to read dataset bounds", zap.Error(err))
	}
	startDay, err := utils.ParseDateParam(*start, dataset.Midnight(first))
	if err != nil {
		logger.Fatal("Invalid --start", zap.Error(err))
	}
	endDay, err := utils.ParseDateParam(*end, dataset.Midnight(last))
	if err != nil {
		logger.Fatal("Invalid --end", zap.Error(err))
	}
	if endDay.Before(startDay) {
		logger.Fatal("--end is before --start", zap.Time("start", startDay), zap.Time("end", endDay))
	}

	orders := ds.Filter(startDay, endDay)
	_ = bar.Add(1)

	dash, err := report.Build(orders, models.DateRange{Start: startDay, End: endDay})
	if err != nil {
		logger.Fatal("Failed to build report", zap.Error(err))
	}
	if *customers && dash.RFM != nil {
		if dash.RFM, err = report.RFM(orders, true); err != nil {
			logger.Fatal("Failed to compute customer scores", zap.Error(err))
		}
	}
	_ = bar.Add(1)

	filename := report.TimestampedFilename(*output, "rfm_report", time.Now())
	if err := report.ExportJSON(filename, dash); err != nil {
		logger.Fatal("Failed to export report", zap.Error(err))
	}
	_ = bar.Add(1)

	logger.Info("Report written",
		zap.String("file", filename),
		zap.Int("lines", len(orders)),
		zap.Int("orders", dash.Orders),
		zap.Bool("rfm", dash.RFM != nil),
	)
}
