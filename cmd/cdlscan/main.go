// Command cdlscan prints CDL history reports for one or more points as JSON
// lines. Points come from -point arguments or a WGS-84 shapefile. Points are
// queried one after another; CropScape settings are read from the same
// environment variables as the service.
//
// Usage:
//
//	go run ./cmd/cdlscan -point 41.878,-93.097 -start 2015 -end 2023
//	go run ./cmd/cdlscan -shp fields.shp -id-field FIELD_ID -out reports.jsonl
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/couchcryptid/cdl-history-service/internal/adapter/cropscape"
	"github.com/couchcryptid/cdl-history-service/internal/config"
	"github.com/couchcryptid/cdl-history-service/internal/domain"
	"github.com/couchcryptid/cdl-history-service/internal/history"
	"github.com/couchcryptid/cdl-history-service/internal/observability"
)

// pointList collects repeated -point flags.
type pointList []string

func (p *pointList) String() string     { return strings.Join(*p, " ") }
func (p *pointList) Set(s string) error { *p = append(*p, s); return nil }

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var points pointList
	flag.Var(&points, "point", "lat,lng to query (repeatable)")
	shpPath := flag.String("shp", "", "WGS-84 shapefile of points or polygons to query")
	idField := flag.String("id-field", "", "shapefile attribute used as the report ID")
	start := flag.Int("start", 0, "first CDL year (default CDL_START_YEAR)")
	end := flag.Int("end", 0, "last CDL year (default CDL_END_YEAR)")
	outPath := flag.String("out", "", "output file for JSON lines (default stdout)")
	flag.Parse()

	if len(points) == 0 && *shpPath == "" {
		flag.Usage()
		return errors.New("at least one -point or a -shp file is required")
	}

	targets, err := collectPoints(points, *shpPath, *idField)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetricsForTesting()

	client := cropscape.NewClient(cfg.CDLBaseURL, cfg.CDLTimeout, cfg.CDLRateLimit, metrics, logger)
	svc := history.NewService(cropscape.NewCachedSource(client, cfg.CDLCacheSize, metrics),
		cfg.CDLStartYear, cfg.CDLEndYear, metrics, logger)

	out := io.Writer(os.Stdout)
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", *outPath, err)
		}
		defer f.Close()
		out = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return scan(ctx, svc, targets, *start, *end, out, logger)
}

func collectPoints(args []string, shpPath, idField string) ([]scanPoint, error) {
	var targets []scanPoint
	for _, a := range args {
		p, err := parseLatLng(a)
		if err != nil {
			return nil, err
		}
		targets = append(targets, p)
	}
	if shpPath != "" {
		fromShp, err := loadShapefilePoints(shpPath, idField)
		if err != nil {
			return nil, err
		}
		targets = append(targets, fromShp...)
	}
	return targets, nil
}

// historyQuerier is the part of history.Service that scan needs.
type historyQuerier interface {
	QueryHistory(ctx context.Context, req domain.HistoryRequest) (domain.HistoryReport, error)
}

// scan queries each point in order and writes one JSON report per line. Invalid
// points are logged and skipped; a cancelled context stops the scan early.
func scan(ctx context.Context, svc historyQuerier, targets []scanPoint, start, end int, out io.Writer, logger *slog.Logger) error {
	w := bufio.NewWriter(out)
	defer w.Flush()
	enc := json.NewEncoder(w)

	for i, p := range targets {
		if ctx.Err() != nil {
			logger.Info("scan cancelled", "completed", i, "total", len(targets))
			break
		}
		report, err := svc.QueryHistory(ctx, domain.HistoryRequest{
			ID: p.ID, Lat: p.Lat, Lng: p.Lng, StartYear: start, EndYear: end,
		})
		if err != nil {
			logger.Warn("skipping point", "id", p.ID, "lat", p.Lat, "lng", p.Lng, "error", err)
			continue
		}
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flush report: %w", err)
		}
	}
	return nil
}
