package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"github.com/Saske77/eco-env-curtailment-analysis/internal/auth"
	"github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/application"
	curtailment "github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/domain"
	curtailmentexcel "github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/infrastructure/excel"
	"github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/infrastructure/memory"
	"github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/infrastructure/postgres"
	"github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/interfaces"
	analysishttp "github.com/Saske77/eco-env-curtailment-analysis/internal/curtailment/interfaces/http"
	marketapp "github.com/Saske77/eco-env-curtailment-analysis/internal/marketdata/application"
	marketdata "github.com/Saske77/eco-env-curtailment-analysis/internal/marketdata/domain"
	marketexcel "github.com/Saske77/eco-env-curtailment-analysis/internal/marketdata/infrastructure/excel"
	"github.com/Saske77/eco-env-curtailment-analysis/internal/observability/metrics"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatalf("load timezone %s: %v", cfg.Timezone, err)
	}

	analysisCfg := curtailment.AnalysisConfig{
		TurbineCapacityMW: cfg.TurbineCapacityMW,
		CompensationRate:  cfg.CompensationRate,
		PlantID:           cfg.PlantID,
		HoursInPeriod:     cfg.HoursInPeriod,
	}
	if err := analysisCfg.Validate(); err != nil {
		logger.Fatalf("configuration error: %v", err)
	}

	metrics.Init()

	rawEvents, err := curtailmentexcel.LoadCurtailmentRows(cfg.CurtailmentFile)
	if err != nil {
		logger.Fatalf("load curtailment data: %v", err)
	}
	logger.Printf("loaded %d raw curtailment rows from %s", len(rawEvents), cfg.CurtailmentFile)

	normalizer, err := marketapp.NewSeriesNormalizer(loc, logger)
	if err != nil {
		logger.Fatalf("series normalizer: %v", err)
	}
	market := loadSeries(normalizer, logger, "market", cfg.MarketFile, marketexcel.MarketSpec(), marketdata.ZoneLocal)
	redispatch := loadSeries(normalizer, logger, "redispatch", cfg.RedispatchFile, marketexcel.RedispatchSpec(), marketdata.ZoneLocal)
	carbon := loadSeries(normalizer, logger, "carbon", cfg.CarbonFile, marketexcel.CarbonSpec(), marketdata.ZoneUTC)

	var keep application.KeepFunc
	if cfg.Year > 0 {
		keep = application.FilterPlantYear(cfg.PlantID, cfg.Year)
	}
	service, err := application.NewAnalysisService(analysisCfg, keep, logger)
	if err != nil {
		logger.Fatalf("analysis service: %v", err)
	}

	started := time.Now()
	run, err := service.Run(rawEvents, loc, market, redispatch, carbon)
	metrics.ObserveRun(err, time.Since(started))
	if err != nil {
		logger.Fatalf("analysis run: %v", err)
	}
	recordRunMetrics(run)

	fmt.Print(interfaces.BuildTextReport(run))

	record := &curtailment.RunRecord{
		ID:          newRunID(),
		PlantID:     cfg.PlantID,
		RanAt:       time.Now(),
		Result:      run.Result,
		Diagnostics: run.Diagnostics(),
	}

	ctx := context.Background()
	repo := buildRunRepository(ctx, cfg, logger)
	if err := repo.Save(ctx, record); err != nil {
		logger.Printf("save run: %v", err)
	}

	if cfg.OutDir != "" {
		exportReports(run, record.RanAt, cfg.OutDir, logger)
	}

	if cfg.RunMode == "serve" {
		serve(cfg, repo, logger)
	}
}

func loadSeries(normalizer *marketapp.SeriesNormalizer, logger *log.Logger, name, path string, spec marketexcel.SeriesSpec, zone marketdata.Zone) *marketdata.HourlySeries {
	if path == "" {
		logger.Printf("series %s: no file configured, proceeding without data", name)
		return marketdata.EmptyHourlySeries()
	}
	points, err := marketexcel.LoadSeriesPoints(path, spec)
	if err != nil {
		logger.Printf("series %s: load error (%v), proceeding without data", name, err)
		return marketdata.EmptyHourlySeries()
	}
	series, _, err := normalizer.Normalize(name, points, zone)
	if err != nil {
		logger.Printf("series %s: normalize error (%v), proceeding without data", name, err)
		return marketdata.EmptyHourlySeries()
	}
	return series
}

func recordRunMetrics(run *application.RunResult) {
	metrics.AddProcessedEvents(run.Result.ProcessedEventCount)
	metrics.AddDroppedRows("parse_failure", run.Stats.ParseFailures)
	metrics.AddDroppedRows("invalid_range", run.Stats.InvalidRanges)
	metrics.AddDroppedRows("zero_level", run.Stats.ZeroLevelDrops)
	metrics.AddMissingHours("market", run.Missing.MarketHours)
	metrics.AddMissingHours("redispatch", run.Missing.RedispatchHours)
	metrics.AddMissingHours("carbon", run.Missing.CarbonHours)
}

func buildRunRepository(ctx context.Context, cfg config, logger *log.Logger) curtailment.RunRepository {
	if cfg.DatabaseURL == "" {
		return memory.NewRunRepository()
	}
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Printf("db open error (%v), falling back to in-memory store", err)
		return memory.NewRunRepository()
	}
	if err := db.Ping(); err != nil {
		logger.Printf("db ping error (%v), falling back to in-memory store", err)
		return memory.NewRunRepository()
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		logger.Printf("db schema error (%v), falling back to in-memory store", err)
		return memory.NewRunRepository()
	}
	return postgres.NewRunRepository(db)
}

func exportReports(run *application.RunResult, ranAt time.Time, outDir string, logger *log.Logger) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		logger.Printf("create output dir: %v", err)
		return
	}
	stamp := ranAt.Format("20060102-150405")

	if data, err := interfaces.BuildReportPDF(run, ranAt); err != nil {
		logger.Printf("build pdf report: %v", err)
	} else {
		path := filepath.Join(outDir, "curtailment-report-"+stamp+".pdf")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			logger.Printf("write pdf report: %v", err)
		} else {
			logger.Printf("wrote %s", path)
		}
	}

	if data, err := interfaces.BuildReportXLSX(run, ranAt); err != nil {
		logger.Printf("build xlsx report: %v", err)
	} else {
		path := filepath.Join(outDir, "curtailment-report-"+stamp+".xlsx")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			logger.Printf("write xlsx report: %v", err)
		} else {
			logger.Printf("wrote %s", path)
		}
	}
}

func serve(cfg config, repo curtailment.RunRepository, logger *log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/api/v1/analysis/latest", analysishttp.NewAnalysisHandler(repo, cfg.PlantID))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	var handler http.Handler = mux
	if cfg.JWTSecret != "" {
		policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
		handler = auth.NewMiddleware([]byte(cfg.JWTSecret), policy).Wrap(mux)
	} else {
		logger.Printf("AUTH_JWT_SECRET not set, serving analysis API without auth")
	}

	logger.Printf("serving analysis API on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, handler); err != nil {
		logger.Fatalf("http server error: %v", err)
	}
}

func newRunID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return hex.EncodeToString(buf[:])
	}
	// UUIDv4 formatting (without external dependency).
	buf[6] = (buf[6] & 0x0f) | 0x40
	buf[8] = (buf[8] & 0x3f) | 0x80
	return hex.EncodeToString(buf[:])
}

type config struct {
	// Analysis knobs; every downstream figure scales with these.
	TurbineCapacityMW float64 `yaml:"turbine_capacity_mw"`
	CompensationRate  float64 `yaml:"compensation_rate"`
	PlantID           string  `yaml:"plant_id"`
	HoursInPeriod     int     `yaml:"hours_in_period"`
	Year              int     `yaml:"year"`
	Timezone          string  `yaml:"timezone"`

	// Input workbooks.
	CurtailmentFile string `yaml:"curtailment_file"`
	MarketFile      string `yaml:"market_file"`
	RedispatchFile  string `yaml:"redispatch_file"`
	CarbonFile      string `yaml:"carbon_file"`

	// Outputs and serve mode.
	OutDir      string `yaml:"out_dir"`
	RunMode     string `yaml:"run_mode"`
	HTTPAddr    string `yaml:"http_addr"`
	DatabaseURL string `yaml:"-"`
	JWTSecret   string `yaml:"-"`
}

// loadConfig reads env first, then overlays the optional yaml file
// named by ANALYSIS_CONFIG. Secrets stay env-only.
func loadConfig() config {
	cfg := config{
		TurbineCapacityMW: getenvFloatDefault("TURBINE_CAPACITY_MW", 2.3),
		CompensationRate:  getenvFloatDefault("COMPENSATION_RATE", 0.925),
		PlantID:           getenvDefault("PLANT_ID", ""),
		HoursInPeriod:     getenvIntDefault("HOURS_IN_PERIOD", 8760),
		Year:              getenvIntDefault("ANALYSIS_YEAR", 0),
		Timezone:          getenvDefault("ANALYSIS_TIMEZONE", "Europe/Berlin"),
		CurtailmentFile:   getenvDefault("CURTAILMENT_FILE", ""),
		MarketFile:        getenvDefault("MARKET_FILE", ""),
		RedispatchFile:    getenvDefault("REDISPATCH_FILE", ""),
		CarbonFile:        getenvDefault("CARBON_FILE", ""),
		OutDir:            getenvDefault("REPORT_OUT_DIR", ""),
		RunMode:           getenvDefault("RUN_MODE", "once"),
		HTTPAddr:          getenvDefault("HTTP_ADDR", ":8080"),
		DatabaseURL:       getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		JWTSecret:         getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}

	if path := os.Getenv("ANALYSIS_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("read ANALYSIS_CONFIG %s: %v", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("parse ANALYSIS_CONFIG %s: %v", path, err)
		}
	}

	if cfg.CurtailmentFile == "" {
		log.Fatal("CURTAILMENT_FILE is required")
	}
	if cfg.PlantID == "" {
		log.Fatal("PLANT_ID is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
