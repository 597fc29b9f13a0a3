// Package main provides the entry point for the benchmark runner
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/authz-engine/engine-bench/internal/bench"
	"github.com/authz-engine/engine-bench/internal/config"
	"github.com/authz-engine/engine-bench/internal/report"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "YAML run configuration file")
		engineName  = flag.String("engine", "cel", "Decision engine to benchmark (cel, opa)")
		warmup      = flag.Int("warmup", 100, "Warmup calls per scenario (discarded)")
		samples     = flag.Int("samples", 1000, "Timed calls per scenario")
		output      = flag.String("output", "", "Results JSON file (default <engine>-benchmark-results.json)")
		listOnly    = flag.Bool("list", false, "List catalogue scenarios and exit")
		logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		logFormat   = flag.String("log-format", "json", "Log format (json, console)")
		logFile     = flag.String("log-file", "", "Log to a rotating file instead of stderr")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("engine-bench %s\n", Version)
		fmt.Printf("  Build Time: %s\n", BuildTime)
		fmt.Printf("  Git Commit: %s\n", GitCommit)
		os.Exit(0)
	}

	// Config file first, then explicitly set flags override it.
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "engine":
			cfg.Engine = *engineName
		case "warmup":
			cfg.Warmup = *warmup
		case "samples":
			cfg.Samples = *samples
		case "output":
			cfg.Output = *output
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "log-format":
			cfg.Logging.Format = *logFormat
		case "log-file":
			cfg.Logging.File = *logFile
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	eng, err := bench.NewEngine(cfg.Engine)
	if err != nil {
		logger.Fatal("Failed to create engine", zap.Error(err))
	}

	runner, err := bench.NewRunner(eng, bench.Options{Warmup: cfg.Warmup, Samples: cfg.Samples}, logger)
	if err != nil {
		logger.Fatal("Failed to create runner", zap.Error(err))
	}

	if *listOnly {
		for _, sc := range runner.Scenarios() {
			fmt.Println(sc.Name)
		}
		return
	}

	runID := uuid.NewString()
	logger.Info("Starting benchmark run",
		zap.String("run_id", runID),
		zap.String("engine", eng.Name()),
		zap.String("version", Version),
		zap.Int("warmup", cfg.Warmup),
		zap.Int("samples", cfg.Samples),
	)

	results, err := runner.RunAll()
	if err != nil {
		logger.Fatal("Benchmark run failed", zap.String("run_id", runID), zap.Error(err))
	}

	data, err := report.Encode(results)
	if err != nil {
		logger.Fatal("Failed to encode results", zap.Error(err))
	}

	outputPath := cfg.OutputPath()
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		logger.Fatal("Failed to write results", zap.String("path", outputPath), zap.Error(err))
	}

	logger.Info("Benchmark run complete",
		zap.String("run_id", runID),
		zap.String("output", outputPath),
		zap.Int("scenarios", len(results.Benchmarks)),
	)

	fmt.Printf("\nResults written to: %s\n", outputPath)
	fmt.Println("\nBenchmark summary:")
	for _, b := range results.Benchmarks {
		fmt.Printf("  %-35s %10d ns (std: %d)\n", b.Name, b.Results.MeanNS, b.Results.StdDev)
	}
}

// initLogger initializes the zap logger
func initLogger(cfg config.Logging) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch cfg.Level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	// Rotating file sink when a log file is configured.
	if cfg.File != "" {
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
		encoderCfg := zap.NewProductionEncoderConfig()
		var encoder zapcore.Encoder
		if cfg.Format == "console" {
			encoder = zapcore.NewConsoleEncoder(encoderCfg)
		} else {
			encoder = zapcore.NewJSONEncoder(encoderCfg)
		}
		return zap.New(zapcore.NewCore(encoder, sink, zapLevel)), nil
	}

	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(zapLevel)

	return zapCfg.Build()
}
