package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/davidleathers/dependable-data-quality/internal/domain/profile"
	domainquality "github.com/davidleathers/dependable-data-quality/internal/domain/quality"
	"github.com/davidleathers/dependable-data-quality/internal/domain/rules"
	"github.com/davidleathers/dependable-data-quality/internal/infrastructure/config"
	"github.com/davidleathers/dependable-data-quality/internal/infrastructure/ingest"
	"github.com/davidleathers/dependable-data-quality/internal/metrics"
	"github.com/davidleathers/dependable-data-quality/internal/service/monitoring"
	"github.com/davidleathers/dependable-data-quality/internal/service/profiling"
	"github.com/davidleathers/dependable-data-quality/internal/service/quality"
	"github.com/davidleathers/dependable-data-quality/internal/service/validation"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		filePath    = flag.String("file", "", "Path to the CSV file to check")
		datasetName = flag.String("dataset", "", "Dataset name (defaults to the file name)")
		jsonOut     = flag.Bool("json", false, "Emit the full report as JSON")
		outPath     = flag.String("out", "", "Write the full report as JSON to a file")
		noProfile   = flag.Bool("no-profile", false, "Skip profiling")
		noValidate  = flag.Bool("no-validate", false, "Skip validation")
		noMonitor   = flag.Bool("no-monitor", false, "Skip monitoring")
	)
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	svc, err := buildService(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to build quality service: %v", err)
	}

	ds, err := ingest.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	name := *datasetName
	if name == "" {
		name = ds.Name()
	}

	opts := quality.Options{
		Profile:         !*noProfile,
		Validate:        !*noValidate,
		Monitor:         !*noMonitor,
		SampleSize:      cfg.Profiling.SampleSize,
		TimestampColumn: cfg.Monitoring.TimestampColumn,
		MaxAgeHours:     cfg.Monitoring.MaxAgeHours,
	}

	report, err := svc.RunQualityCheck(context.Background(), ds, name, opts)
	if err != nil {
		log.Fatalf("Quality check failed: %v", err)
	}

	if *outPath != "" {
		if err := report.WriteJSON(*outPath); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatalf("Failed to encode report: %v", err)
		}
		return
	}

	render(report)

	if report.Validation != nil && !report.Validation.IsValid {
		os.Exit(1)
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}

func buildService(cfg *config.Config, logger *zap.Logger) (*quality.Service, error) {
	profCfg, err := cfg.ProfilerConfig()
	if err != nil {
		return nil, err
	}
	monCfg, err := cfg.MonitorConfig()
	if err != nil {
		return nil, err
	}
	ruleList, err := cfg.ValidationRules()
	if err != nil {
		return nil, err
	}

	exporter := metrics.NewRegistry(prometheus.NewRegistry())

	return quality.NewService(
		profiling.NewProfiler(profCfg, logger),
		validation.NewValidator(cfg.ValidatorConfig(), logger),
		monitoring.NewMonitor(monCfg, logger, exporter),
		ruleList,
		logger,
		exporter,
	), nil
}

func render(report *quality.Report) {
	fmt.Printf("Dataset: %s\n\n", report.DatasetName)

	if report.Profile != nil {
		renderProfile(report.Profile)
	}
	if report.Validation != nil {
		renderValidation(report.Validation)
	}
	if report.Metrics != nil {
		renderMetrics(report.Metrics)
	}
}

func renderProfile(p *profile.ProfileReport) {
	fmt.Println("Profile")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Column", "Kind", "Nulls %", "Unique %", "Warnings"})
	table.SetAutoWrapText(false)

	for _, name := range p.ColumnOrder {
		cp := p.Columns[name]
		warnings := ""
		if len(cp.Warnings) > 0 {
			warnings = cp.Warnings[0]
			if len(cp.Warnings) > 1 {
				warnings += fmt.Sprintf(" (+%d more)", len(cp.Warnings)-1)
			}
		}
		table.Append([]string{
			cp.Name,
			string(cp.Kind),
			fmt.Sprintf("%.1f", cp.NullPercentage),
			fmt.Sprintf("%.1f", cp.UniquePercentage),
			warnings,
		})
	}
	table.Render()

	fmt.Printf("Rows: %d  Columns: %d  Completeness: %.1f%%  Duplicates: %.1f%%\n\n",
		p.RowCount, p.ColumnCount, p.OverallCompleteness*100, p.DuplicatePercentage)
}

func renderValidation(vr *rules.ValidationResult) {
	fmt.Println("Validation")

	if failures := vr.Failures(); len(failures) > 0 {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Rule", "Severity", "Failures", "%"})
		table.SetAutoWrapText(false)
		for _, f := range failures {
			table.Append([]string{
				f.RuleName,
				f.Severity.String(),
				fmt.Sprintf("%d", f.FailureCount),
				fmt.Sprintf("%.1f", f.FailurePercentage),
			})
		}
		table.Render()
	}

	verdict := color.GreenString("VALID")
	if !vr.IsValid {
		verdict = color.RedString("INVALID")
	}
	fmt.Printf("Rules: %d passed / %d total  Verdict: %s\n\n",
		vr.PassedRules, vr.TotalRules, verdict)
}

func renderMetrics(m *domainquality.QualityMetrics) {
	fmt.Println("Quality")
	fmt.Printf("Score: %.3f  Completeness: %.3f  Uniqueness: %.3f  Validity: %.3f  Fresh: %v",
		m.QualityScore, m.Completeness, m.Uniqueness, m.Validity, m.IsFresh)
	if !m.Trend.IsZero() {
		fmt.Printf("  Trend: %s", m.Trend)
	}
	fmt.Println()
}
