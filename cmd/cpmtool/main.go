package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/msageha/cpmtool/internal/ingest"
	"github.com/msageha/cpmtool/internal/model"
	"github.com/msageha/cpmtool/internal/report"
	"github.com/msageha/cpmtool/internal/schedule"
	"github.com/msageha/cpmtool/internal/watch"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "schedule":
		runSchedule(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	case "version":
		fmt.Printf("cpmtool %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runSchedule(args []string) {
	var inputFile, planFile, format, outputFile, configFile string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--input":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--input requires a value")
				os.Exit(1)
			}
			i++
			inputFile = args[i]
		case "--plan":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--plan requires a value")
				os.Exit(1)
			}
			i++
			planFile = args[i]
		case "--format":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--format requires a value")
				os.Exit(1)
			}
			i++
			format = args[i]
		case "--output":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--output requires a value")
				os.Exit(1)
			}
			i++
			outputFile = args[i]
		case "--config":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config requires a value")
				os.Exit(1)
			}
			i++
			configFile = args[i]
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\nusage: cpmtool schedule [--input <file|->] [--plan <file>] [--format table|json|yaml] [--output <file>]\n", args[i])
			os.Exit(1)
		}
	}

	if inputFile != "" && planFile != "" {
		fmt.Fprintln(os.Stderr, "--input and --plan are mutually exclusive")
		os.Exit(1)
	}

	cfg, err := loadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if format == "" {
		format = cfg.Output.Format
	}

	records, err := readRecords(inputFile, planFile)
	if err != nil {
		fail(err)
	}

	reg := schedule.NewRegistry()
	if err := ingest.Load(reg, records); err != nil {
		fail(err)
	}

	res, err := schedule.Compute(reg)
	if err != nil {
		fail(err)
	}

	if outputFile != "" {
		if err := report.WriteFile(outputFile, res, format); err != nil {
			fmt.Fprintf(os.Stderr, "write output: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := report.Render(os.Stdout, res, format); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
}

func runValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: cpmtool validate <plan.yaml>")
		os.Exit(1)
	}

	records, err := ingest.LoadPlanFile(args[0])
	if err != nil {
		fail(err)
	}

	// Dry-run the registry so duplicate ids, bad durations, and unknown
	// dependencies are caught too, not just field-level problems.
	reg := schedule.NewRegistry()
	if err := ingest.Load(reg, records); err != nil {
		fail(err)
	}

	fmt.Printf("plan OK: %d task(s)\n", reg.Len())
}

func runWatch(args []string) {
	if len(args) < 1 || args[0] == "" || args[0][0] == '-' {
		fmt.Fprintln(os.Stderr, "usage: cpmtool watch <plan.yaml> [--output <file>] [--format table|json|yaml]")
		os.Exit(1)
	}

	planFile := args[0]
	rest := args[1:]

	var format, outputFile, configFile string
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "--format":
			if i+1 >= len(rest) {
				fmt.Fprintln(os.Stderr, "--format requires a value")
				os.Exit(1)
			}
			i++
			format = rest[i]
		case "--output":
			if i+1 >= len(rest) {
				fmt.Fprintln(os.Stderr, "--output requires a value")
				os.Exit(1)
			}
			i++
			outputFile = rest[i]
		case "--config":
			if i+1 >= len(rest) {
				fmt.Fprintln(os.Stderr, "--config requires a value")
				os.Exit(1)
			}
			i++
			configFile = rest[i]
		default:
			fmt.Fprintf(os.Stderr, "unknown flag: %s\nusage: cpmtool watch <plan.yaml> [--output <file>] [--format table|json|yaml]\n", rest[i])
			os.Exit(1)
		}
	}

	cfg, err := loadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if format == "" {
		format = cfg.Output.Format
	}

	w := watch.New(planFile, outputFile, format, cfg, os.Stdout, os.Stderr)
	if err := w.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		os.Exit(1)
	}
}

func readRecords(inputFile, planFile string) ([]ingest.Record, error) {
	if planFile != "" {
		return ingest.LoadPlanFile(planFile)
	}
	if inputFile == "" || inputFile == "-" {
		return ingest.ReadLines(os.Stdin)
	}
	f, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return ingest.ReadLines(f)
}

// fail prints an ingestion or scheduling error and exits. Aggregated
// field-level plan errors get their multi-line stderr form; invariant
// violations exit with a distinct code since they are defects, not data
// errors.
func fail(err error) {
	var verrs *ingest.ValidationErrors
	if errors.As(err, &verrs) {
		fmt.Fprint(os.Stderr, verrs.FormatStderr())
		os.Exit(1)
	}
	var iv *schedule.InvariantViolationError
	if errors.As(err, &iv) {
		fmt.Fprintf(os.Stderr, "internal error: %v\n", err)
		os.Exit(2)
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// loadConfig reads path, or ./cpmtool.yaml when path is empty. A missing
// default config file is not an error.
func loadConfig(path string) (model.Config, error) {
	cfg := model.DefaultConfig()

	explicit := path != ""
	if path == "" {
		path = "cpmtool.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return model.Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = model.DefaultConfig().Output.Format
	}
	return cfg, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `cpmtool %s - Critical path (CPM/PDM) schedule calculator

Usage: cpmtool <command> [options]

Commands:
  schedule [flags]       Compute a schedule and print/export it
      --input <file|->   Line-format input ("A 2 B,C"), default stdin
      --plan <file>      YAML plan file instead of line input
      --format <fmt>     table (default), json, yaml
      --output <file>    Write to file instead of stdout (yaml is atomic)
      --config <file>    Config file (default ./cpmtool.yaml if present)
  validate <plan.yaml>   Check a plan file without computing output
  watch <plan.yaml>      Recompute whenever the plan file changes
      --output <file>    Report destination (stdout if omitted)
      --format <fmt>     table, json, yaml
      --config <file>    Config file
  version                Show version
  help                   Show this help

`, version)
}
