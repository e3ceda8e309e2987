package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/halcyard/stackplan/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("stackplan", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
stackplan - Resolve declarative workload compositions into realization plans.

Usage:
  stackplan [options] [WORKLOAD_PATH]

Arguments:
  WORKLOAD_PATH
    Path to a workload .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	workloadFlag := flagSet.String("workload", "", "Path to the workload file or directory.")
	wFlag := flagSet.String("w", "", "Path to the workload file or directory (shorthand).")
	templatesFlag := flagSet.String("templates-path", "templates", "Path to the template catalog directory.")
	paramsFlag := flagSet.String("params", "", "Path to the JSON parameter-value bundle for one (tenant, environment) pair.")
	outFlag := flagSet.String("out", "", "Write the realization plan to this file instead of stdout.")
	configFlag := flagSet.String("config", "", "Optional YAML config file providing defaults for these options.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	raw := app.Config{
		WorkloadPath:  *workloadFlag,
		TemplatesPath: *templatesFlag,
		BundlePath:    *paramsFlag,
		OutputPath:    *outFlag,
		LogFormat:     *logFormatFlag,
		LogLevel:      *logLevelFlag,
	}

	if raw.WorkloadPath == "" && *wFlag != "" {
		raw.WorkloadPath = *wFlag
	}
	if raw.WorkloadPath == "" && flagSet.NArg() > 0 {
		raw.WorkloadPath = flagSet.Arg(0)
	}

	if *configFlag != "" {
		fileConfig, err := app.LoadFileConfig(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		applyFileDefaults(&raw, fileConfig, setFlags(flagSet))
	}

	if raw.WorkloadPath == "" {
		slog.Debug("No workload path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(raw)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// setFlags returns the set of flag names the user passed explicitly.
func setFlags(flagSet *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// applyFileDefaults fills config values from the YAML file for every option
// the user did not set on the command line. Flags always win.
func applyFileDefaults(raw *app.Config, fileConfig *app.FileConfig, explicit map[string]bool) {
	if raw.WorkloadPath == "" && fileConfig.WorkloadPath != "" {
		raw.WorkloadPath = fileConfig.WorkloadPath
	}
	if !explicit["templates-path"] && fileConfig.TemplatesPath != "" {
		raw.TemplatesPath = fileConfig.TemplatesPath
	}
	if !explicit["params"] && fileConfig.BundlePath != "" {
		raw.BundlePath = fileConfig.BundlePath
	}
	if !explicit["out"] && fileConfig.OutputPath != "" {
		raw.OutputPath = fileConfig.OutputPath
	}
	if !explicit["log-format"] && fileConfig.LogFormat != "" {
		raw.LogFormat = fileConfig.LogFormat
	}
	if !explicit["log-level"] && fileConfig.LogLevel != "" {
		raw.LogLevel = fileConfig.LogLevel
	}
}
