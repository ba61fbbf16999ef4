package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/gridclosure/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
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

// EnvPrefix prefixes the environment variables that override flags, e.g.
// CLOSURE_OUT or CLOSURE_LOG_LEVEL.
const EnvPrefix = "CLOSURE"

const usageLong = `Closure computes everything a set of launch plans needs to be registered:
the root workflows, every sub-workflow they reach and every task run by any
of them. It writes one .pb artifact per entity plus a manifest.yaml with
their blake3 digests.

Arguments:
  PATH
    One or more .hcl files or directories containing .hcl files.

Every flag can also be set through the environment as CLOSURE_<FLAG>, with
dashes replaced by underscores, or in the YAML file given with --config.
Repeatable flags take a comma-separated list in the environment, e.g.
CLOSURE_LAUNCH_PLAN=daily,p:d:weekly:v2.`

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	v := viper.New()
	var cfg *app.Config

	cmd := &cobra.Command{
		Use:           "closure [flags] PATH...",
		Short:         "Compute and serialize the registration closure of workflow definitions",
		Long:          usageLong,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				slog.Debug("No input path provided, printing usage and exiting.")
				return cmd.Help()
			}
			if file := v.GetString("config"); file != "" {
				v.SetConfigFile(file)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("failed to read config file: %w", err)
				}
				slog.Debug("Config file loaded.", "config_file", v.ConfigFileUsed())
			}

			c, err := app.NewConfig(app.Config{
				Paths:              args,
				OutDir:             v.GetString("out"),
				LaunchPlans:        listValue(v, "launch-plan"),
				Workflows:          listValue(v, "workflow"),
				Project:            v.GetString("project"),
				Domain:             v.GetString("domain"),
				Version:            v.GetString("version"),
				TaskDefaults:       v.GetString("task-defaults"),
				LaunchPlanDefaults: v.GetString("launch-plan-defaults"),
				StrictCycles:       v.GetBool("strict-cycles"),
				LogFormat:          strings.ToLower(v.GetString("log-format")),
				LogLevel:           strings.ToLower(v.GetString("log-level")),
			})
			if err != nil {
				return err
			}
			cfg = c
			return nil
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	flags := cmd.Flags()
	flags.String("config", "", "Path to a YAML file providing flag values.")
	flags.StringP("out", "o", "out", "Directory the artifacts and manifest are written to.")
	flags.StringSlice("launch-plan", nil, "Root launch plan, as name, project:domain:name or project:domain:name:version. Repeatable. Defaults to every launch plan.")
	flags.StringSlice("workflow", nil, "Root workflow registered without a launch plan. Repeatable.")
	flags.String("project", "", "Project for identifiers that omit it.")
	flags.String("domain", "", "Domain for identifiers that omit it.")
	flags.String("version", "", "Version for identifiers that omit it.")
	flags.String("task-defaults", "", "HCL object literal merged under every task's custom fields, e.g. '{ retries = 1 }'.")
	flags.String("launch-plan-defaults", "", "HCL object literal merged under every launch plan's default inputs.")
	flags.Bool("strict-cycles", false, "Fail instead of warning when sub-workflows reference each other in a cycle.")
	flags.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := v.BindPFlags(flags); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if cfg == nil {
		// Help was requested or no path was given.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

// listValue reads a repeatable flag. Environment values may separate items
// with commas or whitespace.
func listValue(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
