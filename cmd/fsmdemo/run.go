package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/openwebos/fsm"
	"github.com/openwebos/fsm/internal/demo"
	"github.com/openwebos/fsm/internal/logging"
	"github.com/openwebos/fsm/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

// commandLogger returns the stderr logger configured by --log-level.
func commandLogger(cmd *cobra.Command) (*slog.Logger, error) {
	logLevel, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(cmd.ErrOrStderr(), level), nil
}

// machineConfig builds the machine configuration from the persistent flags.
func machineConfig(cmd *cobra.Command, hooks ...fsm.Hooks) (fsm.Config, error) {
	logger, err := commandLogger(cmd)
	if err != nil {
		return fsm.Config{}, err
	}
	fsmLevel, _ := cmd.Flags().GetString("fsm-level")
	machineLevel, err := fsm.ParseLevel(fsmLevel)
	if err != nil {
		return fsm.Config{}, err
	}
	return fsm.Config{
		Sink:            fsm.NewSlogSink(logger),
		LogLevel:        machineLevel,
		Hooks:           fsm.Chain(hooks...),
		CatchViolations: true,
	}, nil
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Run a sample machine",
		Long: `Starts the named scenario, dispatches its events and prints whether each was handled.
With --script the events are read from a YAML file instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := demo.Lookup(args[0])
			if err != nil {
				return err
			}
			reg := prometheus.NewRegistry()
			mx := metrics.New(reg, "fsmdemo")
			config, err := machineConfig(cmd, mx.Hooks())
			if err != nil {
				return err
			}

			var script []fsm.Event
			if path, _ := cmd.Flags().GetString("script"); path != "" {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				if script, err = demo.LoadScript(f, scenario); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}

			m, steps, err := scenario.Run(config, script)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, step := range steps {
				verdict := fsm.Unhandled
				if step.Handled {
					verdict = fsm.Handled
				}
				fmt.Fprintf(out, "%s: %s\n", scenario.EventName(step.Event.ID), verdict)
			}
			fmt.Fprintf(out, "current state: %s\n", m.Current().Name())

			if withMetrics, _ := cmd.Flags().GetBool("metrics"); withMetrics {
				families, err := reg.Gather()
				if err != nil {
					return err
				}
				for _, family := range families {
					if _, err := expfmt.MetricFamilyToText(out, family); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().String("script", "", "YAML file listing the events to dispatch instead of the built-in script")
	cmd.Flags().Bool("metrics", false, "Print the collected Prometheus metrics after the run")
	return cmd
}
