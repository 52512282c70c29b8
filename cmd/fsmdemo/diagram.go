package main

import (
	"github.com/openwebos/fsm/internal/demo"
	"github.com/openwebos/fsm/pkg/plantuml"
	"github.com/spf13/cobra"
)

func newDiagramCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagram <scenario>",
		Short: "Export the state diagram of a sample machine",
		Long: `Runs the named scenario and outputs a PlantUML state diagram of its
states, the transitions taken and the final current state.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := demo.Lookup(args[0])
			if err != nil {
				return err
			}
			recorder := &plantuml.Recorder{EventName: scenario.EventName}
			config, err := machineConfig(cmd, recorder.Hooks())
			if err != nil {
				return err
			}
			m, _, err := scenario.Run(config)
			if err != nil {
				return err
			}
			return plantuml.Generate(cmd.OutOrStdout(), m, recorder)
		},
	}
}
