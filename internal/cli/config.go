package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/invgen/internal/config"
)

// SwitchValue is the effective value of one switch.
type SwitchValue struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Value       any    `json:"value"`
	Default     bool   `json:"default"`
	Description string `json:"description"`

	text string
}

// SwitchList is the output of the config command.
type SwitchList struct {
	Switches []SwitchValue `json:"switches"`
}

// String renders the switches the way they are printed in text mode.
func (l SwitchList) String() string {
	width := 0
	for _, sw := range l.Switches {
		width = max(width, len(sw.Name))
	}
	var sb strings.Builder
	for i, sw := range l.Switches {
		if i > 0 {
			sb.WriteByte('\n')
		}
		marker := " "
		if !sw.Default {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s %-*s  %-7s  %s", marker, width, sw.Name, sw.Kind, sw.text)
	}
	return sb.String()
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective switches",
		Long: `Print every configuration switch with its effective value, after the
--config file and --set overrides are applied. Switches that differ from
their default are marked with "*".

Examples:
  invgen config
  invgen config --config ./invgen.cue --format json
  invgen config --set inv.oneof.size=3`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(rootOpts, cmd)
		},
	}

	return cmd
}

func runConfig(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.Formatter(cmd)

	settings, err := opts.Settings()
	if err != nil {
		return settingsError(formatter, err)
	}

	defaults := config.Defaults()
	list := SwitchList{}
	for _, sw := range config.Switches() {
		v, _ := settings.Get(sw.Name)
		list.Switches = append(list.Switches, SwitchValue{
			Name:        sw.Name,
			Kind:        sw.Kind.String(),
			Value:       v,
			Default:     settings.Format(sw.Name) == defaults.Format(sw.Name),
			Description: sw.Description,
			text:        settings.Format(sw.Name),
		})
	}
	return formatter.Success(list)
}
