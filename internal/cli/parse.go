package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/invgen/internal/config"
	"github.com/roach88/invgen/internal/proglang"
)

// ParseResult describes a declared type and, optionally, a parsed value.
type ParseResult struct {
	Type             string `json:"type"`
	Base             string `json:"base"`
	Dimensions       int    `json:"dimensions"`
	PseudoDimensions int    `json:"pseudo_dimensions"`
	RepType          string `json:"rep_type"`
	ElementType      string `json:"element_type,omitempty"`
	Scalar           bool   `json:"scalar"`

	// Value is the input re-rendered from the parsed value.
	Value *string `json:"value,omitempty"`
}

// String renders the result the way it is printed in text mode.
func (r ParseResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "type:       %s\n", r.Type)
	fmt.Fprintf(&sb, "base:       %s\n", r.Base)
	fmt.Fprintf(&sb, "dimensions: %d (pseudo %d)\n", r.Dimensions, r.PseudoDimensions)
	fmt.Fprintf(&sb, "rep type:   %s", r.RepType)
	if r.ElementType != "" {
		fmt.Fprintf(&sb, "\nelement:    %s", r.ElementType)
	}
	if r.Value != nil {
		fmt.Fprintf(&sb, "\nvalue:      %s", *r.Value)
	}
	return sb.String()
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <type> [value]",
		Short: "Show how a declared type and value are read",
		Long: `Show the canonical form of a declared type and, when a value is given,
how that value text parses.

The value is parsed through the type's representation type, exactly as
trace samples are, and printed back in trace syntax. Types named in
proglang.list_types gain a pseudo dimension.

Examples:
  invgen parse int[] "[1 2 3]"
  invgen parse pointer 12345
  invgen parse java.util.Vector --set proglang.list_types=java.util.Vector`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runParse(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.Formatter(cmd)

	settings, err := opts.Settings()
	if err != nil {
		return settingsError(formatter, err)
	}
	reg := proglang.NewRegistry(
		proglang.WithListTypes(settings.Strings(config.ProglangListTypes)...),
		proglang.WithLogger(opts.Logger(cmd.ErrOrStderr())),
	)

	typ := reg.Parse(args[0])
	rep := reg.RepParse(args[0]).ToRepType()
	result := ParseResult{
		Type:             typ.String(),
		Base:             typ.Base(),
		Dimensions:       typ.Dimensions(),
		PseudoDimensions: typ.PseudoDimensions(),
		RepType:          rep.String(),
		Scalar:           typ.IsScalar(),
	}
	if elem, err := typ.ElementType(); err == nil {
		result.ElementType = elem.String()
	}

	if len(args) == 2 {
		v, err := rep.ParseValue(args[1])
		if err != nil {
			_ = formatter.Error(ErrCodeBadValue, err.Error(), result)
			return WrapExitError(ExitFailure, "value does not parse", err)
		}
		text := proglang.Format(v)
		result.Value = &text
	}

	return formatter.Success(result)
}
