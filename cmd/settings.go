package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/OpenCHAMI/mpx/pkg/mpx"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the settings of a PDU, branch or receptacle",
	Long: "Show the user-editable settings of a PDU, branch or receptacle. With --set, " +
		"--label or --asset-tag the current settings are read, the given keys are " +
		"replaced and the whole settings form is written back.",
}

// applySettings sets the keys of settings named by the yaml tags of its
// fields from "key=value" assignments. Values are typed the way YAML types
// plain scalars.
func applySettings(settings any, assignments []string) error {
	b, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	var current map[string]any
	if err := yaml.Unmarshal(b, &current); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	keys := lo.Keys(current)
	slices.Sort(keys)

	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", a)
		}
		key = strings.TrimSpace(key)
		if _, known := current[key]; !known {
			return fmt.Errorf("unknown setting %q (one of %s)", key, strings.Join(keys, ", "))
		}
		node := yaml.Node{
			Kind: yaml.MappingNode,
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Value: key},
				{Kind: yaml.ScalarNode, Value: value},
			},
		}
		if err := node.Decode(settings); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}
	return nil
}

// updateSettings reads the settings of the entity at loc, applies the
// assignments and writes them back. It returns the settings as written, or
// as read when there was nothing to change.
func updateSettings(ctx context.Context, device *mpx.Device, loc mpx.Location, assignments []string) (any, error) {
	switch loc.Level() {
	case mpx.LevelPDU:
		info, err := device.PDUInfo(ctx, loc.PDU)
		if err != nil {
			return nil, err
		}
		s := info.Settings
		if len(assignments) == 0 {
			return s, nil
		}
		if err := applySettings(&s, assignments); err != nil {
			return nil, err
		}
		return s, device.SetPDUSettings(ctx, loc.PDU, s)
	case mpx.LevelBranch:
		info, err := device.BranchInfo(ctx, loc.PDU, loc.Branch)
		if err != nil {
			return nil, err
		}
		s := info.Settings
		if len(assignments) == 0 {
			return s, nil
		}
		if err := applySettings(&s, assignments); err != nil {
			return nil, err
		}
		return s, device.SetBranchSettings(ctx, loc.PDU, loc.Branch, s)
	default:
		info, err := device.ReceptacleInfo(ctx, loc)
		if err != nil {
			return nil, err
		}
		s := info.Settings
		if len(assignments) == 0 {
			return s, nil
		}
		if err := applySettings(&s, assignments); err != nil {
			return nil, err
		}
		return s, device.SetReceptacleSettings(ctx, loc, s)
	}
}

// settingsAssignments collects --set and the shortcut flags into key=value
// assignments.
func settingsAssignments(cmd *cobra.Command) ([]string, error) {
	assignments, err := cmd.Flags().GetStringArray("set")
	if err != nil {
		return nil, err
	}
	shortcuts := map[string]string{"label": "label", "asset-tag-1": "asset_tag_1", "asset-tag-2": "asset_tag_2"}
	for _, flag := range []string{"label", "asset-tag-1", "asset-tag-2"} {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetString(flag)
			assignments = append(assignments, shortcuts[flag]+"="+v)
		}
	}
	return assignments, nil
}

func newSettingsCmd(level mpx.Level, example string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     fmt.Sprintf("%s <host> <location>", level),
		Short:   fmt.Sprintf("Show or change the settings of a %s", level),
		Example: example,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := parseLocationArg(args[1], level)
			if err != nil {
				return err
			}
			assignments, err := settingsAssignments(cmd)
			if err != nil {
				return err
			}
			device, err := newDevice(args[0])
			if err != nil {
				return err
			}
			settings, err := updateSettings(cmd.Context(), device, loc, assignments)
			if err != nil {
				return fmt.Errorf("failed to update settings of %s %s of %s: %w", level, loc, args[0], err)
			}
			if len(assignments) > 0 {
				log.Info().Str("host", args[0]).Str("location", loc.String()).Strs("set", assignments).Msg("settings saved")
			}
			return printOutput(cmd, settings)
		},
	}
	cmd.Flags().StringArray("set", nil, "Set a setting as key=value, e.g. over_current_alarm_threshold=80")
	cmd.Flags().String("label", "", "Set the user assigned label")
	cmd.Flags().String("asset-tag-1", "", "Set the first asset tag")
	cmd.Flags().String("asset-tag-2", "", "Set the second asset tag")
	return cmd
}

func init() {
	settingsCmd.AddCommand(
		newSettingsCmd(mpx.LevelPDU, "  mpx settings pdu pdu-x3000m0 1 --set l1_over_current_alarm_threshold=90"),
		newSettingsCmd(mpx.LevelBranch, "  mpx settings branch pdu-x3000m0 1-2 --label rack-a"),
		newSettingsCmd(mpx.LevelReceptacle, "  mpx settings receptacle pdu-x3000m0 1-2-3 --set control_locked=true"),
	)
	rootCmd.AddCommand(settingsCmd)
}
