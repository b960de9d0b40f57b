package cmd

import (
	"context"
	"fmt"

	"github.com/OpenCHAMI/mpx/pkg/mpx"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the status, events, settings and hardware of a PDU, branch or receptacle",
}

// readInfo reads the info page of the entity at loc.
func readInfo(ctx context.Context, device *mpx.Device, loc mpx.Location) (any, error) {
	switch loc.Level() {
	case mpx.LevelPDU:
		return device.PDUInfo(ctx, loc.PDU)
	case mpx.LevelBranch:
		return device.BranchInfo(ctx, loc.PDU, loc.Branch)
	default:
		return device.ReceptacleInfo(ctx, loc)
	}
}

func newInfoCmd(level mpx.Level, example string) *cobra.Command {
	return &cobra.Command{
		Use:     fmt.Sprintf("%s <host> <location>", level),
		Short:   fmt.Sprintf("Show the info page of a %s", level),
		Example: example,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := parseLocationArg(args[1], level)
			if err != nil {
				return err
			}
			device, err := newDevice(args[0])
			if err != nil {
				return err
			}
			info, err := readInfo(cmd.Context(), device, loc)
			if err != nil {
				return fmt.Errorf("failed to read %s %s of %s: %w", level, loc, args[0], err)
			}
			return printOutput(cmd, info)
		},
	}
}

func init() {
	infoCmd.AddCommand(
		newInfoCmd(mpx.LevelPDU, "  mpx info pdu pdu-x3000m0 1"),
		newInfoCmd(mpx.LevelBranch, "  mpx info branch pdu-x3000m0 1-2"),
		newInfoCmd(mpx.LevelReceptacle, "  mpx info receptacle pdu-x3000m0 1-2-3 --format json"),
	)
	rootCmd.AddCommand(infoCmd)
}
