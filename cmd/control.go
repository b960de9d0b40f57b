package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/OpenCHAMI/mpx/pkg/mpx"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var controlCmd = &cobra.Command{
	Use:   "control",
	Short: "Send a command to a PDU, branch or receptacle",
}

// sendCommand parses name as a command of the entity at loc and submits it.
func sendCommand(ctx context.Context, device *mpx.Device, loc mpx.Location, name string) error {
	switch loc.Level() {
	case mpx.LevelPDU:
		c, err := mpx.ParsePDUCommand(name)
		if err != nil {
			return err
		}
		return device.PDUCommand(ctx, loc.PDU, c)
	case mpx.LevelBranch:
		c, err := mpx.ParseBranchCommand(name)
		if err != nil {
			return err
		}
		return device.BranchCommand(ctx, loc.PDU, loc.Branch, c)
	default:
		c, err := mpx.ParseReceptacleCommand(name)
		if err != nil {
			return err
		}
		return device.ReceptacleCommand(ctx, loc, c)
	}
}

func newControlCmd(level mpx.Level, commands []string, example string) *cobra.Command {
	return &cobra.Command{
		Use:       fmt.Sprintf("%s <host> <location> <command>", level),
		Short:     fmt.Sprintf("Send a command to a %s (%s)", level, strings.Join(commands, "|")),
		Example:   example,
		Args:      cobra.ExactArgs(3),
		ValidArgs: commands,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := parseLocationArg(args[1], level)
			if err != nil {
				return err
			}
			device, err := newDevice(args[0])
			if err != nil {
				return err
			}
			if err := sendCommand(cmd.Context(), device, loc, args[2]); err != nil {
				return fmt.Errorf("failed to send %s to %s %s of %s: %w", args[2], level, loc, args[0], err)
			}
			log.Info().Str("host", args[0]).Str("location", loc.String()).Str("command", args[2]).Msg("command sent")
			return nil
		},
	}
}

func init() {
	controlCmd.AddCommand(
		newControlCmd(mpx.LevelPDU, mpx.PDUCommandNames(), "  mpx control pdu pdu-x3000m0 1 test-event"),
		newControlCmd(mpx.LevelBranch, mpx.BranchCommandNames(), "  mpx control branch pdu-x3000m0 1-2 reset-energy"),
		newControlCmd(mpx.LevelReceptacle, mpx.ReceptacleCommandNames(), "  mpx control receptacle pdu-x3000m0 1-2-3 reboot"),
	)
	rootCmd.AddCommand(controlCmd)
}
