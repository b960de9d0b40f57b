package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/OpenCHAMI/mpx/internal/format"
	"github.com/OpenCHAMI/mpx/pkg/mpx"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// receptacleTable prints a receptacle list in the list format.
type receptacleTable mpx.ReceptacleList

func (t receptacleTable) Header() []string {
	return []string{"LOCATION", "LABEL", "ENABLED", "LOCKED", "STATUS"}
}

func (t receptacleTable) Rows() [][]string {
	return lo.Map(t, func(e mpx.ReceptacleListEntry, _ int) []string {
		return []string{e.Location.String(), e.Label, strconv.FormatBool(e.Enabled), strconv.FormatBool(e.Locked), e.Status.String()}
	})
}

type eventTable mpx.EventList

func (t eventTable) Header() []string {
	return []string{"SEVERITY", "LOCATION", "EVENT"}
}

func (t eventTable) Rows() [][]string {
	return lo.Map(t, func(e mpx.Event, _ int) []string {
		return []string{e.Severity.String(), e.Location.String(), e.Type.String()}
	})
}

var receptaclesCmd = &cobra.Command{
	Use:     "receptacles <host>",
	Aliases: []string{"outlets"},
	Short:   "List the receptacles of a PDU",
	Example: "  mpx receptacles pdu-x3000m0 --format json",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		device, err := newDevice(args[0])
		if err != nil {
			return err
		}
		list, err := device.Receptacles(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read receptacles of %s: %w", args[0], err)
		}
		if outputFormat == format.FORMAT_LIST {
			return printOutput(cmd, receptacleTable(list))
		}
		return printOutput(cmd, list)
	},
}

var eventsCmd = &cobra.Command{
	Use:     "events <host>",
	Aliases: []string{"alarms"},
	Short:   "List the active events of a PDU",
	Long: "List the active alarms and warnings of a PDU. With --severity only events " +
		"of the given severities are shown.",
	Example: "  mpx events pdu-x3000m0 --severity alarm,warning",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		severities, err := cmd.Flags().GetStringSlice("severity")
		if err != nil {
			return err
		}
		wanted := make([]mpx.Severity, 0, len(severities))
		for _, s := range severities {
			var sev mpx.Severity
			if err := sev.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
				return fmt.Errorf("invalid severity %q: %w", s, err)
			}
			wanted = append(wanted, sev)
		}

		device, err := newDevice(args[0])
		if err != nil {
			return err
		}
		events, err := device.Events(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read events of %s: %w", args[0], err)
		}
		if len(wanted) > 0 {
			events = lo.Filter(events, func(e mpx.Event, _ int) bool {
				return lo.Contains(wanted, e.Severity)
			})
		}
		if outputFormat == format.FORMAT_LIST {
			return printOutput(cmd, eventTable(events))
		}
		return printOutput(cmd, events)
	},
}

func init() {
	eventsCmd.Flags().StringSlice("severity", nil, "Only show events of these severities (ok|info|warning|alarm)")
	rootCmd.AddCommand(receptaclesCmd, eventsCmd)
}
