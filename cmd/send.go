package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/OpenCHAMI/mpx/internal/format"
	"github.com/OpenCHAMI/mpx/internal/smd"
	urlx "github.com/OpenCHAMI/mpx/internal/url"
	"github.com/OpenCHAMI/mpx/internal/util"
	"github.com/OpenCHAMI/mpx/pkg/client"
	"github.com/OpenCHAMI/mpx/pkg/idmap"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var sendCmd = &cobra.Command{
	Use:   "send [hosts...]",
	Short: "Register the latest cached PDU snapshots with SMD",
	Long: "Map the latest cached snapshot of each host to a cabinet PDU controller and its " +
		"power connectors and register the controller with SMD. The controller xname comes " +
		"from --id-map, or from the host name or PDU label when that already is an xname " +
		"such as x3000m0.",
	Example: "  mpx send --smd-host https://smd.openchami.cluster\n" +
		"  mpx send pdu-x3000m0 --id-map @pdu-map.yaml --dry-run",
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		forceUpdate, _ := cmd.Flags().GetBool("force-update")

		c, err := openCache()
		if err != nil {
			return err
		}
		snaps, err := c.LatestSnapshots(args...)
		c.Close()
		if err != nil {
			return fmt.Errorf("failed to read snapshots: %w", err)
		}

		idMap := viper.GetString("smd.id-map")
		mapper, err := idmap.PickIDMapper(idMap, format.DataFormatFromFileExt(idMap, format.FORMAT_JSON))
		if err != nil {
			return err
		}
		exports, errs := smd.FromSnapshots(snaps, mapper)
		for _, err := range errs {
			log.Warn().Err(err).Msg("skipping PDU")
		}
		if dryRun {
			return printOutput(cmd, exports)
		}

		host := viper.GetString("smd.host")
		if host == "" {
			return fmt.Errorf("no SMD host set (--smd-host)")
		}
		host, err = urlx.Sanitize(host)
		if err != nil {
			return fmt.Errorf("invalid SMD host: %w", err)
		}
		token, err := util.LoadAccessToken(viper.GetString("access-token-file"))
		if err != nil {
			log.Warn().Err(err).Msg("could not load access token")
		}
		headers := client.HTTPHeader{}.Authorization(token).ContentType("application/json")

		var failed []error
		for _, export := range exports {
			body, err := json.Marshal(export.Endpoint)
			if err != nil {
				failed = append(failed, fmt.Errorf("failed to marshal %s: %w", export.Endpoint.ID, err))
				continue
			}
			smdClient := client.SmdClient{Client: newHTTPClient(), URI: host, Xname: export.Endpoint.ID}
			if err := client.Send(cmd.Context(), smdClient, body, headers, forceUpdate); err != nil {
				failed = append(failed, fmt.Errorf("failed to send %s: %w", export.Endpoint.ID, err))
				continue
			}
			log.Info().Str("xname", export.Endpoint.ID).Str("host", export.Endpoint.Hostname).
				Int("connectors", len(export.Connectors)).Msg("registered PDU controller")
		}
		return errors.Join(failed...)
	},
}

func init() {
	addFlag("smd.host", sendCmd, "smd-host", "", "", "Set the SMD base URL")
	addFlag("smd.id-map", sendCmd, "id-map", "", "", "Set the host to controller xname map as JSON or @file (JSON or YAML)")
	addFlag("access-token-file", sendCmd, "access-token-file", "", "", "Set the path to a file holding the SMD access token")
	sendCmd.Flags().Bool("dry-run", false, "Print the records instead of sending them")
	sendCmd.Flags().BoolP("force-update", "f", false, "Replace endpoints SMD already has")
	rootCmd.AddCommand(sendCmd)
}
