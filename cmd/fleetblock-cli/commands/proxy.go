package commands

import (
	"fleetblock-backend/lib/serviceutil"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(proxyCmd)
}

var proxyCmd = &cobra.Command{
	Use:   "proxy <url>",
	Short: "Logs in and prints the raw upstream response of a url or path on the rcm site.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		client := newClient(cfg)
		session := login(cmd.Context(), cfg, client)

		res, err := client.RawGet(cmd.Context(), session, args[0])
		if err != nil {
			serviceutil.Fatal("failed to fetch url", err)
		}
		fmt.Fprintf(os.Stderr, "status %d, %s\n", res.Status, res.ContentType)
		fmt.Println(res.Body)
	},
}
