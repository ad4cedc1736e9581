package commands

import (
	"encoding/json"
	"fleetblock-backend/lib/serviceutil"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Logs in with the configured credentials and prints the session cookies as json.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		session := login(cmd.Context(), cfg, newClient(cfg))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err := enc.Encode(session.Cookies)
		if err != nil {
			serviceutil.Fatal("failed to write cookies", err)
		}
	},
}
