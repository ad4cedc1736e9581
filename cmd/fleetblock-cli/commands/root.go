package commands

import (
	"context"
	"fleetblock-backend/lib/configutil"
	"fleetblock-backend/lib/restyutil"
	"fleetblock-backend/lib/scrapers/rcm"
	"fleetblock-backend/lib/serviceutil"
	"fleetblock-backend/lib/telemetry"
	"fleetblock-backend/lib/timezone"
	"fleetblock-backend/services/blocked"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type Config struct {
	Username string         `json:"username"`
	Password string         `json:"password"`
	Timezone string         `json:"timezone"`
	Upstream rcm.Config     `json:"upstream"`
	Blocked  blocked.Config `json:"blocked"`
}

var (
	configPath string
	verbose    bool
	dumpDir    string
)

var shutdownTelemetry = func() {}

var rootCmd = &cobra.Command{
	Use:   "fleetblock-cli",
	Short: "fleetblock-cli queries the vehicles blocked for maintenance in rental car manager.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
		tel, err := telemetry.SetupFromEnv(cmd.Context(), "fleetblock-cli")
		if err != nil {
			serviceutil.Fatal("setup telemetry", err)
		}
		shutdownTelemetry = func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			tel.Shutdown(ctx)
		}

		if dumpDir != "" {
			out, err := restyutil.NewFilesystemOutput(dumpDir)
			if err != nil {
				serviceutil.Fatal("create resty output", err)
			}
			rcm.SetRestyInstrumentOutput(out)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdownTelemetry()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "Path to the config file.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging.")
	rootCmd.PersistentFlags().StringVar(&dumpDir, "dump", "", "Write every upstream request/response to this directory (requires -v).")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config](configPath)
	if os.IsNotExist(err) {
		return Config{}
	}
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	err = timezone.SetLocation(cfg.Timezone)
	if err != nil {
		serviceutil.Fatal("failed to load timezone", err)
	}
	return cfg
}

func newClient(cfg Config) *rcm.Client {
	client, err := rcm.NewClient(cfg.Upstream.Options())
	if err != nil {
		serviceutil.Fatal("failed to create rcm client", err)
	}
	return client
}

// login uses the credentials of the config, they can be overridden with
// the RCM_USERNAME and RCM_PASSWORD environment variables.
func login(ctx context.Context, cfg Config, client *rcm.Client) rcm.Session {
	username := cfg.Username
	if env := os.Getenv("RCM_USERNAME"); env != "" {
		username = env
	}
	password := cfg.Password
	if env := os.Getenv("RCM_PASSWORD"); env != "" {
		password = env
	}

	session, err := client.Login(ctx, username, password)
	if err != nil {
		serviceutil.Fatal("failed to login", err)
	}
	return session
}
