package main

import (
	"encoding/json"
	"flag"
	"fleetblock-backend/lib/configutil"
	"fleetblock-backend/lib/serviceutil"
	"fleetblock-backend/lib/timezone"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Config struct {
	Port int `json:"port"`
	// origins allowed to call the api from a browser, empty allows all
	CorsOrigins []string      `json:"cors_origins"`
	Timezone    string        `json:"timezone"`
	Blocked     BlockedConfig `json:"blocked"`
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	configPath := flag.String("config", "config.json5", "Path to the config file.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	shutdown := InitTelemetry(ctx, *verbose)
	defer shutdown()

	defaults := Config{Port: 8000}
	cfg, err := configutil.ReadConfigWithDefaults(*configPath, defaults)
	if os.IsNotExist(err) {
		slog.Warn("config not found, using defaults", "path", *configPath)
		cfg = defaults
	} else if err != nil {
		serviceutil.Fatal("read config", err)
	}
	err = timezone.SetLocation(cfg.Timezone)
	if err != nil {
		serviceutil.Fatal("load timezone", err)
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(serviceutil.RequestLogger(slog.Default()))
	r.Use(chimiddleware.Recoverer)
	r.Use(serviceutil.CORS(cfg.CorsOrigins))

	r.Get("/healthz", healthz)
	err = InitBlocked(r, cfg.Blocked)
	if err != nil {
		serviceutil.Fatal("init blocked service", err)
	}

	err = serviceutil.StartHttpServer(ctx, cfg.Port, r)
	if err != nil {
		serviceutil.Fatal("http server", err)
	}
}
