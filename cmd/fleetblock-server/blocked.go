package main

import (
	"fleetblock-backend/lib/scrapers/rcm"
	"fleetblock-backend/lib/serviceutil"
	"fleetblock-backend/services/blocked"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
)

// requests are small json documents, anything bigger is not from the dashboard
const maxRequestBytes = 1 << 20

type BlockedConfig struct {
	Upstream rcm.Config `json:"upstream"`
	blocked.Config
}

func InitBlocked(r chi.Router, cfg BlockedConfig) error {
	client, err := rcm.NewClient(cfg.Upstream.Options())
	if err != nil {
		return err
	}

	service := blocked.NewService(client, cfg.Config.Options())
	path, handler := blocked.NewBlockedServiceHandler(
		service,
		serviceutil.WithJSONCodec(),
		connect.WithReadMaxBytes(maxRequestBytes),
		connect.WithInterceptors(serviceutil.NewConnectOtelInterceptor()),
	)
	r.Mount(path, handler)
	return nil
}
