// Command backend runs the request-constructor / projection service: it
// owns the token↔station binding and builds every governable Station
// request before asking the Admin service to mirror it as a proposal.
package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lpdao/govcore/internal/backend"
	"github.com/lpdao/govcore/internal/binding"
	"github.com/lpdao/govcore/internal/config"
	"github.com/lpdao/govcore/internal/identity"
	"github.com/lpdao/govcore/internal/metadata"
	"github.com/lpdao/govcore/internal/obslog"
	"github.com/lpdao/govcore/internal/station"
	"github.com/lpdao/govcore/internal/transport"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file overlaying the defaults")
	flag.Parse()

	startupLog := logrus.New()
	startupLog.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadBackend(*configPath)
	if err != nil {
		startupLog.WithError(err).Fatal("loading backend config")
	}

	self, err := identity.FromText(cfg.SelfPrincipalHex)
	if err != nil {
		startupLog.WithError(err).Fatal("parsing self_principal_hex")
	}
	if self.IsAnonymous() {
		startupLog.Fatal("self_principal_hex must be set to the Backend's own principal")
	}

	logger := obslog.New("backend")

	bindings := binding.NewStore()
	stationClient := station.NewHTTPClient(func(identity.Principal) string { return cfg.StationURL }, 15*time.Second)
	adminClient := backend.NewHTTPAdminClient(cfg.AdminURL, 15*time.Second)
	metadataClient := metadata.NewClient(cfg.IPFSNodeURL)

	svc := backend.NewService(self, bindings, stationClient, adminClient, metadataClient, logger)

	e := transport.NewRouter()
	backend.RegisterRoutes(e, svc)

	obslog.Info(logger, "starting backend service", "listen_addr", cfg.ListenAddr, "admin_url", cfg.AdminURL)
	startupLog.WithFields(logrus.Fields{
		"listen_addr": cfg.ListenAddr,
		"admin_url":   cfg.AdminURL,
		"station_url": cfg.StationURL,
	}).Info("backend listening")

	if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
		startupLog.WithError(err).Fatal("backend server stopped")
	}
}
