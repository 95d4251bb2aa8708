// Command admin runs the proposal/voting authority service: it owns the
// voting-power oracle and the unified proposal state machine, and is the
// only caller the Backend's mirror calls ever reach.
package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lpdao/govcore/internal/admin"
	"github.com/lpdao/govcore/internal/config"
	"github.com/lpdao/govcore/internal/events"
	"github.com/lpdao/govcore/internal/identity"
	"github.com/lpdao/govcore/internal/obslog"
	"github.com/lpdao/govcore/internal/oracle"
	"github.com/lpdao/govcore/internal/proposal"
	"github.com/lpdao/govcore/internal/station"
	"github.com/lpdao/govcore/internal/transport"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file overlaying the defaults")
	flag.Parse()

	startupLog := logrus.New()
	startupLog.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadAdmin(*configPath)
	if err != nil {
		startupLog.WithError(err).Fatal("loading admin config")
	}

	backendPrincipal, err := identity.FromText(cfg.BackendPrincipalHex)
	if err != nil {
		startupLog.WithError(err).Fatal("parsing backend_principal_hex")
	}
	if backendPrincipal.IsAnonymous() {
		startupLog.Fatal("backend_principal_hex must be set to the Backend service's own principal")
	}

	logger := obslog.New("admin")

	venue := oracle.NewHTTPVenue(cfg.VenueURL, 15*time.Second)
	factory := oracle.NewHTTPFactory(cfg.FactoryURL, 15*time.Second)
	vpOracle := oracle.New(venue, factory, cfg.FactoryCacheTTL, logger)

	stationClient := station.NewHTTPClient(func(identity.Principal) string { return cfg.StationURL }, 15*time.Second)
	backendClient := admin.NewHTTPBackendClient(cfg.BackendURL, 15*time.Second)

	bus := events.NewBus(logger)

	store := proposal.NewStore(proposal.Config{
		BackendPrincipal:   backendPrincipal,
		VPFallbackSentinel: cfg.VPFallbackSentinel,
		MinimumQuorumUnits: cfg.MinimumQuorumUnits,
	}, vpOracle, stationClient, backendClient, bus, logger)

	svc := admin.NewService(store, logger)

	e := transport.NewRouter()
	admin.RegisterRoutes(e, svc, bus)

	obslog.Info(logger, "starting admin service", "listen_addr", cfg.ListenAddr, "backend_url", cfg.BackendURL)
	startupLog.WithFields(logrus.Fields{
		"listen_addr": cfg.ListenAddr,
		"backend_url": cfg.BackendURL,
		"station_url": cfg.StationURL,
	}).Info("admin listening")

	if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
		startupLog.WithError(err).Fatal("admin server stopped")
	}
}
