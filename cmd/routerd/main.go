package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/synnergy-network/swaprouter/cmd/routerd/controllers"
	"github.com/synnergy-network/swaprouter/cmd/routerd/routes"
	"github.com/synnergy-network/swaprouter/cmd/routerd/ws"
	"github.com/synnergy-network/swaprouter/core"
	pkgconfig "github.com/synnergy-network/swaprouter/pkg/config"
	"github.com/synnergy-network/swaprouter/providers"
)

func main() {
	cfg, err := pkgconfig.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	derivation, err := core.NewDerivation(cfg.Mnemonic, cfg.WalletPassphrase)
	if err != nil {
		logrus.Fatalf("init derivation: %v", err)
	}

	store := core.NewInMemoryStore()
	classifier := core.NewClassifier()
	lifecycle := core.NewLifecycleManager(store, classifier, derivation)

	registry := providers.NewRegistry(providers.Config{
		ThorchainNodeURL:    cfg.ThorchainNodeURL,
		ThorchainMidgardURL: cfg.ThorchainMidgardURL,
		MayachainNodeURL:    cfg.MayachainNodeURL,
		MayachainMidgardURL: cfg.MayachainMidgardURL,
		ChainflipAPIURL:     cfg.ChainflipAPIURL,
		ChainflipAPIKey:     cfg.ChainflipAPIKey,
		CowSwapBaseURL:      cfg.CowSwapBaseURL,
		ZrxBaseURL:          cfg.ZrxBaseURL,
		RelayAPIURL:         cfg.RelayAPIURL,
		PortalsBaseURL:      cfg.PortalsBaseURL,
		JupiterAPIURL:       cfg.JupiterAPIURL,
	})

	cache := core.NewRouteCache()
	graph := core.NewRouteGraph(registry, cache)
	pathfinder := core.NewPathfinder(graph, cache)
	aggregator := core.NewAggregator(registry, nil, cache)

	ctx := context.Background()
	if err := graph.Rebuild(ctx); err != nil {
		logrus.Warnf("initial route graph rebuild failed: %v", err)
	}

	indexer := core.NewStubChainIndexer()
	monitor := core.NewDepositMonitor(lifecycle, indexer)
	go monitor.Run(ctx)

	core.RegisterMetrics(prometheus.DefaultRegisterer, cache, graph)

	hub := ws.NewHub(lifecycle)
	rc := controllers.NewRouterController(pathfinder, aggregator, lifecycle)

	r := mux.NewRouter()
	routes.Register(r, rc, hub, cfg.AllowedOrigins)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logrus.Infof("router server listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logrus.Fatal(err)
	}
}
