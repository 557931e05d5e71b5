package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/meridianswap/swap-engine/internal/common"
	"github.com/meridianswap/swap-engine/internal/config"
	"github.com/meridianswap/swap-engine/internal/domain"
	"github.com/meridianswap/swap-engine/internal/gateway"
	"github.com/meridianswap/swap-engine/internal/http"
	"github.com/meridianswap/swap-engine/internal/services/risk"
	"github.com/meridianswap/swap-engine/internal/services/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	generalConf := &config.GeneralConfig{}
	if err := generalConf.Load(); err != nil {
		log.Error().Err(err).Msg("failed to load server config")
		return
	}
	routerConf := &config.RouterConfig{}
	if err := routerConf.Load(); err != nil {
		log.Error().Err(err).Msg("failed to load router config")
		return
	}
	riskConf := &config.RiskConfig{}
	if err := riskConf.Load(); err != nil {
		log.Error().Err(err).Msg("failed to load risk config")
		return
	}

	common.InitLogger(generalConf.LogLevel, generalConf.Env)

	fixtureGw, err := gateway.NewFixtureGateway(routerConf.FixturePath)
	if err != nil {
		log.Error().Err(err).Str("path", routerConf.FixturePath).Msg("failed to load pool fixture")
		return
	}
	cachedGw := gateway.NewCachedGateway(fixtureGw, routerConf.PoolCacheTTL)

	protocols := make([]domain.Protocol, len(routerConf.Protocols))
	for i, p := range routerConf.Protocols {
		protocols[i] = domain.Protocol(p)
	}

	routerSvc, err := router.New(cachedGw, router.Config{
		MaxHops:      routerConf.MaxHops,
		MaxSplits:    routerConf.MaxSplits,
		Protocols:    protocols,
		BridgeTokens: routerConf.BridgeTokens,
		GasPrice:     routerConf.GasPrice,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create router")
		return
	}

	history := risk.NewHistory(riskConf.HistoryCapacity)
	analyzer := risk.NewAnalyzer(*riskConf, history)

	httpSvc := http.NewHTTPService(generalConf, routerSvc, analyzer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSvc.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down services...")
		if err := httpSvc.Stop(); err != nil {
			log.Error().Err(err).Msg("error during shutdown")
		}
	}
	log.Info().Msg("shutdown complete")
}
