package main

import (
	"context"
	"flag"
	"time"

	"github.com/lintang-b-s/wayfinder/pkg/engine"
	"github.com/lintang-b-s/wayfinder/pkg/http"
	"github.com/lintang-b-s/wayfinder/pkg/http/usecases"
	"github.com/lintang-b-s/wayfinder/pkg/indoor"
	"github.com/lintang-b-s/wayfinder/pkg/logger"
	"github.com/lintang-b-s/wayfinder/pkg/util"
	"go.uber.org/zap"
)

var (
	snapshotPath = flag.String("snapshot", "./data/wayfinder.graph", "road graph snapshot path")
	queryTimeout = flag.Duration("query_timeout", 30*time.Second, "per-query routing deadline")
	useRateLimit = flag.Bool("rate_limit", false, "enable per-ip rate limiting")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	if err := util.ReadConfig(); err != nil {
		logger.Warn("config file not found, using defaults", zap.Error(err))
	}

	routingEngine := engine.NewEngine(logger)

	// the graph loads in the background. queries arriving before it finishes
	// get a data-unavailable response instead of blocking.
	go func() {
		if err := routingEngine.LoadSnapshot(*snapshotPath); err != nil {
			logger.Error("failed to load graph snapshot", zap.Error(err),
				zap.String("path", *snapshotPath))
		}
	}()

	api := http.NewServer(logger)

	routingService := usecases.NewRoutingService(logger, routingEngine, *queryTimeout)
	classifier := indoor.NewClassifier(logger)

	ctx, cleanup := context.WithCancel(context.Background())

	api.Use(ctx, logger, *useRateLimit, routingService, classifier)

	signal := http.GracefulShutdown()

	logger.Info("Wayfinder Routing Engine Server Stopped", zap.String("signal", signal.String()))
	cleanup()
}
