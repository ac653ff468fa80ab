package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/team-builder/internal/allocation"
	"github.com/spigell/team-builder/internal/metrics"
	"github.com/spigell/team-builder/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve allocations over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address. Default is :8080")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, config := setup("serve")

	src := openSource(ctx, config, logger)
	defer src.Close()

	dataset := loadDataset(ctx, src, prepareFilters(config, logger), logger)

	m := metrics.NewManager()
	if err := registerRuntimeCollectors(m.Registry()); err != nil {
		logger.Fatal("registering runtime metrics", zap.Error(err))
	}
	allocator := allocation.New(
		allocation.WithLogger(logger),
		allocation.WithSource(src.Name()),
		allocation.WithRecorder(m),
	)

	srv := server.New(dataset, allocator, m, logger, server.Config{MaxPerSkill: config.MaxPerSkill})

	addr := ":8080"
	if config.Server != nil && config.Server.Addr != "" {
		addr = config.Server.Addr
	}

	if err := srv.ListenAndServe(ctx, addr); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}
}

// registerRuntimeCollectors adds Go runtime and process metrics to the
// registry served on /metrics.
func registerRuntimeCollectors(registry *prometheus.Registry) error {
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return err
	}
	return registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}
