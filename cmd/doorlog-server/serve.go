package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/BrandonDHaskell/doorlog/internal/bridge"
	"github.com/BrandonDHaskell/doorlog/internal/config"
	"github.com/BrandonDHaskell/doorlog/internal/doorlog/service"
	"github.com/BrandonDHaskell/doorlog/internal/doorlog/store"
	"github.com/BrandonDHaskell/doorlog/internal/doorlog/store/memory"
	sqlitestore "github.com/BrandonDHaskell/doorlog/internal/doorlog/store/sqlite"
	"github.com/BrandonDHaskell/doorlog/internal/httpapi"
	"github.com/BrandonDHaskell/doorlog/internal/logger"
	"github.com/BrandonDHaskell/doorlog/internal/metrics"
)

type serveFlags struct {
	configPath string
	httpAddr   string
	bridgeAddr string
	backend    string
	logLevel   string
}

func newServeCmd() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the door bridge",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("config") {
				f.configPath = os.Getenv("DOORLOG_CONFIG")
			}
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("http-addr") {
				cfg.HTTP.Addr = f.httpAddr
			}
			if cmd.Flags().Changed("bridge-addr") {
				cfg.Bridge.Addr = f.bridgeAddr
			}
			if cmd.Flags().Changed("store") {
				cfg.Store.Backend = f.backend
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = f.logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "path to a YAML config file (env DOORLOG_CONFIG)")
	cmd.Flags().StringVar(&f.httpAddr, "http-addr", "", "HTTP listen address (env DOORLOG_HTTP_ADDR)")
	cmd.Flags().StringVar(&f.bridgeAddr, "bridge-addr", "", "gRPC bridge listen address, empty disables (env DOORLOG_BRIDGE_ADDR)")
	cmd.Flags().StringVar(&f.backend, "store", "", "store backend: memory or sqlite (env DOORLOG_STORE_BACKEND)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (env DOORLOG_LOG_LEVEL)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	log, err := logger.New(logger.Config{Env: cfg.Log.Env, Level: cfg.Log.Level})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	accessStore, doorStore, closeStores, err := openStores(ctx, cfg.Store.Backend)
	if err != nil {
		return err
	}
	defer closeStores()

	accessSvc := service.NewAccessLogService(accessStore, m)
	doorSvc := service.NewDoorService(doorStore, m)

	httpSrv := httpapi.NewServer(httpapi.Dependencies{
		Logger:            log,
		Addr:              cfg.HTTP.Addr,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		AccessLogService:  accessSvc,
		DoorService:       doorSvc,
		Metrics:           m,
	})

	// Bind the bridge before anything starts so a bad address fails fast.
	var bridgeLis net.Listener
	if cfg.Bridge.Addr != "" {
		bridgeLis, err = net.Listen("tcp", cfg.Bridge.Addr)
		if err != nil {
			return fmt.Errorf("bridge listen %s: %w", cfg.Bridge.Addr, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http listening", zap.String("addr", cfg.HTTP.Addr), zap.String("store", cfg.Store.Backend))
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if bridgeLis != nil {
		gs := bridge.NewGRPCServer(bridge.Dependencies{
			Logger:           log.Named("bridge"),
			AccessLogService: accessSvc,
			DoorService:      doorSvc,
		})

		g.Go(func() error {
			log.Info("bridge listening", zap.String("addr", cfg.Bridge.Addr))
			if err := gs.Serve(bridgeLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("bridge server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			gs.GracefulStop()
			return nil
		})
	}

	err = g.Wait()
	log.Info("shutdown complete")
	return err
}

func openStores(ctx context.Context, backend string) (store.AccessLogStore, store.DoorStateStore, func(), error) {
	switch backend {
	case config.BackendSQLite:
		b, err := sqlitestore.OpenBackend(ctx)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		return b.AccessLog, b.Door, func() { _ = b.Close() }, nil
	default:
		return memory.NewAccessLogStore(), memory.NewDoorStateStore(), func() {}, nil
	}
}
