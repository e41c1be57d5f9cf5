package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"github.com/danielpatrickdp/wordle-solver/internal/rpc"
	"github.com/danielpatrickdp/wordle-solver/internal/solver"
)

// #region main
func main() {
	addr := flag.String("addr", envOr("WORDLE_ADDR", "localhost:50061"), "gRPC listen address")
	metricsAddr := flag.String("metrics", envOr("WORDLE_METRICS_ADDR", "localhost:9106"), "Prometheus /metrics address; empty disables it")
	prewarm := flag.Bool("prewarm", false, "fill the cache for every language before serving")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	cfg := solver.DefaultConfig()
	s, store, err := solver.Open(cfg, logger)
	if err != nil {
		log.Fatalf("failed to open solver: %v", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *prewarm {
		for _, code := range s.Registry.Codes() {
			res, err := s.Prewarm(ctx, code, nil)
			if err != nil {
				logger.Printf("prewarm %s: %v", code, err)
				continue
			}
			logger.Printf("prewarm %s: %d computed, %d cached, %d empty", code, res.Computed, res.Cached, res.Empty)
		}
	}

	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("listen %s: %v", *addr, err)
	}
	g := grpc.NewServer(grpc.UnaryInterceptor(rpc.UnaryInterceptor(logger)))
	rpc.Register(g, rpc.NewServer(s, logger))

	var metrics *http.Server
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metrics = &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("metrics server: %v", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		logger.Println("shutting down")
		if metrics != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			metrics.Shutdown(shutdownCtx)
			cancel()
		}
		g.GracefulStop()
	}()

	logger.Printf("serving %s on %s (languages: %v, metrics: %q)", rpc.ServiceName, *addr, s.Registry.Codes(), *metricsAddr)
	if err := g.Serve(lis); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
// #endregion main

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
// #endregion helpers
