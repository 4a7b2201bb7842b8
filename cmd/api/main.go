package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/db"
	httpx "github.com/geocoder89/userhub/internal/http"
	"github.com/geocoder89/userhub/internal/http/flash"
	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/repo/mongodb"
)

func main() {
	// missing .env is fine in containers, env comes from the orchestrator
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	shutdownTracer, err := observability.InitTracer(context.Background(), "userhub", cfg.OTLPEndpoint)

	if err != nil {
		log.Warn("tracing disabled", "err", err)
	}

	client, err := db.Connect(cfg.MongoURI)

	if err != nil {
		log.Error("mongo connect failed", "err", err)
		os.Exit(1)
	}

	database := client.Database(cfg.DBName)

	bootCtx, cancelBoot := config.WithTimeout(10 * time.Second)

	err = db.EnsureIndexes(bootCtx, database)

	if err != nil {
		cancelBoot()
		log.Error("ensure indexes failed", "err", err)
		os.Exit(1)
	}

	err = db.EnsureAdminUser(bootCtx, database, cfg)

	if err != nil {
		cancelBoot()
		log.Error("seed admin failed", "err", err)
		os.Exit(1)
	}

	cancelBoot()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	fc := flash.NewCodec(cfg.SessionSecret, !cfg.IsDev())
	store := mongodb.NewUsersRepo(database.Collection(db.UsersCollection), prom)

	ping := func() error {
		ctx, cancel := config.WithTimeout(1 * time.Second)
		defer cancel()

		return client.Ping(ctx, nil)
	}

	handler := httpx.NewRouter(httpx.Deps{
		Log:           log,
		Cfg:           cfg,
		Store:         store,
		Flash:         fc,
		Prom:          prom,
		Metrics:       promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Ping:          ping,
		Limiter:       middlewares.NewRateLimiter(30, time.Minute),
		TemplatesGlob: "web/templates/*.tmpl",
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}

		err = client.Disconnect(ctx)

		if err != nil {
			log.Error("mongo disconnect failed", "err", err)
		}

		if shutdownTracer != nil {
			err = shutdownTracer(ctx)

			if err != nil {
				log.Error("tracer shutdown failed", "err", err)
			}
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
