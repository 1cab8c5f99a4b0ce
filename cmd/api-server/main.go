package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/beautyshop/beautyshop-server/internal/api"
	"github.com/beautyshop/beautyshop-server/internal/appointment"
	"github.com/beautyshop/beautyshop-server/internal/catalog"
	"github.com/beautyshop/beautyshop-server/internal/clientbook"
	"github.com/beautyshop/beautyshop-server/internal/config"
	"github.com/beautyshop/beautyshop-server/internal/db"
	"github.com/beautyshop/beautyshop-server/internal/expense"
	redisclient "github.com/beautyshop/beautyshop-server/internal/redis"
	"github.com/beautyshop/beautyshop-server/internal/schedule"
	"github.com/beautyshop/beautyshop-server/internal/stats"
	"github.com/beautyshop/beautyshop-server/internal/user"
)

const version = "1.0.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s", cfg.Env, cfg.HTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	apptRepo := appointment.NewPgRepository(pgPool)
	engine := schedule.NewEngine(apptRepo, appointment.DefaultOccupying)
	locker := redisclient.NewRedisOwnerLocker(rdb, cfg.LockTTL)
	appts := appointment.NewService(apptRepo, engine, locker)

	userRepo := user.NewPgRepository(pgPool)
	issuer := user.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	expenseRepo := expense.NewPgRepository(pgPool)

	router := api.NewRouter(api.RouterConfig{
		Appointments: appts,
		Users:        userRepo,
		Issuer:       issuer,
		Services:     catalog.NewPgRepository(pgPool),
		Clients:      clientbook.NewPgRepository(pgPool),
		Expenses:     expenseRepo,
		Stats:        stats.NewService(apptRepo, expenseRepo),
		PgPool:       pgPool,
		Redis:        rdb,
		Env:          cfg.Env,
		Version:      version,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()

	log.Println("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
