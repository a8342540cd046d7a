package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jihanki/backend/internal/cache"
	"jihanki/backend/internal/config"
	"jihanki/backend/internal/device"
	"jihanki/backend/internal/domain"
	"jihanki/backend/internal/history"
	"jihanki/backend/internal/history/memory"
	pghistory "jihanki/backend/internal/history/postgres"
	"jihanki/backend/internal/httpapi"
	"jihanki/backend/internal/service"
)

func main() {
	cfg := config.Load()
	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var hist history.Repository
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pghistory.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start with in-memory fallback", err)
		}
		hist = pg
		closers = append(closers, pg.Close)
		log.Println("history: postgres")
	} else {
		hist = memory.New()
		log.Println("history: in-memory")
	}

	reportCache := cache.ReportCache(cache.NoopReportCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisReportCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), using noop cache", err)
		} else {
			reportCache = redisCache
			closers = append(closers, redisCache.Close)
			log.Println("cache: redis")
		}
	} else {
		log.Println("cache: noop")
	}

	inv, err := seedInventory()
	if err != nil {
		log.Fatalf("seed inventory: %v", err)
	}

	svc := service.New(service.Deps{
		Inventory:   inv,
		History:     hist,
		Dispenser:   device.NewSimulatedDispenser(),
		CoinMech:    device.NewSimulatedCoinMech(),
		Gateway:     device.NewSimulatedPaymentGateway(),
		ReportCache: reportCache,
		ReportTTL:   time.Duration(cfg.ReportTTLSeconds) * time.Second,
		SalesID:     domain.SalesID(cfg.MachineSalesID),
	})
	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, cfg.AdminUsername, cfg.AdminPassword)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("vending machine backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}

// seedInventory loads the machine's initial planogram. Slots can be added
// or restocked later through the admin API.
func seedInventory() (*domain.Inventory, error) {
	inv := domain.NewInventory()

	seed := []struct {
		id    int
		name  string
		price int64
		stock int
	}{
		{1, "Cola", 120, 10},
		{2, "Water", 100, 10},
		{3, "Green Tea", 130, 10},
	}
	for _, s := range seed {
		slotID, err := domain.NewSlotID(s.id)
		if err != nil {
			return nil, err
		}
		price, err := domain.NewMoney(s.price)
		if err != nil {
			return nil, err
		}
		info, err := domain.NewProductInfo(s.name, price)
		if err != nil {
			return nil, err
		}
		qty, err := domain.NewQuantity(s.stock)
		if err != nil {
			return nil, err
		}
		if err := inv.AddSlot(domain.NewProductSlot(slotID, info, qty)); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	if len(cfg.AdminPassword) < 8 {
		return fmt.Errorf("ADMIN_PASSWORD must be set and at least 8 characters")
	}
	if len(cfg.AdminPassword) > 72 {
		return fmt.Errorf("ADMIN_PASSWORD must be at most 72 bytes (bcrypt limit)")
	}
	return nil
}
