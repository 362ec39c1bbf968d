// stubserver runs the in-memory marketplace backend on a local port so the
// CLI can be exercised without the real service. State is lost on exit.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/farmlink/marketcart/internal/api/apitest"
	"github.com/farmlink/marketcart/pkg/config"
	"github.com/farmlink/marketcart/pkg/logger"
	"github.com/farmlink/marketcart/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service: "stubserver",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	backend := apitest.NewBackend()
	seed(backend, log)

	addr := fmt.Sprintf(":%d", cfg.StubPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           backend.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("stub backend starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("stub backend error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	if err := server.Shutdown(stopCtx); err != nil {
		log.Error("stub backend shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}

// seed loads a small demo catalogue and one authenticated user so the CLI
// has something to work against out of the box.
func seed(b *apitest.Backend, log *slog.Logger) {
	const (
		token  = "dev-token"
		userID = "dev-user"
	)
	b.RegisterToken(token, userID)

	tomatoes := b.SeedProduct(apitest.Product{
		Title:       "Heirloom tomatoes (5kg crate)",
		Price:       25.00,
		ImageURL:    "https://stub.local/img/tomatoes.jpg",
		SellerID:    "seller-amina",
		SellerName:  "Amina's Farm",
		SellerPhone: "+261 34 00 000 01",
	})
	honey := b.SeedProduct(apitest.Product{
		Title:       "Wildflower honey (1L)",
		Price:       15.50,
		ImageURL:    "https://stub.local/img/honey.jpg",
		SellerID:    "seller-jao",
		SellerName:  "Jao Apiary",
		SellerPhone: "+261 34 00 000 02",
	})

	b.SeedCartItem(userID, tomatoes.ID, 2)
	b.SeedCartItem(userID, honey.ID, 1)

	log.Info("seeded demo data",
		slog.String("token", token),
		slog.String("user", userID),
	)
}
