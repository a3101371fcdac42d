package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/zvrva/skyfare/api"
	"github.com/zvrva/skyfare/config"
	"github.com/zvrva/skyfare/internal/service/booking"
	"github.com/zvrva/skyfare/internal/service/flights"
	"github.com/zvrva/skyfare/internal/service/pricing"
	"github.com/zvrva/skyfare/internal/service/wallet"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	flightSvc flights.FlightUseCase,
	bookingSvc booking.BookingUseCase,
	pricingSvc pricing.PricingUseCase,
	ledger wallet.LedgerUseCase,
) error {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	apiGroup := router.Group("/api")
	api.NewFlightHandler(flightSvc).Register(apiGroup.Group("/flights"))
	api.NewBookingHandler(bookingSvc, pricingSvc, flightSvc).Register(apiGroup.Group("/bookings"))
	api.NewWalletHandler(ledger).Register(apiGroup.Group("/wallet"))

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
