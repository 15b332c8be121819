package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erpdesk/erpdesk-api/internal/infrastructure/database"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/handler"
	"github.com/erpdesk/erpdesk-api/internal/presentation/http/routes"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const defaultJWTSecret = "change-this-secret-in-production"

func newServeCommand(opts *rootOptions) *cobra.Command {
	var noJobs bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and scheduled jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.loadConfig()
			if cfg.App.IsProduction() {
				if cfg.JWT.Secret == defaultJWTSecret {
					return errors.New("JWT_SECRET must be set in production")
				}
				gin.SetMode(gin.ReleaseMode)
			}

			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := database.SeedDefaultData(a.db, &cfg.Admin); err != nil {
				log.Printf("Warning: Failed to seed default data: %v", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !noJobs {
				jobs, err := a.newScheduler()
				if err != nil {
					return err
				}
				jobs.Start()
				defer func() {
					stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
					defer cancel()
					jobs.Stop(stopCtx)
				}()
			}

			rateLimiter := routes.NewRateLimiter(&cfg.RateLimit)
			defer rateLimiter.Stop()

			router := routes.Setup(a.handlers(), &routes.Deps{
				JWTManager:      a.jwtManager,
				Cfg:             cfg,
				IdempotencyRepo: a.idempotencyRepo,
				RateLimiter:     rateLimiter,
			})

			port := cfg.App.Port
			if port == "" {
				port = "8080"
			}
			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
				log.Printf("Environment: %s, database: %s", cfg.App.Env, cfg.Database.Path)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Println("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&noJobs, "no-jobs", false, "do not start the cron scheduler")
	return cmd
}

// handlers builds every HTTP handler from the app's services
func (a *app) handlers() *routes.Handlers {
	return &routes.Handlers{
		Health:    handler.NewHealthHandler(a.reportRepo, a.cfg.App.Name),
		Auth:      handler.NewAuthHandler(a.authService),
		User:      handler.NewUserHandler(a.userService),
		Supplier:  handler.NewSupplierHandler(a.supplierService),
		Customer:  handler.NewCustomerHandler(a.customerService),
		Item:      handler.NewItemHandler(a.itemService),
		Purchase:  handler.NewPurchaseHandler(a.purchaseService),
		Sale:      handler.NewSaleHandler(a.saleService),
		Inventory: handler.NewInventoryHandler(a.inventoryService),
		Finance:   handler.NewFinanceHandler(a.financeService),
		Dashboard: handler.NewDashboardHandler(a.dashboardService),
		Backup:    handler.NewBackupHandler(a.backupService),
	}
}
