// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariebrainware/clinic-care/config"
	"github.com/ariebrainware/clinic-care/endpoint"
	"github.com/ariebrainware/clinic-care/model"
	"github.com/ariebrainware/clinic-care/util"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-care",
		Short: "Clinic appointments, diet plans and prescriptions API",
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd(), seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "run migrations before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			if err := model.Migrate(db); err != nil {
				return err
			}
			util.Logger().Info().Msg("migrations applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert one bootstrap account per staff role",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("--password is required")
			}
			db, err := openDatabase()
			if err != nil {
				return err
			}
			if err := model.Migrate(db); err != nil {
				return err
			}
			if err := model.SeedAccounts(db, model.DefaultAccounts(password)); err != nil {
				return err
			}
			util.Logger().Info().Msg("bootstrap accounts seeded")
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", os.Getenv("SEED_PASSWORD"), "password for the seeded accounts")
	return cmd
}

func openDatabase() (*gorm.DB, error) {
	cfg := config.LoadConfig()
	util.ConfigureLogger(cfg.AppEnv, cfg.LogLevel)
	db, err := config.ConnectDatabase()
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

func runServer(migrate bool) error {
	cfg := config.LoadConfig()
	db, err := openDatabase()
	if err != nil {
		return err
	}
	if migrate {
		if err := model.Migrate(db); err != nil {
			return err
		}
	}

	if _, err := config.ConnectRedis(); err != nil {
		util.Logger().Warn().Err(err).Msg("redis unavailable, rate limiting and schedule locks disabled")
	}
	if cfg.GeoIPDBPath != "" {
		if err := util.InitGeoIP(cfg.GeoIPDBPath); err != nil {
			util.Logger().Warn().Err(err).Msg("geoip disabled")
		}
		defer util.CloseGeoIP()
	}
	util.InitUserNameCache(cfg.UserNameCacheSize)
	util.SetAuditLoggerDB(db)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	endpoint.RegisterRoutes(router, db, endpoint.RouteOptions{CORSOrigins: cfg.CORSOrigins})

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.AppPort),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		util.Logger().Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
	case <-quit:
	}

	util.Logger().Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
