package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/teligen-kh/aicounsel/internal/profile"
	"github.com/teligen-kh/aicounsel/server/classifier"
	"github.com/teligen-kh/aicounsel/server/runner/index"
	apiv1 "github.com/teligen-kh/aicounsel/server/router/api/v1"
	"github.com/teligen-kh/aicounsel/store"
	"github.com/teligen-kh/aicounsel/store/db"
)

var (
	version = "dev"

	rootCmd = &cobra.Command{
		Use:   "aicounsel",
		Short: "Intent classification engine for customer counseling messages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			instanceProfile := &profile.Profile{
				Mode:            viper.GetString("mode"),
				Addr:            viper.GetString("addr"),
				Port:            viper.GetInt("port"),
				Data:            viper.GetString("data"),
				Driver:          viper.GetString("driver"),
				DSN:             viper.GetString("dsn"),
				RebuildInterval: viper.GetDuration("rebuild-interval"),
				Version:         version,
			}
			instanceProfile.FromEnv()
			if err := instanceProfile.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), instanceProfile)
		},
	}
)

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8082)
	viper.SetDefault("rebuild-interval", 5*time.Minute)

	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8082, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().Duration("rebuild-interval", 5*time.Minute, "how often the pattern index is rebuilt")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("aicounsel")
	viper.AutomaticEnv()
}

func run(ctx context.Context, instanceProfile *profile.Profile) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbDriver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return fmt.Errorf("failed to create db driver: %w", err)
	}

	st := store.New(dbDriver, instanceProfile)
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	matcher, err := classifier.NewMatcher(classifier.DefaultConfig(), st, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create matcher: %w", err)
	}

	var fallback classifier.FallbackClassifier
	if instanceProfile.IsFallbackEnabled() {
		fallback = classifier.NewLLMClassifier(classifier.LLMClassifierConfig{
			APIKey:  instanceProfile.FallbackAPIKey,
			BaseURL: instanceProfile.FallbackBaseURL,
			Model:   instanceProfile.FallbackModel,
		}, slog.Default())
		slog.Info("fallback classifier enabled", slog.String("model", instanceProfile.FallbackModel))
	}

	pipeline := classifier.NewPipeline(
		classifier.NewKeywordMatcher(),
		classifier.NewRuleEngine(),
		matcher,
		fallback,
		slog.Default(),
	)
	indexRunner := index.NewRunner(st, pipeline, instanceProfile.RebuildInterval)

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(middleware.Recover())
	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	apiService := apiv1.NewAPIV1Service(instanceProfile, st, pipeline, indexRunner, slog.Default())
	apiService.Register(echoServer)

	address := fmt.Sprintf("%s:%d", instanceProfile.Addr, instanceProfile.Port)
	slog.Info("server started",
		slog.String("address", address),
		slog.String("version", instanceProfile.Version),
		slog.String("mode", instanceProfile.Mode),
		slog.String("driver", instanceProfile.Driver))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		indexRunner.Run(gctx)
		return nil
	})
	g.Go(func() error {
		if err := echoServer.Start(address); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return echoServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
