package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/abdidvp/contentmod/internal/adapters/inbound/httpapi"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the content modification endpoint over HTTP",
		Long: "Start an HTTP server accepting POST " + httpapi.ModificationPath + " with the parameters " +
			"basePath, propertyName, original and target. The address and API key are taken from " +
			"--addr/--api-key, then CONTENTMOD_ADDR/CONTENTMOD_API_KEY, then .contentmod.yaml.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			v.SetDefault("addr", rt.cfg.Server.Addr)
			v.SetDefault("api_key", rt.cfg.Server.APIKey)
			addr := v.GetString("addr")
			apiKey := v.GetString("api_key")

			if apiKey == "" {
				a.logger.Warn("no API key configured, the modification endpoint is unauthenticated")
			}

			srv := httpapi.New(rt.runner, httpapi.Options{APIKey: apiKey, Logger: a.logger})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(addr) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down http server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("shutdown", zap.Error(err))
				return err
			}
			return <-errCh
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	cmd.Flags().String("api-key", "", "Require this value in the x-api-key header")

	v.SetEnvPrefix("CONTENTMOD")
	v.AutomaticEnv()
	_ = v.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	_ = v.BindPFlag("api_key", cmd.Flags().Lookup("api-key"))

	return cmd
}
