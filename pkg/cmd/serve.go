package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/server"
)

const (
	ServeCmdName  = "serve"
	ServeCmdShort = "Start the HTTP API"
	ServeCmdLong  = "Start the HTTP API serving the catalog, vehicle details, admin and contact endpoints."
)

func init() {
	ServeCmd.Flags().String("address", "", "listen address (default :8080)")
	viper.BindPFlag("server.address", ServeCmd.Flags().Lookup("address"))
}

var (
	ServeCmd = &cobra.Command{
		Use:   ServeCmdName,
		Short: ServeCmdShort,
		Long:  ServeCmdLong,
		RunE:  serveCmdFunc(),
	}
)

func serveCmdFunc() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		log.Println("Started serve cmd")

		catalog := newCatalogClient()
		defer catalog.Close()
		mailer := newMailer()
		defer mailer.Close()

		serve, err := server.NewHTTPServer(server.Options{
			Addr:           cfg.Server.Address,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			Catalog:        catalog,
			Mailer:         mailer,
			ContactRate:    cfg.Contact.Rate,
			ContactBurst:   cfg.Contact.Burst,
			TrustedProxies: cfg.Server.TrustedProxies,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			log.WithFields(log.Fields{
				"address": serve.Addr,
				"source":  cfg.Source.BaseURL,
			}).Info("Listening")
			if err := serve.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			log.Printf("Shutdown the server...%v", context.Cause(ctx))

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return serve.Shutdown(shutdownCtx)
		})
		return g.Wait()
	}
}
