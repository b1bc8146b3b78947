package cmd

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nekruzvatanshoev/velocity/pkg/velocity/config"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/mail"
	"github.com/nekruzvatanshoev/velocity/pkg/velocity/source"
)

const (
	RootCmdName  = "velocity"
	RootCmdShort = "Velocity APEX dealership catalog"
	RootCmdLong  = `velocity serves the catalog, detail, admin and contact endpoints of the
Velocity APEX dealership site, and offers the same operations from the terminal.`
)

var cfg *config.Config

var RootCmd = &cobra.Command{
	Use:               RootCmdName,
	Short:             RootCmdShort,
	Long:              RootCmdLong,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(-1)
	}
}

func init() {
	RootCmd.PersistentFlags().String("source-url", "", "base URL of the catalog data source")
	RootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	viper.BindPFlag("source.base_url", RootCmd.PersistentFlags().Lookup("source-url"))
	viper.BindPFlag("log.level", RootCmd.PersistentFlags().Lookup("log-level"))

	RootCmd.AddCommand(ServeCmd, CatalogCmd, ContactCmd, BrowseCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	cfg = loaded
	return setupLogging(cfg.Log)
}

func setupLogging(lc config.LogConfig) error {
	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if strings.EqualFold(lc.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func newCatalogClient() *source.Client {
	return source.NewClient(source.Config{
		BaseURL: cfg.Source.BaseURL,
		Timeout: cfg.Source.Timeout,
	})
}

func newMailer() *mail.Client {
	return mail.NewClient(mail.Config{
		BaseURL:    cfg.Mail.BaseURL,
		ServiceID:  cfg.Mail.ServiceID,
		TemplateID: cfg.Mail.TemplateID,
		PublicKey:  cfg.Mail.PublicKey,
		PhoneField: cfg.Mail.PhoneField,
		Timeout:    cfg.Mail.Timeout,
	})
}
