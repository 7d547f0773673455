package main

import (
	"fmt"
	"os"

	_ "health-directory/docs"

	"github.com/spf13/cobra"
)

// @title Health Directory API
// @version 1.0
// @description Directorio de salud: hospitales, médicos, farmacias, donantes de sangre y recordatorios de medicinas.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "healthdir",
		Short:         "Health directory API and medicine alert service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./healthdir.{yaml,json,toml})")

	root.AddCommand(newServeCmd(&configFile))
	root.AddCommand(newAlertsCmd())
	return root
}
