// @title                       IronHealth Clinic API
// @version                     1.0
// @description                 Appointments, patients and professionals for a health clinic.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	_ "github.com/ironhealth/clinic-api/docs"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-api",
		Short: "IronHealth clinic management API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedAdminCmd())
	rootCmd.AddCommand(mailWorkerCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
