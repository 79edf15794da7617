package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var librariesCmd = &cobra.Command{
	Use:   "libraries",
	Short: "Manage tracked libraries",
}

var librariesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked libraries",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		libs, err := a.service.ListLibraries(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTITLES\tMEAN\tSTD DEV\tLAST UPDATED")
		for _, lib := range libs {
			updated := "never"
			if lib.LastUpdated != nil {
				updated = lib.LastUpdated.Format(time.RFC3339)
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%.3f\t%.3f\t%s\n", lib.ID, lib.Name, lib.TitleCount, lib.RatingMean, lib.RatingStdDev, updated)
		}
		return w.Flush()
	},
}

var librariesAddCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Register a library",
	Long: `Registers a storefront category. The url is the catalog query URL
without its page size; the sync appends it.

Example:
  libraries add ps4-games "https://store.example/container/US/en/999/STORE-MSF77008-PS4ALLGAMESCATEG?size="`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		lib, err := a.service.CreateLibrary(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Library %s registered with id %d\n", lib.Name, lib.ID)
		return nil
	},
}

func init() {
	librariesCmd.AddCommand(librariesListCmd, librariesAddCmd)
	RootCmd.AddCommand(librariesCmd)
}
