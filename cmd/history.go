package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sambabib/dockerfile-gen/pkg/logger"
	"github.com/sambabib/dockerfile-gen/pkg/store"
)

var (
	showDate string
	showName string
)

// historyCmd groups read access to the Dockerfile store.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect stored Dockerfiles",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored Dockerfiles, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st store.Store) error {
			records, err := st.All(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				logger.Infof("No Dockerfiles stored yet")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDATE\tTIME\tTIMEZONE")
			for _, r := range records {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.CreatedDate, r.CreatedTime, r.Timezone)
			}
			return w.Flush()
		})
	},
}

var historyDatesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List dates with stored Dockerfiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st store.Store) error {
			dates, err := st.Dates(cmd.Context())
			if err != nil {
				return err
			}
			for _, d := range dates {
				fmt.Println(d)
			}
			return nil
		})
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st store.Store) error {
			stats, err := st.Stats(cmd.Context())
			if err != nil {
				return err
			}
			logger.Infof("Total Dockerfiles: %d", stats.TotalDockerfiles)
			logger.Infof("Unique dates: %d", stats.UniqueDates)
			logger.Infof("Unique names: %d", stats.UniqueNames)
			return nil
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the content of a stored Dockerfile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st store.Store) error {
			rec, err := st.ByDateAndName(cmd.Context(), showDate, showName)
			if err != nil {
				return err
			}
			fmt.Println(rec.Content)
			return nil
		})
	},
}

func withStore(fn func(store.Store) error) error {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyDatesCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyShowCmd)

	historyShowCmd.Flags().StringVar(&showDate, "date", "", "Date (YYYY-MM-DD)")
	historyShowCmd.Flags().StringVar(&showName, "name", "", "Dockerfile name")
	_ = historyShowCmd.MarkFlagRequired("date")
	_ = historyShowCmd.MarkFlagRequired("name")
}
