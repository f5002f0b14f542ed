package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/alineAssuncao/kaggle-regression-lab/experiment"
)

var historyCommand = &cobra.Command{
	Use:   "history",
	Short: "List past runs recorded in the history database",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			log.Fatal(err)
		}
		db, _ := cmd.Flags().GetString("db")
		if db == "" {
			db = cfg.Output.HistoryDB
		}
		if db == "" {
			log.Fatal("history: no database given, set --db or output.history_db")
		}

		store, err := experiment.OpenRunStore(db)
		if err != nil {
			log.Fatal(err)
		}
		defer store.Close()

		if best, _ := cmd.Flags().GetString("best"); best != "" {
			report, err := store.Best(best)
			if err != nil {
				log.Fatal(err)
			}
			if report == nil {
				fmt.Printf("no runs recorded for %s\n", best)
				return
			}
			experiment.RenderTable(os.Stdout, []*experiment.Report{report})
			return
		}

		limit, _ := cmd.Flags().GetInt("limit")
		reports, err := store.List(limit)
		if err != nil {
			log.Fatal(err)
		}
		if len(reports) == 0 {
			fmt.Println("no runs recorded")
			return
		}
		experiment.RenderTable(os.Stdout, reports)
	},
}

func init() {
	historyCommand.Flags().String("db", "", "SQLite history file")
	historyCommand.Flags().Int("limit", 20, "Maximum runs to list")
	historyCommand.Flags().String("best", "", "Show the best run for a dataset path")
}
