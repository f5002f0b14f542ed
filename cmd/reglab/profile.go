package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/alineAssuncao/kaggle-regression-lab/dataset"
	"github.com/alineAssuncao/kaggle-regression-lab/experiment"
)

var profileCommand = &cobra.Command{
	Use:   "profile [dataset]",
	Short: "Print the missing-value profile of a dataset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		table, err := dataset.ReadCSV(args[0])
		if err != nil {
			log.Fatal(err)
		}
		experiment.RenderMissingTable(os.Stdout, table.MissingProfile())
	},
}
