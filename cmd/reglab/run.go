package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/alineAssuncao/kaggle-regression-lab/experiment"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Fit one model family and report its metrics",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			log.Fatal(err)
		}
		report, err := experiment.Run(cfg)
		if err != nil {
			log.Fatal(err)
		}
		experiment.RenderTable(os.Stdout, []*experiment.Report{report})
	},
}

func init() {
	addDataFlags(runCommand)
	runCommand.Flags().String("family", "linear", "Model family to fit")
	runCommand.Flags().Bool("save-model", false, "Persist the trained model")
}
