package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/alineAssuncao/kaggle-regression-lab/experiment"
)

var compareCommand = &cobra.Command{
	Use:   "compare",
	Short: "Fit every model family on the same split and compare",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			log.Fatal(err)
		}
		var reports []*experiment.Report
		for _, family := range experiment.FamilyNames() {
			runCfg := cfg
			runCfg.Model.Family = family
			if runCfg.Model.MaxDepth == 0 && family == string(experiment.FamilyGradientBoosting) {
				runCfg.Model.MaxDepth = 3
			}
			report, err := experiment.Run(runCfg)
			if err != nil {
				log.Fatalf("compare: %s: %v", family, err)
			}
			reports = append(reports, report)
		}
		experiment.RenderTable(os.Stdout, reports)
	},
}

func init() {
	addDataFlags(compareCommand)
	compareCommand.Flags().Bool("save-model", false, "Persist each trained model")
}
