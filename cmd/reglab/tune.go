package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/alineAssuncao/kaggle-regression-lab/experiment"
)

var tuneCommand = &cobra.Command{
	Use:   "tune",
	Short: "Search a family's hyperparameters with TPE",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			log.Fatal(err)
		}
		trials, _ := cmd.Flags().GetInt("trials")

		tuner, err := experiment.NewTuner(cfg)
		if err != nil {
			log.Fatal(err)
		}
		result, err := tuner.Run(trials)
		if err != nil {
			log.Fatal(err)
		}

		params, err := json.MarshalIndent(result.BestParams, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("family:    %s\n", result.Family)
		fmt.Printf("trials:    %d\n", result.Trials)
		fmt.Printf("best rmse: %.4f\n", result.BestRMSE)
		fmt.Printf("best params:\n%s\n", params)

		if refit, _ := cmd.Flags().GetBool("refit"); refit {
			cfg.Model = result.BestConfig
			report, err := experiment.Run(cfg)
			if err != nil {
				log.Fatal(err)
			}
			experiment.RenderTable(os.Stdout, []*experiment.Report{report})
		}
	},
}

func init() {
	addDataFlags(tuneCommand)
	tuneCommand.Flags().String("family", "linear", "Model family to tune")
	tuneCommand.Flags().Int("trials", 30, "Number of trials")
	tuneCommand.Flags().Bool("refit", false, "Refit with the best config and report")
}
