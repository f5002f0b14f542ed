package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alineAssuncao/kaggle-regression-lab/dataset"
	"github.com/alineAssuncao/kaggle-regression-lab/modelselection"
)

var splitCommand = &cobra.Command{
	Use:   "split [dataset]",
	Short: "Write a seeded train/test split to train.csv and test.csv",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ratio, _ := cmd.Flags().GetFloat64("train-ratio")
		seed, _ := cmd.Flags().GetInt64("seed")
		out, _ := cmd.Flags().GetString("out")

		table, err := dataset.ReadCSV(args[0])
		if err != nil {
			log.Fatal(err)
		}
		trainIdx, testIdx, err := modelselection.TrainTestSplit(table.NumRows(), ratio, seed)
		if err != nil {
			log.Fatal(err)
		}
		if err := os.MkdirAll(out, 0o755); err != nil {
			log.Fatal(err)
		}
		trainPath := filepath.Join(out, "train.csv")
		testPath := filepath.Join(out, "test.csv")
		if err := dataset.WriteCSV(table.Subset(trainIdx), trainPath); err != nil {
			log.Fatal(err)
		}
		if err := dataset.WriteCSV(table.Subset(testIdx), testPath); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %s (%d rows) and %s (%d rows)\n",
			trainPath, len(trainIdx), testPath, len(testIdx))
	},
}

func init() {
	splitCommand.Flags().Float64("train-ratio", 0.8, "Fraction of rows used for training")
	splitCommand.Flags().Int64("seed", 42, "Split seed")
	splitCommand.Flags().String("out", "data", "Directory for train.csv and test.csv")
}
