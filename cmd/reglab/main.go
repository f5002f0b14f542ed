// reglab runs regression experiments on tabular datasets: a single
// fit-and-score run, a comparison across model families, a TPE
// hyperparameter search and a history of past runs.
package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/alineAssuncao/kaggle-regression-lab/experiment"
	pkglog "github.com/alineAssuncao/kaggle-regression-lab/pkg/log"
)

var rootCommand = &cobra.Command{
	Use:   "reglab",
	Short: "Regression experiments on tabular data",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		pkglog.SetupLogger(level)
		pkglog.SetupWarnBridge(pkglog.NewConsoleLogger())
	},
}

func init() {
	rootCommand.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCommand.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCommand.AddCommand(runCommand)
	rootCommand.AddCommand(compareCommand)
	rootCommand.AddCommand(tuneCommand)
	rootCommand.AddCommand(profileCommand)
	rootCommand.AddCommand(splitCommand)
	rootCommand.AddCommand(historyCommand)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Fatal(err)
	}
}

// loadConfig builds the run configuration from the --config file (or
// the defaults) and applies any dataset flags set on cmd.
func loadConfig(cmd *cobra.Command) (experiment.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg := experiment.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = experiment.LoadConfig(path); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data.Path, _ = flags.GetString("data")
	}
	if flags.Changed("target") {
		cfg.Data.Target, _ = flags.GetString("target")
	}
	if flags.Changed("drop-high-missing") {
		cfg.Data.DropHighMissing, _ = flags.GetBool("drop-high-missing")
	}
	if flags.Changed("log-target") {
		cfg.Preprocessing.LogTarget, _ = flags.GetBool("log-target")
	}
	if flags.Changed("train-ratio") {
		cfg.Split.TrainRatio, _ = flags.GetFloat64("train-ratio")
	}
	if flags.Changed("seed") {
		cfg.Split.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("family") {
		cfg.Model.Family, _ = flags.GetString("family")
	}
	if flags.Changed("out") {
		cfg.Output.Dir, _ = flags.GetString("out")
	}
	if flags.Changed("plots") {
		cfg.Output.Plots, _ = flags.GetBool("plots")
	}
	if flags.Changed("save-model") {
		cfg.Output.SaveModel, _ = flags.GetBool("save-model")
	}
	if flags.Changed("history") {
		cfg.Output.HistoryDB, _ = flags.GetString("history")
	}
	return cfg, nil
}

// addDataFlags registers the flags shared by the commands that fit
// models.
func addDataFlags(cmd *cobra.Command) {
	cmd.Flags().String("data", "", "Path to the CSV dataset")
	cmd.Flags().String("target", "", "Name of the target column")
	cmd.Flags().Bool("drop-high-missing", false, "Drop columns with too many missing values")
	cmd.Flags().Bool("log-target", false, "Train on log1p of the target")
	cmd.Flags().Float64("train-ratio", 0.8, "Fraction of rows used for training")
	cmd.Flags().Int64("seed", 42, "Split seed")
	cmd.Flags().String("out", "output", "Artifact directory")
	cmd.Flags().Bool("plots", false, "Write diagnostic plots")
	cmd.Flags().String("history", "", "SQLite file recording run history")
}
