package experiment

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/alineAssuncao/kaggle-regression-lab/dataset"
	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

// Metrics holds the evaluation metrics of one run, computed on the
// held-out subset.
type Metrics struct {
	MSE               float64 `json:"mse"`
	RMSE              float64 `json:"rmse"`
	MAE               float64 `json:"mae"`
	R2                float64 `json:"r2"`
	MAPE              float64 `json:"mape"`
	ExplainedVariance float64 `json:"explained_variance"`
}

// Report is the metric report of one experiment run.
type Report struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`

	// Family is the model family that was fit.
	Family string `json:"family"`

	// Dataset is the path of the input file.
	Dataset string `json:"dataset"`

	// Target is the target column name.
	Target string `json:"target"`

	// TrainRows and TestRows are the split subset sizes.
	TrainRows int `json:"train_rows"`
	TestRows  int `json:"test_rows"`

	// Features is the width of the feature matrix after preprocessing.
	Features int `json:"features"`

	// DroppedColumns lists columns removed for excessive missing data.
	DroppedColumns []string `json:"dropped_columns,omitempty"`

	// Seed is the split seed, recorded for reproducibility.
	Seed int64 `json:"seed"`

	// Metrics are the held-out evaluation metrics.
	Metrics Metrics `json:"metrics"`

	// TrainScore is R² on the training subset.
	TrainScore float64 `json:"train_score"`

	// StartedAt and Duration describe the run timing.
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// WriteJSON writes the report as indented JSON to path.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "report: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.NewDataError(path, "failed to write report", err)
	}
	return nil
}

// RenderTable prints a comparison table of reports to w. The row with
// the lowest RMSE is marked as the best.
func RenderTable(w io.Writer, reports []*Report) {
	if len(reports) == 0 {
		return
	}
	best := lo.MinBy(reports, func(a, b *Report) bool {
		return a.Metrics.RMSE < b.Metrics.RMSE
	})

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"family", "rmse", "mae", "r2", "mape %", "train r2", "best"})
	for _, r := range reports {
		mark := ""
		if r == best && len(reports) > 1 {
			mark = "*"
		}
		table.Append([]string{
			r.Family,
			fmt.Sprintf("%.4f", r.Metrics.RMSE),
			fmt.Sprintf("%.4f", r.Metrics.MAE),
			fmt.Sprintf("%.4f", r.Metrics.R2),
			fmt.Sprintf("%.2f", r.Metrics.MAPE),
			fmt.Sprintf("%.4f", r.TrainScore),
			mark,
		})
	}
	table.Render()
}

// RenderMissingTable prints the missing-value profile of a dataset.
func RenderMissingTable(w io.Writer, stats []dataset.MissingStat) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"column", "missing", "percent"})
	for _, s := range stats {
		table.Append([]string{
			s.Column,
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.1f%%", s.Percent),
		})
	}
	table.Render()
}
