package experiment

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportWriteJSON(t *testing.T) {
	report := sampleReport("run-1", "linear", 2.5)
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, report.WriteJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.RunID, decoded.RunID)
	assert.Equal(t, report.Metrics, decoded.Metrics)
}

func TestRenderTable(t *testing.T) {
	reports := []*Report{
		sampleReport("run-1", "linear", 3.0),
		sampleReport("run-2", "random_forest", 1.5),
	}

	var buf bytes.Buffer
	RenderTable(&buf, reports)

	out := buf.String()
	assert.Contains(t, out, "linear")
	assert.Contains(t, out, "random_forest")
	assert.Contains(t, out, "1.5000")
	// The best row is marked.
	assert.Contains(t, out, "*")
}

func TestRenderTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, nil)
	assert.Empty(t, buf.String())
}
