package preprocessing

import (
	"testing"

	"github.com/alineAssuncao/kaggle-regression-lab/pkg/errors"
)

func TestOneHotEncoder(t *testing.T) {
	cols := [][]string{{"red", "green", "blue", "red"}}

	enc := NewOneHotEncoder(false)
	if err := enc.Fit(cols, []string{"color"}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	result, err := enc.Transform(cols)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	r, c := result.Dims()
	if r != 4 || c != 3 {
		t.Fatalf("unexpected shape: got (%d, %d), want (4, 3)", r, c)
	}

	// Categories are sorted: blue, green, red.
	want := [][]float64{
		{0, 0, 1},
		{0, 1, 0},
		{1, 0, 0},
		{0, 0, 1},
	}
	for i := range want {
		for j := range want[i] {
			if result.At(i, j) != want[i][j] {
				t.Errorf("(%d, %d) = %v, want %v", i, j, result.At(i, j), want[i][j])
			}
		}
	}

	names := enc.FeatureNames()
	wantNames := []string{"color=blue", "color=green", "color=red"}
	for i, n := range wantNames {
		if names[i] != n {
			t.Errorf("feature name %d = %q, want %q", i, names[i], n)
		}
	}
}

func TestOneHotEncoderDropFirst(t *testing.T) {
	cols := [][]string{{"a", "b", "c"}}

	enc := NewOneHotEncoder(true)
	if err := enc.Fit(cols, []string{"grade"}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	result, err := enc.Transform(cols)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	_, c := result.Dims()
	if c != 2 {
		t.Fatalf("unexpected width: got %d, want 2", c)
	}
	// "a" is dropped: its row is all zeros.
	if result.At(0, 0) != 0 || result.At(0, 1) != 0 {
		t.Error("first category should encode as all zeros")
	}
	if result.At(1, 0) != 1 {
		t.Error("second category should set the first kept column")
	}

	names := enc.FeatureNames()
	if len(names) != 2 || names[0] != "grade=b" || names[1] != "grade=c" {
		t.Errorf("unexpected feature names: %v", names)
	}
}

func TestOneHotEncoderUnseenCategory(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(nil)

	enc := NewOneHotEncoder(false)
	if err := enc.Fit([][]string{{"a", "b"}}, []string{"zone"}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	result, err := enc.Transform([][]string{{"a", "c"}})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	// The unseen category encodes as an all-zero row.
	if result.At(1, 0) != 0 || result.At(1, 1) != 0 {
		t.Error("unseen category should encode as all zeros")
	}

	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	var ucw *errors.UnknownCategoryWarning
	if !errors.As(warnings[0], &ucw) {
		t.Fatalf("warning type = %T, want *UnknownCategoryWarning", warnings[0])
	}
	if ucw.Column != "zone" || ucw.Category != "c" {
		t.Errorf("warning = %+v, want column zone, category c", ucw)
	}
}

func TestOneHotEncoderNotFitted(t *testing.T) {
	enc := NewOneHotEncoder(false)
	if _, err := enc.Transform([][]string{{"a"}}); err == nil {
		t.Error("expected error when transforming before fitting")
	}
}

func TestOrdinalEncoder(t *testing.T) {
	cols := [][]string{{"small", "large", "medium", "small"}}

	enc := NewOrdinalEncoder()
	if err := enc.Fit(cols, []string{"size"}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	result, err := enc.Transform(cols)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	// Sorted vocabulary: large=0, medium=1, small=2.
	want := []float64{2, 0, 1, 2}
	for i, w := range want {
		if result.At(i, 0) != w {
			t.Errorf("row %d = %v, want %v", i, result.At(i, 0), w)
		}
	}
}

func TestOrdinalEncoderUnseenCategory(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(nil)

	enc := NewOrdinalEncoder()
	if err := enc.Fit([][]string{{"a", "b"}}, []string{"zone"}); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	result, err := enc.Transform([][]string{{"c"}})
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	// Unseen categories land past the last real index.
	if result.At(0, 0) != 2 {
		t.Errorf("unseen category index = %v, want 2", result.At(0, 0))
	}
	if len(warnings) != 1 {
		t.Errorf("got %d warnings, want 1", len(warnings))
	}
}
