// Package errors provides the structured error and warning system used
// across the repository. Error types carry stack traces through
// cockroachdb/errors and marshal themselves into zerolog events so
// failures surface with full context in structured logs.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// Default handler logs to standard error.
		log.Printf("reglab-warning: %v\n", w)
	}
	// zerolog sink, set lazily to avoid an import cycle with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler installs a custom handler for warnings raised by
// the library, such as UnknownCategoryWarning during encoding.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // drop warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc routes warnings to a zerolog-backed sink. When
// set, it takes precedence over the plain handler.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn raises a warning through the configured sink.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// UnknownCategoryWarning is raised when an encoder sees a category at
// transform time that was absent during fitting. The record is kept and
// the category is handled by the encoder's configured fallback.
type UnknownCategoryWarning struct {
	Encoder  string
	Column   string
	Category string
	Fallback string
}

func (w *UnknownCategoryWarning) Error() string {
	return fmt.Sprintf("%s: category %q in column %q was not seen during fitting; %s",
		w.Encoder, w.Category, w.Column, w.Fallback)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *UnknownCategoryWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("encoder", w.Encoder).
		Str("column", w.Column).
		Str("category", w.Category).
		Str("fallback", w.Fallback).
		Str("type", "UnknownCategoryWarning")
}

// NewUnknownCategoryWarning creates a new UnknownCategoryWarning.
func NewUnknownCategoryWarning(encoder, column, category, fallback string) *UnknownCategoryWarning {
	return &UnknownCategoryWarning{Encoder: encoder, Column: column, Category: category, Fallback: fallback}
}

// DroppedColumnWarning is raised when preprocessing removes a column,
// for example because its missing-value ratio exceeds the threshold.
type DroppedColumnWarning struct {
	Column  string
	Reason  string
	Missing float64 // fraction of missing values, when applicable
}

func (w *DroppedColumnWarning) Error() string {
	return fmt.Sprintf("column %q dropped: %s", w.Column, w.Reason)
}

// MarshalZerologObject adds the structured warning fields to a zerolog event.
func (w *DroppedColumnWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("column", w.Column).
		Str("reason", w.Reason).
		Float64("missing_ratio", w.Missing).
		Str("type", "DroppedColumnWarning")
}

// NewDroppedColumnWarning creates a new DroppedColumnWarning.
func NewDroppedColumnWarning(column, reason string, missing float64) *DroppedColumnWarning {
	return &DroppedColumnWarning{Column: column, Reason: reason, Missing: missing}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotFittedError is returned when Predict or Transform is called on a
// model that has not been fitted.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("reglab: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError is returned when input dimensions do not match what
// an operation expects.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("reglab: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError is returned when a configuration or hyperparameter
// fails validation.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("reglab: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError is returned when an argument value is invalid for an
// operation, such as an empty vector passed to a metric.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("reglab: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError is a general error raised by a model operation.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reglab: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("reglab: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError creates a ModelError with a stack trace.
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// DataError is returned when an input file is missing or malformed.
type DataError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reglab: data %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("reglab: data %q: %s", e.Path, e.Reason)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *DataError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Str("reason", e.Reason).
		Str("type", "DataError")
}

// NewDataError creates a DataError with a stack trace.
func NewDataError(path, reason string, err error) error {
	dataErr := &DataError{Path: path, Reason: reason, Err: err}
	return errors.WithStack(dataErr)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates an error with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Shared sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is returned when empty data is passed to an operation.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a matrix cannot be inverted.
	ErrSingularMatrix = New("singular matrix")

	// ErrMissingTarget is returned when the target column is absent
	// from a dataset that is supposed to carry it.
	ErrMissingTarget = New("missing target column")
)
