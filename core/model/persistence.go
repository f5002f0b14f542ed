package model

import (
	"encoding/gob"
	"fmt"
	"os"
)

// SaveModel writes a trained model to a file using gob encoding.
//
// The model must be a struct (or pointer to a struct) whose exported
// fields fully describe the fitted state.
//
// Example:
//
//	reg := linear.NewLinearRegression()
//	// ... fit ...
//	err := model.SaveModel(reg, "model.gob")
func SaveModel(model interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(model); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}

	return nil
}

// LoadModel reads a model previously written by SaveModel into model,
// which must be a pointer to the same concrete type.
func LoadModel(model interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(model); err != nil {
		return fmt.Errorf("failed to decode model: %w", err)
	}

	return nil
}
