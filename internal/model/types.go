package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Metadata describes the exported model's tensor interface.
type Metadata struct {
	InputName   string   `json:"input_name"`
	OutputName  string   `json:"output_name"`
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	ImageSize   int      `json:"image_size"`
	Classes     []string `json:"classes,omitempty"`
}

func DefaultMetadata(imageSize, classCount int) Metadata {
	return Metadata{
		InputName:   "input",
		OutputName:  "output",
		InputShape:  []int64{1, int64(imageSize), int64(imageSize), 3},
		OutputShape: []int64{1, int64(classCount)},
		ImageSize:   imageSize,
	}
}

// LoadMetadata reads the metadata file, filling unset fields from def. A
// missing file yields def unchanged.
func LoadMetadata(path string, def Metadata) (Metadata, error) {
	if path == "" {
		return def, nil
	}
	metaFile, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return def, nil
	}
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	metadata := def
	if err := json.Unmarshal(metaFile, &metadata); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return metadata, nil
}
