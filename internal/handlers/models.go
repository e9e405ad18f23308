package handlers

import "github.com/Brownie44l1/waste-classifier-api/internal/ranking"

type ImageRequest struct {
	// Image is base64 image data, optionally prefixed with a data URL header.
	Image string `json:"image" binding:"required"`
}

type RootResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	ModelLoaded bool   `json:"model_loaded"`
}

type HealthResponse struct {
	Status        string   `json:"status"`
	ModelPath     string   `json:"model_path"`
	ModelExists   bool     `json:"model_exists"`
	Categories    []string `json:"categories"`
	LabelsVersion string   `json:"labels_version"`
}

type ClassificationResponse struct {
	Top    ranking.PredictionScore   `json:"top"`
	Scores []ranking.PredictionScore `json:"scores"`
	Tip    string                    `json:"tip"`
}

type PreprocessResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Shape   []int64 `json:"shape"`
	DType   string  `json:"dtype"`
}

const (
	StatusRunning        = "running"
	StatusHealthy        = "healthy"
	StatusModelNotLoaded = "model_not_loaded"
)
