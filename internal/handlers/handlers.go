package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Brownie44l1/waste-classifier-api/internal/classifier"
	"github.com/Brownie44l1/waste-classifier-api/pkg/api"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ModelStatus is the read-only view of the model the health endpoints need.
type ModelStatus interface {
	Loaded() bool
	ModelPath() string
	ModelExists() bool
	Categories() []string
}

type Classifier interface {
	Classify(encoded string) (*classifier.Result, error)
	Inspect(encoded string) (*classifier.Inspection, error)
}

type Handler struct {
	classifier    Classifier
	model         ModelStatus
	labelsVersion string
}

func NewHandler(classifier Classifier, model ModelStatus, labelsVersion string) *Handler {
	return &Handler{
		classifier:    classifier,
		model:         model,
		labelsVersion: labelsVersion,
	}
}

// Register mounts the API routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.POST("/classify", h.Classify)
	r.POST("/test", h.Test)
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Status:      StatusRunning,
		Message:     "Garbage Classifier API",
		ModelLoaded: h.model.Loaded(),
	})
}

func (h *Handler) Health(c *gin.Context) {
	status := StatusHealthy
	if !h.model.Loaded() {
		status = StatusModelNotLoaded
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:        status,
		ModelPath:     h.model.ModelPath(),
		ModelExists:   h.model.ModelExists(),
		Categories:    h.model.Categories(),
		LabelsVersion: h.labelsVersion,
	})
}

func (h *Handler) Classify(c *gin.Context) {
	var req ImageRequest
	bindErr := c.ShouldBindJSON(&req)

	// availability is reported before payload problems
	if !h.model.Loaded() {
		c.Error(toAPIError(classifier.ErrModelUnavailable))
		return
	}
	if bindErr != nil {
		c.Error(bindError(bindErr))
		return
	}

	result, err := h.classifier.Classify(req.Image)
	if err != nil {
		c.Error(toAPIError(err))
		return
	}

	c.JSON(http.StatusOK, ClassificationResponse{
		Top:    result.Top,
		Scores: result.Scores,
		Tip:    result.Tip,
	})
}

// Test runs only preprocessing so the tensor contract can be checked without
// a model.
func (h *Handler) Test(c *gin.Context) {
	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	inspection, err := h.classifier.Inspect(req.Image)
	if err != nil {
		c.Error(toAPIError(err))
		return
	}

	c.JSON(http.StatusOK, PreprocessResponse{
		Success: true,
		Message: "Image processed successfully",
		Shape:   inspection.Shape,
		DType:   inspection.DType,
	})
}

func bindError(err error) *api.Error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return api.NewRequestEntityTooLarge(fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit))
	}
	return api.NewBadRequestError(fmt.Sprintf("Invalid request body: %v", err))
}

func toAPIError(err error) *api.Error {
	switch {
	case errors.Is(err, classifier.ErrModelUnavailable):
		return api.NewServiceUnavailable("Model not loaded. Please ensure the model file is in the models folder.")
	case errors.Is(err, classifier.ErrInvalidInput):
		log.Warn().Err(err).Msg("Rejected image payload")
		return api.NewBadRequestError(fmt.Sprintf("Error processing image: %v", err))
	default:
		return api.NewInternalServerError(fmt.Sprintf("Classification error: %v", err))
	}
}
