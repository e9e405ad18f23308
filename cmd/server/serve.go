package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Brownie44l1/waste-classifier-api/internal/classifier"
	"github.com/Brownie44l1/waste-classifier-api/internal/configs"
	"github.com/Brownie44l1/waste-classifier-api/internal/handlers"
	"github.com/Brownie44l1/waste-classifier-api/internal/labels"
	"github.com/Brownie44l1/waste-classifier-api/internal/model"
	"github.com/Brownie44l1/waste-classifier-api/internal/preprocess"
	"github.com/Brownie44l1/waste-classifier-api/internal/tips"
	"github.com/Brownie44l1/waste-classifier-api/pkg/httpframework"
	"github.com/Brownie44l1/waste-classifier-api/pkg/logger"
	"github.com/Brownie44l1/waste-classifier-api/pkg/metric"
	"github.com/Brownie44l1/waste-classifier-api/pkg/middleware"
	"github.com/gin-contrib/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			for flag, key := range map[string]string{
				"port":        "app_port",
				"model":       "model_path",
				"metadata":    "model_metadata_path",
				"labels":      "labels_path",
				"onnxruntime": "onnxruntime_lib_path",
				"log-level":   "app_log_level",
			} {
				if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}

			var appConfigs configs.AppConfigs
			if err := configs.InitConfig(&appConfigs); err != nil {
				return err
			}
			return serve(appConfigs.Configs)
		},
	}

	cmd.Flags().Int("port", 8000, "HTTP port")
	cmd.Flags().String("model", "models/garbage_classifier.onnx", "Path to the ONNX model")
	cmd.Flags().String("metadata", "models/model_metadata.json", "Path to the model metadata JSON")
	cmd.Flags().String("labels", "models/labels.yaml", "Path to the category list")
	cmd.Flags().String("onnxruntime", "", "Path to the onnxruntime shared library")
	cmd.Flags().String("log-level", "INFO", "Log level")
	return cmd
}

func serve(cfg configs.Configs) error {
	logger.Init(cfg)
	metric.Init(cfg)

	categoryLabels, err := labels.Load(cfg.LabelsPath)
	if err != nil {
		return err
	}
	log.Info().Str("version", categoryLabels.Version).Strs("categories", categoryLabels.Categories).Msg("Categories loaded")

	engine := model.NewEngine(model.Config{
		ModelPath:    cfg.ModelPath,
		MetadataPath: cfg.ModelMetadataPath,
		LibPath:      cfg.OnnxRuntimeLibPath,
	}, categoryLabels.Categories, model.OpenONNX)
	if err := engine.Load(); err != nil {
		log.Warn().Msg("Starting without a model, /classify will return 503 until restart")
	}
	defer engine.Close()

	svc := classifier.NewService(preprocess.New(), engine, tips.NewResolver(categoryLabels), categoryLabels.Categories)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CorsAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	corsConfig.AllowCredentials = true
	httpframework.Init(cfg.AppEnv, cors.New(corsConfig), middleware.BodyLimit(cfg.MaxRequestBodyBytes))

	handlers.NewHandler(svc, engine, categoryLabels.Version).Register(httpframework.Instance())

	port := cfg.AppPort
	if port == 0 {
		port = 8000
		log.Warn().Int("port", port).Msg("App port not set, defaulting to 8000")
	}
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           httpframework.Instance(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, groupCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Msgf("Server starting on port %d", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-groupCtx.Done()
		log.Info().Msg("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
