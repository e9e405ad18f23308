package configs

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// InitConfig loads .env files if present, binds the environment and unmarshals
// everything into appConfigs.Configs.
func InitConfig(appConfigs *AppConfigs) error {
	loadDotEnv(".env.local", ".env")

	setDefaults()
	bindEnvVars()

	cfg, ok := appConfigs.GetStaticConfig().(*Configs)
	if !ok {
		log.Fatal().Msg("Failed to cast static config to *Configs")
	}
	// viper's default decode hooks split comma separated env values into slices
	return viper.Unmarshal(cfg)
}

// loadDotEnv loads each file that exists. godotenv never overrides a variable
// that is already set, so earlier files and the process environment win.
func loadDotEnv(files ...string) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			log.Debug().Str("file", file).Msg("Skipping env file")
		}
	}
}

func setDefaults() {
	viper.SetDefault("app_name", "waste-classifier-api")
	viper.SetDefault("app_env", "local")
	viper.SetDefault("app_log_level", "INFO")
	viper.SetDefault("app_port", 8000)
	viper.SetDefault("app_metric_sampling_rate", 1.0)
	viper.SetDefault("telegraf_host", "localhost")
	viper.SetDefault("telegraf_port", "8125")
	viper.SetDefault("model_path", "models/garbage_classifier.onnx")
	viper.SetDefault("model_metadata_path", "models/model_metadata.json")
	viper.SetDefault("labels_path", "models/labels.yaml")
	viper.SetDefault("onnxruntime_lib_path", "")
	viper.SetDefault("cors_allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	viper.SetDefault("max_request_body_bytes", 10<<20)
	viper.SetDefault("shutdown_timeout_sec", 10)
}

func bindEnvVars() {
	// Application config
	viper.BindEnv("app_name", "APP_NAME")
	viper.BindEnv("app_env", "APP_ENV")
	viper.BindEnv("app_log_level", "APP_LOG_LEVEL")
	viper.BindEnv("app_port", "APP_PORT")
	viper.BindEnv("app_metric_sampling_rate", "APP_METRIC_SAMPLING_RATE")

	// Metrics / Telegraf config
	viper.BindEnv("telegraf_host", "TELEGRAF_HOST")
	viper.BindEnv("telegraf_port", "TELEGRAF_PORT")

	// Model config
	viper.BindEnv("model_path", "MODEL_PATH")
	viper.BindEnv("model_metadata_path", "MODEL_METADATA_PATH")
	viper.BindEnv("labels_path", "LABELS_PATH")
	viper.BindEnv("onnxruntime_lib_path", "ONNXRUNTIME_LIB_PATH")

	// HTTP config
	viper.BindEnv("cors_allowed_origins", "CORS_ALLOWED_ORIGINS")
	viper.BindEnv("max_request_body_bytes", "MAX_REQUEST_BODY_BYTES")
	viper.BindEnv("shutdown_timeout_sec", "SHUTDOWN_TIMEOUT_SEC")
}
