package configs

type Configs struct {
	AppName               string  `mapstructure:"app_name"`
	AppEnv                string  `mapstructure:"app_env"`
	AppLogLevel           string  `mapstructure:"app_log_level"`
	AppPort               int     `mapstructure:"app_port"`
	AppMetricSamplingRate float64 `mapstructure:"app_metric_sampling_rate"`

	//telegraf-config
	TelegrafHost string `mapstructure:"telegraf_host"`
	TelegrafPort string `mapstructure:"telegraf_port"`

	//model-config
	ModelPath          string `mapstructure:"model_path"`
	ModelMetadataPath  string `mapstructure:"model_metadata_path"`
	LabelsPath         string `mapstructure:"labels_path"`
	OnnxRuntimeLibPath string `mapstructure:"onnxruntime_lib_path"`

	//http-config
	CorsAllowedOrigins  []string `mapstructure:"cors_allowed_origins"`
	MaxRequestBodyBytes int64    `mapstructure:"max_request_body_bytes"`
	ShutdownTimeoutSec  int      `mapstructure:"shutdown_timeout_sec"`
}

type AppConfigs struct {
	Configs Configs
}

func (a *AppConfigs) GetStaticConfig() interface{} {
	return &a.Configs
}
