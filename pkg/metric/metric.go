package metric

import (
	"net"
	"sync"
	"time"

	"github.com/Brownie44l1/waste-classifier-api/internal/configs"
	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rs/zerolog/log"
)

const (
	ApiRequestCount     = "api_request_count"
	ApiRequestLatency   = "api_request_latency"
	PreprocessLatency   = "preprocess_latency"
	InferenceLatency    = "inference_latency"
	ClassificationCount = "classification_count"
	TopConfidence       = "top_confidence"
	ModelLoaded         = "model_loaded"
)

var (
	// it is safe to use one client from multiple goroutines simultaneously
	statsDClient statsd.ClientInterface = &statsd.NoOpClient{}
	samplingRate                        = 1.0
	appName                             = ""
	initialized                         = false
	once         sync.Once
)

// Init initializes the statsd client. Until it is called every metric is a no-op.
func Init(config configs.Configs) {
	if initialized {
		log.Debug().Msg("Metrics already initialized!")
		return
	}
	once.Do(func() {
		samplingRate = config.AppMetricSamplingRate
		appName = config.AppName
		address := net.JoinHostPort(config.TelegrafHost, config.TelegrafPort)
		globalTags := []string{
			TagAsString(TagEnv, config.AppEnv),
			TagAsString(TagService, appName),
		}

		client, err := statsd.New(address, statsd.WithTags(globalTags))
		if err != nil {
			log.Error().Err(err).Msg("StatsD client initialization failed, metrics disabled")
			return
		}
		statsDClient = client
		initialized = true
		log.Info().Msgf("Metrics client initialized with telegraf address - %s, global tags - %v, and "+
			"sampling rate - %f", address, globalTags, samplingRate)
	})
}

// Timing sends timing information
func Timing(name string, value time.Duration, tags []string) {
	if err := statsDClient.Timing(name, value, tags, samplingRate); err != nil {
		log.Warn().Err(err).Msg("Error occurred while doing statsd timing")
	}
}

// Count increases metric counter by value
func Count(name string, value int64, tags []string) {
	if err := statsDClient.Count(name, value, tags, samplingRate); err != nil {
		log.Warn().Err(err).Msg("Error occurred while doing statsd count")
	}
}

// Incr increases metric counter by 1
func Incr(name string, tags []string) {
	Count(name, 1, tags)
}

func Gauge(name string, value float64, tags []string) {
	if err := statsDClient.Gauge(name, value, tags, samplingRate); err != nil {
		log.Warn().Err(err).Msg("Error occurred while doing statsd gauge")
	}
}
