package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env        Env
	Server     ServerConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	NATS       NATSConfig
	Provider   ProviderConfig
	Processing ProcessingConfig
	Thumbnail  ThumbnailConfig
	Sweep      SweepConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

type StorageConfig struct {
	Endpoint          string        `envconfig:"STORAGE_ENDPOINT" required:"true"`
	BucketName        string        `envconfig:"STORAGE_BUCKET_NAME" required:"true"`
	AccessKey         string        `envconfig:"STORAGE_ACCESS_KEY" required:"true"`
	SecretKey         string        `envconfig:"STORAGE_SECRET_KEY" required:"true"`
	StreamURLDuration time.Duration `envconfig:"STORAGE_STREAM_URL_DURATION" default:"1h"`
	UseSSL            bool          `envconfig:"STORAGE_USE_SSL" default:"false"`
}

type NATSConfig struct {
	URL          string `envconfig:"NATS_URL" required:"true"`
	StreamName   string `envconfig:"NATS_STREAM_NAME" required:"true"`
	ConsumerName string `envconfig:"NATS_CONSUMER_NAME" required:"true"`
	Subject      string `envconfig:"NATS_SUBJECT" required:"true"`
	DeliverGroup string `envconfig:"NATS_DELIVER_GROUP" required:"true"`
	// AckWait must exceed PROCESSING_SYNC_MAX_WAIT or JetStream redelivers
	// upload events while the sync path is still waiting on the provider.
	AckWait time.Duration `envconfig:"NATS_ACK_WAIT" default:"3m"`
}

type ProviderConfig struct {
	BaseURL        string        `envconfig:"PROVIDER_BASE_URL" required:"true"`
	Token          string        `envconfig:"PROVIDER_TOKEN" required:"true"`
	RequestTimeout time.Duration `envconfig:"PROVIDER_REQUEST_TIMEOUT" default:"10s"`
	MaxRetries     uint64        `envconfig:"PROVIDER_MAX_RETRIES" default:"3"`
	RetryBackoff   time.Duration `envconfig:"PROVIDER_RETRY_BACKOFF" default:"500ms"`
	PollInterval   time.Duration `envconfig:"PROVIDER_POLL_INTERVAL" default:"2s"`
}

// ProcessingConfig holds the mode selector thresholds and the sync wait
// budget. Injected at construction so tests can use arbitrary values.
type ProcessingConfig struct {
	SmallFileBytes     int64         `envconfig:"PROCESSING_SMALL_FILE_BYTES" default:"52428800"`       // 50MB
	FastFormatMaxBytes int64         `envconfig:"PROCESSING_FAST_FORMAT_MAX_BYTES" default:"209715200"` // 200MB
	BaseEstimate       time.Duration `envconfig:"PROCESSING_BASE_ESTIMATE" default:"30s"`
	PerMBOverThreshold time.Duration `envconfig:"PROCESSING_PER_MB_OVER_THRESHOLD" default:"500ms"`
	SizeThresholdBytes int64         `envconfig:"PROCESSING_SIZE_THRESHOLD_BYTES" default:"104857600"` // 100MB
	MaxEstimate        time.Duration `envconfig:"PROCESSING_MAX_ESTIMATE" default:"120s"`
	SyncBudget         time.Duration `envconfig:"PROCESSING_SYNC_BUDGET" default:"60s"`
	SyncMaxWait        time.Duration `envconfig:"PROCESSING_SYNC_MAX_WAIT" default:"120s"`
}

type ThumbnailConfig struct {
	SecondaryBaseURL string        `envconfig:"THUMBNAIL_SECONDARY_BASE_URL" default:""`
	StrategyTimeout  time.Duration `envconfig:"THUMBNAIL_STRATEGY_TIMEOUT" default:"15s"`
	FFmpegPath       string        `envconfig:"THUMBNAIL_FFMPEG_PATH" default:"ffmpeg"`
	FrameOffset      time.Duration `envconfig:"THUMBNAIL_FRAME_OFFSET" default:"5s"`
	MaxWidth         int           `envconfig:"THUMBNAIL_MAX_WIDTH" default:"640"`
}

type SweepConfig struct {
	Every     time.Duration `envconfig:"SWEEP_EVERY" default:"5m"`
	StuckAge  time.Duration `envconfig:"SWEEP_STUCK_AGE" default:"30m"`
	BatchSize int           `envconfig:"SWEEP_BATCH_SIZE" default:"50"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
