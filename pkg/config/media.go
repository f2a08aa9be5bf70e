package config

// Media providers selectable through MEDIAX_PROVIDER.
const (
	MediaProviderCloudinary = "cloudinary"
	MediaProviderS3         = "s3"
)

// Persist strategies selectable through MEDIAX_STRATEGY.
const (
	StrategyStaged = "staged"
	StrategyDirect = "direct"
)

// DefaultMaxUploadBytes is the 10 MiB upload ceiling.
const DefaultMaxUploadBytes int64 = 10 * 1024 * 1024

// MediaConfig configures media ingestion.
type MediaConfig struct {
	Provider string
	Strategy string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	S3Bucket    string
	S3Endpoint  string
	S3PublicURL string
	AWSRegion   string

	// Folder is the logical namespace every uploaded object is tagged with.
	Folder     string
	StagingDir string
	MaxBytes   int64
}

// Enabled reports whether the selected object store has its credentials.
func (c MediaConfig) Enabled() bool {
	switch c.Provider {
	case MediaProviderCloudinary:
		return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
	case MediaProviderS3:
		return c.S3Bucket != "" && c.AWSRegion != ""
	default:
		return false
	}
}

func loadMediaConfig() MediaConfig {
	return MediaConfig{
		Provider:            getEnv("MEDIAX_PROVIDER", MediaProviderCloudinary),
		Strategy:            getEnv("MEDIAX_STRATEGY", StrategyStaged),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		S3Bucket:            getEnv("MEDIAX_S3_BUCKET", ""),
		S3Endpoint:          getEnv("MEDIAX_S3_ENDPOINT", ""),
		S3PublicURL:         getEnv("MEDIAX_S3_PUBLIC_URL", ""),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		Folder:              getEnv("MEDIAX_FOLDER", "jamalpur-chamber"),
		StagingDir:          getEnv("MEDIAX_STAGING_DIR", "./temp"),
		MaxBytes:            getEnvInt64("MEDIAX_MAX_BYTES", DefaultMaxUploadBytes),
	}
}
