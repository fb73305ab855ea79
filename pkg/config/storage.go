package config

const (
	StorageModeLocal = "local"
	StorageModeS3    = "s3"
)

type StorageConfig struct {
	Mode      string
	UploadDir string
	AWSRegion string
	AWSBucket string
	S3Prefix  string
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Mode:      getEnv("STORAGE_MODE", StorageModeLocal),
		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
		AWSRegion: getEnv("AWS_REGION", "sa-east-1"),
		AWSBucket: getEnv("AWS_BUCKET", "recruitflow-uploads"),
		S3Prefix:  getEnv("S3_PREFIX", ""),
	}
}
