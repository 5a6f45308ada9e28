package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string

	FirebaseProject            string
	FirebaseApiKey             string
	FirebaseDatabaseURL        string
	FirebaseServiceAccountJSON string
	FirebaseServiceAccountPath string

	StorageProvider string
	StorageBucket   string
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioUseSSL     bool

	FunctionsBaseURL       string
	FunctionsRatePerSecond float64

	AlgoliaAppID  string
	AlgoliaApiKey string

	LocalDataDir  string
	FileCacheDir  string
	UserCacheSize int

	CoalesceDelay time.Duration

	ReachabilityHost     string
	ReachabilityInterval time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	project := getEnv("FIREBASE_PROJECT_ID", "")

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		FirebaseProject:            project,
		FirebaseApiKey:             getEnv("FIREBASE_API_KEY", ""),
		FirebaseDatabaseURL:        getEnv("FIREBASE_DATABASE_URL", ""),
		FirebaseServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),

		StorageProvider: getEnv("STORAGE_PROVIDER", "gcs"),
		StorageBucket:   getEnv("STORAGE_BUCKET", project+".appspot.com"),
		MinioEndpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:  getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:  getEnv("MINIO_SECRET_KEY", ""),
		MinioUseSSL:     getEnvAsBool("MINIO_USE_SSL", false),

		FunctionsBaseURL:       getEnv("FUNCTIONS_BASE_URL", "https://us-central1-"+project+".cloudfunctions.net"),
		FunctionsRatePerSecond: getEnvAsFloat("FUNCTIONS_RATE_PER_SECOND", 20),

		AlgoliaAppID:  getEnv("ALGOLIA_APP_ID", ""),
		AlgoliaApiKey: getEnv("ALGOLIA_API_KEY", ""),

		LocalDataDir:  getEnv("LOCAL_DATA_DIR", "./data"),
		FileCacheDir:  getEnv("FILE_CACHE_DIR", "./data/files"),
		UserCacheSize: int(getEnvAsInt64("USER_CACHE_SIZE", 512)),

		CoalesceDelay: getEnvAsDuration("COALESCE_DELAY", 2*time.Second),

		ReachabilityHost:     getEnv("REACHABILITY_HOST", "firestore.googleapis.com:443"),
		ReachabilityInterval: getEnvAsDuration("REACHABILITY_INTERVAL", 15*time.Second),
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}
