package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTables DynamoTables
	S3BucketName string

	JWTSecret string
	JWTExpiry time.Duration

	OTPTTL    time.Duration
	SNSRegion string

	// RedisAddr selects the shared OTP store. When empty the process-local
	// in-memory store is used instead.
	RedisAddr string
	RedisDB   int

	// ReservedIdentities maps normalized phone numbers to fixed usernames,
	// used to provision deterministic demo accounts.
	ReservedIdentities map[string]string

	AvatarBaseURL  string
	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users string
	Books string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	reserved := make(map[string]string)
	for _, pair := range [][2]string{
		{getEnv("RESERVED_PHONE_1", ""), getEnv("RESERVED_USERNAME_1", "")},
		{getEnv("RESERVED_PHONE_2", ""), getEnv("RESERVED_USERNAME_2", "")},
	} {
		if pair[0] != "" && pair[1] != "" {
			reserved[pair[0]] = pair[1]
		}
	}

	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			Users: getEnv("DYNAMO_TABLE_USERS", "users"),
			Books: getEnv("DYNAMO_TABLE_BOOKS", "books"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "bookworm-images"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 15)) * 24 * time.Hour,

		OTPTTL:    time.Duration(getEnvInt("OTP_TTL_MINUTES", 5)) * time.Minute,
		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		RedisAddr: getEnv("REDIS_ADDR", ""),
		RedisDB:   getEnvInt("REDIS_DB", 0),

		ReservedIdentities: reserved,

		AvatarBaseURL:  getEnv("AVATAR_BASE_URL", "https://api.dicebear.com"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
