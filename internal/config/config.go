package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverFirestore = "firestore"
	DriverMongo     = "mongo"
	DriverRedis     = "redis"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string
	UploadDir      string
	Store          StoreConfig
}

type StoreConfig struct {
	Driver     string
	Collection string

	// Firestore
	FirebaseCredentials string // base64 encoded service account JSON
	FirebaseKeyPath     string
	FirebaseProjectID   string

	// Mongo
	MongoURI      string
	MongoDatabase string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Postgres
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// SQLite
	SQLitePath string
}

// PostgresDSN builds the connection string the same way for every caller.
func (c StoreConfig) PostgresDSN() string {
	return "host=" + c.DBHost + " user=" + c.DBUser + " password=" + c.DBPassword +
		" dbname=" + c.DBName + " port=" + c.DBPort + " sslmode=" + c.DBSSLMode
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("allowed_origins", "http://localhost:3000")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("upload_dir", "uploads")

	v.SetDefault("store_driver", DriverFirestore)
	v.SetDefault("store_collection", "students")
	v.SetDefault("firebase_credentials", "")
	v.SetDefault("firebase_key_path", "firebase_key.json")
	v.SetDefault("firebase_project_id", "")
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_database", "marks")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "studentdb")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("sqlite_path", "marks.db")
	v.AutomaticEnv()

	return &Config{
		Port:           v.GetString("port"),
		AllowedOrigins: splitList(v.GetString("allowed_origins")),
		LogLevel:       v.GetString("log_level"),
		LogFormat:      v.GetString("log_format"),
		UploadDir:      v.GetString("upload_dir"),
		Store: StoreConfig{
			Driver:              strings.ToLower(strings.TrimSpace(v.GetString("store_driver"))),
			Collection:          v.GetString("store_collection"),
			FirebaseCredentials: v.GetString("firebase_credentials"),
			FirebaseKeyPath:     v.GetString("firebase_key_path"),
			FirebaseProjectID:   v.GetString("firebase_project_id"),
			MongoURI:            v.GetString("mongo_uri"),
			MongoDatabase:       v.GetString("mongo_database"),
			RedisAddr:           v.GetString("redis_addr"),
			RedisPassword:       v.GetString("redis_password"),
			RedisDB:             v.GetInt("redis_db"),
			DBHost:              v.GetString("db_host"),
			DBPort:              v.GetString("db_port"),
			DBUser:              v.GetString("db_user"),
			DBPassword:          v.GetString("db_password"),
			DBName:              v.GetString("db_name"),
			DBSSLMode:           v.GetString("db_sslmode"),
			SQLitePath:          v.GetString("sqlite_path"),
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
