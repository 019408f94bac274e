package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
}

type ServerConfig struct {
	Address        string        `mapstructure:"address"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReleaseMode    bool          `mapstructure:"release_mode"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	// PhotosBucket stores progress, measurement and nutrition photos.
	PhotosBucket string `mapstructure:"photos_bucket"`
	// DataBucket stores medical documents.
	DataBucket string `mapstructure:"data_bucket"`
	// PublicBaseURL is prepended to "<bucket>/<key>" to build public object URLs.
	// Empty means presigned GET URLs are handed out instead.
	PublicBaseURL string `mapstructure:"public_base_url"`
	UseSSL        bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	File     string `mapstructure:"file"`
	ToStdout bool   `mapstructure:"to_stdout"`
	JSON     bool   `mapstructure:"json"`
}

// ScheduleConfig controls calendar arithmetic and the bookable window.
type ScheduleConfig struct {
	Timezone  string `mapstructure:"timezone"`
	StartHour int    `mapstructure:"start_hour"`
	EndHour   int    `mapstructure:"end_hour"`
	// Day view slots run from DaySlotFirst to DaySlotLast inclusive.
	DaySlotFirst int `mapstructure:"day_slot_first"`
	DaySlotLast  int `mapstructure:"day_slot_last"`
}

type UploadsConfig struct {
	MaxFileSize int64 `mapstructure:"max_file_size"`
}

// Location resolves the configured timezone, falling back to UTC.
func (s ScheduleConfig) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// no file, env vars and defaults only
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.release_mode", false)

	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "hardcase")

	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.photos_bucket", "client-photos")
	v.SetDefault("s3.data_bucket", "client-data")

	v.SetDefault("jwt.expiration", "1h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.to_stdout", true)
	v.SetDefault("log.json", false)

	v.SetDefault("schedule.timezone", "UTC")
	v.SetDefault("schedule.start_hour", 8)
	v.SetDefault("schedule.end_hour", 21)
	v.SetDefault("schedule.day_slot_first", 8)
	v.SetDefault("schedule.day_slot_last", 20)

	v.SetDefault("uploads.max_file_size", 25*1024*1024)
}
