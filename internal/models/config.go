package models

import (
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	ServerAddr          string `yaml:"server_addr"`
	UploadDir           string `yaml:"upload_dir"`
	ProcessedDir        string `yaml:"processed_dir"`
	Workers             int    `yaml:"workers"`
	QueueSize           int    `yaml:"queue_size"`
	Quality             int    `yaml:"quality"`
	DeleteAfterDownload bool   `yaml:"delete_after_download"`
	KafkaBroker         string `yaml:"kafka_broker"`
	KafkaTopic          string `yaml:"kafka_topic"`
	LogLevel            string `yaml:"log_level"`
	LogPlaintext        bool   `yaml:"log_plaintext"`
}

// LoadConfig reads the yaml config at path and applies environment
// overrides on top. A missing file is not an error: defaults plus
// environment are enough to run.
func LoadConfig(path string) (*Config, error) {
	cfg := Config{
		ServerAddr:   ":3000",
		UploadDir:    "uploads",
		ProcessedDir: "processed",
		Workers:      4,
		QueueSize:    16,
		Quality:      60,
		LogLevel:     "info",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideString(&cfg.ServerAddr, "SERVER_ADDR")
	overrideString(&cfg.UploadDir, "UPLOAD_DIR")
	overrideString(&cfg.ProcessedDir, "PROCESSED_DIR")
	overrideString(&cfg.KafkaBroker, "KAFKA_BROKER")
	overrideString(&cfg.KafkaTopic, "KAFKA_TOPIC")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")

	return &cfg, nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
