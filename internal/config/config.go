package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	AWS struct {
		Region    string `yaml:"region"`
		AccessKey string `yaml:"accessKey"`
		SecretKey string `yaml:"secretKey"`
	} `yaml:"aws"`

	OpenAI struct {
		APIKey         string `yaml:"apiKey"`
		Model          string `yaml:"model"`
		EmbeddingModel string `yaml:"embeddingModel"`
	} `yaml:"openai"`

	Search struct {
		Endpoint string `yaml:"endpoint"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Index    string `yaml:"index"`
	} `yaml:"search"`

	Audit struct {
		PollIntervalSeconds     int    `yaml:"pollIntervalSeconds"`
		PollMaxAttempts         int    `yaml:"pollMaxAttempts"`
		RetrievalTopK           int    `yaml:"retrievalTopK"`
		RetrievalTimeoutSeconds int    `yaml:"retrievalTimeoutSeconds"`
		ScratchDir              string `yaml:"scratchDir"`
		Language                string `yaml:"language"`
	} `yaml:"audit"`
}

// Load reads the yaml config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.AWS.Region == "" {
		c.AWS.Region = "eu-central-1"
	}
	if c.Audit.PollIntervalSeconds == 0 {
		c.Audit.PollIntervalSeconds = 10
	}
	if c.Audit.PollMaxAttempts == 0 {
		c.Audit.PollMaxAttempts = 30
	}
	if c.Audit.RetrievalTopK == 0 {
		c.Audit.RetrievalTopK = 3
	}
	if c.Audit.RetrievalTimeoutSeconds == 0 {
		c.Audit.RetrievalTimeoutSeconds = 10
	}
	if c.Audit.Language == "" {
		c.Audit.Language = "en-US"
	}
}

// PollInterval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Audit.PollIntervalSeconds) * time.Second
}

// RetrievalTimeout as a duration.
func (c *Config) RetrievalTimeout() time.Duration {
	return time.Duration(c.Audit.RetrievalTimeoutSeconds) * time.Second
}
