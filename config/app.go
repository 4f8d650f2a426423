package config

import (
	"os"
	"strconv"
	"sync"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName       string
	Port          string
	Env           string
	Debug         bool
	MediaURI      string
	FeedBatchSize int
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		batch := 50
		if v := os.Getenv("FEED_BATCH_SIZE"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				batch = n
			}
		}
		mediaURI := os.Getenv("MEDIA_URI")
		if mediaURI == "" {
			mediaURI = "/media/catalog/product/"
		}
		AppConfig = &Config{
			AppName:       os.Getenv("APP_NAME"),
			Port:          os.Getenv("PORT"),
			Env:           os.Getenv("APP_ENV"),
			Debug:         os.Getenv("DEBUG") == "true",
			MediaURI:      mediaURI,
			FeedBatchSize: batch,
		}
	})
}
