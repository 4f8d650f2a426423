package config

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv reads a .env file when one is present. A missing file is fine;
// the process environment may already carry everything.
func LoadEnv() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}
}
