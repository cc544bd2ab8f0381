package env

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var values map[string]string

// GetEnv resolves a configuration key: the loaded .env file wins, then the
// process environment, then the default.
func GetEnv(key, def string) string {
	if val, ok := values[key]; ok {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// SetupEnvFile loads the .env file from the working directory or the project
// root when running out of cmd/caravancrm. Deployments that configure
// everything through the process environment run without one.
func SetupEnvFile() {
	for _, envFile := range []string{".env", "../../.env"} {
		parsed, err := godotenv.Read(envFile)
		if err == nil {
			values = parsed
			return
		}
	}
	log.Println("No .env file found, relying on process environment")
}
