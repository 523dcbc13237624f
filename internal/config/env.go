package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// dotenvFiles lists the dotenv files for an environment, highest priority
// first. .env.local is skipped for the test environment so runs stay
// reproducible.
func dotenvFiles(environment string) []string {
	files := []string{".env." + environment + ".local"}
	if environment != "test" {
		files = append(files, ".env.local")
	}
	return append(files, ".env."+environment, ".env")
}

// loadEnvFiles loads every existing dotenv file in dir. godotenv never
// overrides a variable that is already set, so earlier files and the process
// environment win.
func loadEnvFiles(dir, environment string) ([]string, error) {
	var loaded []string
	for _, name := range dotenvFiles(environment) {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("error loading %s: %w", name, err)
		}
		log.Debug().Str("file", name).Msg(".env file loaded")
		loaded = append(loaded, name)
	}
	return loaded, nil
}
