package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// DotenvFiles are read by LoadDotenv in order. Earlier files win because
// godotenv never overrides a variable that is already set.
var DotenvFiles = []string{".env.dev", ".env"}

// LoadDotenv loads every existing file in files (DotenvFiles when empty) into
// the process environment. Missing files are ignored.
func LoadDotenv(files ...string) error {
	if len(files) == 0 {
		files = DotenvFiles
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrapf(err, "config: load %s", f)
		}
		slog.Debug("config: loaded env file", "path", f)
	}
	return nil
}
