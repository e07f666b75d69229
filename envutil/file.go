package envutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFileType is returned for an env file whose extension is not
// .env, .json, .yml or .yaml.
var ErrUnknownFileType = errors.New("unknown env file type")

// envDocument is the shape of JSON and YAML env files:
//
//	env:
//	  LOG_LEVEL: debug
//	  CYCLEKIT_NO_BANNER: "true"
type envDocument struct {
	Env map[string]string `json:"env" yaml:"env"`
}

// LoadEnvFile reads the variables in path without touching the process
// environment. The format follows the extension, compared case-insensitively:
// dotenv for .env, and a top-level "env" mapping for .json, .yml and .yaml.
func LoadEnvFile(path string) (map[string]string, error) {
	name := strings.ToLower(filepath.Base(path))

	switch {
	case strings.HasSuffix(name, ".env"):
		return godotenv.Read(path)
	case strings.HasSuffix(name, ".json"):
		return readEnvDocument(path, json.Unmarshal)
	case strings.HasSuffix(name, ".yml"), strings.HasSuffix(name, ".yaml"):
		return readEnvDocument(path, yaml.Unmarshal)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFileType, filepath.Base(path))
	}
}

func readEnvDocument(path string, unmarshal func([]byte, any) error) (map[string]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the operator
	if err != nil {
		return nil, err
	}

	var doc envDocument
	if err := unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return doc.Env, nil
}
