package configs

import (
	"flag"
	"os"

	"github.com/hilthontt/secretsanta/internal/infrastructure/env"
)

// DetermineConfigPath resolves the config file from the --config flag, the
// SANTA_CONFIG env var, or a handful of conventional locations. An empty
// result means "run on defaults"; the service has no required settings.
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("SANTA_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/secretsanta/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}
