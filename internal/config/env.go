// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// secretFileSuffix marks a variable holding the path of a mounted secret,
// e.g. APP_TOKEN_SIGN_KEY_FILE for APP_TOKEN_SIGN_KEY.
const secretFileSuffix = "_FILE"

// parseEnv fills cfg from the environment through the env and envPrefix tags.
//
// Secrets can also be mounted as files and referenced with <NAME>_FILE.
// A value set directly in <NAME> wins over the file.
func parseEnv(cfg *StructuredConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	secrets := []struct {
		name string
		dst  *string
	}{
		{"APP_TOKEN_SIGN_KEY", &cfg.App.TokenSignKey},
		{"STORAGE_REDIS_PASSWORD", &cfg.Storage.Redis.Password},
		{"ADAPTER_GITHUB_TOKEN", &cfg.Adapter.GitHub.Token},
		{"ADAPTER_MAIL_API_KEY", &cfg.Adapter.Mail.APIKey},
	}
	for _, secret := range secrets {
		path := os.Getenv(secret.name + secretFileSuffix)
		if *secret.dst != "" || path == "" {
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("error reading %s%s: %w", secret.name, secretFileSuffix, err)
		}
		*secret.dst = strings.TrimSpace(string(content))
	}

	return nil
}
