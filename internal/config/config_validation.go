// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// There is no fallback signing key: a missing TokenSignKey is fatal.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}

	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs)
	}

	if cfg.Server.HTTPAddress == "" {
		return fmt.Errorf("%w: HTTP address is required", ErrInvalidServerConfigs)
	}
	if cfg.Server.RateLimit < 0 || cfg.Server.RateWindow < 0 {
		return fmt.Errorf("%w: rate limit must not be negative", ErrInvalidServerConfigs)
	}

	if cfg.Adapter.Mail.Domain != "" && cfg.Adapter.Mail.APIKey != "" && cfg.Adapter.Mail.Recipient == "" {
		return fmt.Errorf("%w: mail recipient is required when Mailgun is configured", ErrInvalidAdapterConfigs)
	}

	if cfg.Workers.GitHubSyncInterval < 0 || cfg.Workers.GitHubSyncBatch < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
