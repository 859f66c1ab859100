// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators provides input validation for request payloads.
//
// Rules are declared with `validate` struct tags on the models and checked by
// go-playground/validator. Field names in reported problems follow the JSON
// names so they can be returned to API clients unchanged.
package validators

import "context"

// Validator checks a value against its declared rules.
type Validator interface {
	// Validate returns nil when v satisfies every rule. Rule violations are
	// reported as a *[ValidationError] that matches [ErrValidation].
	Validate(ctx context.Context, v any) error
}
