package config

import (
	"errors"
	"fmt"
)

// ValidateForRun checks everything the server needs before it starts
// accepting requests.
func ValidateForRun(cfg *Config) error {
	var errs []error

	if err := cfg.Redis.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := cfg.Scheduler.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := cfg.Sync.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %w", errors.Join(errs...))
	}
	return nil
}
