package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if err := c.Admin.validate(); err != nil {
		return fmt.Errorf("admin: %w", err)
	}
	return nil
}

func (a *AdminConfig) validate() error {
	if a.DefaultPageSize <= 0 {
		return fmt.Errorf("default_page_size must be > 0 (got %d)", a.DefaultPageSize)
	}
	if a.MaxPageSize < a.DefaultPageSize {
		return fmt.Errorf("max_page_size must be >= default_page_size (got %d < %d)", a.MaxPageSize, a.DefaultPageSize)
	}
	if a.ActivityWindowDays <= 0 || a.ActivityWindowDays > 365 {
		return fmt.Errorf("activity_window_days must be in 1..365 (got %d)", a.ActivityWindowDays)
	}
	return nil
}
