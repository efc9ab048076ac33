// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file, then environment.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SeedPath points at the YAML fixture of mock assignments loaded at
	// startup. Empty disables seeding.
	SeedPath string `koanf:"seed_path"`

	// SubmitRequiresVerification blocks report submission while any
	// indicator is resolved as unable-to-verify.
	SubmitRequiresVerification bool `koanf:"submit_requires_verification"`

	// InspectorID and InspectorName identify the mock session inspector
	// surfaced by GET /session. Display only, never authorization.
	InspectorID   string `koanf:"inspector_id"`
	InspectorName string `koanf:"inspector_name"`

	// VerifiedNote overrides the auto-filled note on verified findings.
	VerifiedNote string `koanf:"verified_note"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":9080",
		SeedPath:      "config/seed.yaml",
		InspectorID:   "INS-001",
		InspectorName: "Demo Inspector",
	}
}
