package sessionstore

import "time"

// Config carries the pipeline and handler tunables. The 24 minute TTL is
// the classic 1440 second session lifetime.
type Config struct {
	TTL              time.Duration `yaml:"ttl" env:"SESSION_TTL" envDefault:"24m"`                              // TTL handed to the store on every write.
	MinTTL           time.Duration `yaml:"min_ttl" env:"SESSION_MIN_TTL" envDefault:"60s"`                      // MinTTL floors every TTL before it reaches the store.
	KeyProbeAttempts int           `yaml:"key_probe_attempts" env:"SESSION_KEY_PROBE_ATTEMPTS" envDefault:"10"` // KeyProbeAttempts bounds GenerateKey collision probes.
	MaxHookDepth     int           `yaml:"max_hook_depth" env:"SESSION_MAX_HOOK_DEPTH" envDefault:"3"`          // MaxHookDepth is the recursion ceiling for hook storage.
}

// DefaultConfig returns the configuration used when nothing is set in the
// environment.
func DefaultConfig() Config {
	return Config{
		TTL:              24 * time.Minute,
		MinTTL:           time.Minute,
		KeyProbeAttempts: 10,
		MaxHookDepth:     3,
	}
}

// withDefaults replaces non-positive fields with their defaults. A zero
// MinTTL would break the floor invariant, so it is never allowed through.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.TTL <= 0 {
		c.TTL = def.TTL
	}
	if c.MinTTL <= 0 {
		c.MinTTL = def.MinTTL
	}
	if c.KeyProbeAttempts <= 0 {
		c.KeyProbeAttempts = def.KeyProbeAttempts
	}
	if c.MaxHookDepth <= 0 {
		c.MaxHookDepth = def.MaxHookDepth
	}
	return c
}
