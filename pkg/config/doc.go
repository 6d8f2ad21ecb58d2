// Package config loads the module's configuration from environment
// variables and YAML files.
//
// It wraps `github.com/joho/godotenv`, `github.com/caarlos0/env/v11` and
// `gopkg.in/yaml.v3` behind a small generic API:
//
//   - Load / MustLoad parse the environment into any struct annotated with
//     `env` tags, caching each struct type so the whole process agrees on
//     one parsed copy.
//   - LoadEnv loads one or more explicit .env files; without it, the first
//     Load picks up the default .env if present.
//   - LoadFile decodes a YAML document, used for the store cluster
//     topologies that environment variables express poorly.
//
// # Usage
//
// Annotate a struct and load it:
//
//	type StoreConfig struct {
//	    URL     string        `env:"REDIS_URL,required"`
//	    Prefix  string        `env:"SESSION_KEY_PREFIX"`
//	    Timeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg StoreConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// Topology documents come from files:
//
//	var cluster store.ClusterConfig
//	if err := config.LoadFile("cluster.yaml", &cluster); err != nil {
//	    log.Fatalf("loading topology: %v", err)
//	}
//
// # Error Handling
//
// Sentinel errors compare with errors.Is and carry the underlying cause
// via errors.Join:
//
//   - ErrParsingConfig – the source did not parse into the struct.
//   - ErrReadingFile   – an env or YAML file could not be read.
//   - ErrNilPointer    – nil destination passed to a loader.
//
// # Testing Helpers
//
// ResetCache clears the per-type cache so a test can reload a struct after
// changing the environment.
package config
