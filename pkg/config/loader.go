package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]any)

	dotEnvOnce sync.Once
)

// Load parses environment variables into the provided struct based on its
// `env` tags. Each unique struct type is parsed once per process; later
// calls for the same type return the cached copy, so every component sees
// identical configuration no matter when it loads.
//
// The first call in the process also loads the default .env file, if one
// exists, without overriding variables that are already set.
//
// Example:
//
//	type StoreConfig struct {
//		URL     string        `env:"REDIS_URL,required"`
//		Timeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg StoreConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	dotEnvOnce.Do(func() {
		// A missing .env file is fine; deployments use the process env.
		_ = godotenv.Load()
	})

	key := typeKey[T]()

	cacheMu.RLock()
	cached, ok := cache[key]
	cacheMu.RUnlock()
	if ok {
		*v = cached.(T)
		return nil
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	cache[key] = *v
	return nil
}

// MustLoad works like Load but panics when loading fails. Use it for
// configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// LoadEnv loads the named env files into the process environment without
// overriding variables that are already set. Calling it suppresses the
// default .env autoload, so an explicit file choice is never mixed with
// the implicit one.
func LoadEnv(paths ...string) error {
	dotEnvOnce.Do(func() {})
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrReadingFile, err)
	}
	return nil
}

// LoadFile decodes a YAML document into the provided struct. Results are
// not cached: files describe topology that callers may re-read after
// edits.
func LoadFile[T any](path string, v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Join(ErrReadingFile, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// ResetCache drops every cached configuration so the next Load parses the
// environment again. Intended for tests.
func ResetCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	clear(cache)
}

// typeKey returns a string identifier for the generic type T.
func typeKey[T any]() string {
	var zero T
	if t := reflect.TypeOf(zero); t != nil {
		return t.String()
	}
	return fmt.Sprintf("%T", *new(T))
}
