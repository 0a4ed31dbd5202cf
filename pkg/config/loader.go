// Package config loads typed configuration structs from environment
// variables, with an optional .env file for local development. Each config
// type is parsed once and cached for the process lifetime.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrNilPointer    = errors.New("config: nil pointer passed to Load")
	ErrParsingConfig = errors.New("config: failed to parse environment")
)

var (
	mu     sync.Mutex
	cache  = make(map[string]any)
	envDot sync.Once
)

// Load populates v from the environment. The first call for a given type
// parses and caches; subsequent calls return the cached value, so every
// component sees the same configuration.
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	envDot.Do(func() {
		// The .env file is optional; absence is not an error.
		_ = godotenv.Load()
	})

	name := typeName[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache[name]; ok {
		*v = cached.(T)
		return nil
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	cache[name] = *v
	return nil
}

// MustLoad works like Load but panics on failure. Used for configuration the
// service cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func typeName[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return fmt.Sprintf("%T", *new(T))
	}
	return t.String()
}
