package config

import (
	"fmt"
	"sync"
)

var (
	// globalConfig holds the singleton configuration instance.
	globalConfig *Config

	// globalPath is the file globalConfig was loaded from, empty for defaults.
	globalPath string

	// subscribers are notified after every successful reload.
	subscribers []func(*Config)

	// configMutex protects globalConfig, globalPath and subscribers.
	configMutex sync.RWMutex

	// initOnce ensures configuration is initialized only once.
	initOnce sync.Once
)

// Initialize loads configuration from the specified path with environment
// variable overrides and stores it as the global singleton configuration.
// An empty path uses the defaults. Subsequent calls are ignored.
//
// Returns an error if configuration loading or validation fails.
func Initialize(path string) error {
	var initErr error

	initOnce.Do(func() {
		cfg, err := LoadConfigWithEnvOverrides(path)
		if err != nil {
			initErr = err
			return
		}

		configMutex.Lock()
		globalConfig = cfg
		globalPath = path
		configMutex.Unlock()
	})

	return initErr
}

// GetConfig returns the global configuration instance.
// It returns nil if Initialize has not been called successfully.
// This function is thread-safe and can be called concurrently.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetConfig sets the global configuration instance.
// This function is primarily intended for testing.
func SetConfig(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = cfg
}

// Subscribe registers fn to run after every successful ReloadConfig with the
// new configuration. Subscribers run in registration order on the reloading
// goroutine.
func Subscribe(fn func(*Config)) {
	configMutex.Lock()
	defer configMutex.Unlock()
	subscribers = append(subscribers, fn)
}

// ReloadConfig reloads the configuration from the specified path, or from
// the path given to Initialize when path is empty. The new configuration
// replaces the global instance only if loading and validation succeed.
//
// Returns an error if reloading fails, in which case the existing
// configuration remains unchanged.
func ReloadConfig(path string) error {
	if path == "" {
		configMutex.RLock()
		path = globalPath
		configMutex.RUnlock()
	}

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}

	configMutex.Lock()
	globalConfig = cfg
	globalPath = path
	notify := append([]func(*Config){}, subscribers...)
	configMutex.Unlock()

	for _, fn := range notify {
		fn(cfg)
	}

	return nil
}

// MustGetConfig returns the global configuration instance.
// It panics if the configuration has not been initialized.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}

// reset clears all global state. Tests only.
func reset() {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = nil
	globalPath = ""
	subscribers = nil
	initOnce = sync.Once{}
}
