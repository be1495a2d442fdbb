// Package env centralises environment variable lookups, including support
// for the legacy CIPHEY_* names Ares inherited and still honours with a
// one-time deprecation warning.
package env

import (
	"log"
	"os"
	"sync"
)

var (
	warnLogger func(format string, args ...any) = log.Printf
	warnMu     sync.Mutex
	warnedKeys sync.Map
)

// Lookup returns the value of key if it is set. When legacyKey is non-empty
// and present it is returned instead and a deprecation warning is logged
// once per key.
func Lookup(key, legacyKey string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	if legacyKey == "" {
		return "", false
	}
	if v, ok := os.LookupEnv(legacyKey); ok {
		logDeprecated(legacyKey, key)
		return v, true
	}
	return "", false
}

func logDeprecated(legacyKey, key string) {
	onceIface, _ := warnedKeys.LoadOrStore(legacyKey, &sync.Once{})
	once := onceIface.(*sync.Once)
	once.Do(func() {
		warnMu.Lock()
		logger := warnLogger
		warnMu.Unlock()
		logger("%s is deprecated; use %s", legacyKey, key)
	})
}

// ResetWarningsForTesting clears the cached once guards so tests can verify
// warning behaviour deterministically.
func ResetWarningsForTesting() {
	warnMu.Lock()
	warnedKeys = sync.Map{}
	warnMu.Unlock()
}

// SetWarnLoggerForTesting swaps the logger used for warnings. The returned
// function restores the previous logger and should be deferred in tests.
func SetWarnLoggerForTesting(fn func(format string, args ...any)) (restore func()) {
	warnMu.Lock()
	previous := warnLogger
	warnLogger = fn
	warnMu.Unlock()
	return func() {
		warnMu.Lock()
		warnLogger = previous
		warnMu.Unlock()
	}
}
