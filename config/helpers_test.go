// ABOUTME: Test helpers for config tests
// ABOUTME: Provides utilities for environment variable management

package config

import (
	"os"
	"testing"
)

// withCleanEnv clears the environment, sets the given vars, and returns a
// cleanup function that restores the original env. Use with t.Cleanup().
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    t.Cleanup(withCleanEnv(t, map[string]string{
//	        "ADMIN_API_KEY": "secret",
//	    }))
//	}
func withCleanEnv(t *testing.T, vars map[string]string) func() {
	t.Helper()

	originalEnv := os.Environ()
	os.Clearenv()

	// Keep tests away from any .env in the package directory
	os.Setenv("ENV_FILE", t.TempDir()+"/missing.env")

	for key, value := range vars {
		os.Setenv(key, value)
	}

	return func() {
		os.Clearenv()
		for _, env := range originalEnv {
			for i := 0; i < len(env); i++ {
				if env[i] == '=' {
					os.Setenv(env[:i], env[i+1:])
					break
				}
			}
		}
	}
}
