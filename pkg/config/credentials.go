package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// credential environment variables and their fallbacks
const (
	EnvUsername     = "SAUCE_USERNAME"
	EnvPassword     = "SAUCE_PASSWORD"
	DefaultUsername = "standard_user"
	DefaultPassword = "secret_sauce"
)

// Credentials is a username/password pair for the login form.
type Credentials struct {
	Username string
	Password string
}

// LoadDotEnv loads variables from the given .env files (".env" when none given). Missing
// files are skipped and variables already set in the environment are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// CredentialsFromEnv reads credentials from the environment, falling back to the defaults
// for unset variables.
func CredentialsFromEnv() Credentials {
	c := Credentials{Username: DefaultUsername, Password: DefaultPassword}
	if v, ok := os.LookupEnv(EnvUsername); ok {
		c.Username = v
	}
	if v, ok := os.LookupEnv(EnvPassword); ok {
		c.Password = v
	}
	return c
}
