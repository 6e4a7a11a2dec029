// Command issue-token prints a signed bearer token for a subject and role,
// using the auth settings of the API service configuration.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cuongbtq/job-board/internal/api/auth"
	"github.com/cuongbtq/job-board/internal/api/domain"
	"github.com/cuongbtq/job-board/internal/bootstrap"
	"github.com/cuongbtq/job-board/internal/config"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	configPath := flag.String("config",
		bootstrap.ConfigPath("API_SERVICE_CONFIG_PATH", "configs/api-service/config.yaml"),
		"Path to configuration file")
	subject := flag.String("sub", "", "Token subject (user id)")
	role := flag.String("role", string(domain.RoleUser), "Role claim: admin or user")
	ttl := flag.Duration("ttl", 0, "Token lifetime (defaults to auth.token_ttl)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(cfg.Auth.JWTSecret) < config.MinJWTSecretLength {
		return fmt.Errorf("auth jwt_secret must be at least %d characters", config.MinJWTSecretLength)
	}

	lifetime := cfg.Auth.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, lifetime)
	token, err := tokens.Issue(*subject, domain.Role(*role))
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	fmt.Fprintln(os.Stdout, token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", time.Now().Add(lifetime).Format(time.RFC3339))
	return nil
}
