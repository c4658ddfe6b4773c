package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Create temporary config file
	content := `
server:
  port: 9090
  host: "127.0.0.1"

database:
  host: "testdb"
  port: 5432
  user: "testuser"
  password: "testpass"
  dbname: "testdb"

storage:
  bucketName: "test-images"

auth:
  jwtSecret: "test-secret"
`

	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Load config
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify loaded values
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Expected host 127.0.0.1, got %s", cfg.Server.Host)
	}

	if cfg.Database.Host != "testdb" {
		t.Errorf("Expected database host testdb, got %s", cfg.Database.Host)
	}

	if cfg.Storage.BucketName != "test-images" {
		t.Errorf("Expected bucket test-images, got %s", cfg.Storage.BucketName)
	}

	if cfg.Auth.JWTSecret != "test-secret" {
		t.Errorf("Expected jwt secret test-secret, got %s", cfg.Auth.JWTSecret)
	}

	// Defaults should still apply for sections the file omits
	if cfg.Redis.Port != 6379 {
		t.Errorf("Expected default redis port 6379, got %d", cfg.Redis.Port)
	}

	if cfg.Generation.Model != "gpt-4o-mini" {
		t.Errorf("Expected default generation model gpt-4o-mini, got %s", cfg.Generation.Model)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error when loading nonexistent file")
	}
}
