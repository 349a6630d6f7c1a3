package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-jwt-secret-key")
	t.Setenv("ENCRYPTION_KEY", "01234567890123456789012345678901") // 32 bytes
}

func TestLoad_Success(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.JWT.Secret != "test-jwt-secret-key" {
		t.Errorf("JWT.Secret = %q, want %q", cfg.JWT.Secret, "test-jwt-secret-key")
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENCRYPTION_KEY", "01234567890123456789012345678901")
	os.Unsetenv("JWT_SECRET")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing JWT_SECRET, got nil")
	}
}

func TestLoad_InvalidEncryptionKeyLength(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENCRYPTION_KEY", "too-short")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for invalid ENCRYPTION_KEY length, got nil")
	}
}

func TestLoad_MissingEncryptionKey(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENCRYPTION_KEY", "")
	os.Unsetenv("ENCRYPTION_KEY")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing ENCRYPTION_KEY, got nil")
	}
}

func TestLoad_InvalidDBPort(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("DB_PORT", "not-a-number")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for invalid DB_PORT, got nil")
	}
}

func TestLoad_LookbackDays(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Tastytrade.LookbackDays != 5 {
		t.Errorf("Tastytrade.LookbackDays = %d, want 5", cfg.Tastytrade.LookbackDays)
	}

	t.Setenv("SYNC_LOOKBACK_DAYS", "10")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Tastytrade.LookbackDays != 10 {
		t.Errorf("Tastytrade.LookbackDays = %d, want 10", cfg.Tastytrade.LookbackDays)
	}
}

func TestLoad_NegativeLookbackDays(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("SYNC_LOOKBACK_DAYS", "-1")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for negative SYNC_LOOKBACK_DAYS, got nil")
	}
}

func TestLoad_AllowedHosts(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("ALLOWED_HOSTS", "example.com, api.example.com, localhost:3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Server.AllowedHosts) != 3 {
		t.Errorf("AllowedHosts length = %d, want 3", len(cfg.Server.AllowedHosts))
	}
}

func TestLoad_SchedulerConfig(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("SCHEDULER_WORKERS", "10")
	t.Setenv("SCHEDULER_JOB_DELAY", "250ms")
	t.Setenv("SCHEDULER_RUN_ON_STARTUP", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Scheduler.Enabled {
		t.Error("Scheduler.Enabled = true, want false")
	}
	if cfg.Scheduler.WorkerCount != 10 {
		t.Errorf("Scheduler.WorkerCount = %d, want 10", cfg.Scheduler.WorkerCount)
	}
	if cfg.Scheduler.JobDelay != 250*time.Millisecond {
		t.Errorf("Scheduler.JobDelay = %v, want 250ms", cfg.Scheduler.JobDelay)
	}
	if !cfg.Scheduler.RunOnStartup {
		t.Error("Scheduler.RunOnStartup = false, want true")
	}
}

func TestConnectionString(t *testing.T) {
	c := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "svc",
		Password: "secret",
		DBName:   "tastyreport",
		SSLMode:  "require",
	}

	got := c.ConnectionString()
	want := "host=db.internal port=5433 user=svc password=secret dbname=tastyreport sslmode=require"
	if got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}
}
