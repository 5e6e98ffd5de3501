package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/fest")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("STORAGE_BUCKET", "")
	t.Setenv("STORAGE_REGION", "")
	t.Setenv("MAX_UPLOAD_MB", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://fest.example.com, http://localhost:5173")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.ServerPort)
	}
	if cfg.StorageBucket != "payment-proofs" {
		t.Errorf("expected default bucket, got %q", cfg.StorageBucket)
	}
	if cfg.StorageRegion != "auto" {
		t.Errorf("expected default region auto, got %q", cfg.StorageRegion)
	}
	if cfg.MaxUploadBytes() != 5<<20 {
		t.Errorf("expected 5MB upload limit, got %d", cfg.MaxUploadBytes())
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[0] != "https://fest.example.com" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/fest")
	t.Setenv("JWT_SECRET_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET_KEY is missing")
	}
}

func TestLoad_RejectsBadPort(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/fest")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("SERVER_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for out of range port")
	}
}
