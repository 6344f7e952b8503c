package config

import "testing"

func TestFromEnvDatabaseSelection(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"sqlite default", nil, DriverSQLite},
		{"mysql", map[string]string{"DB_HOST": "db"}, DriverMySQL},
		{"postgres wins", map[string]string{"DB_HOST": "db", "DATABASE_URL": "postgres://u@h/db"}, DriverPostgres},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := FromEnv()
			if err != nil {
				t.Fatalf("FromEnv: %v", err)
			}
			if cfg.Database.Driver != tt.want {
				t.Errorf("driver = %q, want %q", cfg.Database.Driver, tt.want)
			}
		})
	}
}

func TestFromEnvAppMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("NODE_ENV", "production")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SQLITE_PATH", "/tmp/visa.db")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if !cfg.IsProd() || !cfg.Cookie.Secure {
		t.Errorf("mode = %q secure = %v, want prod with secure cookies", cfg.AppMode, cfg.Cookie.Secure)
	}

	t.Setenv("APP_MODE", "staging")
	if _, err := FromEnv(); err == nil {
		t.Error("FromEnv accepted APP_MODE=staging")
	}
}

func TestFromEnvProdRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_MODE", "prod")
	t.Setenv("DB_HOST", "db")

	if _, err := FromEnv(); err == nil {
		t.Fatal("FromEnv accepted prod without SESSION_SECRET")
	}
}

func TestOptionalBackends(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Email.Enabled() || cfg.Redis.Enabled() || cfg.Storage.UseS3() {
		t.Errorf("optional backends enabled without configuration: %+v", cfg)
	}

	t.Setenv("EMAIL_HOST", "smtp.example.com")
	t.Setenv("EMAIL_USER", "mailer@example.com")
	t.Setenv("S3_ENDPOINT", "minio:9000")
	t.Setenv("S3_BUCKET", "documents")
	cfg, _ = FromEnv()
	if !cfg.Email.Enabled() || cfg.Email.From != "mailer@example.com" || cfg.Email.Port != 587 {
		t.Errorf("email = %+v", cfg.Email)
	}
	if !cfg.Storage.UseS3() {
		t.Error("S3 not selected")
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_MODE", "NODE_ENV", "DATABASE_URL", "DB_HOST", "SQLITE_PATH", "SESSION_SECRET",
		"EMAIL_HOST", "EMAIL_USER", "EMAIL_FROM", "EMAIL_PORT", "REDIS_ADDR", "S3_ENDPOINT", "S3_BUCKET",
		"COOKIE_SECURE",
	} {
		t.Setenv(k, "")
	}
}

func TestBuildMySQLDSN(t *testing.T) {
	dsn := buildMySQLDSN(DatabaseConfig{User: "visa", Password: "pw", Host: "db", Port: "3306", DBName: "visaconsult"})

	want := "visa:pw@tcp(db:3306)/visaconsult?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true"
	if dsn != want {
		t.Errorf("dsn = %q, want %q", dsn, want)
	}
}
