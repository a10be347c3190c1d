package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "bookstore.events", cfg.MQ.Exchange)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: 9090
  mode: release
  read_timeout: 5s
database:
  driver: mysql
  host: db.internal
  dbname: bookstore
  loc: Asia/Shanghai
redis:
  enabled: true
  cache_ttl: 30s
`)
	t.Setenv("BOOKSTORE_DATABASE_PASSWORD", "s3cret")
	t.Setenv("BOOKSTORE_SERVER_PORT", "9191")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t,
		"root:s3cret@tcp(db.internal:3306)/bookstore?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai",
		cfg.Database.DSN())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"端口越界", "server:\n  port: 70000\n"},
		{"不支持的驱动", "database:\n  driver: postgres\n"},
		{"无效的日志格式", "log:\n  format: xml\n"},
		{"无效的运行模式", "server:\n  mode: staging\n"},
		{"gRPC端口与HTTP端口相同", "grpc:\n  health_port: 8080\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

// 配置文件中没有出现的key也能被环境变量覆盖
func TestLoad_EnvOnlySecrets(t *testing.T) {
	t.Setenv("BOOKSTORE_DATABASE_PASSWORD", "db-pass")
	t.Setenv("BOOKSTORE_REDIS_PASSWORD", "redis-pass")
	t.Setenv("BOOKSTORE_REDIS_DB", "3")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "db-pass", cfg.Database.Password)
	assert.Equal(t, "redis-pass", cfg.Redis.Password)
	assert.Equal(t, 3, cfg.Redis.DB)
}
