package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.True(t, cfg.UseMock)
	assert.Equal(t, "mock", cfg.Mode())
	assert.Equal(t, DriverSQLite, cfg.LocalStore.Driver)
	assert.Equal(t, "adm", cfg.DemoUser.Email)
	assert.Equal(t, "adm", cfg.DemoUser.Password)
	assert.Equal(t, 12*time.Hour, cfg.SessionDuration)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, int64(10485760), cfg.MaxUploadSize)
	assert.False(t, cfg.MinIO.Enabled())
}

func TestParse_LiveModeRequiresBaseURL(t *testing.T) {
	t.Setenv("USE_MOCK", "false")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_BASE_URL")

	t.Setenv("API_BASE_URL", "https://api.example.com")
	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "live", cfg.Mode())
	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
}

func TestParse_MockModeRequiresSecret(t *testing.T) {
	t.Setenv("USE_MOCK", "true")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestParse_UnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("LOCAL_STORE_DRIVER", "Mongo")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo")
}

func TestDB_DSN(t *testing.T) {
	db := DB{DbHOST: "h", DbPORT: "1", DbUSER: "u", DbPASSWORD: "p", DbNAME: "n", DbSSLMODE: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=n sslmode=disable", db.DSN())
}
