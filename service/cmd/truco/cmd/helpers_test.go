package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/jason-s-yu/truco/service/internal/config"
)

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load(viper.New(), emptyEnv(t))
	require.NoError(t, err)
	return cfg
}

// emptyEnv returns an empty dotenv file so a stray ./.env stays out of tests.
func emptyEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empty.env")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	return path
}
