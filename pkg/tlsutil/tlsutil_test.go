package tlsutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDevCertificates_Loadable(t *testing.T) {
	dir := t.TempDir()

	files, err := GenerateDevCertificates([]string{"localhost", "127.0.0.1"}, dir, time.Hour)
	require.NoError(t, err)
	assert.FileExists(t, files.CAFile)

	creds, err := ServerCredentials(files.CertFile, files.KeyFile)
	require.NoError(t, err)
	assert.Equal(t, "tls", creds.Info().SecurityProtocol)
}

func TestServerCredentials_MissingFiles(t *testing.T) {
	_, err := ServerCredentials("/nonexistent/cert.pem", "/nonexistent/key.pem")
	assert.Error(t, err)
}
