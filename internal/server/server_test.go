package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-engine/internal/config"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
)

func TestNewServer_RequiresListenAddress(t *testing.T) {
	_, err := NewServer(http.NewServeMux(), config.Server{}, logger.Nop())
	require.ErrorIs(t, err, config.ErrInvalidServerConfigs)
}

func TestNewServer_ValidConfig(t *testing.T) {
	srv, err := NewServer(http.NewServeMux(), config.Server{HTTPAddress: ":8080"}, logger.Nop())
	require.NoError(t, err)
	assert.NotNil(t, srv)
}
