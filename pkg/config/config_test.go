package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigReadsServerPorts(t *testing.T) {
	t.Setenv("PORT", "18081")
	t.Setenv("GRPC_PORT", "19091")
	t.Setenv("METRICS_PORT", "12112")

	cfg := New()

	assert.Equal(t, "18081", cfg.Server.Port)
	assert.Equal(t, "19091", cfg.Server.GRPCPort)
	assert.Equal(t, "12112", cfg.Server.MetricsPort)
}
