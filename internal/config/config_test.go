package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationDefaults(t *testing.T) {
	var server ServerConfig
	assert.Equal(t, 30*time.Second, server.Timeout())
	server.TimeoutSeconds = 5
	assert.Equal(t, 5*time.Second, server.Timeout())

	var fhir FHIRConfig
	assert.Equal(t, 15*time.Second, fhir.Timeout())

	var cache CacheConfig
	assert.Equal(t, 15*time.Minute, cache.TTL())
	cache.TTLMinutes = 2
	assert.Equal(t, 2*time.Minute, cache.TTL())
}
