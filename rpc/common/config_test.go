package common

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() ServerConfig {
	return ServerConfig{
		Endpoint:      "0.0.0.0:80",
		TimeoutSecond: 5,
		Serializer:    "fast",
		DataPath:      "/tmp/data/data.zip",
		VerifyIndexes: true,
		LogLevel:      "info",
	}
}

func TestServerConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *ServerConfig)
		wantErr bool
	}{
		{"valid", func(c *ServerConfig) {}, false},
		{"std serializer", func(c *ServerConfig) { c.Serializer = "std" }, false},
		{"no endpoint", func(c *ServerConfig) { c.Endpoint = "" }, true},
		{"no data path", func(c *ServerConfig) { c.DataPath = "" }, true},
		{"negative timeout", func(c *ServerConfig) { c.TimeoutSecond = -1 }, true},
		{"unknown serializer", func(c *ServerConfig) { c.Serializer = "gob" }, true},
		{"unknown log level", func(c *ServerConfig) { c.LogLevel = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestServerConfigOptionsPath(t *testing.T) {
	c := validConfig()
	assert.Equal(t, filepath.Join("/tmp/data", "options.txt"), c.OptionsPath())

	c.DataPath = "/srv/travels"
	assert.Equal(t, filepath.Join("/srv/travels", "options.txt"), c.OptionsPath())

	c.OptionsFile = "/etc/travels/options.txt"
	assert.Equal(t, "/etc/travels/options.txt", c.OptionsPath())
}

func TestConfigString(t *testing.T) {
	c := validConfig()
	out := c.String()
	assert.Contains(t, out, "RPC SERVER")
	assert.Contains(t, out, "from options file")
	assert.Contains(t, out, "0.0.0.0:80")

	c.ReferenceTime = 1503695452
	assert.Contains(t, c.String(), "1503695452")

	cc := ClientConfig{Endpoints: []string{"localhost:8080"}, TimeoutSecond: 2, RetryCount: 3}
	assert.Contains(t, cc.String(), "localhost:8080")
	assert.Contains(t, cc.String(), "Retry Count")
}
