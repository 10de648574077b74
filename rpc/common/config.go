package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ValentinKolb/travels/lib/loader"
	"github.com/cockroachdb/errors"
)

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters of a travels server.
type ServerConfig struct {
	// HTTP api settings
	Endpoint      string
	TimeoutSecond int64
	Serializer    string

	// Data source
	DataPath      string
	OptionsFile   string // empty means options.txt next to the data
	ReferenceTime int64  // overrides the options file when not 0

	// Behaviour
	ZeroAsAbsent  bool // treat zero valued update fields as absent
	VerifyIndexes bool // audit the indices after loading (skipped in rating mode)

	// Logging configuration
	LogLevel string
}

// OptionsPath returns the options file to read.
func (c *ServerConfig) OptionsPath() string {
	if c.OptionsFile != "" {
		return c.OptionsFile
	}
	return loader.DefaultOptionsPath(c.DataPath)
}

// Validate checks the configuration for values the server can not start with.
func (c *ServerConfig) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint must not be empty")
	}
	if c.DataPath == "" {
		return errors.New("data path must not be empty")
	}
	if c.TimeoutSecond < 0 {
		return errors.Newf("timeout must not be negative, got %d", c.TimeoutSecond)
	}
	switch c.Serializer {
	case "fast", "std":
	default:
		return errors.Newf("unknown serializer %q (expected fast or std)", c.Serializer)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Serializer", c.Serializer)

	// Data
	addSection("Data")
	addField("Data Path", c.DataPath)
	addField("Options File", c.OptionsPath())
	if c.ReferenceTime != 0 {
		addField("Reference Time", strconv.FormatInt(c.ReferenceTime, 10))
	} else {
		addField("Reference Time", "from options file")
	}

	// Behaviour
	addSection("Behaviour")
	addField("Zero As Absent", strconv.FormatBool(c.ZeroAsAbsent))
	addField("Verify Indexes", strconv.FormatBool(c.VerifyIndexes))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	Endpoints     []string
	TimeoutSecond int
	RetryCount    int
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.RetryCount))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
