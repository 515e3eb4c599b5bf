package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters for a long-running
// server process.
type ServerConfig struct {
	// Transport selects the server type ("tcp" or "udp")
	Transport string

	// Endpoint settings
	Address string
	Port    uint16

	// AcceptTimeoutMs bounds each accept wait; it also bounds the shutdown
	// latency of the dispatch loop
	AcceptTimeoutMs int

	// Socket options applied to listening and accepted sockets
	Options SocketOptions

	// Logging configuration
	LogLevel string
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

	// Server settings
	addSection("Server")
	addField("Transport", c.Transport)
	addField("Address", c.Address)
	addField("Port", strconv.Itoa(int(c.Port)))
	addField("Accept Timeout", fmt.Sprintf("%d ms", c.AcceptTimeoutMs))

	// Socket options
	addSection("Socket Options")
	addField("Reuse Address", fmt.Sprintf("%t", c.Options.ReuseAddr))
	addField("Keep Alive", fmt.Sprintf("%t", c.Options.KeepAlive))
	addField("Broadcast", fmt.Sprintf("%t", c.Options.Broadcast))
	addField("Read Timeout", fmt.Sprintf("%d ms", c.Options.ReadTimeoutMs))
	addField("Write Timeout", fmt.Sprintf("%d ms", c.Options.WriteTimeoutMs))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds the configuration of client-side tooling (demo and
// perf commands).
type ClientConfig struct {
	Transport string
	Address   string
	Port      uint16
	ByteOrder string
	Options   SocketOptions
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
	addField("Transport", c.Transport)
	addField("Address", c.Address)
	addField("Port", strconv.Itoa(int(c.Port)))
	addField("Byte Order", c.ByteOrder)
	addField("Read Timeout", fmt.Sprintf("%d ms", c.Options.ReadTimeoutMs))
	addField("Write Timeout", fmt.Sprintf("%d ms", c.Options.WriteTimeoutMs))

	return sb.String()
}
