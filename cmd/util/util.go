package util

import (
	"encoding/binary"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/markushocke/modern-io/netio/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupClientFlags adds the connection flags shared by the demo and perf
// commands
func SetupClientFlags(cmd *cobra.Command) {
	key := "address"
	cmd.PersistentFlags().String(key, "localhost", WrapString("The address of the echo server"))

	key = "port"
	cmd.PersistentFlags().Int(key, 9050, WrapString("The port of the echo server"))

	key = "read-timeout"
	cmd.PersistentFlags().Int(key, 5000, WrapString("Per-read deadline in milliseconds (0 blocks indefinitely)"))

	key = "write-timeout"
	cmd.PersistentFlags().Int(key, 5000, WrapString("Per-write deadline in milliseconds (0 blocks indefinitely)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("mio")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetSocketOptions reads the socket option flags from viper
func GetSocketOptions() common.SocketOptions {
	opts := common.DefaultSocketOptions()
	opts.ReadTimeoutMs = viper.GetInt("read-timeout")
	opts.WriteTimeoutMs = viper.GetInt("write-timeout")
	return opts
}

// GetByteOrder parses the byte-order flag into an encoding/binary order
func GetByteOrder() (binary.ByteOrder, error) {
	switch viper.GetString("byte-order") {
	case "big":
		return binary.BigEndian, nil
	case "little":
		return binary.LittleEndian, nil
	default:
		return nil, fmt.Errorf("invalid byte order %s (expected big or little)", viper.GetString("byte-order"))
	}
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() *common.ClientConfig {
	return &common.ClientConfig{
		Transport: viper.GetString("transport"),
		Address:   viper.GetString("address"),
		Port:      uint16(viper.GetInt("port")),
		ByteOrder: viper.GetString("byte-order"),
		Options:   GetSocketOptions(),
	}
}
