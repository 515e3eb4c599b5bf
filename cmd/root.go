package cmd

import (
	"fmt"
	"github.com/markushocke/modern-io/cmd/demo"
	"github.com/markushocke/modern-io/cmd/perf"
	"github.com/markushocke/modern-io/cmd/serve"
	"github.com/markushocke/modern-io/cmd/util"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "0.4.2"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "mio",
		Short: "portable stream and transport toolkit",
		Long: fmt.Sprintf(`modern-io (v%s)

A portable I/O toolkit written in Go: TCP, UDP and in-memory
transports behind uniform stream contracts, with binary framing,
transparent buffering and a generic accept/dispatch server loop.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of modern-io",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("modern-io v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(demo.DemoCmd)
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "byte-order"
	RootCmd.PersistentFlags().String(key, "big", util.WrapString("byte order for framed values (big, little)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "info", util.WrapString("level at which logs will be output (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
