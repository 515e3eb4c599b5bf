package demo

import (
	"encoding/binary"
	"fmt"
	cmdUtil "github.com/markushocke/modern-io/cmd/util"
	"github.com/markushocke/modern-io/lib/buffered"
	"github.com/markushocke/modern-io/lib/datastream"
	"github.com/markushocke/modern-io/lib/fileio"
	"github.com/markushocke/modern-io/netio/adapters"
	"github.com/markushocke/modern-io/netio/common"
	"github.com/markushocke/modern-io/netio/memory"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	demoSkip = make([]string, 0)
	DemoCmd  = &cobra.Command{
		Use:     "demo",
		Short:   "Run round trips over every transport of the module",
		Long:    `Run one request/response round trip per transport (tcp, udp, file, buffered, memory) and report the result. The network round trips require a running server (see mio serve).`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	cmdUtil.SetupClientFlags(DemoCmd)

	key := "skip"
	DemoCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Round trips to skip (comma separated - e.g. tcp,udp)"))
}

func processConfig(cmd *cobra.Command, _ []string) error {
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}
	if skip := viper.GetString("skip"); skip != "" {
		demoSkip = strings.Split(skip, ",")
	}
	return nil
}

func run(_ *cobra.Command, _ []string) error {
	common.InitLoggers(viper.GetString("log-level"))

	order, err := cmdUtil.GetByteOrder()
	if err != nil {
		return err
	}

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(cmdUtil.GetClientConfig().String())

	trips := []struct {
		name string
		fn   func(binary.ByteOrder) error
	}{
		{"tcp", tcpTrip},
		{"udp", udpTrip},
		{"file", fileTrip},
		{"buffered", bufferedFileTrip},
		{"memory", memoryTrip},
	}

	for _, trip := range trips {
		if shouldSkip(trip.name) {
			fmt.Printf("%-20sskipped\n", trip.name)
			continue
		}
		start := time.Now()
		if err := trip.fn(order); err != nil {
			fmt.Printf("%-20sfailed: %v\n", trip.name, err)
			continue
		}
		fmt.Printf("%-20sok (%s)\n", trip.name, time.Since(start))
	}

	return nil
}

// --------------------------------------------------------------------------
// Round Trips
// --------------------------------------------------------------------------

// tcpTrip sends PING over a fresh TCP connection and expects PONG back
func tcpTrip(order binary.ByteOrder) error {
	conf := cmdUtil.GetClientConfig()
	s, err := adapters.NewTCPClientStream(
		common.TCPEndpoint{Address: conf.Address, Port: conf.Port},
		conf.Options,
	)
	if err != nil {
		return err
	}
	defer s.Close()

	return exchange(datastream.NewInput(s, order), datastream.NewOutput(s, order), "PING", "PONG")
}

// udpTrip sends UDP-PING over a connected UDP socket and expects UDP-PONG
func udpTrip(order binary.ByteOrder) error {
	conf := cmdUtil.GetClientConfig()
	s, err := adapters.NewUDPClientStream(
		common.UDPEndpoint{Address: conf.Address, Port: conf.Port},
		conf.Options,
	)
	if err != nil {
		return err
	}
	defer s.Close()

	return exchange(datastream.NewInput(s, order), datastream.NewOutput(s, order), "UDP-PING", "UDP-PONG")
}

// fileTrip writes framed values to a file and reads them back
func fileTrip(order binary.ByteOrder) error {
	dir, err := os.MkdirTemp("", "mio-demo")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "trip.bin")

	fileOut, err := fileio.CreateOutput(path)
	if err != nil {
		return err
	}
	out := datastream.NewOutput(fileOut, order)
	if err := out.WriteString("file payload"); err != nil {
		return err
	}
	if err := out.WriteInt64(42); err != nil {
		return err
	}
	if err := fileOut.Close(); err != nil {
		return err
	}

	fileIn, err := fileio.OpenInput(path)
	if err != nil {
		return err
	}
	defer fileIn.Close()
	in := datastream.NewInput(fileIn, order)

	msg, err := in.ReadString()
	if err != nil {
		return err
	}
	if msg != "file payload" {
		return fmt.Errorf("expected 'file payload', got %q", msg)
	}
	n, err := in.ReadInt64()
	if err != nil {
		return err
	}
	if n != 42 {
		return fmt.Errorf("expected 42, got %d", n)
	}
	return nil
}

// bufferedFileTrip is the file trip with transparent buffering in between
func bufferedFileTrip(order binary.ByteOrder) error {
	dir, err := os.MkdirTemp("", "mio-demo")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "trip-buffered.bin")

	fileOut, err := fileio.CreateOutput(path)
	if err != nil {
		return err
	}
	bufOut := buffered.NewOutput(fileOut)
	out := datastream.NewOutput(bufOut, order)
	for i := 0; i < 1000; i++ {
		if err := out.WriteInt32(int32(i)); err != nil {
			return err
		}
	}
	// Close flushes the buffer and the file handle
	if err := bufOut.Close(); err != nil {
		return err
	}

	fileIn, err := fileio.OpenInput(path)
	if err != nil {
		return err
	}
	bufIn := buffered.NewInput(fileIn)
	defer bufIn.Close()
	in := datastream.NewInput(bufIn, order)

	for i := 0; i < 1000; i++ {
		v, err := in.ReadInt32()
		if err != nil {
			return err
		}
		if v != int32(i) {
			return fmt.Errorf("expected %d, got %d", i, v)
		}
	}
	return nil
}

// memoryTrip echoes one message across an in-process connection pair
func memoryTrip(order binary.ByteOrder) error {
	left, right := memory.NewPair()
	client := adapters.NewMemoryStream(left)
	echo := adapters.NewMemoryStream(right)
	defer client.Close()
	defer echo.Close()

	// echo everything arriving at the right end
	go func() {
		in := datastream.NewInput(echo, order)
		out := datastream.NewOutput(echo, order)
		for {
			msg, err := in.ReadString()
			if err != nil {
				return
			}
			if out.WriteString(msg) != nil || out.Flush() != nil {
				return
			}
		}
	}()

	return exchange(
		datastream.NewInput(client, order),
		datastream.NewOutput(client, order),
		"memory payload", "memory payload",
	)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(trip string) bool {
	// Check if the trip is in the skip list
	for _, skip := range demoSkip {
		if trip == skip {
			return true
		}
	}
	return false
}

// exchange sends one message and verifies the response
func exchange(in *datastream.Input, out *datastream.Output, request, want string) error {
	if err := out.WriteString(request); err != nil {
		return err
	}
	if err := out.Flush(); err != nil {
		return err
	}
	got, err := in.ReadString()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected %q, got %q", want, got)
	}
	return nil
}
