package perf

import (
	"encoding/binary"
	"fmt"
	cmdUtil "github.com/markushocke/modern-io/cmd/util"
	"github.com/markushocke/modern-io/lib/datastream"
	"github.com/markushocke/modern-io/lib/stream"
	"github.com/markushocke/modern-io/netio/adapters"
	"github.com/markushocke/modern-io/netio/common"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
	"sync"
	"time"
)

var (
	perfRequests    = 1000
	perfWarmup      = 50
	perfThreads     = 1
	perfPayloadSize = 64

	PerfCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Measure round-trip latency against a running server",
		Long:    `Measure the request/response round-trip latency of a running echo server (see mio serve) and print a latency distribution. Each worker drives its own connection.`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	cmdUtil.SetupClientFlags(PerfCmd)

	key := "transport"
	PerfCmd.PersistentFlags().String(key, "tcp", cmdUtil.WrapString("Transport to measure (tcp, udp)"))

	key = "requests"
	PerfCmd.PersistentFlags().Int(key, 1000, cmdUtil.WrapString("Number of measured round trips per worker"))

	key = "warmup"
	PerfCmd.PersistentFlags().Int(key, 50, cmdUtil.WrapString("Number of unmeasured round trips per worker before the measurement"))

	key = "threads"
	PerfCmd.PersistentFlags().Int(key, 1, cmdUtil.WrapString("Number of concurrent workers, each with its own connection"))

	key = "payload-size"
	PerfCmd.PersistentFlags().Int(key, 64, cmdUtil.WrapString("Size of the request payload in bytes"))
}

func processConfig(cmd *cobra.Command, _ []string) error {
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	transport := viper.GetString("transport")
	if transport != "tcp" && transport != "udp" {
		return fmt.Errorf("invalid transport %s (expected tcp or udp)", transport)
	}

	perfRequests = viper.GetInt("requests")
	perfWarmup = viper.GetInt("warmup")
	perfThreads = viper.GetInt("threads")
	perfPayloadSize = viper.GetInt("payload-size")

	if perfThreads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", perfThreads)
	}

	return nil
}

func run(_ *cobra.Command, _ []string) error {
	common.InitLoggers(viper.GetString("log-level"))

	order, err := cmdUtil.GetByteOrder()
	if err != nil {
		return err
	}

	conf := cmdUtil.GetClientConfig()

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(conf.String())
	fmt.Printf("Requests: %d per worker (+%d warmup), %d workers, payload %d bytes\n",
		perfRequests, perfWarmup, perfThreads, perfPayloadSize)
	fmt.Println()

	// the timer is safe for concurrent use, all workers share it
	timer := metrics.NewTimer()
	payload := strings.Repeat("x", perfPayloadSize)

	var wg sync.WaitGroup
	errs := make(chan error, perfThreads)

	for w := 0; w < perfThreads; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			if err := runWorker(conf, order, payload, timer); err != nil {
				errs <- fmt.Errorf("worker %d: %v", worker, err)
			}
		}(w)
	}

	wg.Wait()
	close(errs)
	if err := <-errs; err != nil {
		return err
	}

	printResults(timer)
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// runWorker drives one connection through warmup and measurement
func runWorker(conf *common.ClientConfig, order binary.ByteOrder, payload string, timer metrics.Timer) error {
	s, err := connect(conf)
	if err != nil {
		return err
	}
	defer s.Close()

	in := datastream.NewInput(s, order)
	out := datastream.NewOutput(s, order)

	roundTrip := func() error {
		if err := out.WriteString(payload); err != nil {
			return err
		}
		if err := out.Flush(); err != nil {
			return err
		}
		echo, err := in.ReadString()
		if err != nil {
			return err
		}
		if echo != payload {
			return fmt.Errorf("echo mismatch: got %d bytes, expected %d", len(echo), len(payload))
		}
		return nil
	}

	// warmup
	for i := 0; i < perfWarmup; i++ {
		if err := roundTrip(); err != nil {
			return fmt.Errorf("warmup round trip failed: %v", err)
		}
	}

	// measurement
	for i := 0; i < perfRequests; i++ {
		var tripErr error
		timer.Time(func() {
			tripErr = roundTrip()
		})
		if tripErr != nil {
			return fmt.Errorf("round trip %d failed: %v", i, tripErr)
		}
	}

	return nil
}

// connect opens one shared stream over the configured transport
func connect(conf *common.ClientConfig) (*stream.Shared, error) {
	switch conf.Transport {
	case "udp":
		return adapters.NewUDPClientStream(
			common.UDPEndpoint{Address: conf.Address, Port: conf.Port},
			conf.Options,
		)
	default:
		return adapters.NewTCPClientStream(
			common.TCPEndpoint{Address: conf.Address, Port: conf.Port},
			conf.Options,
		)
	}
}

// printResults prints the latency distribution of the timer
func printResults(timer metrics.Timer) {
	ps := timer.Percentiles([]float64{0.5, 0.95, 0.99})

	printLine := func(name string, ns float64) {
		fmt.Printf("%-10s%s\n", name, time.Duration(ns))
	}

	fmt.Println("Results:")
	printLine("min", float64(timer.Min()))
	printLine("mean", timer.Mean())
	printLine("p50", ps[0])
	printLine("p95", ps[1])
	printLine("p99", ps[2])
	printLine("max", float64(timer.Max()))
	fmt.Printf("%-10s%.0f ops/sec\n", "rate", timer.RateMean())
}
