package serve

import (
	"encoding/binary"
	"fmt"
	cmdUtil "github.com/markushocke/modern-io/cmd/util"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/markushocke/modern-io/lib/datastream"
	"github.com/markushocke/modern-io/lib/stream"
	"github.com/markushocke/modern-io/netio/adapters"
	"github.com/markushocke/modern-io/netio/common"
	"github.com/markushocke/modern-io/netio/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"
)

var Logger = logger.GetLogger("cmd")

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the echo server",
		Long:    `Start the length-prefixed echo server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is MIO_<flag> (e.g. MIO_PORT=9050)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "transport"
	ServeCmd.PersistentFlags().String(key, "tcp", cmdUtil.WrapString("Transport to serve on (tcp, udp)"))

	key = "address"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0", cmdUtil.WrapString("The address on which the server will listen"))

	key = "port"
	ServeCmd.PersistentFlags().Int(key, 9050, cmdUtil.WrapString("The port on which the server will listen"))

	key = "accept-timeout"
	ServeCmd.PersistentFlags().Int(key, 500, cmdUtil.WrapString("Accept timeout in milliseconds. Bounds the shutdown latency of the dispatch loop (tcp only)"))

	key = "read-timeout"
	ServeCmd.PersistentFlags().Int(key, 500, cmdUtil.WrapString("Per-read deadline in milliseconds. For udp this bounds the shutdown latency of the receive loop"))

	key = "write-timeout"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("Per-write deadline in milliseconds (0 blocks indefinitely)"))

	key = "reuse-addr"
	ServeCmd.PersistentFlags().Bool(key, true, cmdUtil.WrapString("Whether to enable SO_REUSEADDR on the listening socket"))

	key = "keep-alive"
	ServeCmd.PersistentFlags().Bool(key, false, cmdUtil.WrapString("Whether to enable TCP keep-alive on accepted sockets"))
}

// processConfig reads the configuration from the command line flags and
// environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	transport := viper.GetString("transport")
	if transport != "tcp" && transport != "udp" {
		return fmt.Errorf("invalid transport %s (expected tcp or udp)", transport)
	}

	serveCmdConfig.Transport = transport
	serveCmdConfig.Address = viper.GetString("address")
	serveCmdConfig.Port = uint16(viper.GetInt("port"))
	serveCmdConfig.AcceptTimeoutMs = viper.GetInt("accept-timeout")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.Options = common.SocketOptions{
		ReuseAddr:      viper.GetBool("reuse-addr"),
		KeepAlive:      viper.GetBool("keep-alive"),
		ReadTimeoutMs:  viper.GetInt("read-timeout"),
		WriteTimeoutMs: viper.GetInt("write-timeout"),
	}

	return nil
}

// run starts the echo server and blocks until SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {
	common.InitLoggers(serveCmdConfig.LogLevel)

	order, err := cmdUtil.GetByteOrder()
	if err != nil {
		return err
	}

	fmt.Println(serveCmdConfig.String())

	running := &atomic.Bool{}
	running.Store(true)

	// flip the running flag on SIGINT/SIGTERM; the loops poll it once per
	// configured timeout
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		Logger.Infof("received signal %v, shutting down", sig)
		running.Store(false)
	}()

	switch serveCmdConfig.Transport {
	case "tcp":
		return serveTCP(running, order)
	default:
		return serveUDP(running, order)
	}
}

// --------------------------------------------------------------------------
// Echo Semantics
// --------------------------------------------------------------------------

// reply maps a request message to its response. The two ping forms get
// their canonical answer, everything else is echoed verbatim.
func reply(msg string) string {
	switch msg {
	case "PING":
		return "PONG"
	case "UDP-PING":
		return "UDP-PONG"
	default:
		return msg
	}
}

// echoStream answers length-prefixed strings on the stream until the peer
// disconnects or the running flag goes false
func echoStream(s *stream.Shared, order binary.ByteOrder, running *atomic.Bool) {
	in := datastream.NewInput(s, order)
	out := datastream.NewOutput(s, order)

	for running.Load() {
		msg, err := in.ReadString()

		// Case timeout: poll the running flag and try again
		if common.IsTimeout(err) {
			continue
		}

		// Case disconnect: end of this conversation
		if err == io.EOF {
			return
		}

		if err != nil {
			Logger.Errorf("failed to read request: %v", err)
			return
		}

		if err := out.WriteString(reply(msg)); err != nil {
			Logger.Errorf("failed to write response: %v", err)
			return
		}
		if err := out.Flush(); err != nil {
			Logger.Errorf("failed to flush response: %v", err)
			return
		}
	}
}

// --------------------------------------------------------------------------
// Transport Loops
// --------------------------------------------------------------------------

// serveTCP runs the generic dispatch loop with one echo handler per
// accepted connection
func serveTCP(running *atomic.Bool, order binary.ByteOrder) error {
	endpoint := common.TCPEndpoint{
		Address: serveCmdConfig.Address,
		Port:    serveCmdConfig.Port,
	}
	handler := func(s *stream.Shared) {
		echoStream(s, order, running)
	}
	return server.RunTCPServer(
		server.NewThreadExecutor(),
		handler,
		running,
		endpoint,
		serveCmdConfig.Options,
		time.Duration(serveCmdConfig.AcceptTimeoutMs)*time.Millisecond,
	)
}

// serveUDP answers datagrams on a single bound socket. There is no accept
// step: the peer is learned per received datagram, the read timeout keeps
// the loop responsive to shutdown.
func serveUDP(running *atomic.Bool, order binary.ByteOrder) error {
	endpoint := common.UDPEndpoint{
		Address: serveCmdConfig.Address,
		Port:    serveCmdConfig.Port,
	}

	s, err := adapters.NewUDPServerStream(endpoint, serveCmdConfig.Options)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			Logger.Errorf("failed to close udp stream: %v", err)
		}
	}()

	Logger.Infof("starting udp server on %s", endpoint.String())
	echoStream(s, order, running)
	return nil
}
