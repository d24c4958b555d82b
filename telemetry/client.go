package telemetry

import (
	"errors"
	"io"
	"log/slog"
	"net/netip"
	"runtime"
	"time"

	"github.com/soypat/lneto/tcp"
	"github.com/soypat/lneto/x/xnet"
	mqtt "github.com/soypat/natiu-mqtt"
)

// Stack is the network stack the client dials through.
type Stack interface {
	LnetoStack() *xnet.StackAsync
}

// Client publishes queued telemetry to a broker, reconnecting forever.
type Client struct {
	ID                string
	Topic             string
	Timeout           time.Duration // Deadline for each MQTT exchange.
	TCPBufSize        int
	HeartbeatInterval time.Duration
	Username          string // Optional.
	Password          string // Optional, requires Username.
	Logger            *slog.Logger
}

// ConnectAndPublish connects to host:port and publishes every reading
// received on readings. It only returns on configuration errors.
func (c *Client) ConnectAndPublish(stack Stack, host string, port uint16, readings <-chan Telemetry) error {
	const pollTime = 5 * time.Millisecond
	if c.Topic == "" {
		return errors.New("telemetry: empty topic")
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}
	heartbeatInterval := c.HeartbeatInterval
	if heartbeatInterval <= 0 {
		heartbeatInterval = 30 * time.Second
	}

	lstack := stack.LnetoStack()
	rstack := lstack.StackRetrying(pollTime)

	brokerAddr, err := netip.ParseAddr(host)
	if err != nil {
		logger.Info("dns:resolving", slog.String("host", host))
		addrs, err := rstack.DoLookupIP(host, 5*time.Second, 3)
		if err != nil {
			return errors.New("telemetry: dns lookup for " + host + ": " + err.Error())
		}
		if len(addrs) == 0 {
			return errors.New("telemetry: dns lookup for " + host + ": no addresses returned")
		}
		brokerAddr = addrs[0]
	}
	serverAddr := netip.AddrPortFrom(brokerAddr, port)
	logger.Info("mqtt:broker", slog.String("addr", serverAddr.String()))

	pubFlags, err := mqtt.NewPublishFlags(mqtt.QoS0, false, false)
	if err != nil {
		return errors.New("telemetry: publish flags: " + err.Error())
	}
	pubVar := mqtt.VariablesPublish{TopicName: []byte(c.Topic)}

	client := mqtt.NewClient(mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: make([]byte, 1024)},
		OnPub: func(_ mqtt.Header, varPub mqtt.VariablesPublish, _ io.Reader) error {
			logger.Debug("mqtt:received", slog.String("topic", string(varPub.TopicName)))
			return nil
		},
	})
	var varconn mqtt.VariablesConnect
	varconn.SetDefaultMQTT([]byte(c.ID))
	if c.Username != "" {
		varconn.Username = []byte(c.Username)
		if c.Password != "" {
			varconn.Password = []byte(c.Password)
		}
	}

	var conn tcp.Conn
	err = conn.Configure(tcp.ConnConfig{
		RxBuf:             make([]byte, c.TCPBufSize),
		TxBuf:             make([]byte, c.TCPBufSize),
		TxPacketQueueSize: 3,
	})
	if err != nil {
		return errors.New("telemetry: tcp configure: " + err.Error())
	}

	closeConn := func(reason string) {
		logger.Error("tcp:closing", slog.String("reason", reason))
		conn.Close()
		for i := 0; i < 50 && !conn.State().IsClosed(); i++ {
			time.Sleep(100 * time.Millisecond)
		}
		conn.Abort()
	}

	for {
		localPort := uint16(lstack.Prand32()>>17) + 1024
		logger.Info("tcp:dialing", slog.Uint64("localPort", uint64(localPort)))
		err = rstack.DoDialTCP(&conn, localPort, serverAddr, 10*time.Second, 3)
		if err != nil {
			closeConn("dial failed: " + err.Error())
			time.Sleep(2 * time.Second)
			continue
		}

		conn.SetDeadline(time.Now().Add(c.Timeout))
		if err = client.StartConnect(&conn, &varconn); err != nil {
			closeConn("mqtt connect failed: " + err.Error())
			continue
		}
		for retries := 50; retries > 0 && !client.IsConnected(); retries-- {
			time.Sleep(100 * time.Millisecond)
			if err = client.HandleNext(); err != nil {
				logger.Error("mqtt:handle-next-failed", slog.String("err", err.Error()))
			}
		}
		if !client.IsConnected() {
			closeConn("mqtt connect timed out")
			continue
		}
		logger.Info("mqtt:connected", slog.String("topic", c.Topic))

		c.publishLoop(client, &conn, lstack, pubFlags, pubVar, readings, heartbeatInterval, logger)

		logger.Error("mqtt:disconnected", slog.Any("reason", client.Err()))
		closeConn("disconnected")
		runtime.Gosched()
	}
}

// publishLoop drains readings while the session is up. When idle for a
// heartbeat interval it services the connection so keepalives flow.
func (c *Client) publishLoop(
	client *mqtt.Client,
	conn *tcp.Conn,
	lstack *xnet.StackAsync,
	flags mqtt.PacketFlags,
	pubVar mqtt.VariablesPublish,
	readings <-chan Telemetry,
	heartbeatInterval time.Duration,
	logger *slog.Logger,
) {
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for client.IsConnected() {
		select {
		case t := <-readings:
			payload, err := t.Marshal()
			if err != nil {
				logger.Error("mqtt:marshal-failed", slog.Any("reason", err))
				continue
			}
			conn.SetDeadline(time.Now().Add(c.Timeout))
			pubVar.PacketIdentifier = uint16(lstack.Prand32())
			if err = client.PublishPayload(flags, pubVar, payload); err != nil {
				logger.Error("mqtt:publish-failed", slog.Any("reason", err))
				continue
			}
			logger.Debug("mqtt:published", slog.Uint64("packetID", uint64(pubVar.PacketIdentifier)))
			if err = client.HandleNext(); err != nil {
				logger.Error("mqtt:handle-next-failed", slog.String("err", err.Error()))
			}
		case <-heartbeat.C:
			if err := client.HandleNext(); err != nil {
				logger.Error("mqtt:handle-next-failed", slog.String("err", err.Error()))
			}
		default:
			// TinyGo runs goroutines on one core; yield to the tick loop.
			runtime.Gosched()
		}
	}
}
