//go:build tinygo

// Package wifi brings up the Pico W's CYW43439 radio and an lneto network
// stack on top of it.
//
// Bring-up follows the soypat/cyw43439 examples: initialize the chip, join
// the network (retrying until it succeeds), then configure the stack with
// DHCP, falling back to a static address.
package wifi

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"net/netip"
	"time"

	"github.com/soypat/cyw43439"
	"github.com/soypat/lneto/x/xnet"
)

const mtu = cyw43439.MTU

// Config configures the link.
type Config struct {
	SSID     string
	Password string // Empty joins an open network.
	Hostname string // Sent with DHCP requests.

	// StaticAddr is requested via DHCP and used as-is if DHCP fails.
	// Leave zero to require DHCP.
	StaticAddr netip.Addr

	MaxTCPConns int
	Logger      *slog.Logger
}

// Link is a joined Wi-Fi network with a configured IP stack.
type Link struct {
	stack   xnet.StackAsync
	dev     *cyw43439.Device
	logger  *slog.Logger
	sendbuf []byte
}

// Connect initializes the radio, joins cfg.SSID, and runs DHCP.
// Joining is retried every five seconds until it succeeds.
func Connect(cfg Config) (*Link, error) {
	if cfg.Hostname == "" {
		return nil, errors.New("wifi: empty hostname")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}

	start := time.Now()
	dev := cyw43439.NewPicoWDevice()
	dev.SetLogger(logger)
	if err := dev.Init(cyw43439.DefaultWifiConfig()); err != nil {
		return nil, errors.New("wifi: init: " + err.Error())
	}
	logger.Info("wifi:init", slog.Duration("took", time.Since(start)))

	for {
		err := dev.JoinWPA2(cfg.SSID, cfg.Password)
		if err == nil {
			break
		}
		logger.Error("wifi:join-failed", slog.String("ssid", cfg.SSID), slog.String("err", err.Error()))
		time.Sleep(5 * time.Second)
	}

	mac, err := dev.HardwareAddr6()
	if err != nil {
		return nil, errors.New("wifi: hardware address: " + err.Error())
	}
	logger.Info("wifi:joined", slog.String("ssid", cfg.SSID), slog.String("mac", net.HardwareAddr(mac[:]).String()))

	l := &Link{dev: dev, logger: logger, sendbuf: make([]byte, mtu)}
	maxTCP := cfg.MaxTCPConns
	if maxTCP < 1 {
		maxTCP = 1
	}
	err = l.stack.Reset(xnet.StackConfig{
		Hostname:        cfg.Hostname,
		MaxTCPConns:     maxTCP,
		RandSeed:        time.Since(start).Nanoseconds(),
		HardwareAddress: mac,
		MTU:             mtu,
	})
	if err != nil {
		return nil, errors.New("wifi: stack reset: " + err.Error())
	}
	dev.RecvEthHandle(func(pkt []byte) error {
		return l.stack.Demux(pkt, 0)
	})

	// Packets only move while the pump runs, and DHCP needs them moving.
	go l.pump()

	if err := l.dhcp(cfg.StaticAddr); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Link) dhcp(static netip.Addr) error {
	requested := netip.AddrFrom4([4]byte{})
	if static.IsValid() {
		if !static.Is4() {
			return errors.New("wifi: only DHCPv4 is supported")
		}
		requested = static
	}

	rstack := l.stack.StackRetrying(50 * time.Millisecond)
	results, err := rstack.DoDHCPv4(requested.As4(), 3*time.Second, 3)
	if err != nil {
		if static.IsValid() && !static.IsUnspecified() {
			l.logger.Warn("dhcp:fallback-static", slog.String("ip", static.String()), slog.String("err", err.Error()))
			l.stack.SetIPAddr(static)
			return nil
		}
		return errors.New("wifi: dhcp: " + err.Error())
	}
	if err = l.stack.AssimilateDHCPResults(results); err != nil {
		return errors.New("wifi: dhcp results: " + err.Error())
	}
	gw, err := rstack.DoResolveHardwareAddress6(results.Router, 500*time.Millisecond, 4)
	if err != nil {
		return errors.New("wifi: resolve gateway: " + err.Error())
	}
	l.stack.SetGateway6(gw)

	l.logger.Info("dhcp:complete",
		slog.String("ip", results.AssignedAddr.String()),
		slog.String("router", results.Router.String()),
		slog.Uint64("leaseSec", uint64(results.TLease)),
	)
	return nil
}

// pump moves packets between the radio and the stack forever.
func (l *Link) pump() {
	for {
		sent, recv := l.pollOnce()
		if sent == 0 && !recv {
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func (l *Link) pollOnce() (sent int, recv bool) {
	recv, err := l.dev.PollOne()
	if err != nil {
		l.logger.Error("wifi:poll", slog.String("err", err.Error()))
	}
	sent, err = l.stack.Encapsulate(l.sendbuf, -1, 0)
	if err != nil {
		l.logger.Error("wifi:encapsulate", slog.Int("plen", sent), slog.String("err", err.Error()))
		return 0, recv
	}
	if sent == 0 {
		return 0, recv
	}
	if err = l.dev.SendEth(l.sendbuf[:sent]); err != nil {
		l.logger.Error("wifi:send", slog.Int("plen", sent), slog.String("err", err.Error()))
	}
	return sent, recv
}

// LnetoStack returns the IP stack for dialing and DNS.
func (l *Link) LnetoStack() *xnet.StackAsync { return &l.stack }

// Addr returns the link's IP address.
func (l *Link) Addr() netip.Addr { return l.stack.Addr() }
