// Package syncer wires server selection, the wire exchange and the
// clock policy into a single synchronization run.
package syncer

import (
	"context"
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"clockstep.dev/sntpc/internal/clock"
	"clockstep.dev/sntpc/internal/config"
	"clockstep.dev/sntpc/internal/log"
	"clockstep.dev/sntpc/internal/netio"
	"clockstep.dev/sntpc/internal/sntp"
)

// Transport is a connected socket owned by one run.
type Transport interface {
	sntp.Transport
	Close() error
}

// Options override the default wiring. The zero value wires the real
// resolver, socket and system clock; tests swap in fakes.
type Options struct {
	Clock   clock.Clock
	Resolve func(ctx context.Context, host string) ([]net.IP, error)
	Dial    func(ip net.IP, port int) (Transport, error)
}

// Syncer performs one SNTP exchange and applies the clock policy.
type Syncer struct {
	cfg     *config.Config
	clk     clock.Clock
	resolve func(ctx context.Context, host string) ([]net.IP, error)
	dial    func(ip net.IP, port int) (Transport, error)
}

// Result describes one completed run.
type Result struct {
	Server  string // candidate host the run targeted
	Addr    net.IP // resolved address actually used
	Stratum uint8
	Outcome *sntp.Outcome
}

// New builds a Syncer for cfg, filling unset options with the real
// implementations.
func New(cfg *config.Config, opts Options) *Syncer {
	s := &Syncer{
		cfg:     cfg,
		clk:     opts.Clock,
		resolve: opts.Resolve,
		dial:    opts.Dial,
	}
	if s.clk == nil {
		s.clk = clock.System{}
	}
	if s.resolve == nil {
		s.resolve = netio.Resolve
	}
	if s.dial == nil {
		s.dial = func(ip net.IP, port int) (Transport, error) {
			return netio.Dial(ip, port)
		}
	}
	return s
}

// Run performs one full synchronization: pick a server, exchange,
// validate, decide, and step the clock when the decision says apply.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	lg := log.L().WithField("run_id", uuid.NewString())

	host, port, err := s.candidate()
	if err != nil {
		return nil, err
	}

	ips, err := s.resolve(ctx, host)
	if err != nil {
		return nil, err
	}
	ip := netio.Pick(ips)

	t, err := s.dial(ip, port)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	lg.WithFields(logrus.Fields{
		"server": host,
		"addr":   ip.String(),
		"port":   port,
	}).Debug("sending request")

	nonce, err := sntp.NewNonce()
	if err != nil {
		return nil, fmt.Errorf("failed to draw nonce: %w", err)
	}
	sent := s.clk.Now()

	reply, err := sntp.Exchange(t, sntp.EncodeRequest(sent, nonce))
	if err != nil {
		return nil, err
	}

	request := &sntp.Packet{TransmitHi: sntp.NTPSeconds(sent), TransmitLo: nonce}
	serverTime, stratum, err := sntp.ValidateReply(reply, request)
	if err != nil {
		return nil, err
	}

	// Read the clock again after the exchange; the policy compares
	// server time against now, not against the send instant.
	local := s.clk.Now()
	out, err := sntp.Decide(local, serverTime, s.cfg.AllowBackwards, s.cfg.ThresholdSeconds, s.cfg.DryRun)
	if err != nil {
		return nil, err
	}

	if out.Action == sntp.ActionApply {
		if err := s.clk.Step(out.ServerTime); err != nil {
			return nil, fmt.Errorf("%w: %v", sntp.ErrClockWrite, err)
		}
	}

	lg.WithFields(logrus.Fields{
		"server":      host,
		"addr":        ip.String(),
		"stratum":     stratum,
		"server_time": out.ServerTime,
		"local_time":  out.LocalTime,
		"offset":      out.Offset,
		"action":      out.Action.String(),
	}).Info("clock decision")

	return &Result{
		Server:  host,
		Addr:    ip,
		Stratum: stratum,
		Outcome: out,
	}, nil
}

// candidate picks the server for this run: one pool entry when a pool
// file is configured, the single configured server otherwise.
func (s *Syncer) candidate() (string, int, error) {
	if s.cfg.PoolFile == "" {
		return s.cfg.Server, s.cfg.Port, nil
	}

	pool, err := config.LoadPool(s.cfg.PoolFile)
	if err != nil {
		return "", 0, err
	}
	entry := pool.Pick()
	port := entry.Port
	if port == 0 {
		port = s.cfg.Port
	}
	return entry.Host, port, nil
}
