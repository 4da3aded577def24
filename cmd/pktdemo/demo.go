// File: cmd/pktdemo/demo.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"fmt"
	"net/netip"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-packet/control"
	"github.com/momentics/hioload-packet/packet"
	"github.com/momentics/hioload-packet/pool"
	"github.com/momentics/hioload-packet/transport"
)

func runDemo(cmd *cobra.Command, _ []string) error {
	if count <= 0 || size <= 0 {
		return fmt.Errorf("count and size must be positive")
	}

	v := control.NewViper(configFile)
	if err := v.BindPFlag("log.level", cmd.Flags().Lookup("log-level")); err != nil {
		return err
	}
	cfg, err := control.LoadViper(v)
	if err != nil {
		return err
	}

	log := control.NewLogger(cfg.Log)
	defer log.Sync()
	packet.SetLogger(log)
	pool.SetLogger(log)
	defer packet.SetLogger(nil)
	defer pool.SetLogger(nil)

	bp := pool.New(cfg.Pool.Options())
	metrics := control.NewMetricsRegistry()
	metrics.RegisterPacketStats()
	metrics.RegisterPool("default", bp)

	loopback := netip.MustParseAddrPort("127.0.0.1:0")
	tx, err := transport.ListenUDP(loopback)
	if err != nil {
		return err
	}
	defer tx.Close()
	rx, err := transport.ListenUDP(loopback)
	if err != nil {
		return err
	}
	defer rx.Close()
	if err := rx.SetReadTimeout(timeout); err != nil {
		return err
	}
	dst, err := rx.LocalAddr()
	if err != nil {
		return err
	}

	queue := packet.NewList()
	defer queue.Destroy()
	if err := fillQueue(queue, bp, dst); err != nil {
		return err
	}
	if err := promote(queue); err != nil {
		return err
	}

	sent, err := drain(queue, tx, log)
	if err != nil {
		return err
	}
	metrics.Set("sent", sent)

	received := packet.NewList()
	defer received.Destroy()
	if err := collect(received, rx, bp, sent, log); err != nil {
		return err
	}
	metrics.Set("received", received.Count())

	out, err := yaml.Marshal(metrics.GetSnapshot())
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

// fillQueue appends count payload packets addressed to dst. Each packet's
// priority cycles through the QoS range.
func fillQueue(queue *packet.List, bp *pool.Pool, dst netip.AddrPort) error {
	for i := 0; i < count; i++ {
		p, err := packet.New(bp, size)
		if err != nil {
			return err
		}
		if err := setupPacket(p, i, dst); err != nil {
			p.Unref()
			return err
		}
		if err := queue.AddLast(p); err != nil {
			p.Unref()
			return err
		}
		// the queue now owns the packet
		if err := p.Unref(); err != nil {
			return err
		}
	}
	return nil
}

func setupPacket(p *packet.Packet, seq int, dst netip.AddrPort) error {
	if err := p.SetLen(size); err != nil {
		return err
	}
	data, err := p.Data()
	if err != nil {
		return err
	}
	for i := range data {
		data[i] = byte(seq + i)
	}
	if err := p.SetAddr(dst); err != nil {
		return err
	}
	if err := p.SetPriority(seq % (packet.QoSPriorityMax + 1)); err != nil {
		return err
	}
	return p.SetImportance(uint32(seq))
}

// promote moves packets with the highest priority to the front, keeping
// their relative order.
func promote(queue *packet.List) error {
	var (
		last *packet.Packet
		err  error
	)
	queue.Walk(func(p *packet.Packet) bool {
		if p.Priority() != packet.QoSPriorityMax {
			return true
		}
		if last == nil {
			err = queue.MoveFirst(p)
		} else {
			err = queue.MoveAfter(last, p)
		}
		last = p
		return err == nil
	})
	return err
}

func drain(queue *packet.List, tx *transport.Conn, log *zap.Logger) (int, error) {
	sent := 0
	for p := queue.First(); p != nil; p = queue.First() {
		out, err := queue.Remove(p)
		if err != nil {
			return sent, err
		}
		err = tx.WritePacket(out)
		if err == nil {
			log.Debug("sent",
				zap.Uint32("seq", out.Importance()),
				zap.Int("priority", out.Priority()),
				zap.Uint64("ts", out.Timestamp()))
			sent++
		}
		if uerr := out.Unref(); uerr != nil && err == nil {
			err = uerr
		}
		if err != nil {
			return sent, err
		}
	}
	return sent, nil
}

func collect(received *packet.List, rx *transport.Conn, bp *pool.Pool, n int, log *zap.Logger) error {
	for i := 0; i < n; i++ {
		p, err := packet.New(bp, size)
		if err != nil {
			return err
		}
		if err := rx.ReadPacket(p); err != nil {
			p.Unref()
			return err
		}
		log.Debug("received",
			zap.Int("len", p.Len()),
			zap.Stringer("from", p.Addr()),
			zap.Uint64("ts", p.Timestamp()))
		if err := received.AddLast(p); err != nil {
			p.Unref()
			return err
		}
		if err := p.Unref(); err != nil {
			return err
		}
	}
	return nil
}
