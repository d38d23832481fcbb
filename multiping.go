package icmplib

import (
	"context"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/ravvdevv/icmplib/internal/addr"
	icmpcodec "github.com/ravvdevv/icmplib/internal/icmp"
	"github.com/ravvdevv/icmplib/internal/socket"
)

// MultipingOptions configures Multiping.
type MultipingOptions struct {
	Count           int
	Interval        time.Duration
	Timeout         time.Duration
	ConcurrentTasks int
	Source          string
	Family          addr.Family
	Privileged      bool
	PayloadSize     int
	TrafficClass    int
}

// DefaultMultipingOptions mirrors DefaultPingOptions with a modest
// concurrency bound.
func DefaultMultipingOptions() MultipingOptions {
	return MultipingOptions{
		Count:           2,
		Interval:        time.Second,
		Timeout:         2 * time.Second,
		ConcurrentTasks: 10,
		PayloadSize:     defaultPayloadSize,
	}
}

// replyKey is the (identifier, sequence) pair a multiplexer dispatches
// replies by.
type replyKey struct {
	id  uint16
	seq uint16
}

// multiplexer owns one socket shared by every destination of a given
// address family during a Multiping run. A single reader goroutine
// demultiplexes arriving replies to the waiting destination goroutine
// by (identifier, sequence).
type multiplexer struct {
	sock *socket.Socket

	mu      sync.Mutex
	waiters map[replyKey]chan *EchoReply

	// seqCounter hands out globally unique wire sequence numbers for
	// unprivileged sockets, where the kernel stamps every outgoing
	// packet on this socket with the same identifier: per-destination
	// sequence numbers alone would collide across destinations sharing
	// the socket, so sequence becomes the sole demux key in that mode.
	seqCounter uint32

	stop chan struct{}
	wg   sync.WaitGroup
}

func newMultiplexer(sock *socket.Socket) *multiplexer {
	m := &multiplexer{
		sock:    sock,
		waiters: make(map[replyKey]chan *EchoReply),
		stop:    make(chan struct{}),
	}
	m.wg.Add(1)
	go m.run()
	return m
}

func (m *multiplexer) nextSeq() uint16 {
	return uint16(atomic.AddUint32(&m.seqCounter, 1))
}

func (m *multiplexer) run() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stop:
			return
		default:
		}

		received, err := m.sock.Receive(500 * time.Millisecond)
		if err != nil {
			if m.sock.IsClosed() {
				return
			}
			// Timeout or transient receive error: keep polling until
			// close() signals stop.
			continue
		}

		reply := replyFromReceived(received)
		key := replyKey{id: reply.Identifier, seq: reply.Sequence}

		m.mu.Lock()
		ch, ok := m.waiters[key]
		if !ok && !m.sock.IsPrivileged() {
			// Unprivileged: the kernel rewrites the identifier, so match
			// on the (globally unique) sequence number alone.
			for k, c := range m.waiters {
				if k.seq == key.seq {
					key, ch, ok = k, c, true
					break
				}
			}
		}
		if ok {
			delete(m.waiters, key)
		}
		m.mu.Unlock()

		if ok {
			select {
			case ch <- reply:
			default:
			}
		}
	}
}

func (m *multiplexer) register(key replyKey) chan *EchoReply {
	ch := make(chan *EchoReply, 1)
	m.mu.Lock()
	m.waiters[key] = ch
	m.mu.Unlock()
	return ch
}

func (m *multiplexer) cancel(key replyKey) {
	m.mu.Lock()
	delete(m.waiters, key)
	m.mu.Unlock()
}

func (m *multiplexer) close() {
	close(m.stop)
	m.sock.Close()
	m.wg.Wait()
}

// resolvedTarget pairs an input address string with its resolved
// literal, or the lookup error that prevented resolution.
type resolvedTarget struct {
	address string
	dest    netip.Addr
	err     error
}

// Multiping pings every address concurrently, bounded by
// opts.ConcurrentTasks, through one shared socket per address family,
// and returns a Host per address in input order.
func Multiping(ctx context.Context, addresses []string, opts MultipingOptions) ([]*Host, error) {
	if opts.Count <= 0 {
		opts.Count = 2
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}
	if opts.ConcurrentTasks <= 0 {
		opts.ConcurrentTasks = 10
	}

	targets := make([]resolvedTarget, len(addresses))
	var v4mux, v6mux *multiplexer
	defer func() {
		if v4mux != nil {
			v4mux.close()
		}
		if v6mux != nil {
			v6mux.close()
		}
	}()

	for i, a := range addresses {
		addrs, err := addr.Resolve(ctx, a, opts.Family)
		if err != nil {
			targets[i] = resolvedTarget{address: a, err: err}
			continue
		}
		dest := addrs[0]
		targets[i] = resolvedTarget{address: a, dest: dest}

		if dest.Is4() && v4mux == nil {
			sock, err := socket.Open(socket.Config{Family: socket.V4, Privileged: opts.Privileged, Source: opts.Source})
			if err != nil {
				return nil, err
			}
			v4mux = newMultiplexer(sock)
		}
		if dest.Is6() && v6mux == nil {
			sock, err := socket.Open(socket.Config{Family: socket.V6, Privileged: opts.Privileged, Source: opts.Source})
			if err != nil {
				return nil, err
			}
			v6mux = newMultiplexer(sock)
		}
	}

	hosts := make([]*Host, len(addresses))
	sem := semaphore.NewWeighted(int64(opts.ConcurrentTasks))
	var wg sync.WaitGroup

	for i := range targets {
		t := targets[i]
		if t.err != nil {
			hosts[i] = NewHost(t.address, 0, nil)
			continue
		}

		mux := v4mux
		if t.dest.Is6() {
			mux = v6mux
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			hosts[i] = NewHost(t.address, 0, nil)
			continue
		}

		wg.Add(1)
		i, t := i, t
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			hosts[i] = pingViaMultiplexer(ctx, mux, t.address, t.dest, uint16(i), opts)
		}()
	}

	wg.Wait()
	return hosts, nil
}

func pingViaMultiplexer(ctx context.Context, mux *multiplexer, address string, dest netip.Addr, id uint16, opts MultipingOptions) *Host {
	rtts := make([]time.Duration, 0, opts.Count)

	family := 4
	if dest.Is6() {
		family = 6
	}

	checksumMode := icmpcodec.ChecksumComputed
	if !mux.sock.IsPrivileged() || family == 6 {
		checksumMode = icmpcodec.ChecksumKernel
	}

probes:
	for seq := 1; seq <= opts.Count; seq++ {
		if ctx.Err() != nil {
			break
		}

		req := NewEchoRequest(dest, id, uint16(seq)).WithTrafficClass(opts.TrafficClass)
		if opts.PayloadSize > 0 {
			req.WithPayloadSize(opts.PayloadSize)
		}

		wireID := id
		wireSeq := req.Sequence
		if !mux.sock.IsPrivileged() {
			if kernelID, ok := mux.sock.LocalIdentifier(); ok {
				wireID = kernelID
			}
			// The kernel stamps every packet on this socket with the
			// same identifier, so sequence alone must disambiguate
			// destinations sharing it.
			wireSeq = mux.nextSeq()
		}

		key := replyKey{id: wireID, seq: wireSeq}
		waitCh := mux.register(key)

		payload := icmpcodec.EncodeEcho(icmpcodec.EncodeParams{
			Family:       family,
			ID:           wireID,
			Seq:          wireSeq,
			Payload:      req.Payload(),
			ChecksumMode: checksumMode,
		})

		sendTime, err := mux.sock.Send(socket.SendParams{
			Dest:         req.Destination,
			Zone:         req.Zone,
			TTL:          req.TTL,
			TrafficClass: req.TrafficClass,
			Payload:      payload,
		})
		if err != nil {
			mux.cancel(key)
		} else {
			select {
			case reply := <-waitCh:
				// A matched Destination Unreachable or Time Exceeded
				// correlates to this probe but is not a successful
				// reply: no RTT for this sequence.
				if reply.RaiseForStatus() == nil {
					rtts = append(rtts, reply.ReceiveTime.Sub(sendTime))
				}
			case <-time.After(opts.Timeout):
				mux.cancel(key)
			case <-ctx.Done():
				mux.cancel(key)
			}
		}

		if seq < opts.Count && opts.Interval > 0 {
			select {
			case <-ctx.Done():
				break probes
			case <-time.After(opts.Interval):
			}
		}
	}

	return NewHost(address, opts.Count, rtts)
}
