package oxidb

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const (
	dialTimeout              = 5 * time.Second
	defaultKeepaliveInterval = 10 * time.Second
)

// Pool is a round-robin connection pool with keepalive pings and reconnect.
type Pool struct {
	host      string
	port      int
	keepalive time.Duration
	log       zerolog.Logger
	mu        sync.RWMutex
	clients   []*Client
	idx       atomic.Uint64
	stop      chan struct{}
	once      sync.Once
}

// PoolOption tunes a Pool.
type PoolOption func(*Pool)

// WithKeepalive sets how often idle connections are pinged.
func WithKeepalive(d time.Duration) PoolOption {
	return func(p *Pool) {
		if d > 0 {
			p.keepalive = d
		}
	}
}

// NewPool dials size connections and starts the keepalive loop.
func NewPool(ctx context.Context, host string, port, size int, log zerolog.Logger, opts ...PoolOption) (*Pool, error) {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		host:      host,
		port:      port,
		keepalive: defaultKeepaliveInterval,
		log:       log.With().Str("component", "oxidb.pool").Logger(),
		clients:   make([]*Client, size),
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	for i := 0; i < size; i++ {
		c, err := p.dial(ctx)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("pool: connect client %d: %w", i, err)
		}
		p.clients[i] = c
	}
	go p.keepaliveLoop()
	return p, nil
}

func (p *Pool) dial(ctx context.Context) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	return Connect(ctx, p.host, p.port)
}

// Get returns the next client in round-robin order. A broken client is
// redialed first; if that fails the broken client is returned and its
// calls fail with ErrBroken.
func (p *Pool) Get() *Client {
	i := int(p.idx.Add(1) % uint64(len(p.clients)))
	p.mu.RLock()
	c := p.clients[i]
	p.mu.RUnlock()
	if c.Broken() {
		return p.reconnect(i, c)
	}
	return c
}

// Ping checks one pooled connection.
func (p *Pool) Ping(ctx context.Context) error {
	_, err := p.Get().Ping(ctx)
	return err
}

// reconnect replaces slot i if it still holds old and returns whatever the
// slot holds afterwards.
func (p *Pool) reconnect(i int, old *Client) *Client {
	c, err := p.dial(context.Background())
	if err != nil {
		p.log.Warn().Err(err).Int("client", i).Msg("reconnect failed")
		return old
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.stop:
		c.Close()
		return old
	default:
	}
	if p.clients[i] != old {
		c.Close()
		return p.clients[i]
	}
	p.clients[i] = c
	old.Close()
	p.log.Info().Int("client", i).Msg("reconnected")
	return c
}

func (p *Pool) keepaliveLoop() {
	ticker := time.NewTicker(p.keepalive)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.mu.RLock()
			clients := append([]*Client(nil), p.clients...)
			p.mu.RUnlock()
			for i, c := range clients {
				ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
				_, err := c.Ping(ctx)
				cancel()
				if err != nil {
					p.log.Warn().Err(err).Int("client", i).Msg("ping failed, reconnecting")
					c.abandon()
					p.reconnect(i, c)
				}
			}
		}
	}
}

// Close stops the keepalive loop and closes all connections.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.stop) })
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.clients {
		if c != nil {
			c.Close()
		}
	}
}
