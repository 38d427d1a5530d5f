package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Pratik8019/quant-app/internal/model"
)

// NATSSource buffers ticks arriving on a NATS subject. Message payloads
// use the same flexible JSON schema as the file feed.
type NATSSource struct {
	conn    *nats.Conn
	sub     *nats.Subscription
	subject string
	buf     *Buffer
	skipped atomic.Int64
}

// NewNATSSource connects to the server and subscribes to the subject.
func NewNATSSource(url, subject string, capacity int) (*NATSSource, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("[WARN] ingest: nats disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("[INFO] ingest: nats reconnected to %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}

	s := &NATSSource{conn: nc, subject: subject, buf: NewBuffer(capacity)}
	sub, err := nc.Subscribe(subject, s.handle)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	s.sub = sub
	log.Printf("[INFO] ingest: subscribed to %s at %s", subject, url)
	return s, nil
}

func (s *NATSSource) handle(msg *nats.Msg) {
	var row tickRow
	if err := json.Unmarshal(msg.Data, &row); err != nil {
		s.skipped.Add(1)
		return
	}
	t, ok := row.tick()
	if !ok {
		s.skipped.Add(1)
		return
	}
	s.buf.Add(t)
}

func (s *NATSSource) Name() string { return "nats:" + s.subject }

func (s *NATSSource) Snapshot(ctx context.Context) ([]model.Tick, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n := s.skipped.Swap(0); n > 0 {
		log.Printf("[WARN] ingest: %s: skipped %d unusable ticks", s.subject, n)
	}
	ticks := s.buf.Snapshot()
	sort.SliceStable(ticks, func(i, j int) bool { return ticks[i].Time.Before(ticks[j].Time) })
	return ticks, nil
}

func (s *NATSSource) Close() error {
	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			log.Printf("[WARN] ingest: unsubscribe %s: %v", s.subject, err)
		}
	}
	s.conn.Close()
	return nil
}
