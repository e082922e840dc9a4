package judge

import (
	"context"
	"net"
	"time"
)

// DefaultProbeAddr is the host probed to decide whether the judging
// service is reachable.
const DefaultProbeAddr = "generativelanguage.googleapis.com:443"

const probeTimeout = 3 * time.Second

// OnlineProbe reports whether the judging service looks reachable.
type OnlineProbe func(ctx context.Context) bool

// NewOnlineProbe returns a probe that dials addr. An empty addr falls back
// to DefaultProbeAddr.
func NewOnlineProbe(addr string) OnlineProbe {
	if addr == "" {
		addr = DefaultProbeAddr
	}
	return func(ctx context.Context) bool {
		d := net.Dialer{Timeout: probeTimeout}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}
}
