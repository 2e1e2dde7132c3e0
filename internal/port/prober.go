// Package port implements TCP port probing for the daemon endpoint
// preflight.
//
// When a profile exposes the engine API on a local TCP endpoint, the
// install plan starts with a preflight step that confirms the requested
// port can actually be bound. Probing uses the operating system's network
// stack directly (net.Listen) rather than parsing /proc/net/* or shelling
// out to `lsof`/`ss`, which may require elevated permissions.
package port

import (
	"fmt"
	"net"
)

const (
	// maxPort is the highest valid TCP port number (2^16 - 1).
	maxPort = 65535

	// DynamicRangeStart is the start of the IANA dynamic/private port
	// range (49152-65535). When the requested daemon port is taken, the
	// preflight suggests a free port from this range.
	DynamicRangeStart = 49152

	// DynamicRangeEnd is the end of the dynamic port range.
	DynamicRangeEnd = 65535
)

// Prober checks whether TCP ports are free to bind on the host machine.
//
// The struct is currently stateless, but is defined as a struct (rather
// than bare functions) so that future options (e.g., bind address) can be
// added without breaking the API, and so it stays injectable as a
// dependency in step tests.
type Prober struct{}

// NewProber creates a new Prober instance.
func NewProber() *Prober {
	return &Prober{}
}

// IsFree checks whether a single TCP port is free on the host machine.
//
// It attempts net.Listen("tcp", ":port"); if the bind succeeds the port
// is free and the listener is closed immediately. Binding covers all
// interfaces (":port" rather than "127.0.0.1:port") because the engine
// publishes its TCP endpoint on 0.0.0.0, so the probe must check the
// same address space to avoid false positives.
//
// Returns false for ports outside 1-65535.
func (p *Prober) IsFree(port int) bool {
	if port < 1 || port > maxPort {
		return false
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	defer func() { _ = listener.Close() }()
	return true
}

// FindFree scans a port range [startPort, endPort] (inclusive) and
// returns the first TCP port that is free to bind.
//
// The search is sequential from startPort upward, so the same free port
// is selected consistently. The preflight uses this to suggest an
// alternative when the configured daemon port turns out to be taken.
//
// Returns an error if no free port exists in the range.
func (p *Prober) FindFree(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		if p.IsFree(port) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("no free TCP port found in range %d-%d", startPort, endPort)
}
