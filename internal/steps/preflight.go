// preflight.go implements the daemon TCP endpoint preflight that runs
// first when a profile exposes the engine API over TCP.
package steps

import (
	"fmt"

	"github.com/shinji-kodama/dockhand/internal/port"
	"github.com/shinji-kodama/dockhand/internal/sequence"
)

// DaemonPortStep confirms the TCP port the profile wants the engine API
// on can actually be bound. It runs before anything else in the catalog,
// so a doomed install fails before mutating the system.
type DaemonPortStep struct {
	sequence.StepBase

	port   int
	prober *port.Prober
}

// NewDaemonPortStep creates the preflight for the given TCP port.
func NewDaemonPortStep(tcpPort int) *DaemonPortStep {
	return &DaemonPortStep{
		StepBase: sequence.StepBase{Desc: fmt.Sprintf("Checking daemon port %d", tcpPort)},
		port:     tcpPort,
		prober:   port.NewProber(),
	}
}

// Execute probes the port. When it is taken, the error suggests a free
// port from the dynamic range so the user can adjust the profile.
func (s *DaemonPortStep) Execute(rc *sequence.RunContext) error {
	rc.Logf("Checking that TCP port %d is free for the daemon endpoint...", s.port)

	if s.prober.IsFree(s.port) {
		rc.Logf("Port %d is available", s.port)
		return nil
	}

	if alt, err := s.prober.FindFree(port.DynamicRangeStart, port.DynamicRangeEnd); err == nil {
		return fmt.Errorf("TCP port %d is already in use (port %d is free; update daemonTcpPort in the profile)", s.port, alt)
	}
	return fmt.Errorf("TCP port %d is already in use", s.port)
}

// Rollback is a no-op: probing changes nothing.
func (s *DaemonPortStep) Rollback(rc *sequence.RunContext) error {
	return nil
}
