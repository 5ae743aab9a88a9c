//go:build linux

package collect

import (
	"fmt"
	"sync"

	"github.com/gmarler/lightswitch/pkg/cfi"
	"github.com/gmarler/lightswitch/pkg/proctrack"
	"github.com/gmarler/lightswitch/pkg/shard"
)

// Publisher compiles CFI for executables the first time they're seen
// and publishes the resulting rows into the shard allocator and the
// registry, tying together pkg/cfi §4.1, pkg/shard §4.2 and
// pkg/proctrack §4.3's "requesting CFI publication if new" step.
// Already-published executables are a no-op, so repeated calls across
// refresh cycles are cheap.
type Publisher struct {
	alloc *shard.Allocator
	reg   *proctrack.Registry

	mu   sync.Mutex
	seen map[string]bool
}

// NewPublisher returns a Publisher writing into alloc and reg.
func NewPublisher(alloc *shard.Allocator, reg *proctrack.Registry) *Publisher {
	return &Publisher{alloc: alloc, reg: reg, seen: make(map[string]bool)}
}

// EnsurePublished compiles hostPath's CFI and publishes it under
// executableID if this is the first time executableID has been seen.
// mappingName is the pathname the mapping itself was found under
// (used only for the JIT heuristic, spec §4.1).
func (p *Publisher) EnsurePublished(executableID, hostPath, mappingName string) error {
	p.mu.Lock()
	if p.seen[executableID] {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	table, err := cfi.Compile(hostPath, mappingName)
	if err != nil {
		return fmt.Errorf("compile CFI for %s: %w", hostPath, err)
	}

	chunks, err := p.alloc.Publish(table.Rows)
	if err != nil {
		return fmt.Errorf("publish rows for %s: %w", executableID, err)
	}

	p.reg.Publish(executableID, chunks)

	p.mu.Lock()
	p.seen[executableID] = true
	p.mu.Unlock()
	return nil
}
