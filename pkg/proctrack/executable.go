package proctrack

import (
	"sync"

	"github.com/gmarler/lightswitch/pkg/shard"
)

// executable is the registry's bookkeeping for one executable_id: the
// chunks describing where its rows live in the shard arenas, and how
// many live mappings currently reference it.
type executable struct {
	chunks   []shard.Chunk
	refcount int
}

// Registry is the single source of truth mapping an executable_id to
// its published unwind chunks. It is safe for concurrent use: Publish
// is called from the compilation path, RegisterMapping/Release from
// the per-process sampling path.
type Registry struct {
	mu    sync.Mutex
	execs map[string]*executable
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{execs: make(map[string]*executable)}
}

// Publish records the chunks produced by pkg/shard for executableID,
// making it eligible for RegisterMapping. Publishing the same
// executableID again replaces its chunks (e.g. after a shard-capacity
// failure elsewhere forced a recompile); it never implicitly drops an
// existing refcount.
func (r *Registry) Publish(executableID string, chunks []shard.Chunk) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.execs[executableID]; ok {
		e.chunks = chunks
		return
	}
	r.execs[executableID] = &executable{chunks: chunks}
}

// RegisterMapping increments executableID's live-mapping refcount. It
// fails with ErrNotPublished if executableID has no published chunks,
// enforcing the publish-before-reference ordering a process_info_t
// update must never violate.
func (r *Registry) RegisterMapping(executableID string) ([]shard.Chunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.execs[executableID]
	if !ok {
		return nil, ErrNotPublished
	}
	e.refcount++
	return e.chunks, nil
}

// Release decrements executableID's refcount when a mapping naming it
// is torn down (munmap, or the owning process exiting). The registry
// never evicts on refcount reaching zero on its own: eviction under
// heavy process churn is a policy decision left to the caller (see
// DESIGN.md).
func (r *Registry) Release(executableID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.execs[executableID]; ok && e.refcount > 0 {
		e.refcount--
	}
}

// Chunks returns the published chunks for executableID, if any.
func (r *Registry) Chunks(executableID string) ([]shard.Chunk, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.execs[executableID]
	if !ok {
		return nil, false
	}
	return e.chunks, true
}

// RefCount reports the current live-mapping count for executableID.
func (r *Registry) RefCount(executableID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.execs[executableID]; ok {
		return e.refcount
	}
	return 0
}
