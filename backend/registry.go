package backend

import "sync"

// Factory creates a new backend instance.
type Factory func() Backend

const (
	NameGPU    = "gpu"
	NameRaster = "raster"
)

var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// priority is the selection order for Default: GPU first for
	// throughput, raster as the universally-available fallback.
	priority = []string{NameGPU, NameRaster}
)

// Register registers a backend factory under name. Typically called
// from an init() function in the backend's package. Re-registering a
// name replaces the existing factory.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry (used by tests).
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the names of all registered backends.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// Get constructs a backend instance by name, or nil if unregistered.
func Get(name string) Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()
	factory, ok := backends[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default constructs the highest-priority available backend: GPU when
// registered, otherwise raster. Returns nil if nothing is registered.
func Default() Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range priority {
		if factory, ok := backends[name]; ok {
			if b := factory(); b != nil {
				return b
			}
		}
	}
	for _, factory := range backends {
		if b := factory(); b != nil {
			return b
		}
	}
	return nil
}

// InitDefault constructs and initializes the default backend, falling
// back to raster when GPU context creation fails (spec §4.14).
func InitDefault() (Backend, error) {
	b := Default()
	if b == nil {
		return nil, ErrBackendNotAvailable
	}
	if err := b.Init(); err != nil {
		if b.Name() == NameGPU {
			if raster := Get(NameRaster); raster != nil {
				if rerr := raster.Init(); rerr == nil {
					return raster, nil
				}
			}
		}
		return nil, err
	}
	return b, nil
}
