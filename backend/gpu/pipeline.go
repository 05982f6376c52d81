package gpu

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/core"
)

//go:embed shaders/solid.wgsl
var solidShaderWGSL string

//go:embed shaders/texture.wgsl
var textureShaderWGSL string

//go:embed shaders/stamp.wgsl
var stampShaderWGSL string

//go:embed shaders/grain.wgsl
var grainShaderWGSL string

//go:embed shaders/circle.wgsl
var circleShaderWGSL string

//go:embed shaders/line.wgsl
var lineShaderWGSL string

// StubPipelineID is a placeholder for a real core.RenderPipelineID,
// following the teacher's own PipelineCache convention (backend/wgpu/
// pipeline.go's StubPipelineID) for GPU resources this module compiles
// shaders for but does not yet issue draw calls through.
type StubPipelineID uint64

// InvalidPipelineID marks an uncreated pipeline slot.
const InvalidPipelineID StubPipelineID = 0

// shaderModules holds the compiled SPIR-V for each of the six programs
// (solid, texture, stamp, grain, circle, line), compiled once in
// Backend.Init via naga.Compile the same way gpu_fine.go
// compiles fine.wgsl.
type shaderModules struct {
	solid   []uint32
	texture []uint32
	stamp   []uint32
	grain   []uint32
	circle  []uint32
	line    []uint32
}

func compileSPIRV(label, wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("gpu backend: failed to compile %s shader: %w", label, err)
	}
	out := make([]uint32, len(spirvBytes)/4)
	for i := range out {
		out[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return out, nil
}

func newShaderModules() (*shaderModules, error) {
	sm := &shaderModules{}
	var err error
	if sm.solid, err = compileSPIRV("solid", solidShaderWGSL); err != nil {
		return nil, err
	}
	if sm.texture, err = compileSPIRV("texture", textureShaderWGSL); err != nil {
		return nil, err
	}
	if sm.stamp, err = compileSPIRV("stamp", stampShaderWGSL); err != nil {
		return nil, err
	}
	if sm.grain, err = compileSPIRV("grain", grainShaderWGSL); err != nil {
		return nil, err
	}
	if sm.circle, err = compileSPIRV("circle", circleShaderWGSL); err != nil {
		return nil, err
	}
	if sm.line, err = compileSPIRV("line", lineShaderWGSL); err != nil {
		return nil, err
	}
	return sm, nil
}

// pipelineCache caches one stub pipeline id per program and dedups
// consecutive binds of the same pipeline, the way a real command
// encoder skips a redundant SetPipeline call. Grounded on
// backend/wgpu/pipeline.go's PipelineCache, generalized from
// blit/blend/strip/composite to this module's six programs.
type pipelineCache struct {
	mu sync.RWMutex

	device  core.DeviceID
	shaders *shaderModules

	solid   StubPipelineID
	texture StubPipelineID
	stamp   StubPipelineID
	grain   StubPipelineID
	circle  StubPipelineID
	line    StubPipelineID

	lastBound StubPipelineID
	rebinds   int
	skipped   int
}

func newPipelineCache(device core.DeviceID, shaders *shaderModules) *pipelineCache {
	return &pipelineCache{
		device:  device,
		shaders: shaders,
		solid:   1,
		texture: 2,
		stamp:   3,
		grain:   4,
		circle:  5,
		line:    6,
	}
}

// bind records a request to use pipeline id, skipping the (logged)
// rebind when it matches the previous call's pipeline, mirroring a
// state-dedup cache's purpose: fewer redundant GPU state changes.
func (pc *pipelineCache) bind(id StubPipelineID) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.lastBound == id {
		pc.skipped++
		return
	}
	pc.lastBound = id
	pc.rebinds++
}

func (pc *pipelineCache) Solid() StubPipelineID   { return pc.get(&pc.solid) }
func (pc *pipelineCache) Texture() StubPipelineID { return pc.get(&pc.texture) }
func (pc *pipelineCache) Stamp() StubPipelineID   { return pc.get(&pc.stamp) }
func (pc *pipelineCache) Grain() StubPipelineID   { return pc.get(&pc.grain) }
func (pc *pipelineCache) Circle() StubPipelineID  { return pc.get(&pc.circle) }
func (pc *pipelineCache) Line() StubPipelineID    { return pc.get(&pc.line) }

func (pc *pipelineCache) get(id *StubPipelineID) StubPipelineID {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return *id
}

// stats reports dedup-cache effectiveness for diagnostics.
func (pc *pipelineCache) stats() (rebinds, skipped int) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.rebinds, pc.skipped
}
