package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/types"

	"github.com/inkcore/strokes/internal/logx"
)

// deviceState holds the GPU resources for a Backend's lifetime: an
// instance, adapter, device and queue, created in that order and torn
// down in reverse, mirroring the teacher's own self-contained
// core-ID device lifecycle (no host-supplied gpucontext.DeviceProvider
// here, since this module owns its device rather than borrowing one).
type deviceState struct {
	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID

	gpuInfo *gpuInfo
	lost    bool
}

type gpuInfo struct {
	name       string
	vendor     string
	deviceType types.DeviceType
	backend    types.Backend
	driver     string
}

func (g *gpuInfo) String() string {
	if g == nil {
		return "unknown"
	}
	return fmt.Sprintf("%s (%s, %s)", g.name, g.deviceType, g.backend)
}

func createDeviceState(label string) (*deviceState, error) {
	ds := &deviceState{}

	ds.instance = core.NewInstance(&gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
	})

	adapterID, err := ds.instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	ds.adapter = adapterID

	if info, infoErr := core.GetAdapterInfo(adapterID); infoErr == nil {
		ds.gpuInfo = &gpuInfo{
			name:       info.Name,
			vendor:     info.Vendor,
			deviceType: info.DeviceType,
			backend:    info.Backend,
			driver:     info.Driver,
		}
		logx.Logger().Info("gpu backend: adapter selected", "gpu", ds.gpuInfo.String())
	}

	deviceID, err := core.RequestDevice(adapterID, &types.DeviceDescriptor{
		Label:            label,
		RequiredFeatures: nil,
		RequiredLimits:   types.DefaultLimits(),
	})
	if err != nil {
		_ = core.AdapterDrop(adapterID)
		return nil, fmt.Errorf("gpu backend: device creation failed: %w", err)
	}
	ds.device = deviceID

	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		_ = core.DeviceDrop(deviceID)
		_ = core.AdapterDrop(adapterID)
		return nil, fmt.Errorf("gpu backend: queue retrieval failed: %w", err)
	}
	ds.queue = queueID

	return ds, nil
}

func (ds *deviceState) close() {
	if ds == nil {
		return
	}
	if !ds.device.IsZero() {
		if err := core.DeviceDrop(ds.device); err != nil {
			logx.Logger().Warn("gpu backend: error releasing device", "err", err)
		}
		ds.device = core.DeviceID{}
	}
	if !ds.adapter.IsZero() {
		if err := core.AdapterDrop(ds.adapter); err != nil {
			logx.Logger().Warn("gpu backend: error releasing adapter", "err", err)
		}
		ds.adapter = core.AdapterID{}
	}
	ds.instance = nil
	ds.queue = core.QueueID{}
	ds.gpuInfo = nil
}
