package motion

import (
	"fmt"
	"runtime"
	"time"
)

// RendererOptions is the configuration surface for renderer selection.
type RendererOptions struct {
	Preferred RendererPreference
	Priority  PerformancePriority
	// Tier overrides device-tier detection. TierAuto uses the tier detected
	// when the factory was created.
	Tier DeviceTier
	// TargetFPS overrides the frame-loop tick rate chosen by the
	// priority×tier table.
	TargetFPS int
	// Throttle caps the frame-loop callback rate; see FrameLoopOptions.
	Throttle time.Duration
}

// DetectDeviceTier classifies the runtime environment from its hardware
// concurrency hint. Coarse on purpose; callers can always override via
// RendererOptions.Tier.
func DetectDeviceTier() DeviceTier {
	switch cpus := runtime.NumCPU(); {
	case cpus >= 8:
		return TierHigh
	case cpus >= 4:
		return TierMedium
	default:
		return TierLow
	}
}

// frameLoopFPS is the priority×tier frame-rate table for the frame-loop
// backend.
var frameLoopFPS = map[PerformancePriority]map[DeviceTier]int{
	PriorityQuality:  {TierHigh: 60, TierMedium: 60, TierLow: 30},
	PriorityBalanced: {TierHigh: 60, TierMedium: 45, TierLow: 30},
	PriorityBattery:  {TierHigh: 30, TierMedium: 24, TierLow: 20},
}

// RendererFactory selects and caches renderer backends. It is an explicit
// process-scoped object rather than package-level state, so independent app
// surfaces can each own one with a clear lifecycle (NewRendererFactory,
// Reset, DisposeAll).
//
// The device tier is detected once at construction and treated as fixed for
// the lifetime of the cache; runtime capability changes are out of scope.
type RendererFactory struct {
	comp  Compositor // may be nil: compositor backend unavailable
	tier  DeviceTier
	cache map[string]Renderer
}

// NewRendererFactory creates a factory. comp may be nil on headless
// platforms; the factory then always selects the frame-loop backend.
func NewRendererFactory(comp Compositor) *RendererFactory {
	return &RendererFactory{
		comp:  comp,
		tier:  DetectDeviceTier(),
		cache: make(map[string]Renderer),
	}
}

// Tier returns the device tier the factory resolved at construction.
func (f *RendererFactory) Tier() DeviceTier { return f.tier }

// SetTier overrides the detected tier and invalidates the instance cache
// (cache keys embed the tier the decision was made with).
func (f *RendererFactory) SetTier(tier DeviceTier) {
	if tier == TierAuto || tier == f.tier {
		return
	}
	f.tier = tier
	f.Reset()
}

// Renderer resolves the backend for the given options. Repeated calls with
// an identical options signature return the same instance.
//
// Decision policy: an explicit preference wins (a compositor preference
// degrades to the frame loop with a warning when unsupported); auto selects
// the compositor when it is supported AND the tier is not low, otherwise a
// frame loop throttled by the priority×tier table.
func (f *RendererFactory) Renderer(opts RendererOptions) Renderer {
	tier := opts.Tier
	if tier == TierAuto {
		tier = f.tier
	}
	key := fmt.Sprintf("%d|%d|%d|%d|%d", opts.Preferred, opts.Priority, tier, opts.TargetFPS, opts.Throttle)
	if r, ok := f.cache[key]; ok {
		return r
	}

	r := f.build(opts, tier)
	f.cache[key] = r
	return r
}

func (f *RendererFactory) build(opts RendererOptions, tier DeviceTier) Renderer {
	useCompositor := false
	switch opts.Preferred {
	case PreferCompositor:
		useCompositor = true
	case PreferAuto:
		useCompositor = f.compositorSupported() && tier != TierLow
	}

	if useCompositor {
		r, err := NewCompositorRenderer(f.comp)
		if err == nil {
			return r
		}
		warnf("compositor renderer unavailable, using frame loop: %v", err)
	}

	fps := opts.TargetFPS
	if fps <= 0 {
		fps = frameLoopFPS[opts.Priority][tier]
	}
	return NewFrameLoopRenderer(FrameLoopOptions{TargetFPS: fps, Throttle: opts.Throttle})
}

func (f *RendererFactory) compositorSupported() bool {
	return f.comp != nil && f.comp.Supported()
}

// Reset empties the instance cache without disposing the cached renderers.
// Subsequent calls construct fresh instances.
func (f *RendererFactory) Reset() {
	f.cache = make(map[string]Renderer)
}

// DisposeAll disposes every cached renderer and empties the cache.
func (f *RendererFactory) DisposeAll() {
	for _, r := range f.cache {
		r.Dispose()
	}
	f.Reset()
}
