package motion

import (
	"fmt"
	"sort"
)

// Frame is one step of an ordered keyframe sequence: a set of property
// values, optionally pinned to an explicit offset in [0,1]. Frames with a
// negative Offset are spaced evenly between their pinned neighbors' range
// (or across the whole animation when nothing is pinned).
type Frame struct {
	Offset float64 // fraction of the animation, or < 0 for auto spacing
	Values map[string]float64
}

// At is a convenience constructor for an auto-spaced frame.
func At(values map[string]float64) Frame {
	return Frame{Offset: -1, Values: values}
}

// PropertyRange is the property-indexed shorthand for one property: either an
// explicit from→to pair, or a bare target value animated from the target's
// current property value at start time.
type PropertyRange struct {
	From, To float64
	hasFrom  bool
}

// FromTo builds a {from,to} shorthand range.
func FromTo(from, to float64) PropertyRange {
	return PropertyRange{From: from, To: to, hasFrom: true}
}

// ToValue builds a {value} shorthand range: the start value is read from the
// target when the animation is created.
func ToValue(to float64) PropertyRange {
	return PropertyRange{To: to}
}

// KeyframeSpec describes what an animation does to its target. Exactly one
// of the two forms must be populated:
//
//   - Frames: an ordered sequence of property maps, WAAPI-array style.
//   - Properties: a property-indexed map of {from,to}/{value} shorthand.
//
// Both forms normalize to identical per-property tracks, so the two renderer
// backends sample them identically.
type KeyframeSpec struct {
	Frames     []Frame
	Properties map[string]PropertyRange
}

// propertyTrack is the normalized form: parallel offset/value slices for one
// property, plus the target's underlying value at creation time (restored by
// FillNone when the animation ends).
type propertyTrack struct {
	property string
	offsets  []float64
	values   []float64
	base     float64
}

// normalize validates the spec and flattens it into per-property tracks.
// The target supplies start values for single-ended ranges and the base
// values restored by FillNone.
func (k KeyframeSpec) normalize(target Target) ([]propertyTrack, error) {
	hasFrames := len(k.Frames) > 0
	hasProps := len(k.Properties) > 0
	switch {
	case hasFrames && hasProps:
		return nil, fmt.Errorf("%w: keyframe spec sets both Frames and Properties", ErrInvalidConfig)
	case !hasFrames && !hasProps:
		return nil, fmt.Errorf("%w: empty keyframe spec", ErrInvalidConfig)
	}
	if hasProps {
		return normalizeProperties(k.Properties, target)
	}
	return normalizeFrames(k.Frames, target)
}

func normalizeProperties(props map[string]PropertyRange, target Target) ([]propertyTrack, error) {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic track order

	tracks := make([]propertyTrack, 0, len(names))
	for _, name := range names {
		r := props[name]
		from := r.From
		if !r.hasFrom {
			from, _ = target.Property(name)
		}
		if !isFinite(from) || !isFinite(r.To) {
			return nil, fmt.Errorf("%w: non-finite keyframe value for %q", ErrInvalidConfig, name)
		}
		base, _ := target.Property(name)
		tracks = append(tracks, propertyTrack{
			property: name,
			offsets:  []float64{0, 1},
			values:   []float64{from, r.To},
			base:     base,
		})
	}
	return tracks, nil
}

func normalizeFrames(frames []Frame, target Target) ([]propertyTrack, error) {
	offsets, err := resolveOffsets(frames)
	if err != nil {
		return nil, err
	}

	// Collect property names in first-appearance order for determinism.
	var names []string
	seen := make(map[string]bool)
	for _, f := range frames {
		for name := range f.Values {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: keyframes define no properties", ErrInvalidConfig)
	}

	tracks := make([]propertyTrack, 0, len(names))
	for _, name := range names {
		t := propertyTrack{property: name}
		t.base, _ = target.Property(name)
		for i, f := range frames {
			v, ok := f.Values[name]
			if !ok {
				continue
			}
			if !isFinite(v) {
				return nil, fmt.Errorf("%w: non-finite keyframe value for %q", ErrInvalidConfig, name)
			}
			t.offsets = append(t.offsets, offsets[i])
			t.values = append(t.values, v)
		}
		// A property present in only one frame animates from the target's
		// current value, same as the {value} shorthand.
		if len(t.values) == 1 {
			t.offsets = []float64{0, t.offsets[0]}
			if t.offsets[1] == 0 {
				t.offsets[1] = 1
			}
			t.values = []float64{t.base, t.values[0]}
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

// resolveOffsets fills auto offsets by even spacing and validates that pinned
// offsets are in [0,1] and non-decreasing.
func resolveOffsets(frames []Frame) ([]float64, error) {
	n := len(frames)
	offsets := make([]float64, n)
	if n == 1 {
		if frames[0].Offset >= 0 && frames[0].Offset <= 1 {
			offsets[0] = frames[0].Offset
		} else {
			offsets[0] = 1
		}
		return offsets, nil
	}

	last := -1.0
	for i, f := range frames {
		if f.Offset < 0 {
			offsets[i] = -1
			continue
		}
		if f.Offset > 1 {
			return nil, fmt.Errorf("%w: keyframe offset %v out of range", ErrInvalidConfig, f.Offset)
		}
		if f.Offset < last {
			return nil, fmt.Errorf("%w: keyframe offsets must be non-decreasing", ErrInvalidConfig)
		}
		last = f.Offset
		offsets[i] = f.Offset
	}
	// Endpoints default to 0 and 1.
	if offsets[0] < 0 {
		offsets[0] = 0
	}
	if offsets[n-1] < 0 {
		offsets[n-1] = 1
	}
	// Evenly distribute runs of auto offsets between pinned neighbors.
	for i := 1; i < n-1; i++ {
		if offsets[i] >= 0 {
			continue
		}
		runStart := i
		runEnd := i
		for runEnd < n-1 && offsets[runEnd+1] < 0 {
			runEnd++
		}
		lo := offsets[runStart-1]
		hi := offsets[runEnd+1]
		span := runEnd - runStart + 2
		for j := runStart; j <= runEnd; j++ {
			offsets[j] = lo + (hi-lo)*float64(j-runStart+1)/float64(span)
		}
		i = runEnd
	}
	for i := 1; i < n; i++ {
		if offsets[i] < offsets[i-1] {
			return nil, fmt.Errorf("%w: keyframe offsets must be non-decreasing", ErrInvalidConfig)
		}
	}
	return offsets, nil
}

// valueAt samples the track at eased progress p in [0,1] with linear
// interpolation between bracketing keys.
func (t *propertyTrack) valueAt(p float64) float64 {
	offs := t.offsets
	vals := t.values
	if p <= offs[0] {
		return vals[0]
	}
	last := len(offs) - 1
	if p >= offs[last] {
		return vals[last]
	}
	for i := 1; i <= last; i++ {
		if p > offs[i] {
			continue
		}
		span := offs[i] - offs[i-1]
		if span <= 0 {
			return vals[i]
		}
		f := (p - offs[i-1]) / span
		return vals[i-1] + (vals[i]-vals[i-1])*f
	}
	return vals[last]
}
