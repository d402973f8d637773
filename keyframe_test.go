package motion

import (
	"math"
	"testing"
)

func TestKeyframeSpecRejectsBothForms(t *testing.T) {
	spec := KeyframeSpec{
		Frames:     []Frame{At(map[string]float64{"x": 1})},
		Properties: map[string]PropertyRange{"x": ToValue(1)},
	}
	if _, err := spec.normalize(NewValueTarget(nil)); err == nil {
		t.Error("expected error when both forms are set")
	}
}

func TestKeyframeSpecRejectsEmpty(t *testing.T) {
	if _, err := (KeyframeSpec{}).normalize(NewValueTarget(nil)); err == nil {
		t.Error("expected error for empty spec")
	}
}

func TestKeyframeBothFormsNormalizeIdentically(t *testing.T) {
	target := NewValueTarget(map[string]float64{"x": 10, "opacity": 1})

	fromFrames := KeyframeSpec{Frames: []Frame{
		At(map[string]float64{"x": 0, "opacity": 0}),
		At(map[string]float64{"x": 100, "opacity": 1}),
	}}
	fromProps := KeyframeSpec{Properties: map[string]PropertyRange{
		"x":       FromTo(0, 100),
		"opacity": FromTo(0, 1),
	}}

	a, err := fromFrames.normalize(target)
	if err != nil {
		t.Fatal(err)
	}
	b, err := fromProps.normalize(target)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("track counts %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].property != b[i].property {
			t.Fatalf("track %d property %q vs %q", i, a[i].property, b[i].property)
		}
		for _, p := range []float64{0, 0.25, 0.5, 0.75, 1} {
			if av, bv := a[i].valueAt(p), b[i].valueAt(p); math.Abs(av-bv) > 1e-12 {
				t.Errorf("track %q at %f: frames %f vs properties %f", a[i].property, p, av, bv)
			}
		}
	}
}

func TestKeyframeToValueReadsStartFromTarget(t *testing.T) {
	target := NewValueTarget(map[string]float64{"x": 40})
	spec := KeyframeSpec{Properties: map[string]PropertyRange{"x": ToValue(100)}}
	tracks, err := spec.normalize(target)
	if err != nil {
		t.Fatal(err)
	}
	if got := tracks[0].valueAt(0); got != 40 {
		t.Errorf("start value %f, want 40 (target's current)", got)
	}
	if got := tracks[0].valueAt(1); got != 100 {
		t.Errorf("end value %f, want 100", got)
	}
}

func TestKeyframeAutoOffsetsEvenlySpaced(t *testing.T) {
	frames := []Frame{
		At(map[string]float64{"x": 0}),
		At(map[string]float64{"x": 10}),
		At(map[string]float64{"x": 20}),
		At(map[string]float64{"x": 30}),
	}
	offsets, err := resolveOffsets(frames)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 1.0 / 3, 2.0 / 3, 1}
	for i := range want {
		if math.Abs(offsets[i]-want[i]) > 1e-12 {
			t.Errorf("offset %d = %f, want %f", i, offsets[i], want[i])
		}
	}
}

func TestKeyframeAutoOffsetsBetweenPins(t *testing.T) {
	frames := []Frame{
		{Offset: 0, Values: map[string]float64{"x": 0}},
		At(map[string]float64{"x": 1}),
		At(map[string]float64{"x": 2}),
		{Offset: 0.9, Values: map[string]float64{"x": 3}},
		At(map[string]float64{"x": 4}),
	}
	offsets, err := resolveOffsets(frames)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 0.3, 0.6, 0.9, 1}
	for i := range want {
		if math.Abs(offsets[i]-want[i]) > 1e-12 {
			t.Errorf("offset %d = %f, want %f", i, offsets[i], want[i])
		}
	}
}

func TestKeyframeRejectsDecreasingOffsets(t *testing.T) {
	frames := []Frame{
		{Offset: 0.8, Values: map[string]float64{"x": 0}},
		{Offset: 0.2, Values: map[string]float64{"x": 1}},
	}
	if _, err := resolveOffsets(frames); err == nil {
		t.Error("expected error for decreasing offsets")
	}
}

func TestKeyframeRejectsOutOfRangeOffset(t *testing.T) {
	frames := []Frame{
		{Offset: 0, Values: map[string]float64{"x": 0}},
		{Offset: 1.5, Values: map[string]float64{"x": 1}},
	}
	if _, err := resolveOffsets(frames); err == nil {
		t.Error("expected error for offset > 1")
	}
}

func TestKeyframeRejectsNonFiniteValues(t *testing.T) {
	target := NewValueTarget(nil)
	spec := KeyframeSpec{Properties: map[string]PropertyRange{"x": FromTo(0, math.Inf(1))}}
	if _, err := spec.normalize(target); err == nil {
		t.Error("expected error for infinite value")
	}
	spec = KeyframeSpec{Frames: []Frame{At(map[string]float64{"x": math.NaN()})}}
	if _, err := spec.normalize(target); err == nil {
		t.Error("expected error for NaN frame value")
	}
}

func TestKeyframeSinglePresencePropertyAnimatesFromCurrent(t *testing.T) {
	target := NewValueTarget(map[string]float64{"x": 0, "opacity": 0.8})
	spec := KeyframeSpec{Frames: []Frame{
		At(map[string]float64{"x": 0}),
		At(map[string]float64{"x": 50, "opacity": 0}), // opacity appears once
	}}
	tracks, err := spec.normalize(target)
	if err != nil {
		t.Fatal(err)
	}
	var opacity *propertyTrack
	for i := range tracks {
		if tracks[i].property == "opacity" {
			opacity = &tracks[i]
		}
	}
	if opacity == nil {
		t.Fatal("no opacity track")
	}
	if got := opacity.valueAt(0); got != 0.8 {
		t.Errorf("opacity start %f, want 0.8 (target's current)", got)
	}
	if got := opacity.valueAt(1); got != 0 {
		t.Errorf("opacity end %f, want 0", got)
	}
}

func TestKeyframeTrackInterpolation(t *testing.T) {
	tr := propertyTrack{
		property: "x",
		offsets:  []float64{0, 0.5, 1},
		values:   []float64{0, 100, 40},
	}
	cases := []struct{ p, want float64 }{
		{-0.1, 0}, // clamped to first key
		{0, 0},
		{0.25, 50},
		{0.5, 100},
		{0.75, 70},
		{1, 40},
		{1.2, 40}, // clamped to last key
	}
	for _, c := range cases {
		if got := tr.valueAt(c.p); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("valueAt(%f) = %f, want %f", c.p, got, c.want)
		}
	}
}

func TestKeyframeTrackOrderIsDeterministic(t *testing.T) {
	target := NewValueTarget(map[string]float64{"a": 0, "b": 0, "c": 0})
	spec := KeyframeSpec{Properties: map[string]PropertyRange{
		"c": ToValue(1),
		"a": ToValue(1),
		"b": ToValue(1),
	}}
	for run := 0; run < 10; run++ {
		tracks, err := spec.normalize(target)
		if err != nil {
			t.Fatal(err)
		}
		if tracks[0].property != "a" || tracks[1].property != "b" || tracks[2].property != "c" {
			t.Fatalf("run %d: track order %q %q %q", run, tracks[0].property, tracks[1].property, tracks[2].property)
		}
	}
}
