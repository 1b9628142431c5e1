package analysis

import "testing"

func TestZoneOf(t *testing.T) {
	tests := []struct {
		bpm      int
		expected Zone
	}{
		{60, ZoneWarmUp},
		{113, ZoneWarmUp},
		{114, ZoneLight},
		{132, ZoneLight},
		{133, ZoneAerobic},
		{151, ZoneAerobic},
		{152, ZoneAnaerobic},
		{170, ZoneAnaerobic},
		{171, ZoneMaximum},
		{190, ZoneMaximum},
	}

	for _, tt := range tests {
		if got := ZoneOf(tt.bpm); got != tt.expected {
			t.Errorf("ZoneOf(%d) = %d, want %d", tt.bpm, got, tt.expected)
		}
	}
}

func TestZoneName(t *testing.T) {
	tests := []struct {
		zone     Zone
		expected string
	}{
		{ZoneWarmUp, "warm-up"},
		{ZoneLight, "light zone"},
		{ZoneAerobic, "aerobic zone"},
		{ZoneAnaerobic, "anaerobic zone"},
		{ZoneMaximum, "maximum zone"},
		{ZoneNone, "unknown zone"},
		{Zone(9), "unknown zone"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.zone.Name(); got != tt.expected {
				t.Errorf("Zone(%d).Name() = %q, want %q", tt.zone, got, tt.expected)
			}
		})
	}
}

func TestZoneTracker(t *testing.T) {
	var tracker ZoneTracker

	steps := []struct {
		bpm         int
		wantZone    Zone
		wantChanged bool
	}{
		{150, ZoneAerobic, false}, // first observation never fires
		{151, ZoneAerobic, false},
		{160, ZoneAnaerobic, true},
		{175, ZoneMaximum, true},
		{176, ZoneMaximum, false},
		{100, ZoneWarmUp, true},
	}

	for i, step := range steps {
		zone, changed := tracker.Observe(step.bpm)
		if zone != step.wantZone || changed != step.wantChanged {
			t.Errorf("step %d: Observe(%d) = (%d, %v), want (%d, %v)",
				i, step.bpm, zone, changed, step.wantZone, step.wantChanged)
		}
	}

	tracker.Reset()
	if tracker.Current() != ZoneNone {
		t.Errorf("Current() after Reset = %d, want ZoneNone", tracker.Current())
	}
	if _, changed := tracker.Observe(180); changed {
		t.Error("first observation after Reset should not report a change")
	}
}

func TestZoneDistributionOf(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		if got := ZoneDistributionOf(nil); got != nil {
			t.Errorf("expected nil distribution, got %+v", got)
		}
	})

	t.Run("all warm-up", func(t *testing.T) {
		hr := []int{90, 95, 100, 105, 110, 113, 100, 99, 98, 97}
		got := ZoneDistributionOf(hr)
		if got == nil {
			t.Fatal("expected distribution")
		}
		if got.Zone1 != 100 || got.Zone2 != 0 || got.Zone3 != 0 || got.Zone4 != 0 || got.Zone5 != 0 {
			t.Errorf("got %+v, want zone1=100 only", *got)
		}
	})

	t.Run("thirds round independently", func(t *testing.T) {
		got := ZoneDistributionOf([]int{100, 120, 140})
		if got.Zone1 != 33 || got.Zone2 != 33 || got.Zone3 != 33 {
			t.Errorf("got %+v, want 33/33/33", *got)
		}
	})

	t.Run("half rounds up", func(t *testing.T) {
		// 1 of 8 = 12.5%
		got := ZoneDistributionOf([]int{180, 100, 100, 100, 100, 100, 100, 100})
		if got.Zone5 != 13 || got.Zone1 != 88 {
			t.Errorf("got %+v, want zone5=13 zone1=88", *got)
		}
	})
}
