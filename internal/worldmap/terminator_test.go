package worldmap

import (
	"math"
	"testing"
	"time"
)

func TestComputeTerminator_ClosedFinitePolygon(t *testing.T) {
	instants := map[string]time.Time{
		"june solstice":     time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC),
		"december solstice": time.Date(2025, 12, 21, 12, 0, 0, 0, time.UTC),
		"march equinox":     time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC),
		"midnight":          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	for name, instant := range instants {
		t.Run(name, func(t *testing.T) {
			snap := ComputeTerminator(instant)
			if snap.Degenerate {
				t.Fatal("valid instant produced degenerate snapshot")
			}
			if len(snap.Points) == 0 {
				t.Fatal("no terminator points")
			}
			first, last := snap.Points[0], snap.Points[len(snap.Points)-1]
			if first != last {
				t.Errorf("polygon not closed: first %v last %v", first, last)
			}
			for i, p := range snap.Points {
				if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) {
					t.Fatalf("point %d has non-finite latitude", i)
				}
				if p.Latitude < -90 || p.Latitude > 90 {
					t.Errorf("point %d latitude %f out of range", i, p.Latitude)
				}
				if p.Longitude < -180 || p.Longitude > 180 {
					t.Errorf("point %d longitude %f out of range", i, p.Longitude)
				}
			}
		})
	}
}

func TestComputeTerminator_Deterministic(t *testing.T) {
	instant := time.Date(2025, 8, 25, 17, 30, 0, 0, time.UTC)
	a := ComputeTerminator(instant)
	b := ComputeTerminator(instant)

	if len(a.Points) != len(b.Points) {
		t.Fatalf("point counts differ: %d vs %d", len(a.Points), len(b.Points))
	}
	for i := range a.Points {
		if a.Points[i] != b.Points[i] {
			t.Fatalf("point %d differs: %v vs %v", i, a.Points[i], b.Points[i])
		}
	}
}

func TestComputeTerminator_DeclinationSign(t *testing.T) {
	june := ComputeTerminator(time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC))
	if june.Declination <= 0 {
		t.Errorf("june declination = %f, want positive", june.Declination)
	}
	december := ComputeTerminator(time.Date(2025, 12, 21, 12, 0, 0, 0, time.UTC))
	if december.Declination >= 0 {
		t.Errorf("december declination = %f, want negative", december.Declination)
	}
}

func TestComputeTerminator_SubsolarLongitude(t *testing.T) {
	noon := ComputeTerminator(time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC))
	if math.Abs(noon.SubsolarLon) > 0.01 {
		t.Errorf("subsolar longitude at 12:00 UTC = %f, want ~0", noon.SubsolarLon)
	}

	sixPM := ComputeTerminator(time.Date(2025, 3, 20, 18, 0, 0, 0, time.UTC))
	if math.Abs(sixPM.SubsolarLon-(-90)) > 0.01 {
		t.Errorf("subsolar longitude at 18:00 UTC = %f, want ~-90", sixPM.SubsolarLon)
	}
}

func TestComputeTerminator_DegenerateFallback(t *testing.T) {
	for name, instant := range map[string]time.Time{
		"zero value": {},
		"far past":   time.Date(-5000, 1, 1, 0, 0, 0, 0, time.UTC),
		"far future": time.Date(20000, 1, 1, 0, 0, 0, 0, time.UTC),
	} {
		t.Run(name, func(t *testing.T) {
			snap := ComputeTerminator(instant)
			if !snap.Degenerate {
				t.Fatal("expected degenerate snapshot")
			}
			if len(snap.Points) == 0 {
				t.Fatal("degenerate snapshot has no points")
			}
			if snap.Points[0] != snap.Points[len(snap.Points)-1] {
				t.Error("degenerate polygon not closed")
			}
		})
	}
}
