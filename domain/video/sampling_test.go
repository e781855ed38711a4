package video

import (
	"errors"
	"math"
	"testing"
)

func TestValidateInterval(t *testing.T) {
	tests := []struct {
		name     string
		interval float64
		wantErr  bool
	}{
		{"default", DefaultSamplingInterval, false},
		{"fractional", 0.3, false},
		{"large", 120, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"NaN", math.NaN(), true},
		{"positive infinity", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInterval(tt.interval)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSamplingInterval) {
					t.Errorf("ValidateInterval(%v) = %v, want ErrInvalidSamplingInterval", tt.interval, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateInterval(%v) unexpected error: %v", tt.interval, err)
			}
		})
	}
}

func TestSamplePoints(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		interval float64
		want     []float64
	}{
		{
			name:     "ten second video every two seconds",
			duration: 10,
			interval: 2,
			want:     []float64{0, 2, 4, 6, 8},
		},
		{
			name:     "non integer duration",
			duration: 10.7,
			interval: 2,
			want:     []float64{0, 2, 4, 6, 8},
		},
		{
			name:     "fractional interval steps literally",
			duration: 2,
			interval: 0.5,
			want:     []float64{0, 0.5, 1, 1.5},
		},
		{
			name:     "interval not dividing duration",
			duration: 10,
			interval: 3,
			want:     []float64{0, 3, 6},
		},
		{
			name:     "video shorter than interval",
			duration: 1.5,
			interval: 2,
			want:     []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SamplePoints(tt.duration, tt.interval)
			if err != nil {
				t.Fatalf("SamplePoints() unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("SamplePoints(%v, %v) = %v, want %v", tt.duration, tt.interval, got, tt.want)
			}
			for i := range tt.want {
				if math.Abs(got[i]-tt.want[i]) > 1e-9 {
					t.Errorf("point[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSamplePoints_Invariants(t *testing.T) {
	durations := []float64{0.9, 1, 7.25, 10, 59.94, 600}
	intervals := []float64{0.1, 0.3, 0.5, 1, 2, 2.5, 7, 30}

	for _, d := range durations {
		for _, i := range intervals {
			points, err := SamplePoints(d, i)
			if err != nil {
				t.Fatalf("SamplePoints(%v, %v) unexpected error: %v", d, i, err)
			}

			if want := int(math.Floor(d / i)); len(points) != want {
				t.Errorf("SamplePoints(%v, %v) returned %d points, want floor(D/i) = %d", d, i, len(points), want)
			}

			for k, p := range points {
				if p >= d {
					t.Errorf("SamplePoints(%v, %v)[%d] = %v is not below the duration", d, i, k, p)
				}
				if k > 0 && p <= points[k-1] {
					t.Errorf("SamplePoints(%v, %v) not strictly increasing at %d", d, i, k)
				}
				if ratio := p / i; math.Abs(ratio-math.Round(ratio)) > 1e-9 {
					t.Errorf("SamplePoints(%v, %v)[%d] = %v is not a multiple of the interval", d, i, k, p)
				}
			}
		}
	}
}

func TestSamplePoints_Idempotent(t *testing.T) {
	first, _ := SamplePoints(37.2, 0.7)
	second, _ := SamplePoints(37.2, 0.7)

	if len(first) != len(second) {
		t.Fatalf("repeated calls differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("repeated calls differ at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestSamplePoints_Errors(t *testing.T) {
	if _, err := SamplePoints(10, 0); !errors.Is(err, ErrInvalidSamplingInterval) {
		t.Errorf("zero interval: got %v, want ErrInvalidSamplingInterval", err)
	}
	if _, err := SamplePoints(0, 2); !errors.Is(err, ErrUnknownDuration) {
		t.Errorf("zero duration: got %v, want ErrUnknownDuration", err)
	}
	if _, err := SamplePoints(math.NaN(), 2); !errors.Is(err, ErrUnknownDuration) {
		t.Errorf("NaN duration: got %v, want ErrUnknownDuration", err)
	}
}
