package onset

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-blink/internal/testutil"
)

type memSource [][]float32

func (m memSource) Channels() int { return len(m) }

func (m memSource) Frames() int64 {
	if len(m) == 0 {
		return 0
	}
	return int64(len(m[0]))
}

func (m memSource) ReadFrames(ch int, index int64, dst []float32) int {
	return copy(dst, m[ch][index:])
}

// bursts returns n samples of silence with full-scale sine bursts of the given
// length starting at each offset.
func bursts(n, length int, starts ...int) []float32 {
	x := make([]float32, n)
	tone := testutil.DeterministicSine(0.05, 1, 1, length)
	for _, s := range starts {
		for i, v := range tone {
			if s+i < n {
				x[s+i] = float32(v)
			}
		}
	}
	return x
}

func TestAnalyzeFindsBursts(t *testing.T) {
	starts := []int{4096, 10240}
	src := memSource{bursts(16384, 1024, starts...)}

	res, err := Analyze(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Onsets) != len(starts) {
		t.Fatalf("onsets = %v, want %d", res.Onsets, len(starts))
	}

	cfg := DefaultConfig()
	for i, s := range starts {
		if d := math.Abs(float64(res.Onsets[i] - int64(s))); d > float64(cfg.FrameSize) {
			t.Errorf("onset %d at %d, burst at %d", i, res.Onsets[i], s)
		}
	}

	testutil.RequireFinite(t, res.Flux)
	testutil.RequireFinite(t, res.FrameRMSdB)

	if res.HopSize != cfg.HopSize {
		t.Fatalf("HopSize = %d", res.HopSize)
	}
	if math.Abs(res.Peak-1) > 1e-3 {
		t.Fatalf("Peak = %v, want ~1", res.Peak)
	}
}

func TestPickSkipsReleases(t *testing.T) {
	cfg := DefaultConfig()

	// an attack at frame 2 and a release at frame 4, both with high flux
	flux := []float64{0, 0, 1000, 150, 900, 0, 0, 0}
	level := []float64{floorDB, floorDB, -6, -3, -9, floorDB, floorDB, floorDB}

	got := pick(flux, level, cfg)
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("pick = %v, want [2]", got)
	}

	level[4] = 0
	if got := pick(flux, level, cfg); len(got) != 2 || got[1] != 4 {
		t.Fatalf("pick with rising level = %v, want [2 4]", got)
	}
}

func TestAnalyzeRMS(t *testing.T) {
	src := memSource{bursts(8192, 4096, 0)}

	res, err := Analyze(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}

	// Frame 2 lies fully inside the sine, the last frame in silence.
	if got := res.FrameRMSdB[2]; math.Abs(got+3.01) > 0.5 {
		t.Errorf("sine frame = %.2f dB, want about -3 dB", got)
	}
	if got := res.FrameRMSdB[len(res.FrameRMSdB)-1]; got != floorDB {
		t.Errorf("silent frame = %v dB, want %v", got, floorDB)
	}
}

func TestAnalyzeStereoMixdown(t *testing.T) {
	l := bursts(8192, 1024, 2048)
	r := make([]float32, len(l))
	for i, v := range l {
		r[i] = -v
	}

	res, err := Analyze(context.Background(), memSource{l, r})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Onsets) != 0 || res.Peak != 0 {
		t.Fatalf("cancelled channels gave onsets %v peak %v", res.Onsets, res.Peak)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	for _, src := range []memSource{nil, {{}}} {
		if _, err := Analyze(context.Background(), src); !errors.Is(err, ErrEmptySource) {
			t.Fatalf("err = %v, want ErrEmptySource", err)
		}
	}
	if _, err := Analyze(context.Background(), nil); !errors.Is(err, ErrEmptySource) {
		t.Fatalf("nil source err = %v", err)
	}
}

func TestAnalyzeAbort(t *testing.T) {
	src := memSource{bursts(16384, 1024, 4096)}

	calls := 0
	_, err := Analyze(context.Background(), src, WithAbort(func() bool {
		calls++
		return calls > 3
	}))
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
}

func TestAnalyzeContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Analyze(ctx, memSource{bursts(4096, 512, 0)})
	if !errors.Is(err, ErrAborted) || !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestAnalyzeProgress(t *testing.T) {
	var got []float64
	_, err := Analyze(context.Background(), memSource{bursts(20000, 1024, 0)},
		WithProgress(func(p float64) { got = append(got, p) }))
	if err != nil {
		t.Fatal(err)
	}

	if len(got) == 0 {
		t.Fatal("no progress reported")
	}
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Fatalf("progress went backwards at %d: %v", i, got)
		}
	}
	if last := got[len(got)-1]; math.Abs(last-1) > 1e-12 {
		t.Fatalf("final progress = %v", last)
	}
}

func TestApplyOptions(t *testing.T) {
	cfg := ApplyOptions(WithFrameSize(1000), WithHopSize(2048), WithThreshold(-1), nil)

	if cfg.FrameSize != 1024 {
		t.Errorf("FrameSize = %d", cfg.FrameSize)
	}
	if cfg.HopSize != 1024 {
		t.Errorf("HopSize = %d, want clamped to frame size", cfg.HopSize)
	}
	if cfg.Threshold != DefaultConfig().Threshold {
		t.Errorf("Threshold = %v", cfg.Threshold)
	}
}

func BenchmarkAnalyze(b *testing.B) {
	src := memSource{bursts(1<<16, 2048, 1000, 20000, 40000)}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := Analyze(context.Background(), src); err != nil {
			b.Fatal(err)
		}
	}
}
