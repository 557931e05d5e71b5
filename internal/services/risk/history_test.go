package risk

import (
	"sync"
	"testing"
)

func TestHistoryRecentFirst(t *testing.T) {
	h := NewHistory(10)

	for i := 1; i <= 3; i++ {
		h.Record("WETH/USDC", float64(i*100), uint64(i))
	}

	samples := h.Samples("WETH/USDC")
	if len(samples) != 3 {
		t.Fatalf("len = %d, want 3", len(samples))
	}
	for i, want := range []float64{300, 200, 100} {
		if samples[i].Price != want {
			t.Errorf("samples[%d].Price = %v, want %v", i, samples[i].Price, want)
		}
	}
}

// TestHistoryEviction: writing capacity+2 samples keeps only the newest
// capacity, still recent-first.
func TestHistoryEviction(t *testing.T) {
	h := NewHistory(3)

	for i := 1; i <= 5; i++ {
		h.Record("WETH/USDC", float64(i), uint64(i))
	}

	if got := h.Len("WETH/USDC"); got != 3 {
		t.Fatalf("Len = %d, want 3", got)
	}

	samples := h.Samples("WETH/USDC")
	for i, want := range []float64{5, 4, 3} {
		if samples[i].Price != want {
			t.Errorf("samples[%d].Price = %v, want %v", i, samples[i].Price, want)
		}
	}
}

func TestHistoryPairsIsolated(t *testing.T) {
	h := NewHistory(10)

	h.Record("A/B", 1, 1)
	h.Record("C/D", 2, 1)

	if got := h.Len("A/B"); got != 1 {
		t.Errorf("Len(A/B) = %d, want 1", got)
	}
	if got := h.Samples("C/D")[0].Price; got != 2 {
		t.Errorf("Samples(C/D)[0].Price = %v, want 2", got)
	}
	if got := h.Samples("E/F"); got != nil {
		t.Errorf("Samples(E/F) = %v, want nil", got)
	}
}

func TestHistoryDefaultCapacity(t *testing.T) {
	h := NewHistory(0)
	if got := h.Capacity(); got != DefaultHistoryCapacity {
		t.Errorf("Capacity = %d, want %d", got, DefaultHistoryCapacity)
	}
}

// TestHistoryConcurrentAccess exercises the lock under the race detector.
func TestHistoryConcurrentAccess(t *testing.T) {
	h := NewHistory(50)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				h.Record("A/B", float64(seed*1000+i), uint64(i))
				h.Samples("A/B")
			}
		}(g)
	}
	wg.Wait()

	if got := h.Len("A/B"); got != 50 {
		t.Errorf("Len = %d, want 50", got)
	}
}
