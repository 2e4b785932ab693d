// Package profiling keeps per-frame CPU timings of named render stages.
package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// smoothing is the weight of the newest frame in the running averages
const smoothing = 0.1

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
	averages    = make(map[string]time.Duration)
	frames      uint64
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("renderer.GeometryPass")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
	}
}

// ResetFrame folds the finished frame into the running averages and clears
// the per-frame totals. Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	defer mu.Unlock()
	for k, v := range averages {
		cur := frameTotals[k]
		averages[k] = v + time.Duration(float64(cur-v)*smoothing)
	}
	for k, v := range frameTotals {
		if _, ok := averages[k]; !ok {
			averages[k] = v
		}
		delete(frameTotals, k)
	}
	frames++
}

// Frames returns how many frames have been reset so far
func Frames() uint64 {
	mu.Lock()
	defer mu.Unlock()
	return frames
}

// Snapshot returns a copy of current per-frame totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	return copyMap(frameTotals)
}

// Averages returns the smoothed per-frame time of every name seen so far
func Averages() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	return copyMap(averages)
}

// SumWithPrefix adds up the current frame's totals whose names start with prefix
func SumWithPrefix(prefix string) time.Duration {
	mu.Lock()
	defer mu.Unlock()
	var sum time.Duration
	for k, v := range frameTotals {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

// TopN formats the n slowest entries of the running averages.
// Example: "renderer.LightingPass:1.4ms, renderer.GeometryPass:0.9ms"
func TopN(n int) string {
	type pair struct {
		name string
		dur  time.Duration
	}
	ss := Averages()
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for _, p := range list[:n] {
		parts = append(parts, p.name+":"+formatMs(p.dur))
	}
	return strings.Join(parts, ", ")
}

// Reset forgets everything, including the averages
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	frameTotals = make(map[string]time.Duration)
	averages = make(map[string]time.Duration)
	frames = 0
}

func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	return strconv.FormatFloat(ms, 'f', 1, 64) + "ms"
}

func copyMap(m map[string]time.Duration) map[string]time.Duration {
	out := make(map[string]time.Duration, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
