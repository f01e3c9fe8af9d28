package pkg

import (
	"math/rand"
	"testing"
)

func TestRollingChecksumSmall(t *testing.T) {
	rc := NewRollingChecksum([]byte{7, 2, 9, 1, 7, 8})
	if got := rc.Sum(); got != 0x710022 { // a: 34, b: 113
		t.Fatalf("initial sum = %#x, want %#x", got, 0x710022)
	}

	rc.Roll(7, 12) // [2, 9, 1, 7, 8, 12]
	if got := rc.Sum(); got != 0x6E0027 { // a: 39, b: 110
		t.Fatalf("after roll = %#x, want %#x", got, 0x6E0027)
	}
	rc.Roll(2, 1) // [9, 1, 7, 8, 12, 1]
	if got := rc.Sum(); got != 0x880026 { // a: 38, b: 136
		t.Fatalf("after roll = %#x, want %#x", got, 0x880026)
	}

	// Shrink the window byte by byte down to nothing.
	steps := []struct {
		out  byte
		want uint32
	}{
		{9, 0x52001D},  // [1, 7, 8, 12, 1]
		{1, 0x4D001C},  // [7, 8, 12, 1]
		{7, 0x310015},  // [8, 12, 1]
		{8, 0x19000D},  // [12, 1]
		{12, 0x10001},  // [1]
		{1, 0x0},       // []
	}
	for _, step := range steps {
		rc.Trim(step.out)
		if got := rc.Sum(); got != step.want {
			t.Fatalf("after trim(%d) = %#x, want %#x", step.out, got, step.want)
		}
	}
}

func TestRollingChecksumBig(t *testing.T) {
	numbers := make([]byte, 4000)
	for i := range numbers {
		numbers[i] = byte(200 + i*i)
	}

	rc := NewRollingChecksum(numbers)
	if got := rc.Sum(); got != 0x1880A9F0 {
		t.Fatalf("initial sum = %#x, want %#x", got, 0x1880A9F0)
	}
	rc.Roll(200, 237)
	if got := rc.Sum(); got != 0x8D95AA15 {
		t.Fatalf("after roll = %#x, want %#x", got, 0x8D95AA15)
	}
	rc.Trim(201)
	if got := rc.Sum(); got != 0x48F5A94C {
		t.Fatalf("after trim = %#x, want %#x", got, 0x48F5A94C)
	}
}

// Rolling and trimming must always agree with a fresh checksum over the
// same window.
func TestRollingMatchesRecompute(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	data := make([]byte, 1024)
	rng.Read(data)

	const window = 64
	rc := NewRollingChecksum(data[:window])
	for i := 0; i+window < len(data); i++ {
		rc.Roll(data[i], data[i+window])
		want := WeakChecksum(data[i+1 : i+1+window])
		if got := rc.Sum(); got != want {
			t.Fatalf("roll at %d = %#x, recompute = %#x", i, got, want)
		}
	}

	start := len(data) - window
	for i := start; i < len(data); i++ {
		rc.Trim(data[i])
		want := WeakChecksum(data[i+1:])
		if got := rc.Sum(); got != want {
			t.Fatalf("trim at %d = %#x, recompute = %#x", i, got, want)
		}
	}
}
