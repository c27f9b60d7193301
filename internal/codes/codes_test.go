package codes

import (
	"strconv"
	"strings"
	"sync"
	"testing"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		prefix Prefix
		n      uint64
		want   string
	}{
		{Investment, 123, "INV-000123"},
		{Transaction, 456, "TXN-000456"},
		{Reward, 7, "RWD-000007"},
		{User, 42, "USR-000042"},
		{Organization, 3, "ORG-000003"},
		{Property, 10, "PROP-000010"},
		{Investment, 1234567, "INV-1234567"},
	}
	for _, c := range cases {
		if got := Format(c.prefix, c.n); got != c.want {
			t.Errorf("Format(%s, %d) = %s, want %s", c.prefix, c.n, got, c.want)
		}
	}
}

func TestSequencesCoverAllPrefixes(t *testing.T) {
	if got := len(Sequences()); got != 6 {
		t.Fatalf("expected 6 sequences, got %d", got)
	}
}

func TestMemoryGeneratorMonotonic(t *testing.T) {
	g := NewMemory()
	prev := uint64(0)
	for i := 0; i < 100; i++ {
		code, err := g.Next(nil, Investment)
		if err != nil {
			t.Fatal(err)
		}
		n, err := strconv.ParseUint(strings.TrimPrefix(code, "INV-"), 10, 64)
		if err != nil {
			t.Fatalf("bad code %q: %v", code, err)
		}
		if n <= prev {
			t.Fatalf("code %q not increasing after %d", code, prev)
		}
		prev = n
	}
}

func TestMemoryGeneratorConcurrentNoCollisions(t *testing.T) {
	g := NewMemory()
	const workers = 16
	const perWorker = 50

	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				code, err := g.Next(nil, Transaction)
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				if seen[code] {
					t.Errorf("duplicate code %q", code)
				}
				seen[code] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d unique codes, got %d", workers*perWorker, len(seen))
	}
}
