package metrics

import (
	"strings"
	"testing"
)

var sink []byte

func TestReadMemory(t *testing.T) {
	snap := ReadMemory()
	if snap.HeapAlloc == 0 || snap.Sys == 0 {
		t.Errorf("empty snapshot %+v", snap)
	}
}

func TestMemoryDelta(t *testing.T) {
	before := ReadMemory()
	sink = make([]byte, 1<<20)
	d := ReadMemory().Since(before)
	if d.Allocated < 1<<20 {
		t.Errorf("Allocated = %d, want at least 1 MiB", d.Allocated)
	}
	if d.Mallocs == 0 {
		t.Error("Mallocs = 0")
	}
	if s := d.String(); !strings.Contains(s, "allocs") {
		t.Errorf("String() = %q", s)
	}
}
