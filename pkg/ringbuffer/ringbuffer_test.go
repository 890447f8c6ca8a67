package ringbuffer

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestWriteRead_Basic(t *testing.T) {
	rb := New(16)

	n := rb.Write([]byte("hello"))
	if n != 5 {
		t.Fatalf("Write returned %d, want 5", n)
	}
	if rb.AvailableData() != 5 {
		t.Errorf("AvailableData = %d, want 5", rb.AvailableData())
	}
	if rb.AvailableSpace() != 11 {
		t.Errorf("AvailableSpace = %d, want 11", rb.AvailableSpace())
	}

	got := rb.Read(5)
	if !bytes.Equal(got, []byte("hello")) {
		t.Errorf("Read = %q, want %q", got, "hello")
	}
	if !rb.IsEmpty() {
		t.Errorf("buffer not empty after draining read")
	}
}

func TestDefaultCapacity(t *testing.T) {
	rb := New(0)
	if rb.Capacity() != DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", rb.Capacity(), DefaultCapacity)
	}
}

func TestWrite_PartialWhenFull(t *testing.T) {
	rb := New(4)

	n := rb.Write([]byte("abcdef"))
	if n != 4 {
		t.Fatalf("Write returned %d, want 4", n)
	}
	if !rb.IsFull() {
		t.Errorf("buffer should be full")
	}

	// A full buffer accepts nothing; unread data is never overwritten.
	n = rb.Write([]byte("xy"))
	if n != 0 {
		t.Errorf("Write on full buffer returned %d, want 0", n)
	}

	if got := rb.Read(0); !bytes.Equal(got, []byte("abcd")) {
		t.Errorf("Read = %q, want %q", got, "abcd")
	}
}

func TestWrapAround(t *testing.T) {
	rb := New(8)

	rb.Write([]byte("abcdef"))
	rb.Read(4) // readPos now 4

	// This write wraps: 2 bytes at the physical end, 2 at offset 0.
	n := rb.Write([]byte("ghij"))
	if n != 4 {
		t.Fatalf("Write returned %d, want 4", n)
	}

	if got := rb.Read(0); !bytes.Equal(got, []byte("efghij")) {
		t.Errorf("Read = %q, want %q", got, "efghij")
	}
}

func TestPeek_DoesNotConsume(t *testing.T) {
	rb := New(16)
	rb.Write([]byte("abcdef"))

	if got := rb.Peek(3); !bytes.Equal(got, []byte("abc")) {
		t.Errorf("Peek(3) = %q, want %q", got, "abc")
	}
	if rb.AvailableData() != 6 {
		t.Errorf("Peek consumed data: AvailableData = %d, want 6", rb.AvailableData())
	}
	if got := rb.Peek(0); !bytes.Equal(got, []byte("abcdef")) {
		t.Errorf("Peek(0) = %q, want %q", got, "abcdef")
	}
}

func TestRead_Empty(t *testing.T) {
	rb := New(8)
	if got := rb.Read(4); len(got) != 0 {
		t.Errorf("Read on empty buffer = %q, want empty", got)
	}
	if got := rb.Read(0); len(got) != 0 {
		t.Errorf("Read(0) on empty buffer = %q, want empty", got)
	}
}

func TestDiscard(t *testing.T) {
	rb := New(8)
	rb.Write([]byte("abcdef"))

	if n := rb.Discard(2); n != 2 {
		t.Fatalf("Discard returned %d, want 2", n)
	}
	if got := rb.Read(0); !bytes.Equal(got, []byte("cdef")) {
		t.Errorf("Read = %q, want %q", got, "cdef")
	}
	if n := rb.Discard(10); n != 0 {
		t.Errorf("Discard on empty buffer returned %d, want 0", n)
	}
}

func TestClear(t *testing.T) {
	rb := New(8)
	rb.Write([]byte("abcdef"))
	rb.Read(2)
	rb.Clear()

	if !rb.IsEmpty() {
		t.Errorf("buffer not empty after Clear")
	}
	if rb.AvailableSpace() != 8 {
		t.Errorf("AvailableSpace = %d, want 8", rb.AvailableSpace())
	}

	// Deterministic after clear: same writes produce the same reads.
	rb.Write([]byte("xyz"))
	if got := rb.Read(0); !bytes.Equal(got, []byte("xyz")) {
		t.Errorf("Read = %q, want %q", got, "xyz")
	}
}

func TestInit_Reinitialize(t *testing.T) {
	rb := New(8)
	rb.Write([]byte("abc"))

	rb.Init(32)
	if rb.Capacity() != 32 {
		t.Errorf("Capacity = %d, want 32", rb.Capacity())
	}
	if !rb.IsEmpty() {
		t.Errorf("reinitialized buffer not empty")
	}
}

// TestFIFOProperty drives a random interleaving of writes and reads and
// checks that bytes come out in the order they went in and that
// AvailableData always equals written minus read.
func TestFIFOProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	rb := New(64)

	var written, read []byte
	for step := 0; step < 2000; step++ {
		if rng.Intn(2) == 0 {
			chunk := make([]byte, rng.Intn(48))
			rng.Read(chunk)
			n := rb.Write(chunk)
			written = append(written, chunk[:n]...)
		} else {
			out := rb.Read(rng.Intn(48))
			read = append(read, out...)
		}
		if rb.AvailableData() != len(written)-len(read) {
			t.Fatalf("step %d: AvailableData = %d, want %d", step, rb.AvailableData(), len(written)-len(read))
		}
	}
	read = append(read, rb.Read(0)...)
	if !bytes.Equal(read, written) {
		t.Fatalf("FIFO order violated: read %d bytes, wrote %d bytes", len(read), len(written))
	}
}
