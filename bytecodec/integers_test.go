package bytecodec

import (
	"errors"
	"testing"
)

func TestReadWriteU16BE(t *testing.T) {
	buf := make([]byte, 4)

	if err := WriteU16BE(buf, 1, 0xABCD); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err := ReadU16BE(buf, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v != 0xABCD {
		t.Fatalf("expected 0xABCD, got 0x%X", v)
	}
}

func TestReadU32BE_OutOfRange(t *testing.T) {
	buf := make([]byte, 2)

	if _, err := ReadU32BE(buf, 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestReadU64BE_RoundTrip(t *testing.T) {
	buf := make([]byte, 8)

	want := uint64(0x0102030405060708)

	if err := WriteU64BE(buf, 0, want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := ReadU64BE(buf, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != want {
		t.Fatalf("expected 0x%X, got 0x%X", want, got)
	}
}

func TestWriteU16BE_OutOfRange(t *testing.T) {
	buf := make([]byte, 1)

	if err := WriteU16BE(buf, 0, 1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}
