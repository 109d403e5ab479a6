package pack

import (
	"bytes"
	"errors"
	"testing"
)

func TestPackUnpack(t *testing.T) {
	entries := [][]byte{
		{0x05, 0x00, 0x06, 0x00, 0x4A, 0x00, 0x0A, 0x0A},
		{},
		{0x01, 0x02, 0x03},
	}
	data, err := Pack(entries, "ao")
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	got, err := Linker{}.Unpack(data, "ao")
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(got), len(entries))
	}
	for i := range entries {
		if !bytes.Equal(got[i], entries[i]) {
			t.Errorf("entry %d = %x, want %x", i, got[i], entries[i])
		}
	}
}

func TestUnpack_Malformed(t *testing.T) {
	good, _ := Pack([][]byte{{1, 2, 3, 4}}, "gg")
	truncated := good[:len(good)-1]
	badOffset := append([]byte(nil), good...)
	badOffset[8] = 0xFF

	tests := []struct {
		name  string
		data  []byte
		ident string
	}{
		{"empty", nil, "gg"},
		{"wrong ident", good, "ao"},
		{"bad ident length", good, "g"},
		{"truncated entry", truncated, "gg"},
		{"offset past end", badOffset, "gg"},
		{"truncated table", []byte{'g', 'g', 5, 0, 0}, "gg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unpack(tt.data, tt.ident); !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}
