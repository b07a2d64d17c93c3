package codec

import (
	"bytes"
	"testing"
	"time"
)

type snapshot struct {
	Version int              `cbor:"1,keyasint"`
	SavedAt time.Time        `cbor:"2,keyasint"`
	Entries map[string]int64 `cbor:"3,keyasint"`
}

func TestRoundTrip(t *testing.T) {
	original := snapshot{
		Version: 1,
		SavedAt: time.Unix(1700000000, 0),
		Entries: map[string]int64{
			"alpha": 1,
			"beta":  2,
		},
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded snapshot
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.Version != original.Version {
		t.Errorf("Version mismatch: got %d, want %d", decoded.Version, original.Version)
	}
	if !decoded.SavedAt.Equal(original.SavedAt) {
		t.Errorf("SavedAt mismatch: got %v, want %v", decoded.SavedAt, original.SavedAt)
	}
	if len(decoded.Entries) != len(original.Entries) {
		t.Errorf("Entries length mismatch: got %d, want %d", len(decoded.Entries), len(original.Entries))
	}
}

func TestDeterministicEncoding(t *testing.T) {
	// Maps with many keys are the usual source of non-determinism;
	// canonical mode must sort them.
	entries := map[string]int64{}
	for _, k := range []string{"zeta", "alpha", "mu", "beta", "omega", "eta"} {
		entries[k] = int64(len(k))
	}
	v := snapshot{Version: 1, SavedAt: time.Unix(1700000000, 0), Entries: entries}

	first, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Marshal(v)
		if err != nil {
			t.Fatalf("Marshal failed on iteration %d: %v", i, err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("encoding not deterministic: iteration %d differs", i)
		}
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	// Forward compatibility: payloads written by newer code may carry
	// fields this version does not know about.
	msg := map[int]any{
		1:  3,
		99: "future field",
	}

	data, err := Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded snapshot
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal should succeed with unknown fields: %v", err)
	}
	if decoded.Version != 3 {
		t.Errorf("Version mismatch: got %d, want 3", decoded.Version)
	}
}

func TestClone(t *testing.T) {
	original := snapshot{
		Version: 2,
		Entries: map[string]int64{"alpha": 1},
	}

	cloned, err := Clone(original)
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}

	cloned.Entries["alpha"] = 99
	if original.Entries["alpha"] != 1 {
		t.Errorf("Clone shares map with original")
	}
}

func TestEqual(t *testing.T) {
	a := snapshot{Version: 1, Entries: map[string]int64{"alpha": 1, "beta": 2}}
	b := snapshot{Version: 1, Entries: map[string]int64{"beta": 2, "alpha": 1}}
	c := snapshot{Version: 2, Entries: map[string]int64{"alpha": 1, "beta": 2}}

	if !Equal(a, b) {
		t.Errorf("Equal(a, b) should be true")
	}
	if Equal(a, c) {
		t.Errorf("Equal(a, c) should be false")
	}
}

func TestInvalidDataRejected(t *testing.T) {
	var decoded snapshot
	if err := Unmarshal([]byte{0xff, 0x00, 0x13, 0x37}, &decoded); err == nil {
		t.Errorf("Unmarshal should fail on structurally invalid CBOR")
	}
}
