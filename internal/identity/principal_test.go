package identity

import (
	"encoding/json"
	"testing"
)

func TestNew_EmptyBytesIsAnonymous(t *testing.T) {
	if !New(nil).IsAnonymous() {
		t.Fatalf("expected New(nil) to be anonymous")
	}
	if !New([]byte{}).IsAnonymous() {
		t.Fatalf("expected New([]byte{}) to be anonymous")
	}
}

func TestFromText_RoundTripsWithString(t *testing.T) {
	p := New([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	text := p.String()
	got, err := FromText(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(p) {
		t.Fatalf("expected round trip through FromText(String()) to produce an equal principal")
	}
	if text != "deadbeef" {
		t.Fatalf("expected canonical lowercase hex, got %q", text)
	}
}

func TestFromText_EmptyStringIsAnonymous(t *testing.T) {
	p, err := FromText("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsAnonymous() {
		t.Fatalf("expected empty text to parse as anonymous")
	}
}

func TestFromText_InvalidHexIsError(t *testing.T) {
	if _, err := FromText("not-hex!!"); err == nil {
		t.Fatalf("expected an error for invalid hex text")
	}
}

func TestEqual_ComparesByRawBytes(t *testing.T) {
	a := New([]byte{0x01, 0x02})
	b := New([]byte{0x01, 0x02})
	c := New([]byte{0x01, 0x03})
	if !a.Equal(b) {
		t.Fatalf("expected principals with identical bytes to be equal")
	}
	if a.Equal(c) {
		t.Fatalf("expected principals with different bytes to not be equal")
	}
	if a != b {
		t.Fatalf("expected == to also hold for identical principals (comparable struct)")
	}
}

func TestLess_GivesTotalOrder(t *testing.T) {
	a := New([]byte{0x01})
	b := New([]byte{0x02})
	if !a.Less(b) || b.Less(a) {
		t.Fatalf("expected a strict total order between distinct principals")
	}
	if a.Less(a) {
		t.Fatalf("expected Less to be irreflexive")
	}
}

func TestBytes_ReturnsFreshCopy(t *testing.T) {
	p := New([]byte{0x01, 0x02, 0x03})
	b := p.Bytes()
	b[0] = 0xFF
	if p.Bytes()[0] != 0x01 {
		t.Fatalf("expected mutating the returned slice to not affect the principal")
	}
}

func TestJSON_RoundTripsThroughMarshalUnmarshal(t *testing.T) {
	p := New([]byte{0xAB, 0xCD})
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Principal
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.Equal(p) {
		t.Fatalf("expected JSON round trip to preserve the principal")
	}
}

func TestAnonymous_IsTheZeroSentinel(t *testing.T) {
	if !Anonymous.IsAnonymous() {
		t.Fatalf("expected Anonymous to report itself as anonymous")
	}
	if Anonymous.String() != "" {
		t.Fatalf("expected Anonymous.String() to be empty, got %q", Anonymous.String())
	}
}
