package sntp

import (
	"errors"
	"strings"
	"testing"
)

// testRequest is the request side of a validation pair. Only the
// transmit words matter to the validator.
func testRequest() *Packet {
	return &Packet{
		Flags:      packFlags(ProtocolVersion, ModeClient),
		TransmitHi: 0xeb1f0400,
		TransmitLo: 0xcafef00d,
	}
}

// testReply is a well-formed stratum-2 server reply echoing req.
func testReply(req *Packet) *Packet {
	return &Packet{
		Flags:       packFlags(ProtocolVersion, ModeServer) | 2<<16,
		OriginateHi: req.TransmitHi,
		OriginateLo: req.TransmitLo,
		TransmitHi:  req.TransmitHi + 5,
		TransmitLo:  0x40000000,
	}
}

func TestValidateReplyAccepts(t *testing.T) {
	req := testRequest()
	reply := testReply(req)

	seconds, stratum, err := ValidateReply(reply, req)
	if err != nil {
		t.Fatalf("ValidateReply failed: %v", err)
	}
	if stratum != 2 {
		t.Errorf("Expected stratum 2, got %d", stratum)
	}
	// 0xeb1f0400 is 2025-01-01 00:00:00 UTC in the 1900 epoch
	if want := int64(1735689605); seconds != want {
		t.Errorf("Expected server seconds %d, got %d", want, seconds)
	}
}

func TestValidateReplyUnexpectedMode(t *testing.T) {
	req := testRequest()
	for _, mode := range []uint32{0, 1, 2, ModeClient, 5, 6, 7} {
		reply := testReply(req)
		reply.Flags = packFlags(ProtocolVersion, mode) | 2<<16
		if _, _, err := ValidateReply(reply, req); !errors.Is(err, ErrUnexpectedMode) {
			t.Errorf("Expected ErrUnexpectedMode for mode %d, got %v", mode, err)
		}
	}
}

func TestValidateReplyModeCheckedFirst(t *testing.T) {
	req := testRequest()
	// Wrong mode plus every other defect: the mode check wins.
	reply := &Packet{
		Flags:          packFlags(ProtocolVersion, ModeClient), // stratum 0 too
		RootDelay:      0x7fffffff,
		RootDispersion: 0x7fffffff,
	}
	if _, _, err := ValidateReply(reply, req); !errors.Is(err, ErrUnexpectedMode) {
		t.Fatalf("Expected ErrUnexpectedMode, got %v", err)
	}
}

func TestValidateReplyKissOfDeath(t *testing.T) {
	req := testRequest()
	reply := testReply(req)
	reply.Flags = packFlags(ProtocolVersion, ModeServer) // stratum 0

	if _, _, err := ValidateReply(reply, req); !errors.Is(err, ErrKissOfDeath) {
		t.Fatalf("Expected ErrKissOfDeath, got %v", err)
	}

	// Stratum 0 wins over quality and originate defects.
	reply.RootDelay = 0x7fffffff
	reply.OriginateHi = 0
	if _, _, err := ValidateReply(reply, req); !errors.Is(err, ErrKissOfDeath) {
		t.Fatalf("Expected ErrKissOfDeath regardless of later checks, got %v", err)
	}
}

func TestValidateReplyRootDelayBounds(t *testing.T) {
	req := testRequest()
	tests := []struct {
		name string
		raw  uint32
		ok   bool
	}{
		{"zero", 0x00000000, true},
		{"just under a second", 0x0000ffff, true},
		{"exactly a second", 0x00010000, false},
		{"huge", 0x7fffffff, false},
		{"minus one unit", 0xffffffff, true}, // -1 in 16.16, magnitude 1
		{"minus a second", 0xffff0000, false},
	}
	for _, tt := range tests {
		reply := testReply(req)
		reply.RootDelay = tt.raw
		_, _, err := ValidateReply(reply, req)
		if tt.ok && err != nil {
			t.Errorf("%s: expected root delay 0x%08x to pass, got %v", tt.name, tt.raw, err)
		}
		if !tt.ok && !errors.Is(err, ErrPoorQuality) {
			t.Errorf("%s: expected ErrPoorQuality for root delay 0x%08x, got %v", tt.name, tt.raw, err)
		}
	}
}

func TestValidateReplyRootDispersionBounds(t *testing.T) {
	req := testRequest()
	reply := testReply(req)
	reply.RootDispersion = 0x00010000

	_, _, err := ValidateReply(reply, req)
	if !errors.Is(err, ErrPoorQuality) {
		t.Fatalf("Expected ErrPoorQuality for dispersion 0x00010000, got %v", err)
	}
	if !strings.Contains(err.Error(), "dispersion") {
		t.Errorf("Expected the error to name dispersion, got %q", err)
	}

	// Both out of range: delay is checked first.
	reply.RootDelay = 0x00020000
	_, _, err = ValidateReply(reply, req)
	if !errors.Is(err, ErrPoorQuality) {
		t.Fatalf("Expected ErrPoorQuality, got %v", err)
	}
	if !strings.Contains(err.Error(), "root delay") {
		t.Errorf("Expected the error to name root delay, got %q", err)
	}
}

func TestValidateReplySpoofed(t *testing.T) {
	req := testRequest()

	reply := testReply(req)
	reply.OriginateHi++
	if _, _, err := ValidateReply(reply, req); !errors.Is(err, ErrSpoofedReply) {
		t.Errorf("Expected ErrSpoofedReply for wrong high word, got %v", err)
	}

	reply = testReply(req)
	reply.OriginateLo ^= 1
	if _, _, err := ValidateReply(reply, req); !errors.Is(err, ErrSpoofedReply) {
		t.Errorf("Expected ErrSpoofedReply for wrong low word, got %v", err)
	}

	// An unsolicited reply carries a zero originate timestamp.
	reply = testReply(req)
	reply.OriginateHi, reply.OriginateLo = 0, 0
	if _, _, err := ValidateReply(reply, req); !errors.Is(err, ErrSpoofedReply) {
		t.Errorf("Expected ErrSpoofedReply for zero originate, got %v", err)
	}
}

func TestValidateReplyQualityBeforeOriginate(t *testing.T) {
	req := testRequest()
	reply := testReply(req)
	reply.RootDispersion = 0x00010000
	reply.OriginateLo = 0

	if _, _, err := ValidateReply(reply, req); !errors.Is(err, ErrPoorQuality) {
		t.Fatalf("Expected ErrPoorQuality before the originate check, got %v", err)
	}
}
