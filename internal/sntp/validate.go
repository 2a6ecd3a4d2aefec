package sntp

import "fmt"

// ValidateReply runs the protocol-semantic checks on a structurally
// decoded reply, in fixed order with the first failure winning: mode,
// stratum, root delay, root dispersion, originate echo. On success it
// returns the server clock reading in Unix seconds and the reported
// stratum (kept for observability only). Validation failures are
// terminal; retries happen only inside the exchange engine, before a
// reply ever reaches this point.
func ValidateReply(reply, request *Packet) (int64, uint8, error) {
	if mode := reply.Mode(); mode != ModeServer {
		return 0, 0, fmt.Errorf("%w: got mode %d, want %d",
			ErrUnexpectedMode, mode, ModeServer)
	}

	stratum := reply.Stratum()
	if stratum == 0 {
		// Stratum zero is the kiss-of-death signal: a rejection from
		// the server, never a time reading.
		return 0, 0, ErrKissOfDeath
	}

	if units := fixedPointMagnitude(reply.RootDelay); units >= maxRootUnits {
		return 0, 0, fmt.Errorf("%w: root delay %d units exceeds one second",
			ErrPoorQuality, units)
	}
	if units := fixedPointMagnitude(reply.RootDispersion); units >= maxRootUnits {
		return 0, 0, fmt.Errorf("%w: root dispersion %d units exceeds one second",
			ErrPoorQuality, units)
	}

	if reply.OriginateHi != request.TransmitHi || reply.OriginateLo != request.TransmitLo {
		return 0, 0, fmt.Errorf("%w: got %08x.%08x, sent %08x.%08x",
			ErrSpoofedReply,
			reply.OriginateHi, reply.OriginateLo,
			request.TransmitHi, request.TransmitLo)
	}

	return reply.ServerUnixSeconds(), stratum, nil
}

// fixedPointMagnitude interprets a raw 16.16 field as signed and returns
// its absolute value in protocol units.
func fixedPointMagnitude(raw uint32) int64 {
	v := int64(int32(raw))
	if v < 0 {
		v = -v
	}
	return v
}
