package camelsnake

import (
	"errors"
	"fmt"
)

// ErrBodyTooLarge is returned when a body exceeds Config.MaxBodyBytes
var ErrBodyTooLarge = errors.New("camelsnake: body too large")

// DecodeError reports a body that claims to be JSON but could not be read
// or parsed
type DecodeError struct {
	Direction Direction
	// Chunk is the index of the failing response chunk
	Chunk int
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Direction == Outgoing {
		return fmt.Sprintf("camelsnake: decode %s body chunk %d: %v", e.Direction, e.Chunk, e.Err)
	}
	return fmt.Sprintf("camelsnake: decode %s body: %v", e.Direction, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a rewritten body that could not be serialized
type EncodeError struct {
	Direction Direction
	Err       error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("camelsnake: encode %s body: %v", e.Direction, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// DirectionOf returns the direction of a DecodeError or EncodeError in err's chain
func DirectionOf(err error) (Direction, bool) {
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return decodeErr.Direction, true
	}
	var encodeErr *EncodeError
	if errors.As(err, &encodeErr) {
		return encodeErr.Direction, true
	}
	return Incoming, false
}
