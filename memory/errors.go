package memory

import "errors"

var (
	// ErrNoGeneration is raised when allocating into a heap with no open
	// generation and lazy generation is disabled.
	ErrNoGeneration = errors.New("no current generation")

	// ErrDroppedGeneration is raised when the current generation slot is not
	// alive. It indicates internal corruption.
	ErrDroppedGeneration = errors.New("current generation is dropped")

	// ErrUnknownGeneration is returned when clearing a generation that was
	// never opened.
	ErrUnknownGeneration = errors.New("unknown generation")

	// ErrNoFrame is raised when allocating into an empty stack.
	ErrNoFrame = errors.New("no stack frame")

	// ErrStackOverflow is returned by Push when the configured maximum depth
	// is reached.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrUnimplementedDecode is raised when a type cannot decode the bytes a
	// region holds for it.
	ErrUnimplementedDecode = errors.New("unimplemented decode")

	// ErrEncodingSize is returned when decoding a reference from a buffer of
	// the wrong length.
	ErrEncodingSize = errors.New("invalid reference encoding size")

	// ErrAddressOverflow is returned when an encoded tag or address does not
	// fit in an int.
	ErrAddressOverflow = errors.New("encoded value overflows int")
)
