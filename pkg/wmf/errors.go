package wmf

import "errors"

var (
	// ErrShortRecord reports a declared size below the type minimum, or a
	// payload shorter than its own counts require.
	ErrShortRecord = errors.New("wmf: record too short")
	// ErrCorruptRecord reports a record whose declared size runs past the
	// end of the buffer.
	ErrCorruptRecord = errors.New("wmf: corrupt record")
	ErrCorruptFile   = errors.New("wmf: corrupt file")
	ErrInvalidHandle = errors.New("wmf: invalid object handle")
	ErrUnsupported   = errors.New("wmf: unsupported record type")
	// ErrTooManyObjects reports an object count that does not fit the
	// 16-bit header field.
	ErrTooManyObjects  = errors.New("wmf: too many objects")
	ErrRecordTooLarge  = errors.New("wmf: record too large")
	ErrFinished        = errors.New("wmf: builder already finished")
	ErrInvalidArgument = errors.New("wmf: invalid argument")
)
