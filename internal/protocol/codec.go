package protocol

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

const (
	// MaxAnswerSize bounds what a client reads for one answer.
	MaxAnswerSize = 64 << 10
	maxString     = 4 << 10
	maxEntries    = 256
)

var (
	encMode = mustEncMode()
	decMode = mustDecMode()
)

func mustEncMode() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}

func mustDecMode() cbor.DecMode {
	dm, err := cbor.DecOptions{MaxArrayElements: maxEntries}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}

// requestFrame is the CBOR array [version, command]. Both values are
// below 24 and take one byte each, so every valid request is exactly
// RequestSize bytes.
type requestFrame struct {
	_       struct{} `cbor:",toarray"`
	Version uint8
	Command uint8
}

// answerFrame is the CBOR array [version, kind, name, time, relative, entries].
type answerFrame struct {
	_        struct{} `cbor:",toarray"`
	Version  uint8
	Kind     uint8
	Name     string
	Time     string
	Relative string
	Entries  []entryFrame
}

type entryFrame struct {
	_    struct{} `cbor:",toarray"`
	Name string
	Time string
}

// EncodeRequest returns the fixed-size frame for r.
func EncodeRequest(r Request) ([RequestSize]byte, error) {
	var frame [RequestSize]byte
	if !r.Valid() {
		return frame, fmt.Errorf("%w: %d", ErrUnknownRequest, byte(r))
	}
	b, err := encMode.Marshal(requestFrame{Version: Version, Command: byte(r)})
	if err != nil {
		return frame, err
	}
	if len(b) != RequestSize {
		return frame, fmt.Errorf("request frame is %d bytes, want %d", len(b), RequestSize)
	}
	copy(frame[:], b)
	return frame, nil
}

// DecodeRequest parses one request frame.
func DecodeRequest(b []byte) (Request, error) {
	if len(b) < RequestSize {
		return 0, ErrShortFrame
	}
	if len(b) > RequestSize {
		return 0, ErrTrailingData
	}
	var f requestFrame
	if err := decMode.Unmarshal(b, &f); err != nil {
		return 0, decodeErr(err)
	}
	if f.Version != Version {
		return 0, fmt.Errorf("%w: %d", ErrVersion, f.Version)
	}
	r := Request(f.Command)
	if !r.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownRequest, f.Command)
	}
	return r, nil
}

// EncodeAnswer serializes a. It refuses answers its own decoder would reject.
func EncodeAnswer(a *Answer) ([]byte, error) {
	if !a.Kind.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAnswer, byte(a.Kind))
	}
	if err := checkLimits(a); err != nil {
		return nil, err
	}
	f := answerFrame{
		Version:  Version,
		Kind:     byte(a.Kind),
		Name:     a.Name,
		Time:     a.Time,
		Relative: a.Relative,
	}
	if len(a.Entries) > 0 {
		f.Entries = make([]entryFrame, len(a.Entries))
		for i, e := range a.Entries {
			f.Entries[i] = entryFrame{Name: e.Name, Time: e.Time}
		}
	}
	b, err := encMode.Marshal(f)
	if err != nil {
		return nil, err
	}
	if len(b) > MaxAnswerSize {
		return nil, fmt.Errorf("%w: answer is %d bytes", ErrLimit, len(b))
	}
	return b, nil
}

// DecodeAnswer parses one complete answer frame.
func DecodeAnswer(b []byte) (*Answer, error) {
	if len(b) > MaxAnswerSize {
		return nil, fmt.Errorf("%w: answer is %d bytes", ErrLimit, len(b))
	}
	var f answerFrame
	if err := decMode.Unmarshal(b, &f); err != nil {
		return nil, decodeErr(err)
	}
	if f.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, f.Version)
	}
	a := &Answer{
		Kind:     AnswerKind(f.Kind),
		Name:     f.Name,
		Time:     f.Time,
		Relative: f.Relative,
	}
	if !a.Kind.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAnswer, f.Kind)
	}
	if len(f.Entries) > 0 {
		a.Entries = make([]Entry, len(f.Entries))
		for i, e := range f.Entries {
			a.Entries[i] = Entry{Name: e.Name, Time: e.Time}
		}
	}
	if err := checkLimits(a); err != nil {
		return nil, err
	}
	return a, nil
}

func checkLimits(a *Answer) error {
	if len(a.Entries) > maxEntries {
		return fmt.Errorf("%w: %d entries, max %d", ErrLimit, len(a.Entries), maxEntries)
	}
	for _, s := range []string{a.Name, a.Time, a.Relative} {
		if len(s) > maxString {
			return fmt.Errorf("%w: string of %d bytes, max %d", ErrLimit, len(s), maxString)
		}
	}
	for _, e := range a.Entries {
		if len(e.Name) > maxString || len(e.Time) > maxString {
			return fmt.Errorf("%w: entry %q longer than %d bytes", ErrLimit, e.Name, maxString)
		}
	}
	return nil
}

// decodeErr maps cbor failures onto the package's sentinel errors.
func decodeErr(err error) error {
	var extra *cbor.ExtraneousDataError
	var tooMany *cbor.MaxArrayElementsError
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return ErrShortFrame
	case errors.As(err, &extra):
		return ErrTrailingData
	case errors.As(err, &tooMany):
		return fmt.Errorf("%w: %v", ErrLimit, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
