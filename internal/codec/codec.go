// Package codec converts between the base64 transport encoding used in
// JSON requests/responses and raw payload bytes.
//
// Decoding is strict: inputs with characters outside the standard
// alphabet, bad padding, or non-zero trailing bits are rejected. This
// guarantees that Decode(Encode(b)) returns b exactly for every byte
// sequence b, with no silent normalisation in between.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrInvalidEncoding is returned (wrapped) when input is not valid
// transport-encoded text. Callers match it with errors.Is.
var ErrInvalidEncoding = errors.New("invalid transport encoding")

var strict = base64.StdEncoding.Strict()

// Encode returns the transport encoding of b. It never fails; the
// output length is fully determined by len(b).
func Encode(b []byte) string {
	return strict.EncodeToString(b)
}

// Decode converts transport-encoded text back to raw bytes.
func Decode(s string) ([]byte, error) {
	b, err := strict.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return b, nil
}
