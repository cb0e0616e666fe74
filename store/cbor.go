package store

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2): the same token
// list always produces identical bytes.
var encMode cbor.EncMode

// decMode caps array length at MaxTokens.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("store: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		MaxArrayElements: MaxTokens,
	}.DecMode()
	if err != nil {
		panic("store: CBOR decoder initialization failed: " + err.Error())
	}
}

func newCBOREncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

func newCBORDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}
