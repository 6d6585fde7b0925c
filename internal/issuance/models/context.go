package models

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

const preparedContextVersion = 1

// ErrMalformedContext is returned for prepared contexts that do not decode.
var ErrMalformedContext = errors.New("malformed prepared context")

// preparedContext is the CBOR body of a prepared context. It only names the
// ticket; it grants nothing by itself.
type preparedContext struct {
	Version uint8  `cbor:"v"`
	Hash    []byte `cbor:"h"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
		MaxMapPairs:       8,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// EncodeContext encodes the claims hash (hex) as a prepared context.
func EncodeContext(claimsHash string) ([]byte, error) {
	raw, err := hex.DecodeString(claimsHash)
	if err != nil || len(raw) != sha256.Size {
		return nil, fmt.Errorf("claims hash must be a hex sha256 digest")
	}
	return encMode.Marshal(preparedContext{Version: preparedContextVersion, Hash: raw})
}

// DecodeContext returns the hex claims hash named by a prepared context.
func DecodeContext(data []byte) (string, error) {
	var pc preparedContext
	if err := decMode.Unmarshal(data, &pc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedContext, err)
	}
	if pc.Version != preparedContextVersion {
		return "", fmt.Errorf("%w: unsupported version %d", ErrMalformedContext, pc.Version)
	}
	if len(pc.Hash) != sha256.Size {
		return "", fmt.Errorf("%w: bad hash length", ErrMalformedContext)
	}
	return hex.EncodeToString(pc.Hash), nil
}

// HashSigningInput is the ClaimsHash of a signing input.
func HashSigningInput(signingInput string) string {
	sum := sha256.Sum256([]byte(signingInput))
	return hex.EncodeToString(sum[:])
}
