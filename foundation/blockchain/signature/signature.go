// Package signature provides helper functions for handling the blockchain
// hashing needs.
package signature

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroHash represents the hash used by the genesis block in place of
// a previous block hash.
const ZeroHash string = "0"

// =============================================================================

// Hash returns a unique string for the value. Strings and byte slices are
// hashed as is. Any other value is serialized to a canonical JSON document
// where every object has its keys in sorted order, so two values holding the
// same content always produce the same hash. A value JSON can't represent
// is hashed from its Go syntax representation instead, so the result is
// always a 64 character digest and never ZeroHash.
func Hash(value any) string {
	var data []byte

	switch v := value.(type) {
	case string:
		data = []byte(v)

	case []byte:
		data = v

	default:
		var err error
		if data, err = Canonical(value); err != nil {
			data = fmt.Appendf(nil, "unserializable:%T:%#v", value, value)
		}
	}

	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}

// Canonical produces the JSON document used for hashing the value. The value
// is marshaled, decoded into generic maps and slices, and marshaled again.
// The encoding package writes map keys in sorted order which removes any
// dependency on the order fields are declared in a struct.
func Canonical(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()

	var generic any
	if err := d.Decode(&generic); err != nil {
		return nil, err
	}

	return json.Marshal(generic)
}
