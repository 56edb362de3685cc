package archive

import (
	"github.com/fxamacker/cbor/v2"
)

// Metadata is the structured record stored alongside a template's file
// tree: the template name, a free-text description, and the ordered
// list of shell commands to run after expansion. Created and Used are
// unix-second timestamps; Used is zero until the first expand.
type Metadata struct {
	// Name is the unique template identifier.
	Name string `cbor:"name"`
	// Description is a free-text description of the template.
	Description string `cbor:"description"`
	// Commands are shell command strings, executed in order at expand time.
	Commands []string `cbor:"commands"`
	// Created is the capture time (unix seconds).
	Created int64 `cbor:"created"`
	// Used is the last expand time (unix seconds, 0 = never).
	Used int64 `cbor:"used"`
}

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding: sorted map keys, smallest integer encoding, no
// indefinite-length items. The same metadata always produces
// identical bytes.
var encMode cbor.EncMode

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("archive: CBOR encoder initialization failed: " + err.Error())
	}
	encMode = em
}

// EncodeMetadata serializes metadata to its CBOR wire form. CBOR
// strings are length-prefixed, so names, descriptions, and commands
// may contain arbitrary bytes, including newlines, without escaping.
func EncodeMetadata(meta *Metadata) ([]byte, error) {
	data, err := encMode.Marshal(meta)
	if err != nil {
		return nil, newError(CorruptMetadata, "failed to encode metadata", "", err)
	}
	return data, nil
}

// DecodeMetadata deserializes a CBOR metadata record.
// Fails with a CorruptMetadata error on truncated or malformed input.
func DecodeMetadata(data []byte) (*Metadata, error) {
	var meta Metadata
	if err := cbor.Unmarshal(data, &meta); err != nil {
		return nil, newError(CorruptMetadata, "failed to decode metadata", "", err)
	}
	return &meta, nil
}
