package archive

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Artifact layout: a fixed header, a self-delimiting metadata block,
// and a tree block holding the captured files.
//
//	[4-byte magic "TMPL"][1-byte format version]
//	[4-byte big-endian metadata length][CBOR metadata]
//	[gzip-compressed tar stream]
//
// The length prefix makes the metadata block readable (and
// rewritable) without touching the tree block.
const (
	artifactMagic   = "TMPL"
	artifactVersion = 0x01

	// headerSize is magic + version + metadata length prefix.
	headerSize = 9

	// maxMetadataSize bounds the metadata block. A larger length
	// prefix means the artifact is damaged, not that someone wrote a
	// 16 MiB description.
	maxMetadataSize = 16 << 20
)

// writeMetadataBlock writes the artifact header and encoded metadata to w.
func writeMetadataBlock(w io.Writer, meta *Metadata) error {
	data, err := EncodeMetadata(meta)
	if err != nil {
		return err
	}

	var header [headerSize]byte
	copy(header[:4], artifactMagic)
	header[4] = artifactVersion
	binary.BigEndian.PutUint32(header[5:], uint32(len(data)))

	if _, err := w.Write(header[:]); err != nil {
		return newError(IOFailed, "failed to write artifact header", "", err)
	}
	if _, err := w.Write(data); err != nil {
		return newError(IOFailed, "failed to write metadata block", "", err)
	}
	return nil
}

// readMetadataBlock reads and decodes the artifact header and metadata
// block from r, leaving r positioned at the start of the tree block.
func readMetadataBlock(r io.Reader) (*Metadata, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, newError(CorruptMetadata, "truncated artifact header", "", err)
	}

	if string(header[:4]) != artifactMagic {
		return nil, newError(CorruptMetadata, "not a template artifact (bad magic)", "", nil)
	}
	if header[4] != artifactVersion {
		return nil, newError(CorruptMetadata,
			fmt.Sprintf("unsupported artifact version %d", header[4]), "", nil)
	}

	length := binary.BigEndian.Uint32(header[5:])
	if length > maxMetadataSize {
		return nil, newError(CorruptMetadata,
			fmt.Sprintf("metadata length %d exceeds limit", length), "", nil)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, newError(CorruptMetadata, "truncated metadata block", "", err)
	}

	return DecodeMetadata(data)
}

// ReadMetadata reads only the metadata record from an artifact stream.
// It consumes the header and metadata block and never touches the tree
// block, so the cost is proportional to the metadata size, not the
// captured tree.
func ReadMetadata(r io.Reader) (*Metadata, error) {
	return readMetadataBlock(r)
}

// RewriteMetadata copies the artifact from r to w, replacing the
// metadata block with meta. The tree block bytes are copied verbatim
// and never re-encoded, so editing metadata cannot corrupt the
// captured tree.
func RewriteMetadata(r io.Reader, w io.Writer, meta *Metadata) error {
	// Validate and consume the existing metadata block.
	if _, err := readMetadataBlock(r); err != nil {
		return err
	}

	if err := writeMetadataBlock(w, meta); err != nil {
		return err
	}

	if _, err := io.Copy(w, r); err != nil {
		return newError(IOFailed, "failed to copy tree block", "", err)
	}
	return nil
}
