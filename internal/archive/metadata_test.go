package archive

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"testing"
)

func TestMetadataRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		meta Metadata
	}{
		{
			name: "no commands",
			meta: Metadata{Name: "plain", Description: "a template", Created: 1700000000},
		},
		{
			name: "single command",
			meta: Metadata{Name: "one", Commands: []string{"echo hi"}},
		},
		{
			name: "multiple commands with embedded newlines",
			meta: Metadata{
				Name:        "multi",
				Description: "line one\nline two",
				Commands: []string{
					"git init",
					"cat <<EOF > notes.txt\nfirst\nsecond\nEOF",
					"make all",
				},
				Created: 1700000000,
				Used:    1700000100,
			},
		},
		{
			name: "unicode and special characters",
			meta: Metadata{
				Name:        "プロジェクト",
				Description: "tëmplate \"quoted\" with ünicode ✓",
				Commands:    []string{"echo 'héllo wörld'"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeMetadata(&tt.meta)
			if err != nil {
				t.Fatalf("EncodeMetadata failed: %v", err)
			}

			got, err := DecodeMetadata(data)
			if err != nil {
				t.Fatalf("DecodeMetadata failed: %v", err)
			}

			if !reflect.DeepEqual(*got, tt.meta) {
				t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", *got, tt.meta)
			}
		})
	}
}

func TestEncodeMetadataDeterministic(t *testing.T) {
	meta := &Metadata{Name: "det", Description: "d", Commands: []string{"a", "b"}}

	first, err := EncodeMetadata(meta)
	if err != nil {
		t.Fatalf("EncodeMetadata failed: %v", err)
	}
	second, err := EncodeMetadata(meta)
	if err != nil {
		t.Fatalf("EncodeMetadata failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("encoding the same metadata twice produced different bytes")
	}
}

func TestReadMetadataCorrupt(t *testing.T) {
	valid := func() []byte {
		var buf bytes.Buffer
		if err := writeMetadataBlock(&buf, &Metadata{Name: "ok"}); err != nil {
			t.Fatalf("writeMetadataBlock failed: %v", err)
		}
		return buf.Bytes()
	}

	tests := []struct {
		name    string
		mutate  func([]byte) []byte
		wantErr bool
	}{
		{
			name:   "intact block decodes",
			mutate: func(b []byte) []byte { return b },
		},
		{
			name:    "empty input",
			mutate:  func(b []byte) []byte { return nil },
			wantErr: true,
		},
		{
			name:    "truncated header",
			mutate:  func(b []byte) []byte { return b[:4] },
			wantErr: true,
		},
		{
			name: "bad magic",
			mutate: func(b []byte) []byte {
				b[0] = 'X'
				return b
			},
			wantErr: true,
		},
		{
			name: "unknown version",
			mutate: func(b []byte) []byte {
				b[4] = 0x7f
				return b
			},
			wantErr: true,
		},
		{
			name: "length prefix exceeds remaining input",
			mutate: func(b []byte) []byte {
				binary.BigEndian.PutUint32(b[5:], uint32(len(b))*2)
				return b
			},
			wantErr: true,
		},
		{
			name: "length prefix exceeds limit",
			mutate: func(b []byte) []byte {
				binary.BigEndian.PutUint32(b[5:], maxMetadataSize+1)
				return b
			},
			wantErr: true,
		},
		{
			name:    "truncated metadata block",
			mutate:  func(b []byte) []byte { return b[:len(b)-2] },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(valid())
			_, err := ReadMetadata(bytes.NewReader(data))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !IsType(err, CorruptMetadata) {
					t.Errorf("expected CorruptMetadata error, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
