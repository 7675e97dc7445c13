// Package tlv implements the Tag-Length-Value encoding used by compliance
// QR payloads: a one-byte tag, a one-byte length and the value bytes.
package tlv

import (
	"github.com/rezonia/invoice-renderer/internal/model"
)

// MaxValueLen is the largest value a one-byte length can describe
const MaxValueLen = 255

// Field is a single tagged value
type Field struct {
	Tag   byte
	Value []byte
}

// String builds a field from UTF-8 text
func String(tag byte, s string) Field {
	return Field{Tag: tag, Value: []byte(s)}
}

// Encode serializes fields in the given order. Order is preserved and
// duplicates are kept.
func Encode(fields []Field) ([]byte, error) {
	size := 0
	for _, f := range fields {
		if len(f.Value) > MaxValueLen {
			return nil, model.NewEncodingError(f.Tag, len(f.Value), MaxValueLen, "value exceeds TLV length limit")
		}
		size += 2 + len(f.Value)
	}

	out := make([]byte, 0, size)
	for _, f := range fields {
		out = append(out, f.Tag, byte(len(f.Value)))
		out = append(out, f.Value...)
	}
	return out, nil
}

// Decode parses data produced by Encode back into its ordered fields
func Decode(data []byte) ([]Field, error) {
	fields := make([]Field, 0)
	for i := 0; i < len(data); {
		if i+2 > len(data) {
			return nil, model.NewEncodingError(data[i], 0, 0, "truncated field header")
		}
		tag, n := data[i], int(data[i+1])
		i += 2
		if i+n > len(data) {
			return nil, model.NewEncodingError(tag, n, len(data)-i, "truncated field value")
		}
		value := make([]byte, n)
		copy(value, data[i:i+n])
		fields = append(fields, Field{Tag: tag, Value: value})
		i += n
	}
	return fields, nil
}
