package tlv_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/invoice-renderer/internal/model"
	"github.com/rezonia/invoice-renderer/internal/tlv"
)

func TestEncode_Layout(t *testing.T) {
	out, err := tlv.Encode([]tlv.Field{
		tlv.String(1, "AB"),
		{Tag: 2, Value: []byte{0xFF}},
	})
	require.NoError(t, err)

	assert.Equal(t, []byte{1, 2, 'A', 'B', 2, 1, 0xFF}, out)
}

func TestEncode_PreservesOrderAndDuplicates(t *testing.T) {
	fields := []tlv.Field{
		tlv.String(6, "z"),
		tlv.String(1, "a"),
		tlv.String(6, "z"),
	}
	out, err := tlv.Encode(fields)
	require.NoError(t, err)

	assert.Equal(t, []byte{6, 1, 'z', 1, 1, 'a', 6, 1, 'z'}, out)
}

func TestEncode_EmptyValue(t *testing.T) {
	out, err := tlv.Encode([]tlv.Field{{Tag: 9}})
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 0}, out)
}

func TestEncode_LengthLimit(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"at limit", 255, false},
		{"over limit", 256, true},
		{"far over limit", 1024, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tlv.Encode([]tlv.Field{
				tlv.String(1, "ok"),
				{Tag: 3, Value: bytes.Repeat([]byte{'x'}, tt.size)},
			})
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var encErr *model.EncodingError
			require.True(t, errors.As(err, &encErr))
			assert.Equal(t, byte(3), encErr.Tag)
			assert.Equal(t, tt.size, encErr.Length)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	fields := []tlv.Field{
		tlv.String(1, "شركة المثال"),
		tlv.String(2, "300000000000003"),
		tlv.String(3, "2026-01-15T10:30:00Z"),
		tlv.String(4, "115.00"),
		tlv.String(5, "15.00"),
		{Tag: 6, Value: bytes.Repeat([]byte{0xAB}, 32)},
		tlv.String(1, "repeat"),
	}

	out, err := tlv.Encode(fields)
	require.NoError(t, err)

	decoded, err := tlv.Decode(out)
	require.NoError(t, err)

	if diff := cmp.Diff(fields, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Truncated(t *testing.T) {
	_, err := tlv.Decode([]byte{1, 5, 'a', 'b'})
	var encErr *model.EncodingError
	require.ErrorAs(t, err, &encErr)

	_, err = tlv.Decode([]byte{1})
	require.ErrorAs(t, err, &encErr)
}
