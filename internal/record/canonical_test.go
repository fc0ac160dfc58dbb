package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	b, err := MarshalCanonical(map[string]any{
		"zeta":  int(1),
		"alpha": "x",
		"mid":   true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":"x","mid":true,"zeta":1}`, string(b))
}

func TestMarshalCanonicalNested(t *testing.T) {
	b, err := MarshalCanonical(map[string]any{
		"verdicts": []any{
			map[string]any{"name": "uid", "passed": true},
			map[string]any{"name": "gid", "passed": false},
		},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`{"verdicts":[{"name":"uid","passed":true},{"name":"gid","passed":false}]}`,
		string(b))
}

func TestMarshalCanonicalRejectsNull(t *testing.T) {
	_, err := MarshalCanonical(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null")

	_, err = MarshalCanonical(map[string]any{"k": nil})
	require.Error(t, err)
}

func TestMarshalCanonicalRejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(float64(1.5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "float")

	_, err = MarshalCanonical([]any{float32(2)})
	require.Error(t, err)
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// U+00E9 (precomposed) and U+0065 U+0301 (decomposed) must serialize
	// identically.
	precomposed, err := MarshalCanonical("café")
	require.NoError(t, err)
	decomposed, err := MarshalCanonical("café")
	require.NoError(t, err)
	assert.Equal(t, string(precomposed), string(decomposed))
}

func TestMarshalCanonicalNoHTMLEscaping(t *testing.T) {
	b, err := MarshalCanonical("<a> & </a>")
	require.NoError(t, err)
	assert.Equal(t, `"<a> & </a>"`, string(b))
}

func TestMarshalCanonicalControlEscapes(t *testing.T) {
	b, err := MarshalCanonical("line1\nline2\ttab\x01")
	require.NoError(t, err)
	assert.Equal(t, `"line1\nline2\ttab"`, string(b))
}

func TestMarshalCanonicalUnsignedAndInts(t *testing.T) {
	b, err := MarshalCanonical(map[string]any{
		"soft": uint64(8388608),
		"ord":  int64(2),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ord":2,"soft":8388608}`, string(b))
}
