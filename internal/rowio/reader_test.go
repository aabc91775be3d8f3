package rowio_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princeton-ddss/lsh/internal/rowio"
	"github.com/princeton-ddss/lsh/pkg/banding"
)

func newReader(t *testing.T, input string, kind rowio.Kind) *rowio.Reader {
	t.Helper()

	r, err := rowio.NewReader(strings.NewReader(input), kind)
	require.NoError(t, err)

	return r
}

// --- Reader Tests ---.

func TestReader_TextRowsWithNull(t *testing.T) {
	t.Parallel()

	r := newReader(t, "\"hello\"\nnull\n\n\"world\"\n", rowio.KindText)

	batch, err := r.Next(10)
	require.NoError(t, err)

	require.Equal(t, 3, batch.Len())
	assert.Equal(t, "hello", *batch.Text[0])
	assert.Nil(t, batch.Text[1])
	assert.Equal(t, "world", *batch.Text[2])

	_, err = r.Next(10)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_BatchesCarryPosition(t *testing.T) {
	t.Parallel()

	r := newReader(t, "[1]\n[2]\n[3]\n[4]\n[5]\n", rowio.KindVector)

	first, err := r.Next(2)
	require.NoError(t, err)

	second, err := r.Next(2)
	require.NoError(t, err)

	third, err := r.Next(2)
	require.NoError(t, err)

	assert.Equal(t, 0, first.Start)
	assert.Equal(t, 2, second.Start)
	assert.Equal(t, 4, third.Start)
	assert.Equal(t, 2, third.Seq)
	assert.Equal(t, 1, third.Len())
	assert.Equal(t, []float64{5}, third.Vectors[0])
}

func TestReader_ShinglesKeepEmptyDistinctFromNull(t *testing.T) {
	t.Parallel()

	r := newReader(t, "[\"ab\", \"bc\"]\n[]\nnull\n", rowio.KindShingles)

	batch, err := r.Next(10)
	require.NoError(t, err)

	assert.Equal(t, []string{"ab", "bc"}, batch.Shingles[0])
	assert.NotNil(t, batch.Shingles[1])
	assert.Empty(t, batch.Shingles[1])
	assert.Nil(t, batch.Shingles[2])
}

func TestReader_SchemaViolation(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		input string
		kind  rowio.Kind
	}{
		"number as text":  {"42\n", rowio.KindText},
		"string in array": {"[1, \"x\"]\n", rowio.KindVector},
		"object shingles": {"{\"a\": 1}\n", rowio.KindShingles},
		"malformed json":  {"[1, 2\n", rowio.KindVector},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := newReader(t, tc.input, tc.kind).Next(10)

			require.ErrorIs(t, err, banding.ErrUnsupportedInput)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestReader_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := newReader(t, "", rowio.KindText).Next(10)

	assert.ErrorIs(t, err, io.EOF)
}

func TestNewReader_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := rowio.NewReader(strings.NewReader(""), rowio.Kind(9))

	require.ErrorIs(t, err, rowio.ErrUnknownKind)
}
