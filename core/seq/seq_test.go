package seq

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestBaseIndex(t *testing.T) {
	require.Equal(t, 0, BaseIndex('T'))
	require.Equal(t, 1, BaseIndex('C'))
	require.Equal(t, 2, BaseIndex('A'))
	require.Equal(t, 3, BaseIndex('G'))
	require.Equal(t, -1, BaseIndex('N'))
	require.Equal(t, -1, BaseIndex('t'))
}

func TestValidate(t *testing.T) {
	good := Genome{{Name: "a", Seq: []byte("TCAG")}}
	require.NoError(t, good.Validate())

	for name, g := range map[string]Genome{
		"empty genome":  {},
		"empty chrom":   {{Name: "a"}},
		"bad character": {{Name: "a", Seq: []byte("TCNG")}},
	} {
		t.Run(name, func(t *testing.T) {
			require.True(t, errors.Is(g.Validate(), ErrInvalidInput))
		})
	}
}

func TestNormalize(t *testing.T) {
	g := Genome{{Name: "a", Seq: []byte("tcagUuNn-")}}
	unknown := g.Normalize()
	require.Equal(t, "TCAGTTNN-", string(g[0].Seq))
	require.Equal(t, 3, unknown)
}

func TestTotalSize(t *testing.T) {
	g := Genome{
		{Name: "a", Seq: []byte("TCAG")},
		{Name: "b", Seq: []byte("TT")},
	}
	require.Equal(t, 6, g.TotalSize())
}
