package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := "# Title\n\nHello\n"

	raw, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, raw)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsRawAndBody(t *testing.T) {
	raw, body, had, err := Split("---\nkey: value\n---\n# Title\n")
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "key: value\n", raw)
	require.Equal(t, "# Title\n", body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, had, err := Split("---\nkey: value\n# Title\n")
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	require.False(t, had)
}

func TestSplit_CRLF_SplitsRawAndBody(t *testing.T) {
	raw, body, had, err := Split("---\r\nkey: value\r\n---\r\n# Title\r\n")
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "key: value\r\n", raw)
	require.Equal(t, "# Title\r\n", body)
}

func TestSplit_EmptyFrontmatterBlock_SplitsAsHadWithEmptyRaw(t *testing.T) {
	raw, body, had, err := Split("---\n---\n# Title\n")
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, raw)
	require.Equal(t, "# Title\n", body)
}

func TestParse_RoundTrip(t *testing.T) {
	data, body, err := Parse("---\nname: A\n---\nBody")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"name": "A"}, data)
	require.Equal(t, "Body", body)
}

func TestParse_NoFrontmatter_EmptyData(t *testing.T) {
	data, body, err := Parse("Body only")
	require.NoError(t, err)
	require.Empty(t, data)
	require.Equal(t, "Body only", body)
}

func TestParse_InvalidYAML_ReturnsError(t *testing.T) {
	_, _, err := Parse("---\n: [unbalanced\n---\nBody")
	require.Error(t, err)
}
