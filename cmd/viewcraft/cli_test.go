package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseData_KeyValuePairs(t *testing.T) {
	locals, err := parseData([]string{"title=Hello", "author=me"})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"title": "Hello", "author": "me"}, locals)
}

func TestParseData_ValueMayContainEquals(t *testing.T) {
	locals, err := parseData([]string{"query=a=b"})
	require.NoError(t, err)
	require.Equal(t, "a=b", locals["query"])
}

func TestParseData_InvalidPair(t *testing.T) {
	_, err := parseData([]string{"novalue"})
	require.Error(t, err)

	_, err = parseData([]string{"=value"})
	require.Error(t, err)
}

func TestStrippedName(t *testing.T) {
	require.Equal(t, "home", strippedName("templates/home.md"))
	require.Equal(t, "base", strippedName("base.html"))
	require.Equal(t, "plain", strippedName("plain"))
}
