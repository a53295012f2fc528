package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandStructure(t *testing.T) {
	assert.Equal(t, "storefront", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["version"])
}

func TestServeFlags(t *testing.T) {
	for _, name := range []string{"debug", "silent", "config-path"} {
		require.NotNil(t, serveCmd.Flags().Lookup(name), "missing flag %s", name)
	}
}

func TestVersionRoundtrip(t *testing.T) {
	original := GetVersion()
	defer SetVersion(original)

	SetVersion("9.9.9")
	assert.Equal(t, "9.9.9", GetVersion())
}
