package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecute(t *testing.T) {
	// Execute calls os.Exit(1) on error, so only its presence is checked.
	assert.NotNil(t, Execute)
}

func TestVersionVariables(t *testing.T) {
	assert.NotEmpty(t, Version, "Version should not be empty")
	assert.NotEmpty(t, Commit, "Commit should not be empty")
}

func TestCLIFlagsVariables(t *testing.T) {
	// String flags - cfgFile defaults to "axmeta.yaml" via init()
	assert.Equal(t, "axmeta.yaml", cfgFile, "cfgFile should default to axmeta.yaml")
	assert.Equal(t, "", logLevel)
	assert.Equal(t, "", logFormat)
	assert.Equal(t, "", rootDir)

	// Command flags
	assert.False(t, refreshForce)
	assert.False(t, refreshRelations)
	assert.False(t, fieldsCount)
	assert.Equal(t, 0, relationsDepth)
	assert.Equal(t, "", serveAddr)
}

func TestCLIOverrideStruct(t *testing.T) {
	overrides := CLIOverrides{
		LogLevel:  "debug",
		LogFormat: "json",
		Root:      "/srv/PackagesLocalDirectory",
	}

	assert.Equal(t, "debug", overrides.LogLevel)
	assert.Equal(t, "json", overrides.LogFormat)
	assert.Equal(t, "/srv/PackagesLocalDirectory", overrides.Root)
}
