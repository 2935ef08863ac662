package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCLI(t *testing.T) {
	cmd := BuildCLI()

	assert.NotNil(t, cmd, "BuildCLI should return a non-nil command")
	assert.Equal(t, "transcodectl", cmd.Use)
	assert.Equal(t, "1.0.0", cmd.Version)

	names := make(map[string]bool)
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["submit"])
	assert.True(t, names["status"])
	assert.True(t, names["retrieve"])
	assert.True(t, names["nodes"])

	masterFlag := cmd.PersistentFlags().Lookup("master")
	assert.NotNil(t, masterFlag, "should have --master flag")
	assert.Equal(t, "127.0.0.1:50051", masterFlag.DefValue)
}

func TestBuildSubmitCommand(t *testing.T) {
	cmd := buildSubmitCommand()

	assert.Equal(t, "submit", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	fileFlag := cmd.Flags().Lookup("file")
	assert.NotNil(t, fileFlag)
	assert.Equal(t, "f", fileFlag.Shorthand)

	widthFlag := cmd.Flags().Lookup("width")
	assert.NotNil(t, widthFlag)
	assert.Equal(t, "1280", widthFlag.DefValue)
}

func TestBuildStatusCommand(t *testing.T) {
	cmd := buildStatusCommand()

	assert.Contains(t, cmd.Use, "status")
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}

func TestBuildRetrieveCommand(t *testing.T) {
	cmd := buildRetrieveCommand()

	assert.Contains(t, cmd.Use, "retrieve")
	outFlag := cmd.Flags().Lookup("out")
	assert.NotNil(t, outFlag)
	assert.Equal(t, "o", outFlag.Shorthand)
}

func TestBuildNodesCommand(t *testing.T) {
	cmd := buildNodesCommand()

	assert.Equal(t, "nodes", cmd.Use)
	addrsFlag := cmd.Flags().Lookup("addrs")
	assert.NotNil(t, addrsFlag)
}

func TestFilenameOf(t *testing.T) {
	assert.Equal(t, "video.mp4", filenameOf("/tmp/uploads/video.mp4"))
	assert.Equal(t, "video.mp4", filenameOf("video.mp4"))
}

func TestSubmitRequiresFile(t *testing.T) {
	cmd := buildSubmitCommand()
	err := cmd.RunE(cmd, nil)
	assert.Error(t, err, "submit without --file should fail before dialing anything")
	assert.Contains(t, err.Error(), "source file is required")
}

func TestNodesUnreachableAddress(t *testing.T) {
	err := nodes([]string{"127.0.0.1:1"})
	assert.NoError(t, err, "nodes should report unreachable addresses in the table, not fail the command")
}
