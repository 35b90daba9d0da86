package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Competences-et-Metiers/HostingerWebsite/pkg/models"
)

func TestPrintResult_FollowsJSONTags(t *testing.T) {
	bundle := &models.IdentityBundle{
		Email:         "user@example.com",
		ParticipantID: "42",
		EntityIDs:     []string{"100"},
	}

	var jsonOut bytes.Buffer
	require.NoError(t, printResult(&jsonOut, "json", bundle))
	assert.Contains(t, jsonOut.String(), `"id_participant": "42"`)

	var yamlOut bytes.Buffer
	require.NoError(t, printResult(&yamlOut, "yaml", bundle))
	assert.Contains(t, yamlOut.String(), "id_participant: \"42\"")
	assert.Contains(t, yamlOut.String(), "adf_ids:\n  - \"100\"")

	assert.Error(t, printResult(&bytes.Buffer{}, "xml", bundle))
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()

	for _, name := range []string{"serve", "resolve", "clear-cache"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	resolve, _, err := root.Find([]string{"resolve"})
	require.NoError(t, err)
	assert.NotNil(t, resolve.Flags().Lookup("email"))
	assert.Equal(t, "json", resolve.Flags().Lookup("output").DefValue)
}
