package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lioia/sparse-pagerank/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfiguration(t *testing.T) {
	path := writeConfig(t, `{"Graph": "graph.txt", "Format": "edgelist", "Dampener": 0.9, "Output": "out.txt", "MaxIterations": 50}`)
	config, err := utils.LoadConfiguration(path)
	require.NoError(t, err)
	assert.Equal(t, utils.Config{
		Graph:         "graph.txt",
		Format:        "edgelist",
		Dampener:      0.9,
		Output:        "out.txt",
		MaxIterations: 50,
	}, config)
}

func TestLoadConfiguration_Errors(t *testing.T) {
	_, err := utils.LoadConfiguration(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = utils.LoadConfiguration(writeConfig(t, `{"Graph": `))
	require.ErrorContains(t, err, "parse")

	_, err = utils.LoadConfiguration(writeConfig(t, `{"Dampener": 1.5}`))
	require.ErrorContains(t, err, "Dampener")

	_, err = utils.LoadConfiguration(writeConfig(t, `{"MaxIterations": -1}`))
	require.ErrorContains(t, err, "MaxIterations")
}
