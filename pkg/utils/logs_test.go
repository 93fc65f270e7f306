package utils_test

import (
	"bytes"
	"log"
	"testing"

	"github.com/lioia/sparse-pagerank/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags, out := log.Flags(), log.Writer()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(out)
		log.SetFlags(flags)
		utils.InitLog(false, false)
	})
	return &buf
}

func TestIterationLog(t *testing.T) {
	buf := captureLog(t)
	utils.InitLog(false, false)
	assert.False(t, utils.NodeLogEnabled())
	utils.IterationLog("cli", 1, 0.5)
	assert.Empty(t, buf.String())

	utils.InitLog(true, false)
	assert.True(t, utils.NodeLogEnabled())
	utils.IterationLog("cli", 3, 0.2138)
	assert.Equal(t, "INFO Rank cli: iteration 3, mass 0.213800\n", buf.String())
}

func TestServerLogAndWarnLog(t *testing.T) {
	buf := captureLog(t)
	utils.InitLog(true, false)
	utils.ServerLog("hidden")
	utils.WarnLog("Worker", "cap reached after %d", 10)
	assert.Equal(t, "WARN Worker: cap reached after 10\n", buf.String())
}
