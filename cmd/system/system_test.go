package system

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	root := &cobra.Command{Use: "kliniksehat"}
	root.PersistentFlags().String("config", filepath.Join(t.TempDir(), "config.yaml"), "")
	root.AddCommand(NewSystemCommand())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestInitCommand(t *testing.T) {
	t.Setenv("KLINIK_LOGGING_LEVEL", "error")
	out := run(t, "system", "init")
	assert.Contains(t, out, "7 of 7 partitions created")
}

func TestMigrateCommand_NothingStored(t *testing.T) {
	t.Setenv("KLINIK_LOGGING_LEVEL", "error")
	out := run(t, "system", "migrate")
	assert.Contains(t, out, "up to date")
}

func TestGenDocsCommand(t *testing.T) {
	dir := t.TempDir()
	run(t, "system", "gendocs", "--outdir", dir)

	_, err := os.Stat(filepath.Join(dir, "kliniksehat_system_init.md"))
	assert.NoError(t, err)
}
