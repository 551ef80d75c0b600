package completion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

const container = `<?xml version="1.0" encoding="utf-8"?>
<root>
  <data name="Greeting" xml:space="preserve"><value>Hello</value></data>
  <data name="Goodbye" xml:space="preserve"><value>Bye</value></data>
  <data name="Title" xml:space="preserve"><value>Main</value></data>
  <metadata name="Author"><value>jane</value></metadata>
</root>`

func newCmd() *cobra.Command {
	c := &cobra.Command{Use: "get"}
	c.Flags().Bool("metadata", false, "")
	c.Flags().String("basepath", "", "")
	return c
}

func TestCompleteEntryNames(t *testing.T) {
	file := filepath.Join(t.TempDir(), "strings.resx")
	assert.NoError(t, os.WriteFile(file, []byte(container), 0660))

	t.Run("container argument", func(t *testing.T) {
		names, dir := CompleteEntryNames(newCmd(), nil, "")
		assert.Nil(t, names)
		assert.Equal(t, cobra.ShellCompDirectiveDefault, dir)
	})
	t.Run("data names by prefix", func(t *testing.T) {
		names, dir := CompleteEntryNames(newCmd(), []string{file}, "G")
		assert.Equal(t, []string{"Greeting", "Goodbye"}, names)
		assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, dir)
	})
	t.Run("metadata names", func(t *testing.T) {
		c := newCmd()
		assert.NoError(t, c.Flags().Set("metadata", "true"))
		names, _ := CompleteEntryNames(c, []string{file}, "")
		assert.Equal(t, []string{"Author"}, names)
	})
	t.Run("missing container", func(t *testing.T) {
		_, dir := CompleteEntryNames(newCmd(), []string{filepath.Join(t.TempDir(), "none.resx")}, "")
		assert.Equal(t, cobra.ShellCompDirectiveError, dir)
	})
	t.Run("all arguments given", func(t *testing.T) {
		names, dir := CompleteEntryNames(newCmd(), []string{file, "Greeting"}, "")
		assert.Nil(t, names)
		assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, dir)
	})
}
