package testutils

import (
	"bytes"
	"io"
	"os"
)

// ReplaceStdout redirects os.Stdout to a pipe. getOutput stops capturing and returns what was written,
// restore puts back the original os.Stdout.
func ReplaceStdout() (restore func(), getOutput func() string) {
	return replaceFile(&os.Stdout)
}

// ReplaceStderr is like ReplaceStdout for os.Stderr
func ReplaceStderr() (restore func(), getOutput func() string) {
	return replaceFile(&os.Stderr)
}

func replaceFile(f **os.File) (func(), func() string) {
	org := *f
	r, w, err := os.Pipe()
	if err != nil {
		panic(err)
	}
	*f = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		_ = r.Close()
		done <- buf.String()
	}()

	var out *string
	getOutput := func() string {
		if out == nil {
			_ = w.Close()
			s := <-done
			out = &s
		}
		return *out
	}
	restore := func() {
		getOutput()
		*f = org
	}
	return restore, getOutput
}
