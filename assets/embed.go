// Package assets ships the default dictionary inside the binary so the server
// and CLI run without any configured word file.
package assets

import (
	"embed"
	"io"
)

//go:embed dictionary.txt
var FS embed.FS

// DictionaryName is the embedded word list file.
const DictionaryName = "dictionary.txt"

// Dictionary opens the embedded word list. The caller closes it.
func Dictionary() (io.ReadCloser, error) {
	return FS.Open(DictionaryName)
}
