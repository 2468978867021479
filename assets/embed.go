package assets

import (
	"embed"
	"io"
)

// WordsFile is the name of the bundled dictionary inside FS.
const WordsFile = "words.txt"

//go:embed words.txt
var FS embed.FS

// Words opens the bundled dictionary: one word per line, any case.
func Words() (io.ReadCloser, error) {
	return FS.Open(WordsFile)
}
