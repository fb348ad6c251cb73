package fragment

import "fmt"

// Block is a fenced code block found in a Markdown document. File is set
// by [Load].
type Block struct {
	File      string
	Lang      string
	Meta      Meta
	Code      []byte
	StartLine int
	EndLine   int
}

// Origin names the file and lines the block came from.
func (b *Block) Origin() string {
	return fmt.Sprintf("%s:%d-%d", b.File, b.StartLine, b.EndLine)
}
