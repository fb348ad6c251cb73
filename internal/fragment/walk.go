package fragment

import (
	"bytes"
	"errors"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Walker is called for each fenced code block of a Markdown document.
// Returning [ErrStop] ends the walk without error.
type Walker func(block *Block) error

// Walk parses a Markdown document and calls walker for every fenced code
// block in document order, including blocks hidden in a commented
// <script type="text/markdown"> element.
func Walk(source []byte, walker Walker) error {
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	return ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			return ast.WalkContinue, nil
		}

		fcb := fencedBlock(node, source)
		if fcb == nil {
			return ast.WalkContinue, nil
		}

		block, err := newBlock(fcb, source)
		if err == nil {
			err = walker(block)
		}

		switch {
		case errors.Is(err, ErrStop):
			return ast.WalkStop, nil
		case err != nil:
			return ast.WalkStop, err
		default:
			return ast.WalkContinue, nil
		}
	})
}

func fencedBlock(node ast.Node, source []byte) *ast.FencedCodeBlock {
	switch n := node.(type) {
	case *ast.FencedCodeBlock:
		return n
	case *ast.HTMLBlock:
		return scriptBlock(n, source)
	default:
		return nil
	}
}

func newBlock(fcb *ast.FencedCodeBlock, source []byte) (*Block, error) {
	block := &Block{Code: code(fcb, source)}

	if fcb.Info != nil {
		info := fcb.Info.Segment
		block.StartLine = lineOf(source, info.Start)

		var err error
		if block.Lang, block.Meta, err = parseInfo(info.Value(source)); err != nil {
			return nil, err
		}
	} else if lines := fcb.Lines(); lines.Len() > 0 {
		block.StartLine = lineOf(source, lines.At(0).Start) - 1
	}

	block.EndLine = block.StartLine + fcb.Lines().Len() + 1

	return block, nil
}

func lineOf(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}

	return bytes.Count(source[:offset], []byte("\n")) + 1
}

func code(fcb *ast.FencedCodeBlock, source []byte) []byte {
	var buf bytes.Buffer

	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)

		buf.Write(seg.Value(source))
	}

	return buf.Bytes()
}

var reInfo = regexp.MustCompile(`^\s*(\w+)\s*(.*?)\s*$`)

func parseInfo(info []byte) (string, Meta, error) {
	match := reInfo.FindSubmatch(info)
	if match == nil {
		return "", Meta{}, nil
	}

	meta, err := parseMeta(match[2])
	if err != nil {
		return "", nil, err
	}

	return string(match[1]), meta, nil
}

var (
	reScriptOpen = regexp.MustCompile(`^\s*(<!--)?\s*<script\s*type=["']text/markdown["']\s*>\s*$`)
	reFence      = regexp.MustCompile("^\\s*```")
)

// scriptBlock turns an HTML block of the form
//
//	<!-- <script type="text/markdown">
//	```lang meta
//	code
//	```
//	</script> -->
//
// into the fenced code block it wraps. It returns nil for any other block.
func scriptBlock(html *ast.HTMLBlock, source []byte) *ast.FencedCodeBlock {
	lines := html.Lines()
	if lines.Len() < 3 { //nolint:gomnd
		return nil
	}

	first, fence, last := lines.At(0), lines.At(1), lines.At(lines.Len()-1)

	if !reScriptOpen.Match(first.Value(source)) || !reFence.Match(last.Value(source)) {
		return nil
	}

	loc := reFence.FindIndex(fence.Value(source))
	if loc == nil {
		return nil
	}

	info := text.NewSegment(fence.Start+loc[1], fence.Stop)
	info = info.TrimRightSpace(source)

	fcb := ast.NewFencedCodeBlock(ast.NewTextSegment(info))

	body := text.NewSegments()
	for i := 2; i < lines.Len()-1; i++ {
		body.Append(lines.At(i))
	}

	fcb.SetLines(body)

	return fcb
}

// ErrStop can be returned by a [Walker] to end the walk early.
var ErrStop = errors.New("stop walking")
