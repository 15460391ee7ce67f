package mdblock

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Walker is called for every fenced code block in document order. It may
// replace block.Code; [Walk] splices any changes back into the document.
type Walker func(block *Block) error

// Parse returns all fenced code blocks of a markdown document without
// modifying it.
func Parse(source []byte) (Blocks, error) {
	return collect(source)
}

// Walk invokes walker on every fenced code block. When a walker changed any
// block's Code, Walk returns true together with a copy of the document that
// has the new code spliced in; otherwise it returns false and a nil slice.
func Walk(source []byte, walker Walker) (bool, []byte, error) {
	blocks, err := collect(source)
	if err != nil {
		return false, nil, err
	}

	var edits Blocks

	for _, block := range blocks {
		before := block.Code

		if err := walker(block); err != nil {
			return false, nil, err
		}

		if block.content.known && !bytes.Equal(before, block.Code) {
			edits = append(edits, block)
		}
	}

	if len(edits) == 0 {
		return false, nil, nil
	}

	var buf bytes.Buffer

	last := 0
	for _, block := range edits {
		buf.Write(source[last:block.content.start])
		buf.Write(block.Code)
		last = block.content.stop
	}
	buf.Write(source[last:])

	return true, buf.Bytes(), nil
}

func collect(source []byte) (Blocks, error) {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	starts := lineOffsets(source)

	var blocks Blocks

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || node.Kind() != ast.KindFencedCodeBlock {
			return ast.WalkContinue, nil
		}

		fcb, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		block, berr := newBlock(fcb, source, starts)
		if berr != nil {
			return ast.WalkStop, berr
		}

		blocks = append(blocks, block)

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return blocks, nil
}

func newBlock(fcb *ast.FencedCodeBlock, source []byte, starts []int) (*Block, error) {
	block := &Block{}

	if fcb.Info != nil {
		lang, meta, err := parseInfo(string(fcb.Info.Text(source)))
		if err != nil {
			return nil, err
		}

		block.Lang = lang
		block.Meta = meta
		block.StartLine = lineOf(starts, fcb.Info.Segment.Start)
	}

	lines := fcb.Lines()
	if lines.Len() == 0 {
		if block.StartLine > 0 {
			block.EndLine = block.StartLine + 1
		}

		return block, nil
	}

	// Content is assembled segment by segment: inside blockquotes or lists
	// the lines are not contiguous in the source.
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}

	first := lines.At(0)
	last := lines.At(lines.Len() - 1)

	block.Code = buf.Bytes()
	block.content = span{start: first.Start, stop: last.Stop, known: true}

	if block.StartLine == 0 {
		block.StartLine = lineOf(starts, first.Start) - 1
	}

	block.EndLine = lineOf(starts, last.Stop)

	return block, nil
}

// lineOffsets records the byte offset of every line start in source.
func lineOffsets(source []byte) []int {
	starts := []int{0}

	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}

	return starts
}

// lineOf returns the 1-based line number holding the byte at offset.
func lineOf(starts []int, offset int) int {
	return sort.Search(len(starts), func(i int) bool {
		return starts[i] > offset
	})
}
