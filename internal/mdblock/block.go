// Package mdblock reads and rewrites fenced code blocks in markdown
// documents. Unlike the extraction core, which scans raw LLM output, this
// package parses the document properly and is used by the commands that care
// about block positions holistically: listing, dumping to files, executing,
// and in-place cleaning.
package mdblock

// Block is a fenced code block in a markdown document.
type Block struct {
	Lang      string
	Meta      Meta
	Code      []byte
	StartLine int
	EndLine   int

	content span
}

type Blocks []*Block

// span is the byte range of the block's content within the document source,
// used when splicing modified code back in.
type span struct {
	start int
	stop  int
	known bool
}
