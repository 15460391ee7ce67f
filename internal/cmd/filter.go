package cmd

import (
	"github.com/ezerfernandes/unfence/internal/fence"
	"github.com/ezerfernandes/unfence/internal/mdblock"
)

// walkMatched runs walker only on document blocks whose language tag passes
// the filter pattern.
func walkMatched(src []byte, pattern string, walker mdblock.Walker) (bool, []byte, error) {
	return mdblock.Walk(src, func(block *mdblock.Block) error {
		if fence.Match(pattern, block.Lang) {
			return walker(block)
		}

		return nil
	})
}
