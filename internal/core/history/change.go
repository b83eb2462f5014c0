// Package history provides undo/redo over committed notebook values.
package history

import "github.com/bethropolis/notebook/internal/block"

// Change is one committed transition of the whole notebook. Undo restores
// Before, redo restores After.
type Change struct {
	Action string         // kind of the dispatch that produced it
	Before []block.Object // value before the commit
	After  []block.Object // value after the commit
	Focus  string         // block to focus once the change is reapplied or reverted
}
