package pixelgrid

// MaxHistory is the number of grid states kept for Undo and Redo.
const MaxHistory = 50

// Commit records the current cells as a new history state. States that were
// undone are discarded, and the oldest state is dropped once MaxHistory is
// exceeded.
func (g *Grid) Commit() {
	g.history = append(g.history[:g.current+1], g.snapshot())
	if n := len(g.history) - MaxHistory; n > 0 {
		g.history = append(g.history[:0], g.history[n:]...)
	}
	g.current = len(g.history) - 1
}

// Undo restores the previous committed state. Uncommitted edits are lost.
func (g *Grid) Undo() bool {
	if g.current == 0 {
		return false
	}
	g.current--
	copy(g.cells, g.history[g.current])
	return true
}

// Redo restores the state undone last.
func (g *Grid) Redo() bool {
	if g.current >= len(g.history)-1 {
		return false
	}
	g.current++
	copy(g.cells, g.history[g.current])
	return true
}

func (g *Grid) CanUndo() bool { return g.current > 0 }
func (g *Grid) CanRedo() bool { return g.current < len(g.history)-1 }
