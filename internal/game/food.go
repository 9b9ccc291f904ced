package game

// placeFood picks a uniformly random cell that no snake occupies. Random
// draws are bounded; after that the free cells are enumerated so a nearly
// full board still terminates. A full board sets NoFood and ErrBoardFull.
func (g *Game) placeFood() error {
	attempts := 2 * g.grid.Cells()
	for i := 0; i < attempts; i++ {
		c := Cell{
			X: between(g.rng, 0, g.grid.SizeX-1),
			Y: between(g.rng, 0, g.grid.SizeY-1),
		}
		if !g.occupied(c) {
			g.food = c
			return nil
		}
	}

	free := g.freeCells()
	if len(free) == 0 {
		g.food = NoFood
		log.Warnf("Tick %d: board full, no food placed", g.tick)
		return ErrBoardFull
	}
	g.food = free[g.rng.Intn(len(free))]
	return nil
}

func (g *Game) freeCells() []Cell {
	var free []Cell
	for y := 0; y < g.grid.SizeY; y++ {
		for x := 0; x < g.grid.SizeX; x++ {
			c := Cell{X: x, Y: y}
			if !g.occupied(c) {
				free = append(free, c)
			}
		}
	}
	return free
}
