package game

// Snake is an ordered body: the tail is the first element, the head the last
type Snake []Cell

// Head returns the last cell
func (s Snake) Head() Cell {
	return s[len(s)-1]
}

// Contains reports whether c is one of the snake's cells
func (s Snake) Contains(c Cell) bool {
	for _, part := range s {
		if part == c {
			return true
		}
	}
	return false
}

// grow adds head without dropping the tail
func (s Snake) grow(head Cell) Snake {
	return append(s, head)
}

// slide moves every segment into the position of the one ahead of it and
// puts head last. Length is unchanged.
func (s Snake) slide(head Cell) {
	copy(s, s[1:])
	s[len(s)-1] = head
}

func (s Snake) clone() Snake {
	if s == nil {
		return nil
	}
	out := make(Snake, len(s))
	copy(out, s)
	return out
}
