package game

import (
	"github.com/gammazero/deque"

	"digdug/server/models"
)

// history keeps the most recent positions of an entity, oldest first
type history struct {
	cells *deque.Deque[models.Position]
	limit int
}

func newHistory(limit int) history {
	return history{
		cells: deque.New[models.Position](limit),
		limit: limit,
	}
}

func (h history) push(p models.Position) {
	if h.cells.Len() == h.limit {
		h.cells.PopFront()
	}
	h.cells.PushBack(p)
}

func (h history) list() []models.Position {
	out := make([]models.Position, h.cells.Len())
	for i := range out {
		out[i] = h.cells.At(i)
	}
	return out
}
