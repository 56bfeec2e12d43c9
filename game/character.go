package game

import (
	"github.com/sirupsen/logrus"

	"digdug/server/models"
)

var charLog = logrus.WithField("logger", "characters")

// Character is the positional state shared by every entity. Facing is derived
// from displacement and only changes through MoveTo.
type Character struct {
	pos    models.Position
	spawn  models.Position
	facing models.Direction
	trail  history
}

func newCharacter(pos models.Position) Character {
	return Character{
		pos:    pos,
		spawn:  pos,
		facing: models.East,
		trail:  newHistory(HistoryLen),
	}
}

func (c *Character) Position() models.Position { return c.pos }
func (c *Character) Spawn() models.Position    { return c.spawn }
func (c *Character) Facing() models.Direction  { return c.facing }

// History returns up to the last HistoryLen positions left behind, oldest first
func (c *Character) History() []models.Position { return c.trail.list() }

// MoveTo places the character at p and updates its facing from the
// displacement. Moving onto the current cell changes nothing and returns false.
func (c *Character) MoveTo(p models.Position) bool {
	if p == c.pos {
		return false
	}
	facing, err := models.DirectionBetween(c.pos, p)
	if err != nil {
		charLog.WithError(err).Error("Facing computation failed")
		return false
	}
	c.trail.push(c.pos)
	c.pos = p
	c.facing = facing
	return true
}

// Respawn sends the character back to where it was created
func (c *Character) Respawn() {
	c.MoveTo(c.spawn)
}
