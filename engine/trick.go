package engine

import "fmt"

// ResolveTrick decides a completed trick.
//
//   - exactly one card hidden → the side that showed wins
//   - both hidden → draw
//   - both shown → higher CardValue wins, equal values draw
//
// Both cards must be present and valid.
func ResolveTrick(player, opponent PlayedCard, manilhas [NumSuits]Card) (Result, error) {
	if !player.Present() || !opponent.Present() {
		return ResultDraw, fmt.Errorf("%w: trick resolved with a missing card", ErrInvariantViolation)
	}
	if !player.Card.Valid() || !opponent.Card.Valid() {
		return ResultDraw, fmt.Errorf("%w: trick resolved with corrupt card %#x/%#x", ErrInvariantViolation, uint8(player.Card), uint8(opponent.Card))
	}
	switch {
	case player.Hidden && opponent.Hidden:
		return ResultDraw, nil
	case player.Hidden:
		return ResultOpponent, nil
	case opponent.Hidden:
		return ResultPlayer, nil
	}
	pv := CardValue(player.Card, manilhas)
	ov := CardValue(opponent.Card, manilhas)
	switch {
	case pv > ov:
		return ResultPlayer, nil
	case ov > pv:
		return ResultOpponent, nil
	}
	return ResultDraw, nil
}
