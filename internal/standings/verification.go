package standings

import (
	"fmt"
	"math"

	"github.com/okian/levelboard/internal/domain/ranking"
)

// valueTolerance absorbs float formatting differences across JSON.
const valueTolerance = 1e-9

// verifyBoard checks that remote holds exactly the first len(remote) entries
// of local, or all of local when it is shorter than want.
func verifyBoard(local, remote []ranking.Entry, want int) error {
	expected := ranking.Top(local, want)
	if len(remote) != len(expected) {
		return fmt.Errorf("expected %d entries, service returned %d", len(expected), len(remote))
	}
	for i := range expected {
		l, r := expected[i], remote[i]
		switch {
		case l.Creator != r.Creator:
			return fmt.Errorf("position %d: expected %s, service has %s", l.Position, l.Creator, r.Creator)
		case l.Position != r.Position:
			return fmt.Errorf("%s: expected position %d, service has %d", l.Creator, l.Position, r.Position)
		case math.Abs(l.Value-r.Value) > valueTolerance:
			return fmt.Errorf("%s: expected value %.3f, service has %.3f", l.Creator, l.Value, r.Value)
		}
	}
	return nil
}
