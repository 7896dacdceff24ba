// internal/engine/pool.go
// Availability pools: multisets of team ids remaining to be placed for one
// round type. Implemented as an ordered id list plus a remaining-count map
// so tie-breaks in action filtering follow insertion order (ascending team
// id).
package engine

// pool is the Practice or Table availability multiset.
type pool struct {
	order  []int
	counts map[int]int
}

func newPool(numTeams, perTeam int) *pool {
	order := make([]int, numTeams)
	counts := make(map[int]int, numTeams)
	for i := 1; i <= numTeams; i++ {
		order[i-1] = i
		counts[i] = perTeam
	}
	return &pool{order: order, counts: counts}
}

// ActiveIDs returns team ids with at least one remaining copy, in
// insertion order.
func (p *pool) ActiveIDs() []int {
	out := make([]int, 0, len(p.order))
	for _, id := range p.order {
		if p.counts[id] > 0 {
			out = append(out, id)
		}
	}
	return out
}

// Remaining returns the total number of copies left across all teams: the
// bookings of this round type still to be placed. The time grid can hold
// more cells than that, so this is not a count of unassigned cells.
func (p *pool) Remaining() int {
	n := 0
	for _, c := range p.counts {
		n += c
	}
	return n
}

// Take decrements teamID's remaining copies by one, on a successful
// commit.
func (p *pool) Take(teamID int) {
	p.counts[teamID]--
}

// Return increments teamID's remaining copies by one — used only by the
// side-2 backtrack.
func (p *pool) Return(teamID int) {
	p.counts[teamID]++
}
