package engine

import "fmt"

// Step runs one tick: collect intents, resolve collisions to a fixpoint,
// commit the moves and hand dirty squares to the renderer.
func (w *World) Step() TickReport {
	w.tick++
	report := TickReport{Tick: w.tick}

	groups := w.collectIntents()
	report.Intents = len(groups.members)

	report.Rounds, report.Converged = w.resolveCollisions(groups)
	report.Moves = w.commit(groups)
	report.Rendered = w.Render()

	return report
}

// collectIntents asks every entity, in grid order, where it wants to go and
// groups the answers by target. A target on a blocking square becomes a stay
// intent and fires that square's blocked-entry hook.
func (w *World) collectIntents() *groupSet {
	groups := newGroupSet(len(w.positions))

	for _, sq := range w.squares {
		e := sq.occupant
		if e == nil {
			continue
		}

		target, ok := e.decide(w)
		if !ok {
			w.report(Diagnostic{
				Kind:     KindDecision,
				Entity:   e,
				Position: sq.pos,
				Err:      fmt.Errorf("%s: %w", e, ErrNoDecision),
			})
			target = sq.pos
		} else if dst := w.Square(target); dst != nil && dst.traits.Blocking {
			target = sq.pos
			if dst.traits.OnBlockedEntry != nil {
				dst.traits.OnBlockedEntry(e)
			}
		}

		groups.add(target, e)
	}

	return groups
}

func (w *World) inCollision(g *CollisionGroup) bool {
	switch len(g.Entities) {
	case 0:
		return false
	case 1:
		sq := w.Square(g.Position)
		return sq != nil && sq.traits.Blocking
	default:
		return true
	}
}

func (w *World) firstCollision(groups *groupSet) *CollisionGroup {
	for _, g := range groups.groups {
		if w.inCollision(g) {
			return g
		}
	}
	return nil
}

// resolveCollisions hands the first colliding group to the policy and folds
// the answer back in, rescanning from the start each time, until a scan
// finds nothing or the round cap is reached.
func (w *World) resolveCollisions(groups *groupSet) (rounds int, converged bool) {
	for {
		g := w.firstCollision(groups)
		if g == nil {
			return rounds, true
		}
		if rounds >= w.maxRounds {
			w.report(Diagnostic{
				Kind:     KindNonConvergence,
				Position: g.Position,
				Err:      fmt.Errorf("%d entities still at %s after %d rounds: %w", len(g.Entities), g.Position, rounds, ErrNotConverged),
			})
			return rounds, false
		}
		rounds++
		w.resolve(groups, g)
	}
}

func (w *World) resolve(groups *groupSet, g *CollisionGroup) {
	entities := groups.take(g)

	if w.policy == nil {
		w.report(Diagnostic{Kind: KindConfiguration, Position: g.Position, Err: ErrNoPolicy})
		return
	}

	assignments := w.policy(w, g.Position, entities)
	if len(assignments) == 0 {
		w.report(Diagnostic{
			Kind:     KindPolicyContract,
			Position: g.Position,
			Err:      fmt.Errorf("group of %d at %s: %w", len(entities), g.Position, ErrPolicyNoResult),
		})
		return
	}

	given := make(map[*Entity]bool, len(entities))
	for _, e := range entities {
		given[e] = true
	}

	for _, a := range assignments {
		if a.Entity == nil || !given[a.Entity] || groups.holds(a.Entity) {
			w.report(Diagnostic{
				Kind:     KindPolicyContract,
				Entity:   a.Entity,
				Position: a.Position,
				Err:      fmt.Errorf("unexpected or duplicate assignment for the group at %s: %w", g.Position, ErrPolicyIncomplete),
			})
			continue
		}
		groups.add(a.Position, a.Entity)
	}

	for _, e := range entities {
		if !groups.holds(e) {
			w.report(Diagnostic{
				Kind:     KindPolicyContract,
				Entity:   e,
				Position: g.Position,
				Err:      fmt.Errorf("no assignment for %s: %w", e, ErrPolicyIncomplete),
			})
		}
	}
}

type plannedMove struct {
	entity   *Entity
	from, to Position
	resolved bool
}

// commit turns the resolved groups into moves. Each non-empty group moves
// its first entity; everybody else stays. Targets that are off the grid, on
// a blocking square, or claimed twice (possible after a dropped group or a
// capped resolution) are downgraded to stays until every target is unique,
// then all movers leave their squares before any of them arrives.
func (w *World) commit(groups *groupSet) int {
	moves := make([]plannedMove, 0, len(w.positions))
	planned := make(map[*Entity]bool, len(w.positions))

	for _, g := range groups.groups {
		if len(g.Entities) == 0 {
			continue
		}
		e := g.Entities[0]
		from, ok := w.PositionOf(e)
		if !ok || planned[e] {
			continue
		}
		to := g.Position
		if err := w.checkTarget(to, from); err != nil {
			w.report(Diagnostic{Kind: KindInvalidMove, Entity: e, Position: to, Err: fmt.Errorf("move %s to %s: %w", e, to, err)})
			to = from
		}
		moves = append(moves, plannedMove{entity: e, from: from, to: to, resolved: true})
		planned[e] = true
	}

	for _, sq := range w.squares {
		if e := sq.occupant; e != nil && !planned[e] {
			moves = append(moves, plannedMove{entity: e, from: sq.pos, to: sq.pos})
			planned[e] = true
		}
	}

	for w.dropConflict(moves) {
	}

	for _, m := range moves {
		if m.resolved {
			m.entity.lastPosition, m.entity.hasLast = m.from, true
		}
	}
	for _, m := range moves {
		if m.to != m.from {
			w.vacate(m.entity, m.from)
		}
	}
	n := 0
	for _, m := range moves {
		if m.to != m.from {
			w.occupy(m.entity, m.to)
			n++
		}
	}
	return n
}

func (w *World) checkTarget(to, from Position) error {
	if !w.InBounds(to) {
		return ErrOutOfBounds
	}
	if to != from && w.squares[w.index(to)].traits.Blocking {
		return ErrBlocked
	}
	return nil
}

// dropConflict finds the first target claimed twice and sends one mover
// back to where it stands. It reports whether anything changed.
func (w *World) dropConflict(moves []plannedMove) bool {
	owner := make(map[Position]int, len(moves))
	for i := range moves {
		j, taken := owner[moves[i].to]
		if !taken {
			owner[moves[i].to] = i
			continue
		}
		k := i
		if moves[i].to == moves[i].from {
			k = j
		}
		m := &moves[k]
		w.report(Diagnostic{
			Kind:     KindInvalidMove,
			Entity:   m.entity,
			Position: m.to,
			Err:      fmt.Errorf("move %s to %s: %w", m.entity, m.to, ErrOccupied),
		})
		m.to = m.from
		return true
	}
	return false
}
