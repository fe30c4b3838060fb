package engine

// Assignment places one entity at one position. Collision policies return
// one assignment per entity they were given.
type Assignment struct {
	Position Position
	Entity   *Entity
}

// CollisionPolicy splits a group of entities that all target the same
// position. It must be a pure decision over the view: the world applies the
// result, the policy never mutates anything.
type CollisionPolicy func(view View, at Position, entities []*Entity) []Assignment

// CollisionGroup is the set of entities targeting one position this tick.
// Two groups are the same group when their positions are equal.
type CollisionGroup struct {
	Position Position
	Entities []*Entity
}

// At reports whether the group sits at p
func (g *CollisionGroup) At(p Position) bool {
	return g.Position == p
}

func (g *CollisionGroup) contains(e *Entity) bool {
	for _, have := range g.Entities {
		if have == e {
			return true
		}
	}
	return false
}

// MergeGroups folds b into a: entities of a group in b are unioned into the
// group of a at the same position, groups at new positions are appended.
// Neither input is modified. Merging the same b twice yields the same result
// as merging it once.
func MergeGroups(a, b []*CollisionGroup) []*CollisionGroup {
	set := newGroupSet(len(a) + len(b))
	set.merge(a...)
	set.merge(b...)
	return set.groups
}

// groupSet is the working collection of the resolution loop: ordered groups
// with a position index so lookups don't scan, and a membership count per
// entity so policies can't smuggle an entity into two groups.
type groupSet struct {
	groups  []*CollisionGroup
	index   map[Position]*CollisionGroup
	members map[*Entity]int
}

func newGroupSet(capacity int) *groupSet {
	return &groupSet{
		groups:  make([]*CollisionGroup, 0, capacity),
		index:   make(map[Position]*CollisionGroup, capacity),
		members: make(map[*Entity]int, capacity),
	}
}

// merge unions each group into the set. Entity slices are copied so callers
// keep ownership of what they passed in.
func (s *groupSet) merge(groups ...*CollisionGroup) {
	for _, g := range groups {
		if g == nil {
			continue
		}
		have, ok := s.index[g.Position]
		if !ok {
			have = &CollisionGroup{Position: g.Position}
			s.groups = append(s.groups, have)
			s.index[g.Position] = have
		}
		for _, e := range g.Entities {
			if e == nil || have.contains(e) {
				continue
			}
			have.Entities = append(have.Entities, e)
			s.members[e]++
		}
	}
}

func (s *groupSet) add(p Position, e *Entity) {
	s.merge(&CollisionGroup{Position: p, Entities: []*Entity{e}})
}

// take empties g and returns the entities it held
func (s *groupSet) take(g *CollisionGroup) []*Entity {
	entities := g.Entities
	g.Entities = nil
	for _, e := range entities {
		s.members[e]--
		if s.members[e] <= 0 {
			delete(s.members, e)
		}
	}
	return entities
}

// holds reports whether e is in any group of the set
func (s *groupSet) holds(e *Entity) bool {
	return s.members[e] > 0
}
