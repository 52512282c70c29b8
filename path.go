package fsm

// entryPath is a bounded stack of states to enter. States are pushed from
// the transition target toward Root, so pop yields the outermost state
// first.
type entryPath struct {
	states [MaxDepth]*State
	size   int
}

func (p *entryPath) reset() {
	clear(p.states[:p.size])
	p.size = 0
}

func (p *entryPath) full() bool {
	return p.size == len(p.states)
}

func (p *entryPath) push(s *State) {
	p.states[p.size] = s
	p.size++
}

func (p *entryPath) pop() *State {
	if p.size == 0 {
		return nil
	}
	p.size--
	s := p.states[p.size]
	p.states[p.size] = nil
	return s
}

// index returns the position of s in the path, or -1.
func (p *entryPath) index(s *State) int {
	for i := 0; i < p.size; i++ {
		if p.states[i] == s {
			return i
		}
	}
	return -1
}

// truncate keeps the first n states: those nearer the target than position n.
func (p *entryPath) truncate(n int) {
	clear(p.states[n:p.size])
	p.size = n
}
