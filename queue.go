package sistosched

// Queue is the ready set shared by every algorithm. Order is insertion order;
// selection helpers scan it front to back so ties go to whoever got in first.
type Queue struct {
	q []*procState
}

func newQueue() *Queue {
	return &Queue{q: make([]*procState, 0)}
}

func (q *Queue) String() string {
	str := "["
	for i, p := range q.q {
		if i > 0 {
			str += ", "
		}
		str += p.String()
	}
	return str + "]"
}

func (q *Queue) enq(p *procState) {
	q.q = append(q.q, p)
}

func (q *Queue) deq() *procState {
	if len(q.q) == 0 {
		return nil
	}
	procSelected := q.q[0]
	q.q = q.q[1:]
	return procSelected
}

func (q *Queue) qlen() int {
	return len(q.q)
}

// returns the index of the first proc for which less says nothing ahead of it is smaller
func (q *Queue) minIndex(less func(a, b *procState) bool) int {
	if len(q.q) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(q.q); i++ {
		if less(q.q[i], q.q[best]) {
			best = i
		}
	}
	return best
}

func (q *Queue) at(i int) *procState {
	return q.q[i]
}

// removes and returns the proc at index i, keeping the order of the rest
func (q *Queue) removeAt(i int) *procState {
	p := q.q[i]
	q.q = append(q.q[:i], q.q[i+1:]...)
	return p
}

// pops the first minimum according to less
func (q *Queue) deqMin(less func(a, b *procState) bool) *procState {
	i := q.minIndex(less)
	if i < 0 {
		return nil
	}
	return q.removeAt(i)
}
