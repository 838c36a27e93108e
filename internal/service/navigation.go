package service

// NavigationGate decides which question indices of an attempt can be opened.
// A question unlocks once the previous one is answered, and an answered
// question always stays open. It is rebuilt from the answered set on every
// request and keeps no state of its own.
type NavigationGate struct {
	questionIDs []uint
	answered    []bool
	index       map[uint]int
}

// NewNavigationGate takes the exam's question ids in order and the set of
// questions that currently hold a non-empty answer.
func NewNavigationGate(questionIDs []uint, answered map[uint]bool) *NavigationGate {
	g := &NavigationGate{
		questionIDs: questionIDs,
		answered:    make([]bool, len(questionIDs)),
		index:       make(map[uint]int, len(questionIDs)),
	}
	for i, id := range questionIDs {
		g.index[id] = i
		g.answered[i] = answered[id]
	}
	return g
}

func (g *NavigationGate) Len() int {
	return len(g.questionIDs)
}

// IndexOf returns the position of a question in the exam.
func (g *NavigationGate) IndexOf(questionID uint) (int, bool) {
	i, ok := g.index[questionID]
	return i, ok
}

func (g *NavigationGate) QuestionAt(index int) (uint, bool) {
	if index < 0 || index >= len(g.questionIDs) {
		return 0, false
	}
	return g.questionIDs[index], true
}

func (g *NavigationGate) CanNavigateTo(index int) bool {
	if index < 0 || index >= len(g.answered) {
		return false
	}
	if index == 0 || g.answered[index] {
		return true
	}
	return g.answered[index-1]
}

// Reachable lists every index the user may open, ascending.
func (g *NavigationGate) Reachable() []int {
	out := make([]int, 0, len(g.answered))
	for i := range g.answered {
		if g.CanNavigateTo(i) {
			out = append(out, i)
		}
	}
	return out
}

// NextRequiredIndex is the first unanswered index, or the last index when
// everything is answered. It is -1 for an exam without questions.
func (g *NavigationGate) NextRequiredIndex() int {
	for i, done := range g.answered {
		if !done {
			return i
		}
	}
	return len(g.answered) - 1
}

func (g *NavigationGate) AllAnswered() bool {
	for _, done := range g.answered {
		if !done {
			return false
		}
	}
	return true
}

// AnsweredCount is the number of questions holding a selection.
func (g *NavigationGate) AnsweredCount() int {
	n := 0
	for _, done := range g.answered {
		if done {
			n++
		}
	}
	return n
}
