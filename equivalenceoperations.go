package fsm

import (
	"slices"
	"strings"
)

// Equivalent reports whether two Moore machines are the same machine up to a
// renaming of their reachable states.
//
// Both machines are walked breadth first from their start states while a one-to-one state mapping is
// built. Paired states must have the same output, and on every symbol of either alphabet the same
// number of destinations; destinations are paired in lexicographic order of their names. Any pairing
// that contradicts the mapping built so far, in either direction, makes the machines different.
//
// The answer is exact for deterministic machines. For nondeterministic ones the name-order pairing is a
// heuristic and may report false for machines that some other pairing would match.
func Equivalent(a, b *Automaton) (bool, error) {
	if a.kind != Moore {
		return false, malformed("", "expected a moore machine, got %s", a.kind)
	}
	if b.kind != Moore {
		return false, malformed("", "expected a moore machine, got %s", b.kind)
	}

	alphabet := slices.Concat(a.alphabet, b.alphabet)
	slices.Sort(alphabet)
	alphabet = slices.Compact(alphabet)

	forward := make([]int, a.GetNumStates())
	reverse := make([]int, b.GetNumStates())
	for i := range forward {
		forward[i] = -1
	}
	for i := range reverse {
		reverse[i] = -1
	}

	pair := func(s1, s2 int) (fresh, ok bool) {
		switch {
		case forward[s1] == -1 && reverse[s2] == -1:
			if a.outputs[s1] != b.outputs[s2] {
				return false, false
			}
			forward[s1], reverse[s2] = s2, s1
			return true, true
		case forward[s1] == s2:
			return false, true
		}
		return false, false
	}

	if _, ok := pair(a.start, b.start); !ok {
		return false, nil
	}
	workList := [][2]int{{a.start, b.start}}
	for len(workList) > 0 {
		current := workList[0]
		workList = workList[1:]

		for _, sym := range alphabet {
			t1 := sortedByName(a, a.Targets(current[0], sym))
			t2 := sortedByName(b, b.Targets(current[1], sym))
			if len(t1) != len(t2) {
				return false, nil
			}
			for i := range t1 {
				fresh, ok := pair(t1[i], t2[i])
				if !ok {
					return false, nil
				}
				if fresh {
					workList = append(workList, [2]int{t1[i], t2[i]})
				}
			}
		}
	}
	return true, nil
}

func sortedByName(a *Automaton, states []int) []int {
	slices.SortFunc(states, func(x, y int) int {
		return strings.Compare(a.names[x], a.names[y])
	})
	return states
}
