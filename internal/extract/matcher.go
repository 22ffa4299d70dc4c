package extract

import (
	"strings"
	"unicode"
)

// fields is the raw capture set of one successful grammar match.
type fields struct {
	span     string
	family   string
	location string
	rank     string
	validity string
	remarks  string
}

// matcher is a backtracking recursive-descent matcher for one results row:
//
//	seq span family location rank validity remarks
//
// span is non-greedy, family is resolved shortest-first, location ends at the first
// rank tier word, rank is non-greedy up to the unit with greedy "或…職等" continuations.
type matcher struct {
	tiers        [][]rune
	unit         []rune
	continuation []rune
	label        []rune
	remarksLabel string
}

func newMatcher(v Vocabulary) *matcher {
	m := &matcher{
		unit:         []rune(v.RankUnit),
		continuation: []rune(v.RankContinuation),
		label:        []rune(v.ValidityLabel),
		remarksLabel: v.RemarksLabel,
	}
	for _, t := range v.RankTiers {
		if t != "" {
			m.tiers = append(m.tiers, []rune(t))
		}
	}
	return m
}

// memo records rank and continuation start positions already known to fail. The
// outcome at a position does not depend on where the span or family ended, so one
// memo serves a whole match call and keeps backtracking polynomial.
type memo struct {
	rankFailed []bool
	contFailed []bool
}

func newMemo(n int) *memo {
	return &memo{rankFailed: make([]bool, n+1), contFailed: make([]bool, n+1)}
}

func (m *matcher) match(line string) (fields, bool) {
	rs := []rune(line)
	seen := newMemo(len(rs))
	i := 0
	for i < len(rs) && unicode.IsSpace(rs[i]) {
		i++
	}
	d := i
	for d < len(rs) && isDigit(rs[d]) {
		d++
	}
	// the sequence number is greedy but gives digits back to the span if nothing else fits
	for seqEnd := d; seqEnd > i; seqEnd-- {
		for spanEnd := seqEnd + 1; spanEnd <= len(rs); spanEnd++ {
			if f, ok := m.matchFamily(rs, spanEnd, seen); ok {
				f.span = string(rs[seqEnd:spanEnd])
				return f, true
			}
		}
	}
	return fields{}, false
}

func (m *matcher) matchFamily(rs []rune, p int, seen *memo) (fields, bool) {
	q := p
	if q < len(rs) && rs[q] == '[' {
		q++
	}
	n := nameRun(rs, q)
	for k := 1; k <= n; k++ {
		end := q + k
		r := end
		if r < len(rs) && rs[r] == ']' {
			r++
		}
		if r < len(rs) && rs[r] == ',' {
			r++
		}
		locEnd, ok := m.scanLocation(rs, r)
		if !ok {
			continue
		}
		f, ok := m.matchRank(rs, locEnd, seen)
		if !ok {
			continue
		}
		f.family = string(rs[q:end])
		f.location = string(rs[r:locEnd])
		return f, true
	}
	return fields{}, false
}

// scanLocation matches "<1-3 digits>-<name>" at i. The name stops before the first
// rank tier word; without one it takes the whole name run.
func (m *matcher) scanLocation(rs []rune, i int) (int, bool) {
	d := 0
	for i+d < len(rs) && isDigit(rs[i+d]) {
		d++
	}
	if d < 1 || d > 3 || i+d >= len(rs) || rs[i+d] != '-' {
		return 0, false
	}
	start := i + d + 1
	n := nameRun(rs, start)
	if n == 0 {
		return 0, false
	}
	for j := start + 1; j < start+n; j++ {
		if m.tierAt(rs, j) != nil {
			return j, true
		}
	}
	return start + n, true
}

func (m *matcher) tierAt(rs []rune, i int) []rune {
	for _, t := range m.tiers {
		if hasPrefixAt(rs, i, t) {
			return t
		}
	}
	return nil
}

func (m *matcher) matchRank(rs []rune, t int, seen *memo) (fields, bool) {
	if seen.rankFailed[t] {
		return fields{}, false
	}
	tier := m.tierAt(rs, t)
	if tier != nil {
		for e := indexFrom(rs, m.unit, t+len(tier)); e >= 0; e = indexFrom(rs, m.unit, e+1) {
			if end, f, ok := m.matchContinuation(rs, e+len(m.unit), seen); ok {
				f.rank = string(rs[t:end])
				return f, true
			}
		}
	}
	seen.rankFailed[t] = true
	return fields{}, false
}

// matchContinuation matches zero or more "或…職等" continuations at r followed by the
// validity field. end is where the rank range stops.
func (m *matcher) matchContinuation(rs []rune, r int, seen *memo) (end int, f fields, ok bool) {
	if seen.contFailed[r] {
		return 0, fields{}, false
	}
	if len(m.continuation) > 0 && hasPrefixAt(rs, r, m.continuation) {
		for e := indexFrom(rs, m.unit, r+len(m.continuation)); e >= 0; e = indexFrom(rs, m.unit, e+1) {
			if next, nf, matched := m.matchContinuation(rs, e+len(m.unit), seen); matched {
				return next, nf, true
			}
		}
	}
	if vf, matched := m.matchValidity(rs, r); matched {
		return r, vf, true
	}
	seen.contFailed[r] = true
	return 0, fields{}, false
}

func (m *matcher) matchValidity(rs []rune, v int) (fields, bool) {
	if !hasPrefixAt(rs, v, m.label) {
		return fields{}, false
	}
	v += len(m.label)
	if v < len(rs) && (rs[v] == ':' || rs[v] == '：') {
		v++
	}
	v = skipSpace(rs, v)
	start, end, ok := scanDatePair(rs, v)
	if !ok {
		return fields{}, false
	}
	return fields{
		validity: string(rs[start:end]),
		remarks:  m.cleanRemarks(string(rs[end:])),
	}, true
}

func (m *matcher) cleanRemarks(s string) string {
	s = strings.TrimSpace(s)
	if m.remarksLabel != "" && strings.HasPrefix(s, m.remarksLabel) {
		s = strings.TrimPrefix(s, m.remarksLabel)
		s = strings.TrimLeft(s, ":：")
	}
	return strings.TrimSpace(s)
}

// scanDatePair matches "YYY/MM/DD ~ YYY/MM/DD" at i.
func scanDatePair(rs []rune, i int) (start, end int, ok bool) {
	j, ok := scanDate(rs, i)
	if !ok {
		return 0, 0, false
	}
	j = skipSpace(rs, j)
	if j >= len(rs) || rs[j] != '~' {
		return 0, 0, false
	}
	j = skipSpace(rs, j+1)
	k, ok := scanDate(rs, j)
	if !ok {
		return 0, 0, false
	}
	return i, k, true
}

// scanDate matches the three-part ROC date "113/01/31".
func scanDate(rs []rune, i int) (int, bool) {
	for part, width := range [...]int{3, 2, 2} {
		if part > 0 {
			if i >= len(rs) || rs[i] != '/' {
				return 0, false
			}
			i++
		}
		for n := 0; n < width; n++ {
			if i >= len(rs) || !isDigit(rs[i]) {
				return 0, false
			}
			i++
		}
	}
	return i, true
}

func skipSpace(rs []rune, i int) int {
	for i < len(rs) && unicode.IsSpace(rs[i]) {
		i++
	}
	return i
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNameRune(r rune) bool {
	return (r >= 0x4e00 && r <= 0x9fa5) ||
		(r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || isDigit(r)
}

func nameRun(rs []rune, i int) int {
	n := 0
	for i+n < len(rs) && isNameRune(rs[i+n]) {
		n++
	}
	return n
}

func hasPrefixAt(rs []rune, i int, p []rune) bool {
	if len(p) == 0 || i < 0 || i+len(p) > len(rs) {
		return false
	}
	for k, r := range p {
		if rs[i+k] != r {
			return false
		}
	}
	return true
}

func indexFrom(rs []rune, p []rune, from int) int {
	for i := from; i+len(p) <= len(rs); i++ {
		if hasPrefixAt(rs, i, p) {
			return i
		}
	}
	return -1
}
