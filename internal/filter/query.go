// Package filter narrows a route's entries with a small query language:
//
//	beach            name contains "beach" (case-insensitive, * globs)
//	ext:png          extension
//	size:>2MB        size comparison; units as understood by go-humanize
//	modified:>=2024-06-01, modified:<week
//	width:>=1920, height:<1080
//	is:selected, is:attached
//
// Terms are ANDed. Unlike a filesystem search it never touches the disk; it
// only sees what the cache already holds.
package filter

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/justyntemme/picroute/internal/nav"
)

// Kind is the attribute a Term tests.
type Kind int

const (
	KindName Kind = iota
	KindExt
	KindSize
	KindModified
	KindWidth
	KindHeight
	KindIs
)

// Op is a comparison operator.
type Op int

const (
	OpEq Op = iota
	OpGt
	OpLt
	OpGe
	OpLe
)

// Term is one parsed query term.
type Term struct {
	Kind  Kind
	Op    Op
	Text  string
	Num   int64
	Since time.Time
	// Until ends a calendar period such as a day or month (exclusive). It
	// equals Since for relative thresholds like "week".
	Until time.Time
}

// Query holds the parsed terms.
type Query struct {
	Terms []Term
	Raw   string
}

// Parse parses input. now anchors relative dates such as "today" or "week".
func Parse(input string, now time.Time) (*Query, error) {
	q := &Query{Raw: input}
	for _, tok := range tokenize(input) {
		t, err := parseTerm(tok, now)
		if err != nil {
			return nil, err
		}
		q.Terms = append(q.Terms, t)
	}
	return q, nil
}

// Empty reports whether the query has no terms.
func (q *Query) Empty() bool {
	return len(q.Terms) == 0
}

// tokenize splits on spaces outside single or double quotes.
func tokenize(s string) []string {
	var toks []string
	var cur strings.Builder
	var quote rune
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
		case r == quote:
			quote = 0
		case quote == 0 && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

func parseTerm(tok string, now time.Time) (Term, error) {
	key, value, ok := strings.Cut(tok, ":")
	if !ok || key == "" {
		return Term{Kind: KindName, Text: strings.ToLower(tok)}, nil
	}

	switch strings.ToLower(key) {
	case "name", "file", "filename":
		return Term{Kind: KindName, Text: strings.ToLower(value)}, nil

	case "ext", "type":
		value = strings.ToLower(value)
		if !strings.HasPrefix(value, ".") {
			value = "." + value
		}
		return Term{Kind: KindExt, Text: value}, nil

	case "size":
		op, rest := splitOp(value)
		n, err := humanize.ParseBytes(rest)
		if err != nil {
			return Term{}, fmt.Errorf("size %q: %w", value, err)
		}
		if n > math.MaxInt64 {
			n = math.MaxInt64
		}
		return Term{Kind: KindSize, Op: op, Num: int64(n)}, nil

	case "modified", "date", "mtime":
		op, rest := splitOp(value)
		since, until, err := parseDate(rest, now)
		if err != nil {
			return Term{}, err
		}
		return Term{Kind: KindModified, Op: op, Since: since, Until: until}, nil

	case "width", "height":
		op, rest := splitOp(value)
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return Term{}, fmt.Errorf("%s %q: not a number", key, value)
		}
		kind := KindWidth
		if strings.EqualFold(key, "height") {
			kind = KindHeight
		}
		return Term{Kind: kind, Op: op, Num: n}, nil

	case "is":
		switch v := strings.ToLower(value); v {
		case "selected", "attached":
			return Term{Kind: KindIs, Text: v}, nil
		}
		return Term{}, fmt.Errorf("is:%s: want selected or attached", value)
	}

	// Unknown prefix: treat the whole token as part of a name.
	return Term{Kind: KindName, Text: strings.ToLower(tok)}, nil
}

func splitOp(s string) (Op, string) {
	s = strings.TrimSpace(s)
	for _, p := range []struct {
		prefix string
		op     Op
	}{{">=", OpGe}, {"<=", OpLe}, {">", OpGt}, {"<", OpLt}, {"=", OpEq}} {
		if strings.HasPrefix(s, p.prefix) {
			return p.op, strings.TrimSpace(s[len(p.prefix):])
		}
	}
	return OpEq, s
}

var dateLayouts = []struct {
	layout string
	months int // period length; zero means one day
}{
	{"2006-01-02", 0},
	{"2006-01", 1},
	{"2006/01/02", 0},
	{"Jan 2, 2006", 0},
}

// parseDate returns the period [since, until) named by s. Relative
// thresholds such as "week" have since == until.
func parseDate(s string, now time.Time) (since, until time.Time, err error) {
	day := func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}
	switch strings.ToLower(s) {
	case "today":
		since = day(now)
		return since, since.AddDate(0, 0, 1), nil
	case "yesterday":
		since = day(now.AddDate(0, 0, -1))
		return since, since.AddDate(0, 0, 1), nil
	case "week":
		since = now.AddDate(0, 0, -7)
		return since, since, nil
	case "month":
		since = now.AddDate(0, -1, 0)
		return since, since, nil
	case "year":
		since = now.AddDate(-1, 0, 0)
		return since, since, nil
	}
	for _, d := range dateLayouts {
		t, err := time.ParseInLocation(d.layout, s, now.Location())
		if err != nil {
			continue
		}
		if d.months > 0 {
			return t, t.AddDate(0, d.months, 0), nil
		}
		return t, t.AddDate(0, 0, 1), nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("date %q: unrecognised", s)
}

// Match reports whether e satisfies every term.
func (q *Query) Match(e nav.Entry) bool {
	for _, t := range q.Terms {
		if !t.match(e) {
			return false
		}
	}
	return true
}

// Apply returns the indexes of the entries that match, in order.
func (q *Query) Apply(entries []nav.Entry) []int {
	var idx []int
	for i, e := range entries {
		if q.Match(e) {
			idx = append(idx, i)
		}
	}
	return idx
}

func (t Term) match(e nav.Entry) bool {
	switch t.Kind {
	case KindName:
		return globMatch(strings.ToLower(e.Name), t.Text)
	case KindExt:
		return strings.ToLower(filepath.Ext(e.Name)) == t.Text
	case KindSize:
		return compare(e.Size, t.Num, t.Op)
	case KindWidth:
		return e.Width > 0 && compare(int64(e.Width), t.Num, t.Op)
	case KindHeight:
		return e.Height > 0 && compare(int64(e.Height), t.Num, t.Op)
	case KindModified:
		return compareTime(e.ModTime, t.Since, t.Until, t.Op)
	case KindIs:
		if t.Text == "selected" {
			return e.Selected
		}
		return e.Origin == nav.Ephemeral
	}
	return true
}

// globMatch is a substring match, or a * glob when the pattern has one.
func globMatch(name, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return strings.Contains(name, pattern)
	}
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}

func compare(v, target int64, op Op) bool {
	switch op {
	case OpGt:
		return v > target
	case OpLt:
		return v < target
	case OpGe:
		return v >= target
	case OpLe:
		return v <= target
	}
	return v == target
}

// compareTime tests v against the period [since, until). When the two are
// equal the bound is an instant and "=" means "since then".
func compareTime(v, since, until time.Time, op Op) bool {
	instant := since.Equal(until)
	switch op {
	case OpGt:
		if instant {
			return v.After(since)
		}
		return !v.Before(until)
	case OpLt:
		return v.Before(since)
	case OpGe:
		return !v.Before(since)
	case OpLe:
		if instant {
			return !v.After(since)
		}
		return v.Before(until)
	}
	if instant {
		return !v.Before(since)
	}
	return !v.Before(since) && v.Before(until)
}
