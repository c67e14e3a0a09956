// Package match applies extraction rules to document text using
// backtracking regular expressions from github.com/dlclark/regexp2.
package match

import (
	"strings"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/fwojciec/pdfrules"
)

// DefaultMatchTimeout bounds a single match attempt so that a pathological
// pattern cannot stall a run.
const DefaultMatchTimeout = 5 * time.Second

// options makes ^ and $ match at line boundaries and lets . match newlines.
const options = regexp2.Multiline | regexp2.Singleline

// Matcher compiles and applies rule patterns. Compiled patterns are cached
// by pattern text, so a Matcher may be shared across runs and goroutines.
type Matcher struct {
	// Timeout bounds each match attempt. Zero disables the bound.
	Timeout time.Duration

	mu    sync.Mutex
	cache map[string]*regexp2.Regexp
}

// NewMatcher returns a new Matcher with an empty pattern cache and
// DefaultMatchTimeout.
func NewMatcher() *Matcher {
	return &Matcher{
		Timeout: DefaultMatchTimeout,
		cache:   make(map[string]*regexp2.Regexp),
	}
}

// Compile returns the compiled form of pattern.
// Returns EPATTERN if the pattern is not a valid expression.
func (m *Matcher) Compile(pattern string) (*regexp2.Regexp, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if re, ok := m.cache[pattern]; ok {
		return re, nil
	}

	re, err := regexp2.Compile(pattern, options)
	if err != nil {
		return nil, pdfrules.Errorf(pdfrules.EPATTERN, "invalid pattern %q: %v", pattern, err)
	}
	if m.Timeout > 0 {
		re.MatchTimeout = m.Timeout
	}
	m.cache[pattern] = re
	return re, nil
}

// MatchSingle returns the trimmed text of group in the first match of
// pattern in text. It returns nil and no error when nothing matches.
// Returns EPATTERN for invalid patterns or a timed out match and EGROUP
// when the group is out of range or did not take part in the match.
func (m *Matcher) MatchSingle(pattern, text string, group int) (*string, error) {
	re, err := m.Compile(pattern)
	if err != nil {
		return nil, err
	}

	match, err := re.FindStringMatch(text)
	if err != nil {
		return nil, pdfrules.Errorf(pdfrules.EPATTERN, "matching %q failed: %v", pattern, err)
	}
	if match == nil {
		return nil, nil
	}
	return groupValue(match, group)
}

// MatchAll returns the trimmed text of group for every match of pattern
// in text, in order of occurrence. Empty matches count, including one
// directly after a previous match. Matches whose group is unavailable
// yield nil entries and an EGROUP error is returned alongside the values.
// Returns EPATTERN and no values for invalid patterns or a timed out match.
func (m *Matcher) MatchAll(pattern, text string, group int) ([]*string, error) {
	re, err := m.Compile(pattern)
	if err != nil {
		return nil, err
	}

	values := []*string{}
	var groupErr error
	match, err := re.FindStringMatch(text)
	for ; match != nil && err == nil; match, err = re.FindNextMatch(match) {
		v, gerr := groupValue(match, group)
		if gerr != nil && groupErr == nil {
			groupErr = gerr
		}
		values = append(values, v)
	}
	if err != nil {
		return nil, pdfrules.Errorf(pdfrules.EPATTERN, "matching %q failed: %v", pattern, err)
	}
	return values, groupErr
}

func groupValue(match *regexp2.Match, group int) (*string, error) {
	g := match.GroupByNumber(group)
	if g == nil {
		return nil, pdfrules.Errorf(pdfrules.EGROUP, "group %d out of range, pattern has %d groups", group, match.GroupCount()-1)
	}
	if len(g.Captures) == 0 {
		return nil, pdfrules.Errorf(pdfrules.EGROUP, "group %d did not participate in the match", group)
	}
	v := strings.TrimSpace(g.String())
	return &v, nil
}
