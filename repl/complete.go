// Copyright © 2018 The ELPS authors

package repl

import (
	"sort"
	"strings"
	"unicode"

	"github.com/OMTS/Hop/hop"
)

// symbolCompleter implements readline.AutoCompleter by enumerating the names
// visible in the top level scope of a session.
type symbolCompleter struct {
	session *hop.Session
}

func isNameRune(ch rune) bool {
	return ch == '_' || ch == '.' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed, backwards from the cursor.
	start := pos
	for start > 0 && isNameRune(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectNames(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, name := range candidates {
		result = append(result, []rune(name[len(prefix):]))
	}
	return result, len([]rune(prefix))
}

// completion returns the text completing a bound name.  Functions complete
// up to their opening parenthesis.
func completion(name string) string {
	if i := strings.IndexByte(name, '('); i >= 0 {
		return name[:i+1]
	}
	return name
}

func (c *symbolCompleter) collectNames(prefix string) []string {
	seen := make(map[string]bool)
	var result []string
	add := func(name string) {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}

	modPrefix, _, qualified := strings.Cut(prefix, ".")
	for scope := c.session.Top(); scope != nil; scope = scope.Parent() {
		scope.Each(func(name string, sym hop.Symbol) {
			switch sym := sym.(type) {
			case *hop.Module:
				if qualified && name == modPrefix {
					// Complete the members of the module.
					for _, member := range sym.Scope.Names() {
						add(name + "." + completion(member))
					}
					return
				}
				add(name + ".")
			case *hop.Class:
				add(name)
			default:
				add(completion(name))
			}
		})
	}

	sort.Strings(result)
	return result
}
