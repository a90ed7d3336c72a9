// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tags parses boolean tag expressions such as `go&(web|!draft)` and
// renders them as SQL predicates over the bookmark_tags table.
//
// Grammar, lowest precedence first:
//
//	expr  = and { "|" and }
//	and   = unary { "&" unary }
//	unary = [ "!" ] ( "(" expr ")" | label )
package tags

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var tagPattern = regexp.MustCompile(`^[\p{L}\p{N}_\-+*/\\.:~=<>#@ ]+$`)

// ErrInvalidExpression is returned for malformed tag expressions.
var ErrInvalidExpression = errors.New("invalid tag expression")

// LabelKey returns the case-folded key used to compare tag labels. Two labels
// with the same key are considered the same tag.
func LabelKey(label string) string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(label))
}

// ValidLabel reports whether label can be used as a tag label.
func ValidLabel(label string) bool {
	label = strings.TrimSpace(label)
	return label != "" && tagPattern.MatchString(label)
}

// Expr is a parsed tag expression.
type Expr interface {
	// Match evaluates the expression against a set of tag label keys.
	Match(keys map[string]bool) bool
	appendSQL(b *strings.Builder, args *[]any, alias string)
}

type leaf struct {
	key     string
	negated bool
}

func (l leaf) Match(keys map[string]bool) bool {
	return keys[l.key] != l.negated
}

func (l leaf) appendSQL(b *strings.Builder, args *[]any, alias string) {
	if l.negated {
		b.WriteString("NOT ")
	}
	b.WriteString("EXISTS (SELECT 1 FROM bookmark_tags AS bt JOIN tags AS t ON t.id = bt.tag_id WHERE bt.bookmark_id = ")
	b.WriteString(alias)
	b.WriteString(".id AND t.label_key = ?)")
	*args = append(*args, l.key)
}

type group struct {
	and     bool
	items   []Expr
	negated bool
}

func (g group) Match(keys map[string]bool) bool {
	var res bool
	if g.and {
		res = true
		for _, it := range g.items {
			if !it.Match(keys) {
				res = false
				break
			}
		}
	} else {
		for _, it := range g.items {
			if it.Match(keys) {
				res = true
				break
			}
		}
	}
	return res != g.negated
}

func (g group) appendSQL(b *strings.Builder, args *[]any, alias string) {
	op := " OR "
	if g.and {
		op = " AND "
	}
	if g.negated {
		b.WriteString("NOT ")
	}
	b.WriteByte('(')
	for i, it := range g.items {
		if i > 0 {
			b.WriteString(op)
		}
		it.appendSQL(b, args, alias)
	}
	b.WriteByte(')')
}

// Parse parses a tag expression.
func Parse(expr string) (Expr, error) {
	if err := checkBalanced(expr); err != nil {
		return nil, err
	}
	return parse(expr, false)
}

func parse(expr string, negate bool) (Expr, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("%w: empty term", ErrInvalidExpression)
	}

	// or
	if exprs := splitOnTopLevelChar(expr, '|'); len(exprs) > 1 {
		return parseGroup(exprs, false, negate)
	}

	// and
	if exprs := splitOnTopLevelChar(expr, '&'); len(exprs) > 1 {
		return parseGroup(exprs, true, negate)
	}

	// negation
	if rest, ok := strings.CutPrefix(expr, "!"); ok {
		return parse(rest, !negate)
	}

	// braces
	if strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		return parse(expr[1:len(expr)-1], negate)
	}

	if !tagPattern.MatchString(expr) {
		return nil, fmt.Errorf("%w: invalid tag %q", ErrInvalidExpression, expr)
	}
	return leaf{key: LabelKey(expr), negated: negate}, nil
}

func parseGroup(exprs []string, and bool, negate bool) (Expr, error) {
	g := group{and: and, negated: negate}
	for _, e := range exprs {
		it, err := parse(e, false)
		if err != nil {
			return nil, err
		}
		g.items = append(g.items, it)
	}
	return g, nil
}

func checkBalanced(expr string) error {
	depth := 0
	for _, ch := range expr {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unexpected ')'", ErrInvalidExpression)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: unclosed '('", ErrInvalidExpression)
	}
	return nil
}

func splitOnTopLevelChar(expr string, op rune) []string {
	var result []string
	depth := 0
	start := 0

	for i, ch := range expr {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		case op:
			if depth == 0 {
				result = append(result, expr[start:i])
				start = i + 1
			}
		}
	}

	result = append(result, expr[start:])
	return result
}

// SQL renders expr as a WHERE predicate for a query whose bookmarks table is
// aliased as alias. Placeholders use bun's `?` syntax.
func SQL(expr Expr, alias string) (string, []any) {
	var b strings.Builder
	var args []any
	expr.appendSQL(&b, &args, alias)
	return b.String(), args
}

// MatchLabels evaluates expr against tag labels (not keys).
func MatchLabels(expr Expr, labels []string) bool {
	keys := make(map[string]bool, len(labels))
	for _, l := range labels {
		keys[LabelKey(l)] = true
	}
	return expr.Match(keys)
}
