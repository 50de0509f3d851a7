package middleware

import (
	"regexp"
	"strings"

	"github.com/gobwas/glob"

	vcerrors "git.home.luguber.info/inful/viewcraft/errors"
)

// Pattern matches a document path and optionally extracts named parameters.
// Parameters are pass-through only: the dispatcher records them on the
// document but never interprets them.
type Pattern interface {
	Match(path string) (bool, map[string]string)
	String() string
}

// Exact matches one path literally.
type Exact string

func (e Exact) Match(path string) (bool, map[string]string) {
	return string(e) == path, nil
}

func (e Exact) String() string { return string(e) }

// Glob matches with shell-style wildcards.
type Glob struct {
	src     string
	matcher glob.Glob
}

// NewGlob compiles a glob pattern.
func NewGlob(pattern string) (*Glob, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, vcerrors.Wrap(err, vcerrors.CategoryConfig, "invalid glob pattern")
	}
	return &Glob{src: pattern, matcher: g}, nil
}

func (g *Glob) Match(path string) (bool, map[string]string) {
	return g.matcher.Match(path), nil
}

func (g *Glob) String() string { return g.src }

// Regexp matches with a regular expression. Named capture groups become
// parameters.
type Regexp struct {
	re *regexp.Regexp
}

// NewRegexp compiles a regular expression pattern.
func NewRegexp(expr string) (*Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, vcerrors.Wrap(err, vcerrors.CategoryConfig, "invalid regexp pattern")
	}
	return &Regexp{re: re}, nil
}

func (r *Regexp) Match(path string) (bool, map[string]string) {
	m := r.re.FindStringSubmatch(path)
	if m == nil {
		return false, nil
	}
	var params map[string]string
	for i, name := range r.re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		if params == nil {
			params = map[string]string{}
		}
		params[name] = m[i]
	}
	return true, params
}

func (r *Regexp) String() string { return r.re.String() }

// Parse builds a Pattern from its string form: `/expr/` compiles as a
// regular expression, strings containing glob metacharacters compile as
// globs, anything else matches exactly.
func Parse(pattern string) (Pattern, error) {
	if len(pattern) >= 2 && strings.HasPrefix(pattern, "/") && strings.HasSuffix(pattern, "/") {
		inner := pattern[1 : len(pattern)-1]
		if inner != "" {
			return NewRegexp(inner)
		}
	}
	if strings.ContainsAny(pattern, "*?[{") {
		return NewGlob(pattern)
	}
	return Exact(pattern), nil
}
