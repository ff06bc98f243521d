package resolver

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/philjestin/pathresolver/internal/launch"
)

// SourceMapOverride rewrites a source URL whose literal parts match Pattern.
// Pattern holds at most one "*"; the text it matched is substituted for the
// "*" in Replacement.
type SourceMapOverride struct {
	Pattern     string
	Replacement string

	head, tail string
	wildcard   bool
}

// compileOverrides validates the declared overrides in order. Entries with
// more than one wildcard on a side, or a replacement wildcard without a
// pattern wildcard, are skipped with a warning. Patterns shadowed by an
// earlier pattern are kept but logged.
func compileOverrides(pairs launch.Pairs, log logrus.FieldLogger) []SourceMapOverride {
	out := make([]SourceMapOverride, 0, len(pairs))
	for _, kv := range pairs {
		left, right := strings.Count(kv.Key, "*"), strings.Count(kv.Value, "*")
		if left > 1 || right > 1 || right > left {
			log.WithFields(logrus.Fields{"pattern": kv.Key, "replacement": kv.Value}).
				Warn("ignoring sourceMapPathOverrides entry: at most one matching '*' is allowed")
			continue
		}
		o := SourceMapOverride{Pattern: kv.Key, Replacement: kv.Value, head: kv.Key}
		if left == 1 {
			o.head, o.tail, _ = strings.Cut(kv.Key, "*")
			o.wildcard = true
		}
		for _, prev := range out {
			if prev.shadows(o) {
				log.WithFields(logrus.Fields{"pattern": o.Pattern, "shadowedBy": prev.Pattern}).
					Info("sourceMapPathOverrides entry can never match: an earlier pattern wins")
				break
			}
		}
		out = append(out, o)
	}
	return out
}

// shadows reports whether every input matching later also matches o.
func (o SourceMapOverride) shadows(later SourceMapOverride) bool {
	if !o.wildcard {
		return !later.wildcard && strings.EqualFold(o.head, later.head)
	}
	if later.wildcard {
		return hasPrefixFold(later.head, o.head) && hasSuffixFold(later.tail, o.tail)
	}
	_, ok := o.match(later.head)
	return ok
}

// match returns the rewritten input. Matching ignores case.
func (o SourceMapOverride) match(input string) (string, bool) {
	if !o.wildcard {
		if strings.EqualFold(input, o.head) {
			return o.Replacement, true
		}
		return "", false
	}
	if len(input) < len(o.head)+len(o.tail) || !hasPrefixFold(input, o.head) || !hasSuffixFold(input, o.tail) {
		return "", false
	}
	star := input[len(o.head) : len(input)-len(o.tail)]
	return strings.Replace(o.Replacement, "*", star, 1), true
}

// applyOverrides runs the first matching override over input. With no
// match the input is returned unchanged.
func applyOverrides(overrides []SourceMapOverride, input string) string {
	for _, o := range overrides {
		if out, ok := o.match(input); ok {
			return out
		}
	}
	return input
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}
