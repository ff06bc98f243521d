package resolver

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/philjestin/pathresolver/internal/launch"
)

// base holds what every variant shares: the override pass and the source
// map allow-list.
type base struct {
	fs        FsUtils
	log       logrus.FieldLogger
	overrides []SourceMapOverride
	allow     *allowList
}

func newBase(fs FsUtils, log logrus.FieldLogger, v Variant, overrides launch.Pairs, patterns []string) base {
	log = log.WithField("variant", v.String())
	return base{
		fs:        fs,
		log:       log,
		overrides: compileOverrides(overrides, log),
		allow:     newAllowList(patterns, !fs.CaseSensitive(), log),
	}
}

// rewrite applies the source map overrides. changed reports whether one
// matched.
func (b base) rewrite(input string) (out string, changed bool) {
	out = applyOverrides(b.overrides, input)
	if out == input {
		return out, false
	}
	b.log.WithFields(logrus.Fields{"input": input, "output": out}).Trace("applied source map override")
	return out, true
}

func (b base) IsEligibleForSourceMap(_ context.Context, localPath string) bool {
	return b.allow.allows(localPath)
}

// unresolved logs a lookup that found no mapping.
func (b base) unresolved(input string) (string, bool) {
	b.log.WithField("input", input).Debug("no local mapping")
	return "", false
}
