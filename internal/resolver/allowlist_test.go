package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowList_EmptyAllowsEverything(t *testing.T) {
	log, _ := nullLogger()
	var a *allowList = newAllowList(nil, false, log)
	assert.Nil(t, a)
	assert.True(t, a.allows("/anything/at/all.js"))
}

func TestAllowList_IncludeAndExclude(t *testing.T) {
	log, _ := nullLogger()
	a := newAllowList([]string{"/ws/**", "!**/node_modules/**"}, false, log)

	assert.True(t, a.allows("/ws/src/app.js"))
	assert.True(t, a.allows("file:///ws/src/app.js"))
	assert.False(t, a.allows("/ws/node_modules/lib/index.js"))
	assert.False(t, a.allows("/other/app.js"))
}

func TestAllowList_OnlyNegations(t *testing.T) {
	log, _ := nullLogger()
	a := newAllowList([]string{"!**/vendor/**"}, false, log)
	assert.True(t, a.allows("/ws/app.js"))
	assert.False(t, a.allows("/ws/vendor/x.js"))
}

func TestAllowList_CaseInsensitive(t *testing.T) {
	log, _ := nullLogger()
	sensitive := newAllowList([]string{"/WS/**"}, false, log)
	insensitive := newAllowList([]string{"/WS/**"}, true, log)
	assert.False(t, sensitive.allows("/ws/a.js"))
	assert.True(t, insensitive.allows("/ws/a.js"))
}

func TestAllowList_InvalidPatternIgnored(t *testing.T) {
	log, hook := nullLogger()
	a := newAllowList([]string{"/ws/[", "/ws/**"}, false, log)
	assert.True(t, a.allows("/ws/a.js"))
	assert.Len(t, hook.AllEntries(), 1)
}
