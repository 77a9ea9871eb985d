package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, v string) {
	old := appVersion
	appVersion = v

	t.Cleanup(func() { appVersion = old })
}

func TestGet(t *testing.T) {
	withVersion(t, "v1.2.0")

	info := Get()

	assert.Equal(t, "v1.2.0", info.AppVersion)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.True(t, strings.HasPrefix(info.String(), "chaty-e2e v1.2.0\n"))
}

func TestUserAgent(t *testing.T) {
	withVersion(t, "v1.2.0")

	assert.Equal(t, "chaty-e2e/v1.2.0 ("+runtime.GOOS+")", UserAgent())
}

func TestResolvedVersionFallsBack(t *testing.T) {
	withVersion(t, "dev")

	assert.NotEmpty(t, resolvedVersion())
}
