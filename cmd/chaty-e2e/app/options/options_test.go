package options

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.openly.dev/pointy"

	"github.com/chaty-app/chaty-e2e/internal/fixture"
)

func TestValidateReportsEveryProblem(t *testing.T) {
	o := NewRunOptions()
	o.Browser.Browser = "netscape"
	o.Execution.Workers = 0
	o.Output.Format = "xml"

	err := o.Validate()
	require.Error(t, err)

	for _, want := range []string{"suite path", "netscape", "--workers", "xml"} {
		assert.Contains(t, err.Error(), want)
	}

	o = NewRunOptions()
	o.Suite.Paths = []string{"suites"}
	assert.NoError(t, o.Validate())
}

func TestFixtureSource(t *testing.T) {
	o := NewFixtureOptions()
	o.BaseURL = "http://flag:3000"
	o.Values = map[string]string{"Password": "hunter22"}

	src := o.Source(map[string]string{"username": "suiteuser"})

	assert.Equal(t, map[string]string{"base_url": "http://flag:3000", "password": "hunter22"}, src.Overrides)
	assert.Equal(t, "suiteuser", src.Defaults["username"])
}

func TestBrowserConfig(t *testing.T) {
	o := NewBrowserOptions()
	o.Headed = true
	o.AuthToken = "tok"

	c := o.Config()
	assert.False(t, c.Headless)
	assert.Equal(t, "tok", c.AuthToken)
	assert.Equal(t, 30*time.Second, c.NavigationTimeout)
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "login.yaml"), []byte(`
name: login
fixtures:
  username: '{{ unique "user" }}'
requires: [username]
scenarios:
  - name: a
    steps: [{navigate: /login}]
`), 0o644))

	o := NewRunOptions()
	o.Suite.Paths = []string{dir}
	o.Fixture.BaseURL = "http://localhost:3000/"
	o.Fixture.RunID = "r1"
	o.Execution.Workers = 3
	o.Browser.AuthToken = "tok"

	c, err := o.Config()
	require.NoError(t, err)

	require.Len(t, c.Suites, 1)
	assert.Equal(t, 3, c.Scheduler.Workers)
	assert.Equal(t, "http://localhost:3000", c.Activation.BaseURL)
	assert.NotNil(t, c.Activation.TokenSource)

	username, err := c.Fixtures.Get("username")
	require.NoError(t, err)
	assert.Equal(t, "user-r1", username)
}

func TestConfigMissingRequiredFixture(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(`
name: a
requires: [admin_password]
scenarios:
  - name: a
    steps: [{navigate: /}]
`), 0o644))

	o := NewRunOptions()
	o.Suite.Paths = []string{dir}
	o.Fixture.BaseURL = "http://localhost:3000"

	_, err := o.Config()

	var cfgErr *fixture.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "admin_password")
}

func TestExecutionValidate(t *testing.T) {
	tests := []struct {
		name    string
		workers *int
		timeout time.Duration
		wantErr bool
	}{
		{name: "defaults"},
		{name: "more workers", workers: pointy.Int(8)},
		{name: "no workers", workers: pointy.Int(0), wantErr: true},
		{name: "negative timeout", timeout: -time.Second, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewExecutionOptions()
			if tt.workers != nil {
				o.Workers = *tt.workers
			}

			if tt.timeout != 0 {
				o.ElementTimeout = tt.timeout
			}

			if tt.wantErr {
				assert.Error(t, o.Validate())
			} else {
				assert.NoError(t, o.Validate())
			}
		})
	}
}
