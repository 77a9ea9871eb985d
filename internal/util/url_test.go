package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		ref  string
		want string
	}{
		{name: "absolute path", base: "http://localhost:3000", ref: "/login", want: "http://localhost:3000/login"},
		{name: "trailing slash base", base: "http://localhost:3000/", ref: "/signup", want: "http://localhost:3000/signup"},
		{name: "relative path", base: "http://localhost:3000", ref: "login", want: "http://localhost:3000/login"},
		{name: "base with prefix", base: "http://host/app", ref: "/login", want: "http://host/app/login"},
		{name: "absolute ref", base: "http://localhost:3000", ref: "http://other/x", want: "http://other/x"},
		{name: "query kept", base: "http://localhost:3000", ref: "/a?b=c", want: "http://localhost:3000/a?b=c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveURL(tt.base, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSameURL(t *testing.T) {
	assert.True(t, SameURL("http://localhost:3000", "http://localhost:3000/"))
	assert.True(t, SameURL("HTTP://LOCALHOST:3000/signup", "http://localhost:3000/signup"))
	assert.False(t, SameURL("http://localhost:3000/signup", "http://localhost:3000/login"))
	assert.False(t, SameURL("http://localhost:3000/?a=1", "http://localhost:3000/"))
}

func TestIsBaseURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"http://localhost:3000", true},
		{"https://chat.example.com/app/", true},
		{"  http://localhost:3000  ", true},
		{"ftp://localhost", false},
		{"localhost:3000", false},
		{"http:/localhost", false},
		{"http://localhost:3000/?debug=1", false},
		{"http://localhost:3000/#top", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsBaseURL(tt.input), tt.input)
	}
}
