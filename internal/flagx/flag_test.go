package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept as-is",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "flag followed by another flag",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "multiple allowed flags kept in order",
			args:         []string{"-a", ":3001", "-c", "conf.json", "--other", "x"},
			allowedFlags: []string{"-c", "-a"},
			want:         []string{"-a", ":3001", "-c", "conf.json"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestJSONConfigPath(t *testing.T) {
	assert.Equal(t, "conf.json", JSONConfigPath([]string{"-a", ":80", "-c", "conf.json"}))
	assert.Equal(t, "alt.json", JSONConfigPath([]string{"-config=alt.json"}))
	assert.Equal(t, "", JSONConfigPath([]string{"-a", ":80"}))
	assert.Equal(t, "", JSONConfigPath(nil))
}

func TestPositional(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		flags []string
		want  []string
	}{
		{
			name:  "command after flags",
			args:  []string{"-s", "http://api", "-c", "cli.json", "surveys", "active"},
			flags: []string{"-s", "-c"},
			want:  []string{"surveys", "active"},
		},
		{
			name:  "equals form removed",
			args:  []string{"show", "--config=cli.json", "42"},
			flags: []string{"--config"},
			want:  []string{"show", "42"},
		},
		{
			name:  "unknown flags kept",
			args:  []string{"-x", "login"},
			flags: []string{"-s"},
			want:  []string{"-x", "login"},
		},
		{
			name:  "only flags",
			args:  []string{"-d", "session.db"},
			flags: []string{"-d"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Positional(tt.args, tt.flags))
		})
	}
}
