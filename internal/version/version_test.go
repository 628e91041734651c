package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseVersion(t *testing.T) {
	defer func(v string) { BuildVersion = v }(BuildVersion)

	tests := []struct {
		name         string
		buildVersion string
		expected     string
	}{
		{
			name:         "release",
			buildVersion: "1.7.8",
			expected:     "v1.7",
		},
		{
			name:         "git describe",
			buildVersion: "1.7.8-11-g2300850",
			expected:     "v1.7",
		},
		{
			name:         "major only",
			buildVersion: "3",
			expected:     "v3.0",
		},
		{
			name:         "development",
			buildVersion: "0.0.0",
			expected:     "v0.0",
		},
		{
			name:         "invalid",
			buildVersion: "1.2.beta",
			expected:     "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			BuildVersion = tt.buildVersion
			assert.Equal(t, tt.expected, BaseVersion())
		})
	}
}

func TestString(t *testing.T) {
	defer func(v, c, d string) { BuildVersion, Commit, BuildDate = v, c, d }(BuildVersion, Commit, BuildDate)

	BuildVersion, Commit, BuildDate = "1.2.3", "abc123", "2024-05-01"
	assert.Equal(t, "1.2.3 (abc123) on 2024-05-01", String())
}
