package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateful/launchpad/pkg/document"
)

func TestConfigFilter(t *testing.T) {
	testCases := []struct {
		name           string
		condition      string
		env            FilterBlockEnv
		expectedResult bool
	}{
		{
			name:           "empty env",
			condition:      "kind != ''",
			env:            FilterBlockEnv{},
			expectedResult: false,
		},
		{
			name:           "kind",
			condition:      "kind in ['hero', 'cta']",
			env:            FilterBlockEnv{Kind: "cta"},
			expectedResult: true,
		},
		{
			name:           "field",
			condition:      "fields.title startsWith 'Launch'",
			env:            FilterBlockEnv{Fields: map[string]string{"title": "Launch it"}},
			expectedResult: true,
		},
		{
			name:           "id",
			condition:      "id > 2",
			env:            FilterBlockEnv{ID: 2},
			expectedResult: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			filter := Filter{Condition: tc.condition}

			result, err := filter.Evaluate(tc.env)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedResult, result)
		})
	}
}

func TestConfigFilter_Invalid(t *testing.T) {
	filter := Filter{Condition: "kind"}
	_, err := filter.Evaluate(FilterBlockEnv{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed to compile filter "kind"`)

	// The compilation error is memoized.
	_, err2 := filter.Evaluate(FilterBlockEnv{})
	assert.Equal(t, err, err2)
}

func TestBlockFilter(t *testing.T) {
	keep := BlockFilter([]*Filter{
		{Condition: "kind != 'contact'"},
		{Condition: "id < 10"},
	})

	testCases := []struct {
		block    document.Block
		expected bool
	}{
		{document.Block{ID: 1, Kind: "hero"}, true},
		{document.Block{ID: 2, Kind: "contact"}, false},
		{document.Block{ID: 12, Kind: "cta"}, false},
	}

	for _, tc := range testCases {
		ok, err := keep(tc.block)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, ok, "%+v", tc.block)
	}

	ok, err := BlockFilter(nil)(document.Block{ID: 1, Kind: "hero"})
	require.NoError(t, err)
	assert.True(t, ok)
}
