package registry

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestParsePolicy(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected Policy
		err      bool
	}{
		"Execute all":    {input: "execute-all", expected: ExecuteAll},
		"Fail fast":      {input: "fail-fast", expected: FailFast},
		"Mixed case":     {input: "Fail-Fast", expected: FailFast},
		"Padded":         {input: "\t fail-fast \n", expected: FailFast},
		"Empty":          {input: "", expected: ExecuteAll, err: true},
		"Unknown policy": {input: "sometimes", expected: ExecuteAll, err: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParsePolicy(tc.input)
			if tc.err {
				assert.ErrorIs(t, err, ErrUnknownPolicy)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "execute-all", ExecuteAll.String())
	assert.Equal(t, "fail-fast", FailFast.String())
	assert.Equal(t, "policy(7)", Policy(7).String())

	for _, p := range []Policy{ExecuteAll, FailFast} {
		parsed, err := ParsePolicy(p.String())
		assert.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}
