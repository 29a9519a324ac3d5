package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnfence(t *testing.T) {
	tests := []struct{ in, want string }{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```\n", `{"a":1}`},
		{"  ```{\"a\":1}```  ", `{"a":1}`},
		{"Sure! ```json\n{}\n```", "Sure! ```json\n{}\n```"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, unfence(tt.in), tt.in)
	}
}

func TestFinish(t *testing.T) {
	structured := Request{Schema: topicSchema}

	resp, err := finish(Request{}, completion{text: "  Hello.\n", usage: Usage{InputTokens: 3, OutputTokens: 2}, stop: StopMaxTokens})
	require.NoError(t, err)
	assert.Equal(t, "Hello.", string(resp.Content))
	assert.Equal(t, 5, resp.Usage.TotalTokens)
	assert.Equal(t, StopMaxTokens, resp.StopReason, "truncated plain text is still usable")

	_, err = finish(structured, completion{text: `{"title":7}`, stop: StopEnd})
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)

	_, err = finish(structured, completion{text: "not json", stop: StopEnd})
	assert.ErrorAs(t, err, &invalid)

	resp, err = finish(structured, completion{text: "```json\n{\"title\":\"Agents\"}\n```", stop: StopEnd})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Agents"}`, string(resp.Content))
}
