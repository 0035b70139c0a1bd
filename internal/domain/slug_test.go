package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Example", want: "example"},
		{name: "spaces", in: "My AI Tool", want: "my-ai-tool"},
		{name: "punctuation", in: "ChatBot: Pro!", want: "chatbot-pro"},
		{name: "collapse runs", in: "a  --  b", want: "a-b"},
		{name: "leading trailing", in: " --hello-- ", want: "hello"},
		{name: "digits", in: "Tool 2000", want: "tool-2000"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}
