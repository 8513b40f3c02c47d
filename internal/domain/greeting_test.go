package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectGreeting(t *testing.T) {
	cases := []struct {
		text string
		want Greeting
	}{
		{"good morning", GreetingMorning},
		{"Good Morning everyone!", GreetingMorning},
		{"gm", GreetingMorning},
		{"GM chat", GreetingMorning},
		{"hello chat", GreetingMorning},
		{"good night", GreetingNight},
		{"gn gn", GreetingNight},
		{"Sleep well, friends", GreetingNight},
		{"what's up", GreetingNone},
		{"", GreetingNone},
		{"morning good", GreetingNone},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DetectGreeting(c.text), "text=%q", c.text)
	}
}
