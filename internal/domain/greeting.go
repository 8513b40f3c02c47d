package domain

import "strings"

// Greeting classifies the start of a chat message.
type Greeting int

const (
	GreetingNone Greeting = iota
	GreetingMorning
	GreetingNight
)

var (
	morningPhrases = []string{"good morning", "gm", "hello chat"}
	nightPhrases   = []string{"good night", "gn", "sleep well"}
)

// DetectGreeting matches the message prefix against the known greeting
// phrases, case-insensitively.
func DetectGreeting(text string) Greeting {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, p := range morningPhrases {
		if strings.HasPrefix(t, p) {
			return GreetingMorning
		}
	}
	for _, p := range nightPhrases {
		if strings.HasPrefix(t, p) {
			return GreetingNight
		}
	}
	return GreetingNone
}
