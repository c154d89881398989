package nodes

import (
	"math/rand/v2"
	"time"
)

// Picker chooses an index in [0, n). *rand.Rand satisfies it.
type Picker interface {
	IntN(n int) int
}

// Clock returns the current local time
type Clock func() time.Time

type globalPicker struct{}

func (globalPicker) IntN(n int) int { return rand.IntN(n) }

// DefaultPicker draws from the process-wide random source, which is safe for
// concurrent use.
func DefaultPicker() Picker {
	return globalPicker{}
}

// Pick returns one of the replies, chosen uniformly
func Pick(p Picker, replies ...string) string {
	if len(replies) == 0 {
		return ""
	}
	return replies[p.IntN(len(replies))]
}

// Fixed reply sets
var (
	GreetingReplies = []string{"Hello!", "Hi there!", "Greetings!"}
	ThanksReplies   = []string{"You're welcome!", "No problem!", "Happy to help!"}
	FarewellReplies = []string{"Goodbye!", "See you later!", "Have a great day!"}
	StatusReplies   = []string{
		"I'm doing great, thanks for asking!",
		"I'm a bot, so I'm always running at 100%!",
		"I'm fine, ready to help!",
	}
)

// FallbackMessage asks the user to teach the bot
const FallbackMessage = "I'm not sure how to answer that. Could you please tell me the correct response?"
