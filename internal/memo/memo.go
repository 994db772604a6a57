// Package memo supplies the memo text attached to the self-transfer check.
package memo

import (
	"math/rand/v2"
	"sync"
)

// Provider returns memo text. Implementations must be safe for concurrent use.
type Provider interface {
	Text() string
}

// Fixed always returns the same text.
type Fixed string

func (f Fixed) Text() string { return string(f) }

// Quotes picks a random programming quote for every memo.
type Quotes struct {
	mu     sync.Mutex
	rng    *rand.Rand
	quotes []string
}

// NewQuotes returns a Provider over the built-in quote list. A nil rng uses a
// randomly seeded generator.
func NewQuotes(rng *rand.Rand) *Quotes {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Quotes{rng: rng, quotes: quotes}
}

func (q *Quotes) Text() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.quotes[q.rng.IntN(len(q.quotes))]
}

var quotes = []string{
	"Any fool can write code that a computer can understand. Good programmers write code that humans can understand - Martin Fowler",
	"First, solve the problem. Then, write the code - John Johnson",
	"Experience is the name everyone gives to their mistakes - Oscar Wilde",
	"Knowledge is power - Francis Bacon",
	"Code is like humor. When you have to explain it, it's bad - Cory House",
	"Fix the cause, not the symptom - Steve Maguire",
	"Optimism is an occupational hazard of programming: feedback is the treatment - Kent Beck",
	"Simplicity is the soul of efficiency - Austin Freeman",
	"Before software can be reusable it first has to be usable - Ralph Johnson",
	"Make it work, make it right, make it fast - Kent Beck",
	"If debugging is the process of removing software bugs, then programming must be the process of putting them in - Edsger Dijkstra",
	"Measuring programming progress by lines of code is like measuring aircraft building progress by weight - Bill Gates",
	"Things aren't always #000000 and #FFFFFF",
	"Talk is cheap. Show me the code - Linus Torvalds",
	"If at first you don't succeed; call it version 1.0",
	"The best thing about a boolean is even if you are wrong, you are only off by a bit",
	"Without requirements or design, programming is the art of adding bugs to an empty text file - Louis Srygley",
	"There are two ways to write error-free programs; only the third one works - Alan J. Perlis",
	"Deleted code is debugged code - Jeff Sickel",
	"Walking on water and developing software from a specification are easy if both are frozen - Edward V Berard",
	"In order to understand recursion, one must first understand recursion",
	"The cheapest, fastest, and most reliable components are those that aren't there - Gordon Bell",
	"The best performance improvement is the transition from the nonworking state to the working state - J. Osterhout",
	"Don't worry if it doesn't work right. If everything did, you'd be out of a job - Mosher's Law of Software Engineering",
}
