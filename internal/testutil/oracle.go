package testutil

import (
	"context"
	"sync"
)

// OracleCall records one call made to a FakeOracle.
type OracleCall struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
}

type oracleReply struct {
	text string
	ok   bool
}

// FakeOracle replays scripted replies in order. Once the script is exhausted
// every call fails, as an unreachable model would.
type FakeOracle struct {
	mu      sync.Mutex
	replies []oracleReply
	calls   []OracleCall
}

func NewFakeOracle() *FakeOracle {
	return &FakeOracle{}
}

// Reply queues a successful answer.
func (f *FakeOracle) Reply(text string) *FakeOracle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, oracleReply{text: text, ok: true})
	return f
}

// Fail queues a failed call.
func (f *FakeOracle) Fail() *FakeOracle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, oracleReply{})
	return f
}

func (f *FakeOracle) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, OracleCall{SystemPrompt: systemPrompt, UserPrompt: userPrompt, MaxTokens: maxTokens})
	if len(f.replies) == 0 {
		return "", false
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r.text, r.ok
}

// CallCount returns the number of calls made so far.
func (f *FakeOracle) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// LastCall returns the most recent call, or the zero value if there was none.
func (f *FakeOracle) LastCall() OracleCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return OracleCall{}
	}
	return f.calls[len(f.calls)-1]
}
