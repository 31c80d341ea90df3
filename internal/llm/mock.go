package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ScriptedClient replays a fixed sequence of responses and records every
// prompt it receives. For local runs and tests; no external model is called.
type ScriptedClient struct {
	mu        sync.Mutex
	model     string
	responses []Response
	errs      []error
	calls     []Request
	next      int
}

func NewScriptedClient(model string, responses ...Response) *ScriptedClient {
	return &ScriptedClient{model: model, responses: responses}
}

func (s *ScriptedClient) Model() string { return s.model }

// Fail schedules an error for the call at index i (zero-based).
func (s *ScriptedClient) Fail(i int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.errs) <= i {
		s.errs = append(s.errs, nil)
	}
	s.errs[i] = err
}

func (s *ScriptedClient) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *ScriptedClient) Complete(_ context.Context, req Request) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.next
	s.next++
	s.calls = append(s.calls, req)
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i >= len(s.responses) {
		return nil, errors.New("scripted client: no response left for call")
	}
	resp := s.responses[i]
	return &resp, nil
}

// TextOfWords builds a markdown body with exactly n countable words, handy
// for convergence tests.
func TextOfWords(n int) string {
	var sb strings.Builder
	sb.WriteString("# Title\n\n")
	words := n - 1 // heading marker contributes the "Title" word
	for i := 0; i < words; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("word")
	}
	sb.WriteString("\n")
	return sb.String()
}
