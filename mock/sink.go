package mock

import "github.com/fwojciec/tdd"

// Interface compliance check.
var _ tdd.Sink = (*Sink)(nil)

// Sink is a test double for tdd.Sink. Unset function fields are no-ops.
type Sink struct {
	OnProseUpdateFn       func(text string)
	OnCodeBlockCompleteFn func(code, language string)
}

// OnProseUpdate delegates to OnProseUpdateFn.
func (s *Sink) OnProseUpdate(text string) {
	if s.OnProseUpdateFn != nil {
		s.OnProseUpdateFn(text)
	}
}

// OnCodeBlockComplete delegates to OnCodeBlockCompleteFn.
func (s *Sink) OnCodeBlockComplete(code, language string) {
	if s.OnCodeBlockCompleteFn != nil {
		s.OnCodeBlockCompleteFn(code, language)
	}
}
