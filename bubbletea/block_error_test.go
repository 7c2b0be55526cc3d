package bubbletea_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/tdd"
	bt "github.com/fwojciec/tdd/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestErrorBlock_View(t *testing.T) {
	t.Parallel()
	styles := bt.NewStyles(tdd.DefaultTheme())

	for _, tc := range []struct {
		name string
		err  error
		want string
		hint string
	}{
		{"plain", errors.New("boom"), "Error: boom", ""},
		{"idle", fmt.Errorf("chat: %w", tdd.ErrIdleTimeout), "Error: chat: stream idle timeout", "Send the message again"},
		{"network", fmt.Errorf("api: HTTP 502: %w", tdd.ErrNetwork), "HTTP 502", "assistant server is running"},
		{"stream", &tdd.StreamError{Message: "quota", Code: "rate_limit"}, "quota", "Server error code: rate_limit"},
		{"protocol", fmt.Errorf("no done record: %w", tdd.ErrProtocol), "no done record", "may be incomplete"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			view := bt.NewErrorBlock(tc.err, styles).View(200)
			assert.Contains(t, view, tc.want)
			if tc.hint == "" {
				assert.NotContains(t, view, "\n")
				return
			}
			assert.Contains(t, view, tc.hint)
		})
	}
}
