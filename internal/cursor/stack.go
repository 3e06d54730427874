// Package cursor implements the pagination cursor stack for paged list
// views. The stack grows by one entry per "next" press, shrinks by one per
// "previous", and collapses back to its root entry whenever filters change.
// The top entry's continuation key is always the one used to fetch the page
// currently displayed.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Page is one stack entry: a page number and the opaque continuation key
// that was used to fetch it. The root page has no key.
type Page struct {
	Number   int             `json:"page"`
	StartKey json.RawMessage `json:"startkey,omitempty"`
}

// Stack is an ordered sequence of pages, root first. The zero value is not
// usable; start from New or Decode.
type Stack []Page

// New returns a stack holding only the root page.
func New() Stack {
	return Stack{{Number: 1}}
}

// Current returns the top entry.
func (s Stack) Current() Page {
	return s[len(s)-1]
}

// Depth returns the number of entries; never below 1 for a valid stack.
func (s Stack) Depth() int {
	return len(s)
}

// CanPop reports whether "previous" is available.
func (s Stack) CanPop() bool {
	return len(s) > 1
}

// Push returns a stack extended with the next page, fetched with the given
// continuation key.
func (s Stack) Push(startKey json.RawMessage) Stack {
	next := Page{Number: s.Current().Number + 1, StartKey: startKey}
	out := make(Stack, len(s), len(s)+1)
	copy(out, s)
	return append(out, next)
}

// Pop returns the stack without its top entry. Popping the root is a no-op.
func (s Stack) Pop() Stack {
	if len(s) <= 1 {
		return s
	}
	out := make(Stack, len(s)-1)
	copy(out, s[:len(s)-1])
	return out
}

// Encode serializes the stack for embedding in a query parameter. The root
// stack encodes to the empty string.
func (s Stack) Encode() string {
	if len(s) <= 1 {
		return ""
	}
	data, err := json.Marshal(s)
	if err != nil {
		// Pages only hold an int and raw JSON; marshalling cannot fail.
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode parses an encoded stack. The empty string decodes to the root
// stack; malformed input is an error so a tampered parameter falls back to
// page 1 at the caller.
func Decode(encoded string) (Stack, error) {
	if encoded == "" {
		return New(), nil
	}

	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding cursor stack: %w", err)
	}

	var s Stack
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing cursor stack: %w", err)
	}
	if len(s) == 0 || s[0].Number != 1 {
		return nil, fmt.Errorf("cursor stack has no root entry")
	}
	return s, nil
}
