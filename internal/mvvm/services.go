package mvvm

import (
	"context"
	"fmt"
	"strings"
)

// ViewModel is the minimum a dialog needs to show a view-model.
type ViewModel interface {
	Title() string
}

// UIVisualizer shows view-models as dialogs.
type UIVisualizer interface {
	// ShowDialog shows vm modally. The result is true when confirmed,
	// false when cancelled, and nil when dismissed without an answer.
	ShowDialog(ctx context.Context, vm ViewModel) (*bool, error)
}

// MessageButton is the button set of a message box.
type MessageButton int

const (
	ButtonOK MessageButton = iota
	ButtonOKCancel
	ButtonYesNo
	ButtonYesNoCancel
)

// String returns the button set name.
func (b MessageButton) String() string {
	switch b {
	case ButtonOK:
		return "ok"
	case ButtonOKCancel:
		return "ok/cancel"
	case ButtonYesNo:
		return "yes/no"
	case ButtonYesNoCancel:
		return "yes/no/cancel"
	default:
		return "unknown"
	}
}

// MessageResult is the button the user picked.
type MessageResult int

const (
	ResultNone MessageResult = iota
	ResultOK
	ResultCancel
	ResultYes
	ResultNo
)

// String returns the result name.
func (r MessageResult) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultCancel:
		return "cancel"
	case ResultYes:
		return "yes"
	case ResultNo:
		return "no"
	default:
		return "none"
	}
}

// ParseMessageResult parses a result name.
func ParseMessageResult(s string) (MessageResult, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ok":
		return ResultOK, nil
	case "cancel":
		return ResultCancel, nil
	case "yes", "y":
		return ResultYes, nil
	case "no", "n":
		return ResultNo, nil
	case "none", "":
		return ResultNone, nil
	default:
		return ResultNone, fmt.Errorf("unknown message result %q", s)
	}
}

// MessageService asks the user to confirm something.
type MessageService interface {
	Show(ctx context.Context, message, caption string, buttons MessageButton) (MessageResult, error)
}

// Bool returns a pointer to b, for dialog results.
func Bool(b bool) *bool {
	return &b
}

// Confirmed reports whether a dialog result is a confirmation.
func Confirmed(result *bool) bool {
	return result != nil && *result
}
