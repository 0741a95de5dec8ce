package script

import (
	"context"
	"fmt"
	"io"

	"github.com/dshills/memento/internal/config"
	"github.com/dshills/memento/internal/model"
	"github.com/dshills/memento/internal/mvvm"
	"github.com/dshills/memento/internal/viewmodel"
)

// Form is a queued reply to a person editor dialog. Nil fields keep the
// staged value.
type Form struct {
	FirstName  *string
	MiddleName *string
	LastName   *string
	Gender     *model.Gender
	// Cancel dismisses the dialog without saving.
	Cancel bool
}

// Dialogs answers dialogs from queued replies. It implements both
// mvvm.UIVisualizer and mvvm.MessageService.
type Dialogs struct {
	forms   []Form
	answers []mvvm.MessageResult

	confirm    mvvm.MessageResult
	autoAccept bool
	out        io.Writer
}

// NewDialogs creates a scripted dialog service using cfg defaults.
func NewDialogs(cfg config.DialogsConfig, out io.Writer) *Dialogs {
	if out == nil {
		out = io.Discard
	}
	d := &Dialogs{out: out}
	d.Configure(cfg)
	return d
}

// Configure replaces the defaults used when no reply is queued.
func (d *Dialogs) Configure(cfg config.DialogsConfig) {
	d.confirm = mvvm.ResultYes
	if cfg.Confirm == "no" {
		d.confirm = mvvm.ResultNo
	}
	d.autoAccept = cfg.AutoAccept
}

// QueueForm queues a reply for the next editor dialog.
func (d *Dialogs) QueueForm(f Form) {
	d.forms = append(d.forms, f)
}

// QueueAnswer queues a reply for the next message box.
func (d *Dialogs) QueueAnswer(r mvvm.MessageResult) {
	d.answers = append(d.answers, r)
}

// Pending returns the number of queued forms and answers.
func (d *Dialogs) Pending() (forms, answers int) {
	return len(d.forms), len(d.answers)
}

// Reset drops every queued reply.
func (d *Dialogs) Reset() {
	d.forms = nil
	d.answers = nil
}

// ShowDialog implements mvvm.UIVisualizer.
func (d *Dialogs) ShowDialog(ctx context.Context, vm mvvm.ViewModel) (*bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	editor, ok := vm.(*viewmodel.PersonEditor)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialog, vm.Title())
	}

	form, queued := d.nextForm()
	if !queued && !d.autoAccept {
		form.Cancel = true
	}
	if form.Cancel {
		editor.Cancel()
		fmt.Fprintf(d.out, "[%s] cancelled\n", vm.Title())
		return mvvm.Bool(false), nil
	}

	if form.Gender != nil {
		editor.SetGender(*form.Gender)
	}
	if form.FirstName != nil {
		editor.SetFirstName(*form.FirstName)
	}
	if form.MiddleName != nil {
		editor.SetMiddleName(*form.MiddleName)
	}
	if form.LastName != nil {
		editor.SetLastName(*form.LastName)
	}

	saved, err := editor.Save()
	if err != nil {
		return nil, err
	}
	if !saved {
		for _, fe := range editor.Errors() {
			fmt.Fprintf(d.out, "[%s] %s\n", vm.Title(), fe.Message)
		}
	}
	return mvvm.Bool(saved), nil
}

// Show implements mvvm.MessageService.
func (d *Dialogs) Show(ctx context.Context, message, caption string, buttons mvvm.MessageButton) (mvvm.MessageResult, error) {
	if err := ctx.Err(); err != nil {
		return mvvm.ResultNone, err
	}

	answer := d.defaultAnswer(buttons)
	if len(d.answers) > 0 {
		answer = d.answers[0]
		d.answers = d.answers[1:]
	}
	fmt.Fprintf(d.out, "[%s] %s -> %s\n", caption, message, answer)
	return answer, nil
}

func (d *Dialogs) nextForm() (Form, bool) {
	if len(d.forms) == 0 {
		return Form{}, false
	}
	f := d.forms[0]
	d.forms = d.forms[1:]
	return f, true
}

func (d *Dialogs) defaultAnswer(buttons mvvm.MessageButton) mvvm.MessageResult {
	switch buttons {
	case mvvm.ButtonOK:
		return mvvm.ResultOK
	case mvvm.ButtonOKCancel:
		if d.confirm == mvvm.ResultYes {
			return mvvm.ResultOK
		}
		return mvvm.ResultCancel
	default:
		return d.confirm
	}
}
