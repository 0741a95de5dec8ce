package viewmodel

import (
	"context"

	"github.com/dshills/memento/internal/mvvm"
)

// fakeVisualizer runs a callback against each dialog's view-model and
// returns its result.
type fakeVisualizer struct {
	shown  []string
	handle func(vm mvvm.ViewModel) *bool
}

func (v *fakeVisualizer) ShowDialog(_ context.Context, vm mvvm.ViewModel) (*bool, error) {
	v.shown = append(v.shown, vm.Title())
	if v.handle == nil {
		return nil, nil
	}
	return v.handle(vm), nil
}

// fill returns a handler that stages values on a PersonEditor and saves.
func fill(first, middle, last string) func(mvvm.ViewModel) *bool {
	return func(vm mvvm.ViewModel) *bool {
		e := vm.(*PersonEditor)
		e.SetFirstName(first)
		e.SetMiddleName(middle)
		e.SetLastName(last)
		ok, err := e.Save()
		if err != nil {
			return nil
		}
		return mvvm.Bool(ok)
	}
}

type fakeMessages struct {
	answer mvvm.MessageResult
	asked  []string
}

func (m *fakeMessages) Show(_ context.Context, message, caption string, buttons mvvm.MessageButton) (mvvm.MessageResult, error) {
	m.asked = append(m.asked, caption+"|"+message+"|"+buttons.String())
	return m.answer, nil
}
