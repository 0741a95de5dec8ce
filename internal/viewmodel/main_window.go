package viewmodel

import (
	"context"
	"fmt"

	"github.com/dshills/memento/internal/memento"
	"github.com/dshills/memento/internal/model"
	"github.com/dshills/memento/internal/mvvm"
	"github.com/dshills/memento/internal/observable"
)

// PropSelectedPerson is the MainWindow selection property.
const PropSelectedPerson = "SelectedPerson"

var mainWindowSchema = observable.NewSchema("MainWindow",
	observable.Prop(PropSelectedPerson, func(w *MainWindow) **model.Person { return &w.selected }),
)

// Remove confirmation texts.
const (
	RemoveConfirmMessage = "Are you sure you want to remove this person?"
	RemoveConfirmCaption = "Are you sure?"
)

// MainWindow is the view-model of the people list. Its collection is
// tracked by the memento service; the selection is not.
type MainWindow struct {
	observable.Entity[MainWindow]

	visualizer mvvm.UIVisualizer
	messages   mvvm.MessageService
	memento    *memento.Service

	people   *observable.List[*model.Person]
	selected *model.Person

	Add    *mvvm.Command
	Edit   *mvvm.Command
	Remove *mvvm.Command
	Undo   *mvvm.Command
	Redo   *mvvm.Command

	subs   []*observable.Subscription
	closed bool
}

// DefaultPeople returns the seed collection.
func DefaultPeople() []*model.Person {
	return []*model.Person{
		model.NewPerson(model.GenderMale, "Geert", "van", "Horrik"),
		model.NewPerson(model.GenderMale, "Fred", "", "Retteket"),
	}
}

// NewMainWindow creates the view-model and registers its collection with
// svc. If people is empty the default seed is used.
func NewMainWindow(visualizer mvvm.UIVisualizer, messages mvvm.MessageService, svc *memento.Service, people ...*model.Person) *MainWindow {
	if len(people) == 0 {
		people = DefaultPeople()
	}

	w := &MainWindow{
		visualizer: visualizer,
		messages:   messages,
		memento:    svc,
		people:     observable.NewList(people...),
	}
	w.Bind(w, mainWindowSchema)

	w.Add = mvvm.NewCommand("Add", w.add, nil)
	w.Edit = mvvm.NewCommand("Edit", w.edit, w.hasSelection)
	w.Remove = mvvm.NewCommand("Remove", w.remove, w.hasSelection)
	w.Undo = mvvm.NewSyncCommand("Undo", svc.Undo, svc.CanUndo)
	w.Redo = mvvm.NewSyncCommand("Redo", svc.Redo, svc.CanRedo)

	w.subs = append(w.subs,
		w.OnPropertyChanged(func(c observable.PropertyChange) {
			if c.Property == PropSelectedPerson {
				w.Edit.RaiseCanExecuteChanged()
				w.Remove.RaiseCanExecuteChanged()
			}
		}),
		svc.OnAvailabilityChanged(func(memento.Availability) {
			w.Undo.RaiseCanExecuteChanged()
			w.Redo.RaiseCanExecuteChanged()
		}),
		w.people.OnCollectionChanged(func(c observable.CollectionChange) {
			for _, item := range c.OldItems {
				if item == any(w.selected) && !w.people.Contains(w.selected) {
					w.SetSelectedPerson(nil)
				}
			}
		}),
	)

	svc.RegisterCollection(w.people)
	return w
}

// Title implements mvvm.ViewModel.
func (w *MainWindow) Title() string {
	return "Memento example"
}

// People returns the tracked collection.
func (w *MainWindow) People() *observable.List[*model.Person] {
	return w.people
}

// SelectedPerson returns the selection, or nil.
func (w *MainWindow) SelectedPerson() *model.Person {
	return w.selected
}

// SetSelectedPerson changes the selection.
func (w *MainWindow) SetSelectedPerson(p *model.Person) {
	_ = w.SetProperty(PropSelectedPerson, p)
}

// Select selects the person at index i.
func (w *MainWindow) Select(i int) error {
	p, ok := w.people.At(i)
	if !ok {
		return fmt.Errorf("select %d: %w", i, observable.ErrIndexOutOfRange)
	}
	w.SetSelectedPerson(p)
	return nil
}

func (w *MainWindow) hasSelection() bool {
	return w.selected != nil
}

func (w *MainWindow) add(ctx context.Context) error {
	p := model.NewPerson(model.GenderUnknown, "", "", "")
	editor := NewPersonEditor(p, w.memento, asNewPerson())

	result, err := w.visualizer.ShowDialog(ctx, editor)
	if err != nil {
		return fmt.Errorf("add person: %w", err)
	}
	if !mvvm.Confirmed(result) {
		return nil
	}

	return w.memento.Transaction(fmt.Sprintf("Add %s", p.FullName()), func() error {
		w.people.Add(p)
		return nil
	})
}

func (w *MainWindow) edit(ctx context.Context) error {
	editor := NewPersonEditor(w.selected, w.memento)
	if _, err := w.visualizer.ShowDialog(ctx, editor); err != nil {
		return fmt.Errorf("edit person: %w", err)
	}
	return nil
}

func (w *MainWindow) remove(ctx context.Context) error {
	target := w.selected
	answer, err := w.messages.Show(ctx, RemoveConfirmMessage, RemoveConfirmCaption, mvvm.ButtonYesNo)
	if err != nil {
		return fmt.Errorf("remove person: %w", err)
	}
	if answer != mvvm.ResultYes {
		return nil
	}

	return w.memento.Transaction(fmt.Sprintf("Remove %s", target.FullName()), func() error {
		w.people.Remove(target)
		return nil
	})
}

// Close unregisters the collection from the memento service. Recorded
// history is kept. Safe to call more than once.
func (w *MainWindow) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.memento.UnregisterCollection(w.people)
	for _, sub := range w.subs {
		sub.Unsubscribe()
	}
	w.subs = nil
}
