package viewmodel

import (
	"fmt"

	"github.com/dshills/memento/internal/memento"
	"github.com/dshills/memento/internal/model"
	"github.com/dshills/memento/internal/observable"
)

var editorSchema = observable.NewSchema("PersonEditor",
	observable.Prop(model.PropGender, func(e *PersonEditor) *model.Gender { return &e.gender }),
	observable.Prop(model.PropFirstName, func(e *PersonEditor) *string { return &e.firstName }),
	observable.Prop(model.PropMiddleName, func(e *PersonEditor) *string { return &e.middleName }),
	observable.Prop(model.PropLastName, func(e *PersonEditor) *string { return &e.lastName }),
)

// EditorOption configures a PersonEditor.
type EditorOption func(*PersonEditor)

// WithDeferredValidation controls whether validation errors stay hidden
// until the first save. Default true.
func WithDeferredValidation(deferred bool) EditorOption {
	return func(e *PersonEditor) {
		e.deferValidation = deferred
	}
}

// asNewPerson marks the editor as creating a person.
func asNewPerson() EditorOption {
	return func(e *PersonEditor) {
		e.isNew = true
	}
}

// PersonEditor is the dialog view-model for a person. Edits are staged on
// the editor and written to the person by Save, as one undo unit.
type PersonEditor struct {
	observable.Entity[PersonEditor]

	person  *model.Person
	memento *memento.Service
	isNew   bool

	gender     model.Gender
	firstName  string
	middleName string
	lastName   string

	deferValidation bool
	validator       *Validator
}

// NewPersonEditor creates an editor staged from p. svc may be nil, in which
// case Save writes without batching.
func NewPersonEditor(p *model.Person, svc *memento.Service, opts ...EditorOption) *PersonEditor {
	e := &PersonEditor{
		person:          p,
		memento:         svc,
		deferValidation: true,
	}
	e.Bind(e, editorSchema)
	for _, opt := range opts {
		opt(e)
	}
	e.validator = NewValidator(e.deferValidation,
		Required(model.PropFirstName),
		Required(model.PropLastName),
		MaxLength(model.PropFirstName, 64),
		MaxLength(model.PropMiddleName, 64),
		MaxLength(model.PropLastName, 64),
	)
	e.load()
	e.OnPropertyChanged(func(observable.PropertyChange) {
		e.validate()
	})
	return e
}

// Title implements mvvm.ViewModel.
func (e *PersonEditor) Title() string {
	if e.isNew {
		return "New person"
	}
	return fmt.Sprintf("Edit %s", e.person.FullName())
}

// Person returns the edited person.
func (e *PersonEditor) Person() *model.Person { return e.person }

// IsNew reports whether the editor creates a person.
func (e *PersonEditor) IsNew() bool { return e.isNew }

// Gender returns the staged gender.
func (e *PersonEditor) Gender() model.Gender { return e.gender }

// FirstName returns the staged first name.
func (e *PersonEditor) FirstName() string { return e.firstName }

// MiddleName returns the staged middle name.
func (e *PersonEditor) MiddleName() string { return e.middleName }

// LastName returns the staged last name.
func (e *PersonEditor) LastName() string { return e.lastName }

// SetGender stages a gender.
func (e *PersonEditor) SetGender(g model.Gender) { _ = e.SetProperty(model.PropGender, g) }

// SetFirstName stages a first name.
func (e *PersonEditor) SetFirstName(s string) { _ = e.SetProperty(model.PropFirstName, s) }

// SetMiddleName stages a middle name.
func (e *PersonEditor) SetMiddleName(s string) { _ = e.SetProperty(model.PropMiddleName, s) }

// SetLastName stages a last name.
func (e *PersonEditor) SetLastName(s string) { _ = e.SetProperty(model.PropLastName, s) }

// Errors returns the validation errors currently shown.
func (e *PersonEditor) Errors() []FieldError {
	return e.validator.Errors()
}

// IsValid reports whether the staged values pass validation, regardless
// of deferral.
func (e *PersonEditor) IsValid() bool {
	e.validate()
	return len(e.validator.errors) == 0
}

// Save validates and, if valid, writes the staged values to the person in
// one batch. It returns false when validation fails.
func (e *PersonEditor) Save() (bool, error) {
	e.validator.MarkSaveAttempted()
	if len(e.validate()) > 0 {
		return false, nil
	}

	write := func() error {
		for _, name := range editorSchema.Fields() {
			v, err := e.Property(name)
			if err != nil {
				return err
			}
			if err := e.person.SetProperty(name, v); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
		}
		return nil
	}

	if e.memento == nil {
		return true, write()
	}
	if err := e.memento.Transaction(fmt.Sprintf("Edit %s", e.person.FullName()), write); err != nil {
		return false, err
	}
	return true, nil
}

// Cancel discards staged edits.
func (e *PersonEditor) Cancel() {
	e.load()
}

// load stages the person's current values.
func (e *PersonEditor) load() {
	for name, v := range model.PersonSchema.Snapshot(e.person) {
		_, _, _ = editorSchema.Set(e, name, v)
	}
	e.validate()
}

func (e *PersonEditor) validate() []FieldError {
	return e.validator.Validate(func(field string) any {
		v, _ := editorSchema.Get(e, field)
		return v
	})
}
