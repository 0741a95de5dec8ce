// Package model holds the tracked domain entities of the example.
package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/memento/internal/observable"
)

// Gender of a person.
type Gender int

const (
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale
)

// String returns the gender name.
func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return "unknown"
	}
}

// ParseGender parses a gender name. Unrecognized names yield GenderUnknown.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return GenderMale
	case "female", "f":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// Property names of Person.
const (
	PropGender     = "Gender"
	PropFirstName  = "FirstName"
	PropMiddleName = "MiddleName"
	PropLastName   = "LastName"
)

// PersonSchema declares the tracked properties of Person.
var PersonSchema = observable.NewSchema("Person",
	observable.Prop(PropGender, func(p *Person) *Gender { return &p.gender }),
	observable.Prop(PropFirstName, func(p *Person) *string { return &p.firstName }),
	observable.Prop(PropMiddleName, func(p *Person) *string { return &p.middleName }),
	observable.Prop(PropLastName, func(p *Person) *string { return &p.lastName }),
)

// Person is a tracked entity.
type Person struct {
	observable.Entity[Person]

	id         uuid.UUID
	gender     Gender
	firstName  string
	middleName string
	lastName   string
}

// NewPerson creates a person with a fresh ID.
func NewPerson(gender Gender, first, middle, last string) *Person {
	p := &Person{
		id:         uuid.New(),
		gender:     gender,
		firstName:  first,
		middleName: middle,
		lastName:   last,
	}
	p.Bind(p, PersonSchema)
	return p
}

// ID returns the person's identity.
func (p *Person) ID() uuid.UUID { return p.id }

// Gender returns the gender.
func (p *Person) Gender() Gender { return p.gender }

// FirstName returns the first name.
func (p *Person) FirstName() string { return p.firstName }

// MiddleName returns the middle name.
func (p *Person) MiddleName() string { return p.middleName }

// LastName returns the last name.
func (p *Person) LastName() string { return p.lastName }

// SetGender sets the gender, notifying observers on change.
func (p *Person) SetGender(g Gender) { _ = p.SetProperty(PropGender, g) }

// SetFirstName sets the first name, notifying observers on change.
func (p *Person) SetFirstName(s string) { _ = p.SetProperty(PropFirstName, s) }

// SetMiddleName sets the middle name, notifying observers on change.
func (p *Person) SetMiddleName(s string) { _ = p.SetProperty(PropMiddleName, s) }

// SetLastName sets the last name, notifying observers on change.
func (p *Person) SetLastName(s string) { _ = p.SetProperty(PropLastName, s) }

// FullName joins the non-empty name parts.
func (p *Person) FullName() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.firstName, p.middleName, p.lastName} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// String implements fmt.Stringer.
func (p *Person) String() string {
	return fmt.Sprintf("%s (%s)", p.FullName(), p.gender)
}
