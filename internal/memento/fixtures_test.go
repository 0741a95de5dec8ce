package memento

import (
	"github.com/dshills/memento/internal/observable"
)

type widget struct {
	observable.Entity[widget]
	name  string
	count int
}

var widgetSchema = observable.NewSchema("Widget",
	observable.Prop("Name", func(w *widget) *string { return &w.name }),
	observable.Prop("Count", func(w *widget) *int { return &w.count }),
)

func newWidget(name string) *widget {
	w := &widget{name: name}
	w.Bind(w, widgetSchema)
	return w
}

func (w *widget) String() string { return w.name }

// rawObject emits whatever notifications the test asks for.
type rawObject struct {
	changed observable.Signal[observable.PropertyChange]
	values  map[string]any
}

func newRawObject() *rawObject {
	return &rawObject{values: make(map[string]any)}
}

func (o *rawObject) OnPropertyChanged(fn observable.Handler[observable.PropertyChange]) *observable.Subscription {
	return o.changed.Subscribe(fn)
}

func (o *rawObject) Property(name string) (any, error) {
	return o.values[name], nil
}

func (o *rawObject) SetProperty(name string, value any) error {
	o.values[name] = value
	return nil
}

func (o *rawObject) emit(name string, oldValue, newValue any) {
	o.changed.Emit(observable.PropertyChange{Source: o, Property: name, Old: oldValue, New: newValue})
}

func names(l *observable.List[*widget]) []string {
	var out []string
	for _, w := range l.Values() {
		out = append(out, w.name)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func newWidgetList(items ...*widget) *observable.List[*widget] {
	return observable.NewList(items...)
}
