package memento

import (
	"reflect"

	"github.com/dshills/memento/internal/observable"
)

// objectEntry tracks one observed object. The subscription stays alive
// while the object is registered explicitly or held by a registered
// collection.
type objectEntry struct {
	sub      *observable.Subscription
	explicit bool
	refs     int
}

func (e *objectEntry) live() bool {
	return e.explicit || e.refs > 0
}

type collectionEntry struct {
	sub *observable.Subscription
}

// Registry routes notifications of tracked objects and collections to a
// Stack.
//
// Targets implementing observable.Referable are held through weak refs, so
// registration never keeps them reachable; entries of collected targets
// are pruned. Other targets are used as map keys directly, must have
// comparable dynamic types, and stay reachable until unregistered.
type Registry struct {
	stack       *Stack
	objects     map[any]*objectEntry
	collections map[any]*collectionEntry
}

// NewRegistry creates a registry recording into stack.
func NewRegistry(stack *Stack) *Registry {
	return &Registry{
		stack:       stack,
		objects:     make(map[any]*objectEntry),
		collections: make(map[any]*collectionEntry),
	}
}

// RegisterObject starts tracking property changes of obj.
// Registering an already registered object has no effect.
func (r *Registry) RegisterObject(obj observable.Object) {
	if _, ok := trackable(obj); !ok {
		return
	}
	r.prune()
	e := r.retainObject(obj)
	e.explicit = true
}

// UnregisterObject stops tracking obj, unless a registered collection
// still holds it. Unknown objects are ignored.
func (r *Registry) UnregisterObject(obj observable.Object) {
	if _, ok := trackable(obj); !ok {
		return
	}
	k := key(obj)
	e, ok := r.objects[k]
	if !ok || !e.explicit {
		return
	}
	e.explicit = false
	r.dropIfDead(k, e)
}

// RegisterCollection starts tracking structural changes of coll and
// property changes of every item it holds now or later.
// Registering an already registered collection has no effect.
func (r *Registry) RegisterCollection(coll observable.Collection) {
	if coll == nil {
		return
	}
	r.prune()
	k := key(coll)
	if _, ok := r.collections[k]; ok {
		return
	}

	for _, item := range coll.Items() {
		r.retainItem(item)
	}

	sub := coll.OnCollectionChanged(func(c observable.CollectionChange) {
		r.collectionChanged(coll, c)
	})
	r.collections[k] = &collectionEntry{sub: sub}
}

// UnregisterCollection stops tracking coll and releases its items.
// Recorded history for coll is kept. Unknown collections are ignored.
func (r *Registry) UnregisterCollection(coll observable.Collection) {
	k := key(coll)
	e, ok := r.collections[k]
	if !ok {
		return
	}
	e.sub.Unsubscribe()
	delete(r.collections, k)

	for _, item := range coll.Items() {
		r.releaseItem(item)
	}
}

// IsRegistered reports whether target is tracked, either as a collection
// or as an object.
func (r *Registry) IsRegistered(target any) bool {
	if _, ok := target.(observable.Collection); ok {
		if _, found := r.collections[key(target)]; found {
			return true
		}
	}
	if obj, ok := trackable(target); ok {
		if _, found := r.objects[key(obj)]; found {
			return true
		}
	}
	return false
}

// Len returns the number of live tracked objects plus tracked collections.
func (r *Registry) Len() int {
	r.prune()
	return len(r.objects) + len(r.collections)
}

// Clear unregisters everything.
func (r *Registry) Clear() {
	for k, e := range r.collections {
		e.sub.Unsubscribe()
		delete(r.collections, k)
	}
	for k, e := range r.objects {
		e.sub.Unsubscribe()
		delete(r.objects, k)
	}
}

// key returns the map key for target: a weak ref when target supports
// one, target itself otherwise.
func key(target any) any {
	if rt, ok := target.(observable.Referable); ok {
		if ref := rt.WeakRef(); ref.Target() != nil {
			return ref
		}
	}
	return target
}

// collected reports whether k is a weak ref whose target is gone.
func collected(k any) bool {
	ref, ok := k.(observable.Ref)
	return ok && ref.Target() == nil
}

// prune drops entries whose targets were collected. Items of a collected
// collection keep their reference counts; they are pruned once collected
// themselves.
func (r *Registry) prune() {
	for k, e := range r.collections {
		if collected(k) {
			e.sub.Unsubscribe()
			delete(r.collections, k)
		}
	}
	for k, e := range r.objects {
		if collected(k) {
			e.sub.Unsubscribe()
			delete(r.objects, k)
		}
	}
}

func (r *Registry) retainObject(obj observable.Object) *objectEntry {
	k := key(obj)
	if e, ok := r.objects[k]; ok {
		return e
	}
	e := &objectEntry{}
	e.sub = obj.OnPropertyChanged(func(c observable.PropertyChange) {
		r.propertyChanged(obj, c)
	})
	r.objects[k] = e
	return e
}

// trackable returns item as an Object unless it is nil, including a nil
// pointer held in a non-nil interface.
func trackable(item any) (observable.Object, bool) {
	obj, ok := item.(observable.Object)
	if !ok || obj == nil {
		return nil, false
	}
	if v := reflect.ValueOf(obj); v.Kind() == reflect.Pointer && v.IsNil() {
		return nil, false
	}
	return obj, true
}

func (r *Registry) retainItem(item any) {
	obj, ok := trackable(item)
	if !ok {
		return
	}
	r.retainObject(obj).refs++
}

func (r *Registry) releaseItem(item any) {
	obj, ok := trackable(item)
	if !ok {
		return
	}
	k := key(obj)
	e, found := r.objects[k]
	if !found || e.refs == 0 {
		return
	}
	e.refs--
	r.dropIfDead(k, e)
}

func (r *Registry) dropIfDead(k any, e *objectEntry) {
	if e.live() {
		return
	}
	e.sub.Unsubscribe()
	delete(r.objects, k)
}

func (r *Registry) propertyChanged(obj observable.Object, c observable.PropertyChange) {
	if r.stack.Replaying() {
		return
	}
	if sameValue(c.Old, c.New) {
		return
	}
	r.stack.Record(PropertyChanged(obj, c.Property, c.Old, c.New))
}

// collectionChanged keeps item subscriptions in step with the collection,
// including during replay, then records the change unless replaying.
func (r *Registry) collectionChanged(coll observable.Collection, c observable.CollectionChange) {
	for _, item := range c.OldItems {
		r.releaseItem(item)
	}
	for _, item := range c.NewItems {
		r.retainItem(item)
	}

	if r.stack.Replaying() {
		return
	}

	var changes []Change
	switch c.Action {
	case observable.ActionAdd:
		for k, item := range c.NewItems {
			changes = append(changes, ItemAdded(coll, c.Index+k, item))
		}
	case observable.ActionRemove:
		// Items were removed one after another at the same index.
		for _, item := range c.OldItems {
			changes = append(changes, ItemRemoved(coll, c.Index, item))
		}
	case observable.ActionReplace:
		for _, item := range c.OldItems {
			changes = append(changes, ItemRemoved(coll, c.Index, item))
		}
		for _, item := range c.NewItems {
			changes = append(changes, ItemAdded(coll, c.Index, item))
		}
	}

	r.stack.RecordAll(changes...)
}
