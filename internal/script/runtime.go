package script

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/memento/internal/memento"
	"github.com/dshills/memento/internal/model"
	"github.com/dshills/memento/internal/mvvm"
	"github.com/dshills/memento/internal/viewmodel"
)

// Runtime binds a Lua state to a main window and its memento service.
type Runtime struct {
	state   *State
	window  *viewmodel.MainWindow
	memento *memento.Service
	dialogs *Dialogs
	out     io.Writer

	checkpoints []memento.Checkpoint
}

// NewRuntime creates a runtime. dialogs must be the visualizer and message
// service the window was built with, so queued replies reach it.
func NewRuntime(window *viewmodel.MainWindow, svc *memento.Service, dialogs *Dialogs, out io.Writer, opts ...StateOption) *Runtime {
	if out == nil {
		out = io.Discard
	}
	r := &Runtime{
		state:   NewState(append([]StateOption{WithOutput(out)}, opts...)...),
		window:  window,
		memento: svc,
		dialogs: dialogs,
		out:     out,
	}
	r.state.RegisterModule("people", r.peopleModule())
	r.state.RegisterModule("memento", r.mementoModule())
	r.state.RegisterModule("dialogs", r.dialogsModule())
	return r
}

// Exec runs a chunk of Lua.
func (r *Runtime) Exec(ctx context.Context, code string) error {
	return r.state.DoString(ctx, code)
}

// ExecFile runs a Lua file.
func (r *Runtime) ExecFile(ctx context.Context, path string) error {
	return r.state.DoFile(ctx, path)
}

// Dialogs returns the scripted dialog service.
func (r *Runtime) Dialogs() *Dialogs {
	return r.dialogs
}

// Close releases the Lua state.
func (r *Runtime) Close() error {
	return r.state.Close()
}

// callContext returns the context of the running chunk.
func callContext(L *lua.LState) context.Context {
	if c := L.Context(); c != nil {
		return c
	}
	return context.Background()
}

// pushResult follows the Lua convention: true, or false plus a message.
func pushResult(L *lua.LState, err error) int {
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

// ---------------------------------------------------------------------------
// people
// ---------------------------------------------------------------------------

func (r *Runtime) peopleModule() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"count":    r.peopleCount,
		"list":     r.peopleList,
		"get":      r.peopleGet,
		"select":   r.peopleSelect,
		"selected": r.peopleSelected,
		"add":      r.peopleAdd,
		"edit":     r.peopleEdit,
		"remove":   r.peopleRemove,
		"set":      r.peopleSet,
	}
}

func personTable(L *lua.LState, p *model.Person) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LString(p.ID().String()))
	t.RawSetString("first", lua.LString(p.FirstName()))
	t.RawSetString("middle", lua.LString(p.MiddleName()))
	t.RawSetString("last", lua.LString(p.LastName()))
	t.RawSetString("gender", lua.LString(p.Gender().String()))
	t.RawSetString("name", lua.LString(p.FullName()))
	return t
}

// checkIndex reads a 1-based person index and returns it 0-based.
func (r *Runtime) checkIndex(L *lua.LState, n int) int {
	i := L.CheckInt(n)
	if i < 1 || i > r.window.People().Len() {
		L.ArgError(n, fmt.Sprintf("index %d out of range [1, %d]", i, r.window.People().Len()))
	}
	return i - 1
}

// checkForm reads a form table: first, middle, last, gender.
func checkForm(L *lua.LState, n int) Form {
	t := L.CheckTable(n)
	var f Form
	str := func(key string) *string {
		v := t.RawGetString(key)
		if v == lua.LNil {
			return nil
		}
		s := lua.LVAsString(v)
		return &s
	}
	f.FirstName = str("first")
	f.MiddleName = str("middle")
	f.LastName = str("last")
	if g := str("gender"); g != nil {
		gender := model.ParseGender(*g)
		f.Gender = &gender
	}
	return f
}

func (r *Runtime) peopleCount(L *lua.LState) int {
	L.Push(lua.LNumber(r.window.People().Len()))
	return 1
}

func (r *Runtime) peopleList(L *lua.LState) int {
	t := L.NewTable()
	for _, p := range r.window.People().Values() {
		t.Append(personTable(L, p))
	}
	L.Push(t)
	return 1
}

func (r *Runtime) peopleGet(L *lua.LState) int {
	p, _ := r.window.People().At(r.checkIndex(L, 1))
	L.Push(personTable(L, p))
	return 1
}

func (r *Runtime) peopleSelect(L *lua.LState) int {
	if L.Get(1) == lua.LNil {
		r.window.SetSelectedPerson(nil)
		return 0
	}
	_ = r.window.Select(r.checkIndex(L, 1))
	return 0
}

func (r *Runtime) peopleSelected(L *lua.LState) int {
	p := r.window.SelectedPerson()
	if p == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(r.window.People().IndexOf(p) + 1))
	return 1
}

// peopleAdd fills the add dialog with a form and returns whether the
// person was added.
func (r *Runtime) peopleAdd(L *lua.LState) int {
	r.dialogs.QueueForm(checkForm(L, 1))
	before := r.window.People().Len()
	if err := r.window.Add.Execute(callContext(L)); err != nil {
		return pushResult(L, err)
	}
	L.Push(lua.LBool(r.window.People().Len() > before))
	return 1
}

// peopleEdit selects a person and saves a form through the edit dialog.
func (r *Runtime) peopleEdit(L *lua.LState) int {
	i := r.checkIndex(L, 1)
	r.dialogs.QueueForm(checkForm(L, 2))
	_ = r.window.Select(i)
	before, _ := r.memento.Stack().PeekUndo()
	if err := r.window.Edit.Execute(callContext(L)); err != nil {
		return pushResult(L, err)
	}
	after, _ := r.memento.Stack().PeekUndo()
	L.Push(lua.LBool(after != before))
	return 1
}

// peopleRemove selects a person and runs the remove command. An optional
// second argument answers the confirmation.
func (r *Runtime) peopleRemove(L *lua.LState) int {
	i := r.checkIndex(L, 1)
	if L.GetTop() >= 2 {
		answer, err := mvvm.ParseMessageResult(L.CheckString(2))
		if err != nil {
			L.ArgError(2, err.Error())
		}
		r.dialogs.QueueAnswer(answer)
	}
	_ = r.window.Select(i)
	before := r.window.People().Len()
	if err := r.window.Remove.Execute(callContext(L)); err != nil {
		return pushResult(L, err)
	}
	L.Push(lua.LBool(r.window.People().Len() < before))
	return 1
}

// peopleSet writes one property directly, bypassing the dialog.
func (r *Runtime) peopleSet(L *lua.LState) int {
	p, _ := r.window.People().At(r.checkIndex(L, 1))
	field := L.CheckString(2)

	var value any
	switch field {
	case "first":
		field, value = model.PropFirstName, L.CheckString(3)
	case "middle":
		field, value = model.PropMiddleName, L.CheckString(3)
	case "last":
		field, value = model.PropLastName, L.CheckString(3)
	case "gender":
		field, value = model.PropGender, model.ParseGender(L.CheckString(3))
	default:
		L.ArgError(2, fmt.Sprintf("unknown field %q", field))
	}
	return pushResult(L, p.SetProperty(field, value))
}

// ---------------------------------------------------------------------------
// memento
// ---------------------------------------------------------------------------

func (r *Runtime) mementoModule() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"undo":         r.mementoUndo,
		"redo":         r.mementoRedo,
		"can_undo":     r.mementoCanUndo,
		"can_redo":     r.mementoCanRedo,
		"undo_count":   r.mementoUndoCount,
		"redo_count":   r.mementoRedoCount,
		"begin_batch":  r.mementoBeginBatch,
		"end_batch":    r.mementoEndBatch,
		"cancel_batch": r.mementoCancelBatch,
		"batch":        r.mementoBatch,
		"checkpoint":   r.mementoCheckpoint,
		"undo_to":      r.mementoUndoTo,
		"redo_to":      r.mementoRedoTo,
		"history":      r.mementoHistory,
		"clear":        r.mementoClear,
		"max_entries":  r.mementoMaxEntries,
		"dump":         r.mementoDump,
	}
}

// mementoUndo runs the window's undo command, reporting why it is
// disabled when it cannot run.
func (r *Runtime) mementoUndo(L *lua.LState) int {
	err := r.window.Undo.Execute(callContext(L))
	if errors.Is(err, mvvm.ErrCannotExecute) {
		err = memento.ErrNothingToUndo
	}
	return pushResult(L, err)
}

func (r *Runtime) mementoRedo(L *lua.LState) int {
	err := r.window.Redo.Execute(callContext(L))
	if errors.Is(err, mvvm.ErrCannotExecute) {
		err = memento.ErrNothingToRedo
	}
	return pushResult(L, err)
}

func (r *Runtime) mementoCanUndo(L *lua.LState) int {
	L.Push(lua.LBool(r.memento.CanUndo()))
	return 1
}

func (r *Runtime) mementoCanRedo(L *lua.LState) int {
	L.Push(lua.LBool(r.memento.CanRedo()))
	return 1
}

func (r *Runtime) mementoUndoCount(L *lua.LState) int {
	L.Push(lua.LNumber(r.memento.UndoCount()))
	return 1
}

func (r *Runtime) mementoRedoCount(L *lua.LState) int {
	L.Push(lua.LNumber(r.memento.RedoCount()))
	return 1
}

func (r *Runtime) mementoBeginBatch(L *lua.LState) int {
	r.memento.BeginBatch(L.OptString(1, ""))
	return 0
}

func (r *Runtime) mementoEndBatch(L *lua.LState) int {
	return pushResult(L, r.memento.EndBatch())
}

func (r *Runtime) mementoCancelBatch(L *lua.LState) int {
	return pushResult(L, r.memento.CancelBatch())
}

// mementoBatch runs fn as a transaction: a Lua error rolls its changes back.
func (r *Runtime) mementoBatch(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	err := r.memento.Transaction(name, func() error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	})
	return pushResult(L, err)
}

func (r *Runtime) mementoCheckpoint(L *lua.LState) int {
	r.checkpoints = append(r.checkpoints, r.memento.Checkpoint())
	L.Push(lua.LNumber(len(r.checkpoints)))
	return 1
}

func (r *Runtime) checkCheckpoint(L *lua.LState) memento.Checkpoint {
	id := L.CheckInt(1)
	if id < 1 || id > len(r.checkpoints) {
		L.ArgError(1, fmt.Sprintf("unknown checkpoint %d", id))
	}
	return r.checkpoints[id-1]
}

func (r *Runtime) mementoUndoTo(L *lua.LState) int {
	return pushResult(L, r.memento.UndoToCheckpoint(r.checkCheckpoint(L)))
}

func (r *Runtime) mementoRedoTo(L *lua.LState) int {
	return pushResult(L, r.memento.RedoToCheckpoint(r.checkCheckpoint(L)))
}

func infoTable(L *lua.LState, infos []memento.UnitInfo) *lua.LTable {
	t := L.NewTable()
	for _, info := range infos {
		u := L.NewTable()
		u.RawSetString("description", lua.LString(info.Description))
		u.RawSetString("records", lua.LNumber(info.Records))
		t.Append(u)
	}
	return t
}

// mementoHistory returns undo and redo descriptions, most recent last.
func (r *Runtime) mementoHistory(L *lua.LState) int {
	L.Push(infoTable(L, r.memento.UndoInfo()))
	L.Push(infoTable(L, r.memento.RedoInfo()))
	return 2
}

func (r *Runtime) mementoClear(L *lua.LState) int {
	r.memento.Clear()
	r.checkpoints = nil
	return 0
}

// mementoMaxEntries gets, or with an argument sets, the history cap.
func (r *Runtime) mementoMaxEntries(L *lua.LState) int {
	if L.GetTop() >= 1 {
		n := L.CheckInt(1)
		if n <= 0 {
			L.ArgError(1, "max entries must be positive")
		}
		r.memento.SetMaxEntries(n)
	}
	L.Push(lua.LNumber(r.memento.MaxEntries()))
	return 1
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// dumpUnit is the flattened form of a unit shown by memento.dump.
type dumpUnit struct {
	Description string
	Records     []string
}

func dumpUnits(units []*memento.Unit) []dumpUnit {
	out := make([]dumpUnit, len(units))
	for i, u := range units {
		out[i].Description = u.Description()
		for _, rec := range u.Records() {
			out[i].Records = append(out[i].Records, rec.String())
		}
	}
	return out
}

// mementoDump returns a debug dump of the past and future units.
func (r *Runtime) mementoDump(L *lua.LState) int {
	stack := r.memento.Stack()
	dump := dumpConfig.Sdump(dumpUnits(stack.Past()), dumpUnits(stack.Future()))
	L.Push(lua.LString(dump))
	return 1
}

// ---------------------------------------------------------------------------
// dialogs
// ---------------------------------------------------------------------------

func (r *Runtime) dialogsModule() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"answer":  r.dialogsAnswer,
		"fill":    r.dialogsFill,
		"cancel":  r.dialogsCancel,
		"pending": r.dialogsPending,
		"reset":   r.dialogsReset,
	}
}

func (r *Runtime) dialogsAnswer(L *lua.LState) int {
	answer, err := mvvm.ParseMessageResult(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
	}
	r.dialogs.QueueAnswer(answer)
	return 0
}

func (r *Runtime) dialogsFill(L *lua.LState) int {
	r.dialogs.QueueForm(checkForm(L, 1))
	return 0
}

func (r *Runtime) dialogsCancel(L *lua.LState) int {
	r.dialogs.QueueForm(Form{Cancel: true})
	return 0
}

func (r *Runtime) dialogsPending(L *lua.LState) int {
	forms, answers := r.dialogs.Pending()
	L.Push(lua.LNumber(forms))
	L.Push(lua.LNumber(answers))
	return 2
}

func (r *Runtime) dialogsReset(L *lua.LState) int {
	r.dialogs.Reset()
	return 0
}
