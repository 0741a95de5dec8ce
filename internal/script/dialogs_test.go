package script

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/memento/internal/config"
	"github.com/dshills/memento/internal/model"
	"github.com/dshills/memento/internal/mvvm"
	"github.com/dshills/memento/internal/viewmodel"
)

type titled string

func (t titled) Title() string { return string(t) }

func TestDialogsDefaultAnswers(t *testing.T) {
	tests := []struct {
		confirm string
		buttons mvvm.MessageButton
		want    mvvm.MessageResult
	}{
		{confirm: "yes", buttons: mvvm.ButtonYesNo, want: mvvm.ResultYes},
		{confirm: "no", buttons: mvvm.ButtonYesNo, want: mvvm.ResultNo},
		{confirm: "yes", buttons: mvvm.ButtonOK, want: mvvm.ResultOK},
		{confirm: "no", buttons: mvvm.ButtonOK, want: mvvm.ResultOK},
		{confirm: "yes", buttons: mvvm.ButtonOKCancel, want: mvvm.ResultOK},
		{confirm: "no", buttons: mvvm.ButtonOKCancel, want: mvvm.ResultCancel},
	}

	for _, tt := range tests {
		t.Run(tt.confirm+"/"+tt.buttons.String(), func(t *testing.T) {
			d := NewDialogs(config.DialogsConfig{Confirm: tt.confirm}, nil)
			got, err := d.Show(context.Background(), "msg", "caption", tt.buttons)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDialogsQueuedAnswersFirst(t *testing.T) {
	out := &bytes.Buffer{}
	d := NewDialogs(config.DialogsConfig{Confirm: "yes"}, out)
	d.QueueAnswer(mvvm.ResultNo)

	got, err := d.Show(context.Background(), "Sure?", "Q", mvvm.ButtonYesNo)
	require.NoError(t, err)
	assert.Equal(t, mvvm.ResultNo, got)

	got, err = d.Show(context.Background(), "Sure?", "Q", mvvm.ButtonYesNo)
	require.NoError(t, err)
	assert.Equal(t, mvvm.ResultYes, got)
	assert.Equal(t, "[Q] Sure? -> no\n[Q] Sure? -> yes\n", out.String())
}

func TestDialogsUnsupportedViewModel(t *testing.T) {
	d := NewDialogs(config.Default().Dialogs, nil)
	_, err := d.ShowDialog(context.Background(), titled("Settings"))
	assert.ErrorIs(t, err, ErrUnsupportedDialog)
}

func TestDialogsCancelledContext(t *testing.T) {
	d := NewDialogs(config.Default().Dialogs, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Show(ctx, "m", "c", mvvm.ButtonYesNo)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = d.ShowDialog(ctx, titled("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDialogsAutoAccept(t *testing.T) {
	p := model.NewPerson(model.GenderMale, "Fred", "", "Retteket")

	d := NewDialogs(config.DialogsConfig{Confirm: "yes", AutoAccept: false}, nil)
	editor := viewmodel.NewPersonEditor(p, nil)
	editor.SetFirstName("Frederik")
	got, err := d.ShowDialog(context.Background(), editor)
	require.NoError(t, err)
	assert.False(t, mvvm.Confirmed(got))
	assert.Equal(t, "Fred", p.FirstName())
	assert.Equal(t, "Fred", editor.FirstName())

	d.Configure(config.DialogsConfig{Confirm: "yes", AutoAccept: true})
	editor.SetFirstName("Frederik")
	got, err = d.ShowDialog(context.Background(), editor)
	require.NoError(t, err)
	assert.True(t, mvvm.Confirmed(got))
	assert.Equal(t, "Frederik", p.FirstName())
}

func TestDialogsFormAppliesFields(t *testing.T) {
	p := model.NewPerson(model.GenderUnknown, "", "", "")
	d := NewDialogs(config.Default().Dialogs, nil)

	first, last := "Alice", "Smith"
	female := model.GenderFemale
	d.QueueForm(Form{FirstName: &first, LastName: &last, Gender: &female})
	forms, answers := d.Pending()
	assert.Equal(t, 1, forms)
	assert.Equal(t, 0, answers)

	got, err := d.ShowDialog(context.Background(), viewmodel.NewPersonEditor(p, nil))
	require.NoError(t, err)
	assert.True(t, mvvm.Confirmed(got))
	assert.Equal(t, "Alice Smith (female)", p.String())

	d.QueueForm(Form{Cancel: true})
	d.QueueAnswer(mvvm.ResultNo)
	d.Reset()
	forms, answers = d.Pending()
	assert.Zero(t, forms+answers)
}
