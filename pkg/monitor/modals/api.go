package modals

import tea "github.com/charmbracelet/bubbletea"

// ConfirmProps configures the Confirm modal.
type ConfirmProps struct {
	Title string
	// Text is markdown.
	Text         string
	ConfirmLabel string
	Danger       bool
	// OnConfirm and OnCancel run after the dialog has closed itself.
	OnConfirm func() tea.Cmd
	OnCancel  func() tea.Cmd
}

// PushModal opens name on top of the stack.
func (b *Bus) PushModal(name Name, props any) {
	b.Emit(EventPush, Event{Name: name, Props: props})
}

// ReplaceModal closes every open modal and opens name.
func (b *Bus) ReplaceModal(name Name, props any) {
	b.Emit(EventReplace, Event{Name: name, Props: props})
}

// PopModal closes the topmost modal named name, or the top modal when no
// name is given.
func (b *Bus) PopModal(name ...Name) {
	var n Name
	if len(name) > 0 {
		n = name[0]
	}
	b.Emit(EventPop, Event{Name: n})
}

// UnshiftModal closes the bottommost modal named name.
func (b *Bus) UnshiftModal(name Name) {
	b.Emit(EventUnshift, Event{Name: name})
}

// ShowConfirm opens a confirmation dialog.
func (b *Bus) ShowConfirm(props ConfirmProps) {
	b.PushModal(Confirm, props)
}

// EmitMsg asks the Provider to emit an event from the update loop. It lets
// code running in a tea.Cmd goroutine change the stack without touching it.
type EmitMsg struct {
	Kind  EventKind
	Event Event
}

func emitCmd(kind EventKind, ev Event) tea.Cmd {
	return func() tea.Msg { return EmitMsg{Kind: kind, Event: ev} }
}

// PushCmd is the command form of PushModal.
func PushCmd(name Name, props any) tea.Cmd {
	return emitCmd(EventPush, Event{Name: name, Props: props})
}

// ReplaceCmd is the command form of ReplaceModal.
func ReplaceCmd(name Name, props any) tea.Cmd {
	return emitCmd(EventReplace, Event{Name: name, Props: props})
}

// PopCmd is the command form of PopModal.
func PopCmd(name ...Name) tea.Cmd {
	var n Name
	if len(name) > 0 {
		n = name[0]
	}
	return emitCmd(EventPop, Event{Name: n})
}

// UnshiftCmd is the command form of UnshiftModal.
func UnshiftCmd(name Name) tea.Cmd {
	return emitCmd(EventUnshift, Event{Name: name})
}

// ConfirmCmd is the command form of ShowConfirm.
func ConfirmCmd(props ConfirmProps) tea.Cmd {
	return PushCmd(Confirm, props)
}
