// Package modal builds dialog boxes out of sections and tracks where each
// focusable element was drawn, so keyboard and mouse input resolve to the
// same element IDs.
//
// A Modal renders only its own box. Placement on screen, the backdrop and
// dismissal belong to the stack in package modals, which translates mouse
// coordinates so they are relative to the box before calling HandleMouse.
//
// A delete confirmation:
//
//	m := modal.New("Delete project", modal.WithVariant(modal.VariantDanger)).
//	    AddSection(modal.Text("Clients attached to it become organization-wide.")).
//	    AddSection(modal.Spacer()).
//	    AddSection(modal.Buttons(
//	        modal.Btn(" Delete ", "delete", modal.BtnDanger()),
//	        modal.Btn(" Cancel ", "cancel"),
//	    ))
//
//	box := m.Render(maxWidth)
//	action, cmd := m.HandleKey(keyMsg) // "delete", "cancel" or ""
//
// Sections: Text, Raw, Spacer, Buttons, Checkbox, Input, List, When and
// Custom. Tab and Shift+Tab move focus between focusable elements; Enter
// activates the focused button or, from an input, the primary action set
// with WithPrimaryAction.
package modal
