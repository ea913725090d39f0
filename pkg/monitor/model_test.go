package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/openpanel/panel/internal/catalog"
	"github.com/openpanel/panel/internal/config"
	"github.com/openpanel/panel/internal/models"
	"github.com/openpanel/panel/pkg/monitor/modals"
	"github.com/openpanel/panel/pkg/monitor/views"
)

var testOrg = models.Organization{ID: "acme", Name: "Acme"}

type testEnv struct {
	store    *catalog.Memory
	projects []models.Project
	clients  []models.Client
	member   models.Member
	copied   []string
}

func newTestModel(t *testing.T) (Model, *testEnv) {
	t.Helper()
	ctx := context.Background()
	env := &testEnv{store: catalog.NewMemory(testOrg)}
	for _, name := range []string{"Marketing site", "Mobile app", "Docs"} {
		p, err := env.store.CreateProject(ctx, testOrg.ID, name)
		if err != nil {
			t.Fatalf("seed project: %v", err)
		}
		env.projects = append(env.projects, p)
	}
	for _, in := range []catalog.ClientInput{
		{Name: "Web", ProjectID: env.projects[0].ID},
		{Name: "Ingest", WithSecret: true},
	} {
		c, err := env.store.CreateClient(ctx, testOrg.ID, in)
		if err != nil {
			t.Fatalf("seed client: %v", err)
		}
		env.clients = append(env.clients, c)
	}
	seedTeam(t, env)

	n := 0
	m := NewModel(Options{
		Catalog: env.store,
		Org:     testOrg,
		Config:  config.Config{UI: config.UIConfig{Backdrop: true}},
		ModalOptions: []modals.Option{modals.WithKeyFunc(func() string {
			n++
			return fmt.Sprintf("k%d", n)
		})},
	})
	m.clipboard = func(s string) error {
		env.copied = append(env.copied, s)
		return nil
	}
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})
	m = drain(t, m, m.Init())
	if len(m.Projects) != 3 || len(m.Clients) != 2 {
		t.Fatalf("initial data: %d projects, %d clients", len(m.Projects), len(m.Clients))
	}
	return m, env
}

// seedTeam adds one member, one pending invite and one revoked invite.
func seedTeam(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	invite := func(email string, access ...string) models.Invite {
		inv, err := env.store.CreateInvite(ctx, testOrg.ID, catalog.InviteInput{Email: email, Access: access})
		if err != nil {
			t.Fatalf("seed invite: %v", err)
		}
		return inv
	}
	var err error
	if env.member, err = env.store.AcceptInvite(ctx, invite("ada@example.com").ID, "Ada"); err != nil {
		t.Fatalf("seed member: %v", err)
	}
	invite("new@example.com", env.projects[1].ID)
	if err := env.store.RevokeInvite(ctx, invite("gone@example.com").ID); err != nil {
		t.Fatalf("seed revoked invite: %v", err)
	}
}

// selectInvite moves the invites cursor to the invite sent to email.
func selectInvite(t *testing.T, m Model, email string) Model {
	t.Helper()
	m = send(t, m, key("2"))
	if m.ActivePane != PaneInvites {
		m = send(t, m, key("tab"))
	}
	m = send(t, m, key("g"))
	for i, inv := range m.Invites {
		if inv.Email == email {
			for range i {
				m = send(t, m, key("j"))
			}
			return m
		}
	}
	t.Fatalf("no invite for %s in %+v", email, m.Invites)
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

// send delivers msg without running the returned command.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// drain runs cmd and feeds its messages back until the queue is empty.
// Commands that block, such as cursor blinks, are dropped.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 200; steps++ {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := runCmd(c)
		if !ok {
			continue
		}
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		case tea.QuitMsg, spinner.TickMsg:
			continue
		}
		next, cmd := m.Update(msg)
		m = next.(Model)
		queue = append(queue, cmd)
	}
	return m
}

func runCmd(c tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(50 * time.Millisecond):
		return nil, false
	}
}

// press sends a key and runs the resulting commands.
func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	next, cmd := m.Update(key(k))
	return drain(t, next.(Model), cmd)
}

func topEntry(t *testing.T, m Model) modals.Entry {
	t.Helper()
	top, ok := m.Modals().Stack().Top()
	if !ok {
		t.Fatal("no modal open")
	}
	return top
}

func TestCursorMovementAndPanes(t *testing.T) {
	m, _ := newTestModel(t)

	for _, k := range []string{"j", "down", "j", "j"} {
		m = send(t, m, key(k))
	}
	if m.ProjectRow != 2 {
		t.Errorf("ProjectRow = %d, want clamped to 2", m.ProjectRow)
	}

	m = send(t, m, key("tab"))
	if m.ActivePane != PaneClients {
		t.Fatalf("ActivePane = %s", m.ActivePane)
	}
	m = send(t, m, key("G"))
	if m.ClientRow != 1 || m.ProjectRow != 2 {
		t.Errorf("ClientRow = %d ProjectRow = %d", m.ClientRow, m.ProjectRow)
	}
	m = send(t, m, key("g"))
	if m.ClientRow != 0 {
		t.Errorf("g: ClientRow = %d", m.ClientRow)
	}
}

func TestKeysOpenModals(t *testing.T) {
	tests := []struct {
		name  string
		pane  Pane
		key   string
		want  modals.Name
		check func(t *testing.T, props any, env *testEnv)
	}{
		{name: "add project", pane: PaneProjects, key: "a", want: modals.AddProject, check: func(t *testing.T, props any, _ *testEnv) {
			if props != nil {
				t.Errorf("props = %v, want nil", props)
			}
		}},
		{name: "edit project", pane: PaneProjects, key: "e", want: modals.EditProject, check: func(t *testing.T, props any, env *testEnv) {
			if p := props.(views.EditProjectProps); p.Project.ID != env.projects[1].ID {
				t.Errorf("editing %+v", p.Project)
			}
		}},
		{name: "edit client from clients pane", pane: PaneClients, key: "e", want: modals.EditClient, check: func(t *testing.T, props any, env *testEnv) {
			if p := props.(views.EditClientProps); p.Client.ID != env.clients[1].ID {
				t.Errorf("editing %+v", p.Client)
			}
		}},
		{name: "edit client shortcut", pane: PaneProjects, key: "C", want: modals.EditClient, check: func(t *testing.T, props any, env *testEnv) {
			if p := props.(views.EditClientProps); p.Client.ID != env.clients[1].ID {
				t.Errorf("editing %+v", p.Client)
			}
		}},
		{name: "add client for selected project", pane: PaneProjects, key: "c", want: modals.AddClient, check: func(t *testing.T, props any, env *testEnv) {
			if p := props.(views.AddClientProps); p.ProjectID != env.projects[1].ID {
				t.Errorf("ProjectID = %q", p.ProjectID)
			}
		}},
		{name: "add client from clients pane", pane: PaneClients, key: "c", want: modals.AddClient, check: func(t *testing.T, props any, _ *testEnv) {
			if p := props.(views.AddClientProps); p.ProjectID != "" {
				t.Errorf("ProjectID = %q, want none", p.ProjectID)
			}
		}},
		{name: "save report", pane: PaneProjects, key: "r", want: modals.SaveReport, check: func(t *testing.T, props any, env *testEnv) {
			if p := props.(views.SaveReportProps); p.ProjectID != env.projects[1].ID {
				t.Errorf("ProjectID = %q", p.ProjectID)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, env := newTestModel(t)
			// Second row in both panes.
			m = send(t, m, key("j"))
			m = send(t, m, key("tab"))
			m = send(t, m, key("j"))
			if tt.pane == PaneProjects {
				m = send(t, m, key("tab"))
			}

			m = send(t, m, key(tt.key))
			top := topEntry(t, m)
			if top.Name != tt.want {
				t.Fatalf("opened %s, want %s", top.Name, tt.want)
			}
			tt.check(t, top.Props, env)
		})
	}
}

func TestModalReceivesKeysUntilDismissed(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "a")
	if !strings.Contains(ansi.Strip(m.View()), "Create project") {
		t.Fatalf("dialog not drawn:\n%s", ansi.Strip(m.View()))
	}

	m = press(t, m, "j")
	m = press(t, m, "q")
	if m.ProjectRow != 0 {
		t.Errorf("dashboard moved while a dialog was open")
	}
	if m.Modals().Len() != 1 {
		t.Fatalf("q closed the dialog")
	}

	m = press(t, m, "esc")
	if m.Modals().Open() {
		t.Fatal("escape did not close the dialog")
	}
	if strings.Contains(ansi.Strip(m.View()), "Create project") {
		t.Error("dialog still drawn after escape")
	}
	m = press(t, m, "j")
	if m.ProjectRow != 1 {
		t.Errorf("dashboard did not get keys back, ProjectRow = %d", m.ProjectRow)
	}
}

func TestClickOutsideDismissesDialog(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(t, m, "a")
	m.View()

	next, cmd := m.Update(click(0, 0))
	m = drain(t, next.(Model), cmd)
	if m.Modals().Open() {
		t.Error("outside click did not close the dialog")
	}
	if m.ActivePane != PaneProjects || m.ProjectRow != 0 {
		t.Error("dismissing click reached the dashboard")
	}
}

func TestDeleteProjectThroughConfirm(t *testing.T) {
	m, env := newTestModel(t)

	m = send(t, m, key("d"))
	top := topEntry(t, m)
	props, ok := top.Props.(modals.ConfirmProps)
	if top.Name != modals.Confirm || !ok {
		t.Fatalf("opened %s with %T", top.Name, top.Props)
	}
	if !props.Danger || !strings.Contains(props.Text, "Marketing site") {
		t.Errorf("confirm props = %+v", props)
	}

	m = drain(t, m, props.OnConfirm())
	if len(m.Projects) != 2 {
		t.Errorf("projects after delete = %d", len(m.Projects))
	}
	if m.StatusIsError || !strings.Contains(m.StatusMessage, "Deleted project") {
		t.Errorf("status = %q", m.StatusMessage)
	}
	// The detached client is now organization-wide.
	clients, _ := env.store.ListClients(context.Background(), testOrg.ID)
	if clients[0].ProjectID != "" {
		t.Errorf("client still attached to %q", clients[0].ProjectID)
	}
}

func TestDeleteClientThroughConfirm(t *testing.T) {
	m, env := newTestModel(t)
	m = send(t, m, key("tab"))
	m = send(t, m, key("d"))

	props := topEntry(t, m).Props.(modals.ConfirmProps)
	if !strings.Contains(props.Text, env.clients[0].ID) {
		t.Errorf("confirm text = %q", props.Text)
	}
	m = drain(t, m, props.OnConfirm())
	if len(m.Clients) != 1 || m.Clients[0].ID != env.clients[1].ID {
		t.Errorf("clients after delete = %+v", m.Clients)
	}
}

func TestDeleteFailureShowsError(t *testing.T) {
	m, env := newTestModel(t)
	m = send(t, m, key("d"))
	props := topEntry(t, m).Props.(modals.ConfirmProps)

	if err := env.store.RemoveProject(context.Background(), env.projects[0].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	m = drain(t, m, props.OnConfirm())
	if !m.StatusIsError || !strings.Contains(m.StatusMessage, "delete project") {
		t.Errorf("status = %q error=%v", m.StatusMessage, m.StatusIsError)
	}
}

func TestChangedMsgRefreshes(t *testing.T) {
	m, env := newTestModel(t)
	p, err := env.store.CreateProject(context.Background(), testOrg.ID, "Checkout")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	next, cmd := m.Update(views.ChangedMsg{Kind: views.ProjectCreated, Project: p})
	m = drain(t, next.(Model), cmd)
	if len(m.Projects) != 4 {
		t.Errorf("projects = %d, want 4", len(m.Projects))
	}
	if !strings.Contains(m.StatusMessage, "Checkout") {
		t.Errorf("status = %q", m.StatusMessage)
	}
}

func TestSaveFinishingAfterDialogClosed(t *testing.T) {
	m, env := newTestModel(t)
	m.Modals().Bus().PushModal(modals.AddProject, views.AddProjectProps{Name: "Checkout"})
	m = drain(t, m, m.Modals().Flush())
	dialog := topEntry(t, m).Key

	// The write lands while the dialog is dismissed with Escape.
	p, err := env.store.CreateProject(context.Background(), testOrg.ID, "Checkout")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	m = press(t, m, "esc")
	if m.Modals().Open() {
		t.Fatal("escape did not close the dialog")
	}

	next, cmd := m.Update(views.SavedMsg{Key: dialog, Changed: views.ChangedMsg{Kind: views.ProjectCreated, Project: p}})
	m = drain(t, next.(Model), cmd)
	if len(m.Projects) != 4 {
		t.Errorf("projects = %d, want 4", len(m.Projects))
	}
	if m.StatusIsError || !strings.Contains(m.StatusMessage, "Checkout") {
		t.Errorf("status = %q error=%v", m.StatusMessage, m.StatusIsError)
	}
}

func TestSaveErrorStatus(t *testing.T) {
	boom := errors.New("catalog offline")
	tests := []struct {
		name      string
		closeIt   bool
		wantError bool
	}{
		{"dialog open shows its own error", false, false},
		{"dialog dismissed reports to the footer", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			m.Modals().Bus().PushModal(modals.AddProject, nil)
			m = drain(t, m, m.Modals().Flush())
			dialog := topEntry(t, m).Key
			if tt.closeIt {
				m = press(t, m, "esc")
			}

			m = send(t, m, views.SavedMsg{Key: dialog, Err: boom})
			if m.StatusIsError != tt.wantError {
				t.Errorf("status = %q error=%v, want error=%v", m.StatusMessage, m.StatusIsError, tt.wantError)
			}
		})
	}
}

func TestTeamPage(t *testing.T) {
	m, env := newTestModel(t)
	if len(m.Members) != 1 || len(m.Invites) != 3 {
		t.Fatalf("team: %d members, %d invites", len(m.Members), len(m.Invites))
	}

	steps := []struct {
		key  string
		want Pane
	}{
		{"2", PaneMembers},
		{"tab", PaneInvites},
		{"2", PaneInvites},
		{"tab", PaneMembers},
		{"1", PaneProjects},
		{"tab", PaneClients},
		{"1", PaneClients},
	}
	for _, st := range steps {
		m = send(t, m, key(st.key))
		if m.ActivePane != st.want {
			t.Fatalf("after %q: ActivePane = %s, want %s", st.key, m.ActivePane, st.want)
		}
	}

	m = send(t, m, key("2"))
	view := ansi.Strip(m.View())
	for _, want := range []string{"MEMBERS (1)", "INVITES (3)", env.member.Name, "All projects", "new@example.com", "Mobile app", "revoked", "1 members · 3 invites"} {
		if !strings.Contains(view, want) {
			t.Errorf("team page missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "PROJECTS") {
		t.Errorf("projects pane drawn on the team page:\n%s", view)
	}
	for i, line := range strings.Split(m.View(), "\n") {
		if w := ansi.StringWidth(line); w > m.Width {
			t.Errorf("line %d width %d > %d", i, w, m.Width)
		}
	}
}

func TestInviteKeyPassesProjects(t *testing.T) {
	m, _ := newTestModel(t)
	m = send(t, m, key("2"))
	m = send(t, m, key("i"))
	top := topEntry(t, m)
	if top.Name != modals.AddInvite {
		t.Fatalf("opened %s, want AddInvite", top.Name)
	}
	if p := top.Props.(views.AddInviteProps); len(p.Projects) != len(m.Projects) {
		t.Errorf("props carry %d projects, want %d", len(p.Projects), len(m.Projects))
	}
}

func TestRevokeInviteThroughConfirm(t *testing.T) {
	m, env := newTestModel(t)
	m = selectInvite(t, m, "new@example.com")

	m = press(t, m, "d")
	top := topEntry(t, m)
	props, ok := top.Props.(modals.ConfirmProps)
	if top.Name != modals.Confirm || !ok {
		t.Fatalf("opened %s with %T", top.Name, top.Props)
	}
	if !props.Danger || props.Title != "Revoke invite" || !strings.Contains(props.Text, "new@example.com") {
		t.Errorf("confirm props = %+v", props)
	}

	m = press(t, m, "y")
	if m.Modals().Open() {
		t.Error("confirm stayed open")
	}
	if m.StatusIsError || m.StatusMessage != "Invite for new@example.com revoked" {
		t.Errorf("status = %q error=%v", m.StatusMessage, m.StatusIsError)
	}
	invites, _ := env.store.ListInvites(context.Background(), testOrg.ID)
	for _, inv := range invites {
		if inv.Status == models.InvitePending {
			t.Errorf("invite still pending: %+v", inv)
		}
	}
	for _, inv := range m.Invites {
		if inv.Email == "new@example.com" && inv.Status != models.InviteRevoked {
			t.Errorf("dashboard not refreshed: %+v", inv)
		}
	}
}

func TestRevokeSettledInvite(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{"revoked", "gone@example.com"},
		{"accepted", "ada@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			m = selectInvite(t, m, tt.email)
			m = press(t, m, "d")
			if m.Modals().Open() {
				t.Fatalf("opened %s for a settled invite", topEntry(t, m).Name)
			}
			if !m.StatusIsError || !strings.Contains(m.StatusMessage, tt.name) {
				t.Errorf("status = %q error=%v", m.StatusMessage, m.StatusIsError)
			}
		})
	}
}

func TestRevokeFailureShowsError(t *testing.T) {
	m, env := newTestModel(t)
	m = selectInvite(t, m, "new@example.com")
	m = send(t, m, key("d"))
	props := topEntry(t, m).Props.(modals.ConfirmProps)

	inv, _ := m.selectedInvite()
	if err := env.store.RevokeInvite(context.Background(), inv.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	m = drain(t, m, props.OnConfirm())
	if !m.StatusIsError || !strings.Contains(m.StatusMessage, "revoke invite for new@example.com") {
		t.Errorf("status = %q error=%v", m.StatusMessage, m.StatusIsError)
	}
}

func TestSaveReportWithoutProjects(t *testing.T) {
	store := catalog.NewMemory(testOrg)
	m := NewModel(Options{Catalog: store, Org: testOrg})
	m = drain(t, m, m.Init())

	m = send(t, m, key("r"))
	if m.Modals().Open() {
		t.Error("report dialog opened without a project")
	}
	if !m.StatusIsError {
		t.Errorf("status = %q", m.StatusMessage)
	}
	for _, k := range []string{"e", "d", "C", "y"} {
		m = send(t, m, key(k))
	}
	if m.Modals().Open() {
		t.Error("a dialog opened with nothing selected")
	}
}

func TestCopyClient(t *testing.T) {
	m, env := newTestModel(t)
	m = send(t, m, key("tab"))

	m = press(t, m, "y")
	if len(env.copied) != 1 || env.copied[0] != env.clients[0].ID {
		t.Fatalf("copied = %v", env.copied)
	}
	if m.StatusMessage != "Copied client id" {
		t.Errorf("status = %q", m.StatusMessage)
	}

	m = press(t, m, "Y")
	if len(env.copied) != 2 || !strings.Contains(env.copied[1], "Marketing site") {
		t.Errorf("markdown copy = %q", env.copied)
	}

	m.clipboard = func(string) error { return errors.New("no clipboard") }
	m = press(t, m, "y")
	if !m.StatusIsError {
		t.Errorf("status = %q, want error", m.StatusMessage)
	}
}

func TestLoadErrorQuits(t *testing.T) {
	m, _ := newTestModel(t)
	next, cmd := m.Update(modals.LoadErrorMsg{Name: modals.AddClient, Key: "k9", Err: modals.ErrUnknownModal})
	m = next.(Model)

	if m.Err == nil {
		t.Fatal("Err not recorded")
	}
	var sawQuit bool
	for _, msg := range collect(cmd) {
		if _, ok := msg.(tea.QuitMsg); ok {
			sawQuit = true
		}
	}
	if !sawQuit {
		t.Error("dashboard did not quit")
	}
	if n := m.Modals().Bus().HandlerCount(modals.EventPush); n != 0 {
		t.Errorf("provider still mounted, %d push handlers", n)
	}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg, ok := runCmd(cmd)
	if !ok {
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m, _ := newTestModel(t)
			_, cmd := m.Update(key(k))
			var sawQuit bool
			for _, msg := range collect(cmd) {
				if _, ok := msg.(tea.QuitMsg); ok {
					sawQuit = true
				}
			}
			if !sawQuit {
				t.Error("no quit")
			}
		})
	}
}

func TestMouseSelectsRows(t *testing.T) {
	m, _ := newTestModel(t)
	m.View()

	m = send(t, m, click(3, listTop+2))
	if m.ActivePane != PaneProjects || m.ProjectRow != 2 {
		t.Errorf("click on third project: pane=%s row=%d", m.ActivePane, m.ProjectRow)
	}

	leftW, _ := m.paneWidths()
	m.View()
	m = send(t, m, click(leftW+3, listTop+1))
	if m.ActivePane != PaneClients || m.ClientRow != 1 {
		t.Errorf("click on second client: pane=%s row=%d", m.ActivePane, m.ClientRow)
	}

	m.View()
	m = send(t, m, click(3, listTop+10))
	if m.ActivePane != PaneProjects || m.ProjectRow != 2 {
		t.Errorf("click on empty project space: pane=%s row=%d", m.ActivePane, m.ProjectRow)
	}
}

func TestViewFillsWindow(t *testing.T) {
	m, _ := newTestModel(t)
	m.StatusMessage = strings.Repeat("long status ", 20)

	for _, open := range []bool{false, true} {
		if open {
			m = press(t, m, "a")
		}
		view := m.View()
		if h := lipgloss.Height(view); h != m.Height {
			t.Errorf("open=%v height = %d, want %d", open, h, m.Height)
		}
		for i, line := range strings.Split(view, "\n") {
			if w := ansi.StringWidth(line); w > m.Width {
				t.Errorf("open=%v line %d width %d > %d", open, i, w, m.Width)
			}
		}
	}
}

func TestScrollKeepsCursorVisible(t *testing.T) {
	store := catalog.NewMemory(testOrg)
	for i := range 30 {
		if _, err := store.CreateProject(context.Background(), testOrg.ID, fmt.Sprintf("Project %02d", i)); err != nil {
			t.Fatal(err)
		}
	}
	m := NewModel(Options{Catalog: store, Org: testOrg})
	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 12})
	m = drain(t, m, m.Init())

	m = send(t, m, key("G"))
	visible := m.visibleRows()
	if m.ProjectRow != 29 || m.ProjectScroll != 29-visible+1 {
		t.Errorf("row=%d scroll=%d visible=%d", m.ProjectRow, m.ProjectScroll, visible)
	}
	if !strings.Contains(ansi.Strip(m.View()), "Project 29") {
		t.Error("last project not drawn")
	}
	m = send(t, m, key("g"))
	if m.ProjectScroll != 0 {
		t.Errorf("scroll = %d after g", m.ProjectScroll)
	}
}
