package unified

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/config"
	"github.com/blackwell-systems/shelfshop/internal/gateway"
	"github.com/blackwell-systems/shelfshop/internal/nav"
	"github.com/blackwell-systems/shelfshop/internal/notify"
	"github.com/blackwell-systems/shelfshop/internal/session"
	"github.com/blackwell-systems/shelfshop/internal/shop"
)

func newTestState(t *testing.T) (*shop.State, map[string]string) {
	t.Helper()
	mem := gateway.NewMemory()
	ids := map[string]string{}
	for _, role := range []string{"admin", "manager", "user"} {
		email := role + "@bookstore.com"
		id := mem.AddAccount(email, role+"123", "")
		mem.Seed(gateway.CollectionUsers, id, gateway.Record{"email": email, "name": role, "role": role})
		ids[role] = id
	}
	mem.Seed(gateway.CollectionBooks, "dune", gateway.Record{"title": "Dune", "author": "Herbert", "price": 12.5, "inStock": int64(2), "genre": "Sci-Fi"})
	mem.Seed(gateway.CollectionBooks, "emma", gateway.Record{"title": "Emma", "author": "Austen", "price": 8.0, "inStock": int64(9), "genre": "Classic"})
	state := shop.New(shop.Options{
		Gateway:  mem,
		Logger:   zerolog.Nop(),
		Settings: shop.Settings{Theme: config.ThemeLight, Language: config.LanguageEN},
	})
	return state, ids
}

// signedIn returns a model already in the main phase for role.
func signedIn(t *testing.T, role string) (Model, *shop.State, map[string]string) {
	t.Helper()
	state, ids := newTestState(t)
	if _, err := state.Login(context.Background(), role+"@bookstore.com", role+"123"); err != nil {
		t.Fatalf("login %s: %v", role, err)
	}
	m := drive(t, New(context.Background(), state, zerolog.Nop()), authCompleteMsg{})
	if m.phase != phaseMain {
		t.Fatalf("phase = %v, want main", m.phase)
	}
	return m, state, ids
}

func press(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drive feeds msg to m, then every application message its commands
// produce. Timer-driven messages are dropped.
func drive(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		updated, cmd := m.Update(next)
		m = updated.(Model)
		queue = append(queue, collect(cmd)...)
	}
	return m
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(time.Second):
		return nil
	}
	switch msg := msg.(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case NavigateMsg, BackMsg, QuitAppMsg, startedMsg, authCompleteMsg, logoutCompleteMsg,
		refreshCompleteMsg, profileSavedMsg, productSavedMsg, productDeletedMsg,
		userChangedMsg, settingsChangedMsg:
		return []tea.Msg{msg}
	}
	return nil
}

func hasToast(q *notify.Queue, kind notify.Kind, text string) bool {
	for _, t := range q.Active() {
		if t.Kind == kind && t.Message == text {
			return true
		}
	}
	return false
}

func TestModel_SignedOutStartShowsAuth(t *testing.T) {
	state, _ := newTestState(t)
	m := drive(t, New(context.Background(), state, zerolog.Nop()), startedMsg{})
	if m.phase != phaseAuth {
		t.Fatalf("phase = %v, want auth", m.phase)
	}
}

func TestModel_LoginFromAuthScreen(t *testing.T) {
	state, _ := newTestState(t)
	m := drive(t, New(context.Background(), state, zerolog.Nop()), startedMsg{})

	m = drive(t, m, press("user@bookstore.com"))
	m = drive(t, m, press("enter"))
	m = drive(t, m, press("user123"))
	m = drive(t, m, press("enter"))

	if m.phase != phaseMain {
		t.Fatalf("phase = %v, want main (form error %q)", m.phase, m.auth.form.err)
	}
	if got := state.Nav.Current(); got != access.ScreenHome {
		t.Errorf("screen = %s, want home", got)
	}
	if n := len(state.Catalog.Products()); n != 2 {
		t.Errorf("catalog has %d products, want 2", n)
	}
}

func TestModel_WrongPasswordStaysOnAuth(t *testing.T) {
	state, _ := newTestState(t)
	m := drive(t, New(context.Background(), state, zerolog.Nop()), startedMsg{})

	m = drive(t, m, press("user@bookstore.com"))
	m = drive(t, m, press("enter"))
	m = drive(t, m, press("nope"))
	m = drive(t, m, press("enter"))

	if m.phase != phaseAuth {
		t.Fatalf("phase = %v, want auth", m.phase)
	}
	if m.auth.form.err != "Invalid email or password" {
		t.Errorf("form error = %q", m.auth.form.err)
	}
}

func TestModel_TabKeysFollowRole(t *testing.T) {
	m, state, _ := signedIn(t, "user")

	m = drive(t, m, press("2"))
	if got := state.Nav.Current(); got != access.ScreenCart {
		t.Fatalf("after 2: screen = %s, want cart", got)
	}
	m = drive(t, m, press("4"))
	if got := state.Nav.Current(); got != access.ScreenCart {
		t.Errorf("user has three tabs; 4 moved to %s", got)
	}

	m, state, _ = signedIn(t, "manager")
	_ = drive(t, m, press("4"))
	if got := state.Nav.Current(); got != access.ScreenManager {
		t.Errorf("manager tab 4: screen = %s", got)
	}
}

func TestModel_DeniedNavigationRedirectsHome(t *testing.T) {
	m, state, _ := signedIn(t, "user")
	m = drive(t, m, press("2"))

	_ = drive(t, m, NavigateMsg{Target: access.ScreenAdmin})

	if got := state.Nav.Current(); got != access.ScreenHome {
		t.Errorf("screen = %s, want home", got)
	}
	if !hasToast(state.Toasts, notify.KindWarning, nav.DeniedMessage) {
		t.Error("expected a denial warning toast")
	}
}

func TestModel_BackFromNestedScreen(t *testing.T) {
	m, state, _ := signedIn(t, "user")
	m = drive(t, m, NavigateMsg{Target: access.ScreenNotifications})
	if got := state.Nav.Current(); got != access.ScreenNotifications {
		t.Fatalf("screen = %s", got)
	}
	_ = drive(t, m, press("esc"))
	if got := state.Nav.Current(); got != access.ScreenProfile {
		t.Errorf("back from notifications = %s, want profile", got)
	}
}

func TestHome_AddToCartAndOpenDetails(t *testing.T) {
	m, state, _ := signedIn(t, "user")

	m = drive(t, m, press("a"))
	if n := state.Cart.Quantity("dune"); n != 1 {
		t.Fatalf("dune quantity = %d, want 1", n)
	}

	m = drive(t, m, press("enter"))
	if got := state.Nav.Current(); got != access.ScreenBookDetails {
		t.Fatalf("screen = %s, want bookDetails", got)
	}
	if m.details.product.ID != "dune" {
		t.Errorf("details show %q", m.details.product.ID)
	}

	m = drive(t, m, press("+"))
	_ = drive(t, m, press("a"))
	if n := state.Cart.Quantity("dune"); n != 3 {
		t.Errorf("dune quantity = %d, want 3", n)
	}
}

func TestHome_SearchCapturesKeys(t *testing.T) {
	m, _, _ := signedIn(t, "user")

	m = drive(t, m, press("/"))
	if !m.capturing() {
		t.Fatal("search box should capture keys")
	}
	m = drive(t, m, press("emm"))
	if items := m.home.current().Items; len(items) != 1 || items[0].ID != "emma" {
		t.Fatalf("search results = %+v", items)
	}

	updated, cmd := m.Update(press("q"))
	m = updated.(Model)
	if cmd != nil {
		if _, quit := cmd().(tea.QuitMsg); quit {
			t.Fatal("q quit while typing in search")
		}
	}
	m = drive(t, m, press("esc"))
	if m.capturing() {
		t.Error("esc should leave the search box")
	}
}

func TestManager_CreateProductThroughForm(t *testing.T) {
	m, state, ids := signedIn(t, "manager")
	m = drive(t, m, press("4"))
	m = drive(t, m, press("n"))

	for _, field := range []string{"Ubik", "Dick", "9.50"} {
		m = drive(t, m, press(field))
		m = drive(t, m, press("enter"))
	}
	m = drive(t, m, press("3"))
	m = drive(t, m, press("ctrl+s"))

	if m.manager.phase != managerBrowsing {
		t.Fatalf("phase = %v, form error %q", m.manager.phase, m.manager.form.err)
	}
	var found bool
	for _, p := range state.Catalog.Products() {
		if p.Title != "Ubik" {
			continue
		}
		found = true
		if p.Price.String() != "9.5" || p.InStock != 3 || p.ManagerID != ids["manager"] {
			t.Errorf("stored product = %+v", p)
		}
	}
	if !found {
		t.Error("Ubik not in catalog")
	}
}

func TestManager_InvalidPriceStaysInForm(t *testing.T) {
	m, state, _ := signedIn(t, "manager")
	m = drive(t, m, press("4"))
	m = drive(t, m, press("n"))
	m = drive(t, m, press("Ubik"))
	m = drive(t, m, press("ctrl+s"))

	if m.manager.phase != managerEditing {
		t.Fatalf("phase = %v, want editing", m.manager.phase)
	}
	if m.manager.form.err == "" {
		t.Error("expected a form error")
	}
	if n := len(state.Catalog.Products()); n != 2 {
		t.Errorf("catalog changed to %d products", n)
	}
}

func TestManager_DeleteAfterConfirmation(t *testing.T) {
	m, state, _ := signedIn(t, "manager")
	m = drive(t, m, press("4"))

	m = drive(t, m, press("d"))
	if m.manager.phase != managerConfirming {
		t.Fatalf("phase = %v, want confirming", m.manager.phase)
	}
	m = drive(t, m, press("y"))

	if m.manager.phase != managerBrowsing {
		t.Errorf("phase = %v, want browsing", m.manager.phase)
	}
	if _, ok := state.Catalog.ByID("dune"); ok {
		t.Error("dune should be deleted")
	}
}

func TestAdmin_ChangeRole(t *testing.T) {
	m, state, ids := signedIn(t, "admin")
	m = drive(t, m, press("5"))
	if got := state.Nav.Current(); got != access.ScreenAdmin {
		t.Fatalf("screen = %s", got)
	}

	// first row is the admin's own account
	m = drive(t, m, press("c"))
	if !hasToast(state.Toasts, notify.KindWarning, shop.UserMessage(session.ErrRoleRestricted)) {
		t.Error("changing own role should warn")
	}

	m = drive(t, m, press("down"))
	_ = drive(t, m, press("c"))
	for _, u := range state.Users() {
		if u.ID == ids["manager"] && u.Role != access.RoleUser {
			t.Errorf("manager role = %s, want user", u.Role)
		}
	}
}

func TestProfile_Logout(t *testing.T) {
	m, state, _ := signedIn(t, "user")
	m = drive(t, m, press("a"))
	m = drive(t, m, press("3"))
	m = drive(t, m, press("L"))

	if m.phase != phaseAuth {
		t.Fatalf("phase = %v, want auth", m.phase)
	}
	if state.Cart.ItemCount() != 0 {
		t.Error("cart should be cleared on logout")
	}
}

func TestSettings_LanguageSwitch(t *testing.T) {
	m, state, _ := signedIn(t, "user")
	m = drive(t, m, NavigateMsg{Target: access.ScreenSettings})
	m = drive(t, m, press("down"))
	m = drive(t, m, press(" "))
	m = drive(t, m, press("enter"))

	if got := state.Settings().Language; got != config.LanguageRU {
		t.Fatalf("language = %q, want ru", got)
	}
	if m.t.Home != "Главная" {
		t.Errorf("labels not switched: %q", m.t.Home)
	}
}
