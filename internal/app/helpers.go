package app

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/fatih/color"

	"github.com/blackwell-systems/shelfshop/internal/session"
	"github.com/blackwell-systems/shelfshop/internal/shop"
	"github.com/blackwell-systems/shelfshop/internal/util"
)

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}

func printField(label, value string) {
	fmt.Printf("  %-14s %s\n", color.CyanString(label+":"), value)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// userError rewrites err into the sentence the storefront would toast.
func userError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s", shop.UserMessage(err))
}

// prompt reads one line from stdin.
func prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading %s: %w", strings.TrimSpace(strings.TrimSuffix(label, ":")), err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword takes the password from SHELFSHOP_PASSWORD, else prompts
// without echo.
func readPassword() (string, error) {
	if p := os.Getenv("SHELFSHOP_PASSWORD"); p != "" {
		return p, nil
	}
	if !util.IsInputTTY() {
		return "", fmt.Errorf("password required: set SHELFSHOP_PASSWORD")
	}
	fmt.Print("Password: ")
	b, err := term.ReadPassword(os.Stdin.Fd())
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}

// confirm asks a yes/no question; anything but y/yes is no.
func confirm(question string) bool {
	if !util.IsInputTTY() {
		return false
	}
	answer, err := prompt(question + " (y/N): ")
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func accountEmail() string {
	if flagEmail != "" {
		return flagEmail
	}
	return os.Getenv("SHELFSHOP_EMAIL")
}

// requireSession resumes the saved session or, when --email is given,
// signs in for this command only.
func requireSession(ctx context.Context) (session.Principal, error) {
	if email := accountEmail(); email != "" {
		password, err := readPassword()
		if err != nil {
			return session.Principal{}, err
		}
		p, err := state.Login(ctx, email, password)
		return p, userError(err)
	}
	if err := state.Start(ctx); err != nil {
		return session.Principal{}, userError(err)
	}
	p, signedIn := state.Session.Principal()
	if !signedIn {
		return session.Principal{}, fmt.Errorf("not signed in, run: shelfshop login (or pass --email)")
	}
	return p, nil
}

// reportOffline mentions when the catalog came from the local snapshot.
func reportOffline() {
	if state.Offline() {
		warn("Backend unreachable: showing the last saved catalog")
	}
}
