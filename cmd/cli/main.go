// Command promise is a CLI client for the pinkie-promises service.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/promiselab/pinkie/internal/client"
	"github.com/promiselab/pinkie/internal/model"
)

// ---- session file store ----

type sessionFile struct {
	Credential string     `json:"credential"`
	User       model.User `json:"user"`
	SavedAt    time.Time  `json:"saved_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "pinkie")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pinkie")
}

func sessionPath() string { return filepath.Join(cfgDir(), "session.json") }

func saveSession(credential string, user model.User) error {
	_ = os.MkdirAll(cfgDir(), 0o700)
	f, err := os.Create(sessionPath())
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(sessionFile{Credential: credential, User: user, SavedAt: time.Now()})
}

func loadSession() (*sessionFile, error) {
	b, err := os.ReadFile(sessionPath())
	if err != nil {
		return nil, err
	}
	var sf sessionFile
	if err := json.Unmarshal(b, &sf); err != nil {
		return nil, err
	}
	if sf.Credential == "" || len(sf.User) == 0 {
		return nil, errors.New("no saved session (login required)")
	}
	return &sf, nil
}

// ---- terminal popup ----

// terminalPopup stands in for the browser popup: it prints what the popup
// window would be opened with and reads the outcome from stdin. An empty
// line or EOF is the closed-window outcome.
type terminalPopup struct {
	in *bufio.Reader
}

func newTerminalPopup() *terminalPopup {
	return &terminalPopup{in: bufio.NewReader(os.Stdin)}
}

func (p *terminalPopup) readLine() (string, bool) {
	line, err := p.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		return "", false
	}
	return line, true
}

func (p *terminalPopup) Auth(_ context.Context, req client.AuthRequest) (client.PopupResult, error) {
	fmt.Fprintf(os.Stderr, "Authenticate at %s (watermark %s)\n", req.Endpoint, req.Watermark)
	fmt.Fprint(os.Stderr, "Paste the serialized credential (empty line cancels): ")
	line, ok := p.readLine()
	if !ok || line == "" {
		return client.PopupResult{Outcome: client.OutcomeClosed}, nil
	}
	return client.PopupResult{Outcome: client.OutcomeCompleted, Credential: line}, nil
}

func (p *terminalPopup) Redeem(_ context.Context, url string) (client.PopupResult, error) {
	fmt.Fprintf(os.Stderr, "Open to deposit the made promise:\n%s\n", url)
	fmt.Fprint(os.Stderr, "Press Enter when done (Ctrl-D cancels): ")
	if _, ok := p.readLine(); !ok {
		return client.PopupResult{Outcome: client.OutcomeClosed}, nil
	}
	return client.PopupResult{Outcome: client.OutcomeCompleted}, nil
}

// ---- utils ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, `promise CLI
Usage:
  promise [-server URL] [-zupass URL] <cmd> [args]

Commands:
  version
  login                                        (saves session)
  promise  -friend <name> -text <promise>      (prints shareable URL)
  status
  logout
`)
	os.Exit(2)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands against the promise server.
func main() {
	// global flags
	server := flag.String("server", envOr("PINKIE_SERVER_URL", "http://localhost:8080"), "promise server base URL")
	zupass := flag.String("zupass", envOr("PINKIE_AUTH_URL", "https://zupass.org"), "credential service base URL")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall command timeout")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	api := client.NewAPI(*server)
	popup := newTerminalPopup()
	cfg := client.Config{
		AuthEndpoint: *zupass,
		ReturnURL:    *server,
	}

	switch cmd {

	case "version":
		fmt.Printf("promise %s (%s)\n", version, buildDate)

	case "login":
		sess := client.NewSession(api, popup, cfg)
		if err := sess.SignIn(ctx); err != nil {
			for _, line := range sess.Log() {
				fmt.Fprintln(os.Stderr, line)
			}
			fail(err)
		}
		if err := saveSession(sess.Credential(), sess.User()); err != nil {
			fail(err)
		}
		fmt.Printf("authenticated as %s (%s)\n", sess.User()["attendeeName"], sess.User()["attendeeEmail"])

	case "promise":
		fs := flag.NewFlagSet("promise", flag.ExitOnError)
		friend := fs.String("friend", "", "who the promise is made to")
		text := fs.String("text", "", "the promise body")
		_ = fs.Parse(flag.Args()[1:])
		if *friend == "" || *text == "" {
			fmt.Fprintln(os.Stderr, "need -friend and -text")
			os.Exit(1)
		}

		sf, err := loadSession()
		if err != nil {
			fail(err)
		}
		sess := client.NewSession(api, popup, cfg)
		if !sess.Resume(sf.Credential, sf.User) {
			fail(errors.New("saved session is unusable (login again)"))
		}

		url, err := sess.MakePromise(ctx, *friend, *text)
		if err != nil && url == "" {
			fail(err)
		}
		if err != nil {
			// the pair exists; only the self-deposit failed
			fmt.Fprintln(os.Stderr, "warning:", err)
		}
		fmt.Printf("share this with %s:\n%s\n", *friend, url)

	case "status":
		sf, err := loadSession()
		if err != nil {
			fail(err)
		}
		printJSON(sf)

	case "logout":
		sf, err := loadSession()
		if err == nil {
			sess := client.NewSession(api, popup, cfg)
			sess.Resume(sf.Credential, sf.User)
			sess.Logout()
		}
		if err := os.Remove(sessionPath()); err != nil && !os.IsNotExist(err) {
			fail(err)
		}
		fmt.Println("logged out")

	default:
		usage()
	}
}
