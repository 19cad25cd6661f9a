package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/JackVanta/VantaSDK/config"
	"github.com/JackVanta/VantaSDK/internal/builder"
	"github.com/JackVanta/VantaSDK/internal/chat"
	"github.com/JackVanta/VantaSDK/internal/files"
	"github.com/JackVanta/VantaSDK/internal/models"
	"github.com/JackVanta/VantaSDK/internal/project"
	"github.com/spf13/cobra"
)

var (
	chatEndpoint string
	chatTemplate string
	chatUpload   string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive builder session",
	Long: `Start an interactive builder session in the terminal.

Messages go to the configured provider, or to a running "vanta serve" when an endpoint is
given. File patches in the replies are applied to the session's project. Type /help for
the session commands.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.AppConfig
		endpoint := cfg.Builder.Endpoint
		if chatEndpoint != "" {
			endpoint = chatEndpoint
		}

		var sender builder.Sender
		if endpoint != "" {
			sender = chat.NewRemoteClient(endpoint, cfg.Provider.Timeout)
		} else {
			client, err := newProviderClient(cfg.Provider)
			if err != nil {
				return err
			}
			sender = newChatService(client, cfg.Builder)
		}

		store, err := project.NewDefaultStore()
		if err != nil {
			return err
		}
		sess := builder.NewSession(store, sender)
		collector := newCollector(cfg.Upload)

		if chatTemplate != "" {
			if _, err := sess.CreateNew(chatTemplate); err != nil {
				return err
			}
		}
		if chatUpload != "" {
			pf, err := loadProjectFiles(collector, chatUpload)
			if err != nil {
				return err
			}
			if _, err := sess.Upload(pf); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return newREPL(sess, collector, cmd.OutOrStdout()).run(ctx, cmd.InOrStdin())
	},
}

// repl reads session commands and chat messages line by line.
type repl struct {
	sess      *builder.Session
	collector *files.Collector
	out       io.Writer
	mode      models.Mode
}

func newREPL(sess *builder.Session, collector *files.Collector, out io.Writer) *repl {
	return &repl{sess: sess, collector: collector, out: out}
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	for _, m := range r.sess.Transcript() {
		r.printMessage(m)
	}
	r.printf("%s\n", infoStyle.Render("Type /help for commands."))

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for {
		r.printf("%s ", userStyle.Render(">"))
		if !scanner.Scan() {
			break
		}
		quit, err := r.handle(ctx, scanner.Text())
		if err != nil {
			r.printf("%s\n", errorStyle.Render(err.Error()))
		}
		if quit || ctx.Err() != nil {
			return nil
		}
	}
	return scanner.Err()
}

// handle runs one input line and reports whether the session should end.
func (r *repl) handle(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return false, r.send(ctx, line, r.mode)
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	arg = strings.TrimSpace(arg)
	if mode := models.Mode(name); mode.Known() && mode != models.ModeChat {
		return false, r.send(ctx, arg, mode)
	}

	switch name {
	case "quit", "exit":
		return true, nil
	case "help":
		r.printHelp()
	case "mode":
		return false, r.setMode(arg)
	case "open":
		if arg == "" {
			return false, errors.New("usage: /open <path>")
		}
		st := r.sess.SelectFile(arg)
		r.printf("%s\n", st.ActiveFile)
		r.printActiveContent(st)
	case "close":
		return false, r.closeTab(arg)
	case "tabs":
		r.printTabs(r.sess.State())
	case "tree":
		st := r.sess.State()
		r.printf("%s\n", renderTree("project", project.DeriveFileTree(st.Files), st.ActiveFile))
	case "show":
		r.printActiveContent(r.sess.State())
	case "new":
		st, err := r.sess.CreateNew(arg)
		if err != nil {
			return false, err
		}
		r.printf("%s\n", infoStyle.Render(fmt.Sprintf("New project with %d files, active: %s", len(st.Files), st.ActiveFile)))
	case "upload":
		if arg == "" {
			return false, errors.New("usage: /upload <dir|file.zip>")
		}
		pf, err := loadProjectFiles(r.collector, arg)
		if err != nil {
			return false, err
		}
		st, err := r.sess.Upload(pf)
		if err != nil {
			return false, err
		}
		r.printf("%s\n", infoStyle.Render(fmt.Sprintf("Uploaded %d files, active: %s", len(st.Files), st.ActiveFile)))
	default:
		return false, fmt.Errorf("unknown command /%s, type /help", name)
	}
	return false, nil
}

func (r *repl) send(ctx context.Context, text string, mode models.Mode) error {
	if mode == models.ModeChat {
		mode = ""
	}
	turn, err := r.sess.Send(ctx, text, mode)
	if err != nil || turn == nil {
		return err
	}
	r.printMessage(turn.Assistant)
	if turn.Patch != nil {
		r.printf("%s\n", infoStyle.Render("Applied patch: "+turn.Summary.String()))
		for _, f := range turn.Summary.Files {
			r.printf("  %s %s (+%d -%d)\n", patchVerb(f), f.Path, f.Added, f.Removed)
		}
	}
	return nil
}

func patchVerb(f project.FileSummary) string {
	if f.Created {
		return "created"
	}
	return "updated"
}

func (r *repl) setMode(arg string) error {
	if arg == "" {
		r.printf("mode: %s\n", r.currentMode())
		return nil
	}
	mode := models.Mode(strings.ToLower(arg))
	if !mode.Known() {
		return fmt.Errorf("unknown mode %q", arg)
	}
	r.mode = mode
	r.printf("mode: %s\n", r.currentMode())
	return nil
}

func (r *repl) currentMode() models.Mode {
	if r.mode == "" {
		return models.ModeChat
	}
	return r.mode
}

// closeTab closes the tab named by id or path, or the active tab when arg is empty.
func (r *repl) closeTab(arg string) error {
	st := r.sess.State()
	id := st.ActiveTabID
	if arg != "" {
		id = ""
		for _, tab := range st.Tabs {
			if tab.ID == arg || tab.Path == arg {
				id = tab.ID
				break
			}
		}
	}
	if id == "" {
		return errors.New("no such tab")
	}
	r.printTabs(r.sess.CloseTab(id))
	return nil
}

func (r *repl) printTabs(st project.State) {
	if len(st.Tabs) == 0 {
		r.printf("%s\n", infoStyle.Render("No open tabs"))
		return
	}
	for _, tab := range st.Tabs {
		if tab.ID == st.ActiveTabID {
			r.printf("%s\n", activeStyle.Render(fmt.Sprintf("* %s [%s]", tab.Path, tab.Language)))
			continue
		}
		r.printf("  %s [%s]\n", tab.Path, tab.Language)
	}
}

func (r *repl) printActiveContent(st project.State) {
	tab, ok := st.ActiveTab()
	if !ok {
		r.printf("%s\n", infoStyle.Render("No active tab"))
		return
	}
	r.printf("%s\n%s\n", infoStyle.Render("--- "+tab.Path+" ---"), tab.Content)
}

func (r *repl) printMessage(m models.ChatMessage) {
	label := assistantStyle.Render("vanta")
	if m.Role == models.RoleUser {
		label = userStyle.Render("you")
	}
	r.printf("%s: %s\n", label, m.Content)
}

func (r *repl) printHelp() {
	r.printf(`Commands:
  /generate|/fix|/refactor|/explain|/tests [text]  Send with a quick action
  /mode [name]      Show or set the mode for plain messages
  /open <path>      Open a file in a tab
  /close [id|path]  Close a tab (default: the active one)
  /tabs             List open tabs
  /show             Print the active tab
  /tree             Show the project tree
  /new [template]   Start a new project (%s)
  /upload <path>    Replace the project with a directory or ZIP archive
  /quit             End the session
`, strings.Join(project.TemplateNames(), ", "))
}

func (r *repl) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func init() {
	chatCmd.Flags().StringVarP(&chatEndpoint, "endpoint", "e", "", "Chat endpoint of a running server (overrides builder.endpoint)")
	chatCmd.Flags().StringVarP(&chatTemplate, "template", "t", "", "Start from a template instead of the default project")
	chatCmd.Flags().StringVarP(&chatUpload, "upload", "u", "", "Start from a directory or ZIP archive")
}
