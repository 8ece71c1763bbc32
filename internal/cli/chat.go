package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/civicnav/navigator/internal/client"
	"github.com/civicnav/navigator/internal/model/chat"
	"github.com/civicnav/navigator/internal/service/assistant"
	sessionsvc "github.com/civicnav/navigator/internal/service/session"
	"github.com/civicnav/navigator/internal/store"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	RunE:  runChat,
}

var (
	chatAPIBase   string
	chatToken     string
	chatRole      string
	chatStateFile string
	chatTimeout   int
	chatReset     bool
)

func init() {
	chatCmd.Flags().StringVar(&chatAPIBase, "api", "http://127.0.0.1:8000", "CivicNavigator backend base URL")
	chatCmd.Flags().StringVar(&chatToken, "token", "", "Bearer token for the backend")
	chatCmd.Flags().StringVar(&chatRole, "role", "resident", "Role sent with chat messages")
	chatCmd.Flags().StringVar(&chatStateFile, "state", "", "Session state file (default ~/.civicchat/session.json)")
	chatCmd.Flags().IntVar(&chatTimeout, "timeout", 15, "Backend request timeout in seconds")
	chatCmd.Flags().BoolVar(&chatReset, "new", false, "Start a new chat, discarding the stored session")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	statePath := chatStateFile
	if statePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		statePath = filepath.Join(home, ".civicchat", "session.json")
	}

	storage, err := store.NewFileStore(statePath)
	if err != nil {
		return fmt.Errorf("cannot open state file %s: %w", statePath, err)
	}

	backend := client.NewHTTPClient(chatAPIBase, chatToken, time.Duration(chatTimeout)*time.Second)
	session := sessionsvc.NewService(storage)
	engine := assistant.NewService(session, backend, backend, chatRole)

	out := cmd.OutOrStdout()

	if chatReset {
		printEntries(out, engine.NewChat())
	} else {
		printEntries(out, engine.Transcript())
	}
	fmt.Fprintln(out, "Type a message, or /new, /submit, /edit, /quit.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/new":
			printEntries(out, engine.NewChat())
		case "/submit":
			invokeAction(cmd, engine, chat.ActionSubmitIncident)
		case "/edit":
			invokeAction(cmd, engine, chat.ActionRestartIntake)
		default:
			entries, err := engine.HandleMessage(cmd.Context(), line)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
				continue
			}
			printEntries(out, entries)
		}
	}
	return scanner.Err()
}

func invokeAction(cmd *cobra.Command, engine *assistant.Service, kind chat.ActionKind) {
	entries, err := engine.InvokeAction(cmd.Context(), kind)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		return
	}
	printEntries(cmd.OutOrStdout(), entries)
}

func printEntries(out io.Writer, entries []chat.Entry) {
	for _, entry := range entries {
		// The user's own turn was just typed; echoing it back is noise.
		if entry.Role == chat.RoleUser {
			continue
		}
		fmt.Fprintf(out, "[%s] %s\n", entry.Role, entry.Text)
		if len(entry.Actions) > 0 {
			fmt.Fprintln(out, "    (/submit to confirm, /edit to start over)")
		}
	}
}
