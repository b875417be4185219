package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tanpawarit/Chative-Parts-Assistant/agent/agents/chat"
	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

var (
	chatMessage string
	chatSession string
	chatJSON    bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant from the terminal",
	Long: `Runs one turn per input line and carries the conversation context
between turns. With --message a single turn is run and the command exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.Close(cmd.Context()) }()

		out := cmd.OutOrStdout()
		convCtx := contractx.ConversationContext{}
		turn := func(message string) error {
			req := chat.TurnRequest{Message: message, SessionID: chatSession}
			if chatSession == "" {
				req.Context = &convCtx
			}
			resp := a.chat.Respond(cmd.Context(), req)
			if !resp.Failed() {
				convCtx = resp.Context
			}
			return printTurn(out, resp)
		}

		if chatMessage != "" {
			return turn(chatMessage)
		}

		scanner := bufio.NewScanner(cmd.InOrStdin())
		fmt.Fprint(out, "> ")
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			switch line {
			case "":
			case "exit", "quit":
				return nil
			default:
				if err := turn(line); err != nil {
					return err
				}
			}
			fmt.Fprint(out, "> ")
		}
		return scanner.Err()
	},
}

func printTurn(w io.Writer, resp chat.TurnResponse) error {
	if chatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Fprintf(w, "[%s] %s\n", resp.Intent, resp.Response.Content)
	for _, part := range resp.Response.Parts {
		fmt.Fprintf(w, "  - %s %s ($%.2f, in stock: %t)\n", part.PsNumber, part.Name, part.Price, part.InStock)
	}
	for i, step := range resp.Response.Checklist {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}
	for _, c := range resp.Response.Citations {
		fmt.Fprintf(w, "  [%s] %s %s\n", c.ID, c.Title, c.URL)
	}
	for _, action := range resp.Response.Actions {
		fmt.Fprintf(w, "  (%s) %s\n", action.Style, action.Label)
	}
	for _, call := range resp.ToolCalls {
		fmt.Fprintf(w, "  tool %s: %s\n", call.Name, call.Status)
	}
	return nil
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "run a single turn with this message")
	chatCmd.Flags().StringVar(&chatSession, "session", "", "persist context under this session id instead of in memory")
	chatCmd.Flags().BoolVar(&chatJSON, "json", false, "print the full turn response as JSON")
	rootCmd.AddCommand(chatCmd)
}
