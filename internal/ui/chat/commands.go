// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/jeranaias/chatline-tui/internal/model"
	"github.com/jeranaias/chatline-tui/internal/session"
	"github.com/jeranaias/chatline-tui/internal/transport"
	"github.com/jeranaias/chatline-tui/internal/turn"
)

// Command is one in-chat slash command.
type Command struct {
	Name        string
	Aliases     []string
	Description string
}

// Commands lists the slash commands in help order.
var Commands = []Command{
	{Name: "/help", Aliases: []string{"/h", "/?"}, Description: "Show available commands"},
	{Name: "/status", Aliases: []string{"/s"}, Description: "Show session id, token fingerprint and status"},
	{Name: "/history", Description: "Show the service-side history of this session"},
	{Name: "/tools", Description: "List the tools the service can use"},
	{Name: "/reset", Description: "Delete this session on the service and clear the screen"},
	{Name: "/copy", Description: "Copy the last reply to the clipboard"},
	{Name: "/quit", Aliases: []string{"/q", "/exit"}, Description: "Exit chatline"},
}

// LookupCommand resolves a name or alias to its canonical command name.
func LookupCommand(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, c := range Commands {
		if c.Name == name {
			return c.Name, true
		}
		for _, a := range c.Aliases {
			if a == name {
				return c.Name, true
			}
		}
	}
	return "", false
}

// runCommand executes a slash command line.
func (m *Model) runCommand(line string) tea.Cmd {
	fields := strings.Fields(line)
	name, ok := LookupCommand(fields[0])
	if !ok {
		m.appendMessage(model.RoleSystem, fmt.Sprintf("Unknown command %s. Type /help for a list.", fields[0]))
		return nil
	}

	switch name {
	case "/help":
		m.appendMessage(model.RoleSystem, HelpText())
	case "/status":
		m.appendMessage(model.RoleSystem, m.statusText())
	case "/history":
		return m.historyCmd()
	case "/tools":
		return m.toolsCmd()
	case "/reset":
		return m.resetCmd()
	case "/copy":
		return m.copyLastReply()
	case "/quit":
		m.quitting = true
		return tea.Quit
	}
	return nil
}

// HelpText renders the slash command list.
func HelpText() string {
	var b strings.Builder
	b.WriteString("Commands:")
	for _, c := range Commands {
		name := c.Name
		if len(c.Aliases) > 0 {
			name += " (" + strings.Join(c.Aliases, ", ") + ")"
		}
		fmt.Fprintf(&b, "\n  %-22s %s", name, c.Description)
	}
	return b.String()
}

func (m *Model) statusText() string {
	if m.controller == nil {
		return "No conversation."
	}
	snap := m.controller.Session().Snapshot()

	id := snap.SessionID
	if id == "" {
		id = "none yet"
	}
	status := snap.Status
	if status == "" {
		status = "unknown"
	} else {
		status = session.Humanize(status) + " (" + status + ")"
	}

	return fmt.Sprintf("Service: %s\nSession: %s\nToken:   %s\nStatus:  %s\nTurn:    %s",
		m.serviceURL, id, m.controller.Session().TokenFingerprint(), status, m.controller.Phase())
}

func (m *Model) sessionID() (string, bool) {
	if m.controller == nil {
		return "", false
	}
	id := m.controller.Session().SessionID()
	return id, id != ""
}

func (m *Model) historyCmd() tea.Cmd {
	id, ok := m.sessionID()
	if !ok {
		m.appendMessage(model.RoleSystem, "No session yet. Send a message first.")
		return nil
	}
	svc, ctx := m.service, m.ctx
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		h, err := svc.History(ctx, id)
		if err != nil {
			return CommandResultMsg{Command: "/history", Err: err}
		}
		return CommandResultMsg{Command: "/history", Text: FormatHistory(h)}
	}
}

func (m *Model) toolsCmd() tea.Cmd {
	svc, ctx := m.service, m.ctx
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		tools, err := svc.ListTools(ctx)
		if err != nil {
			return CommandResultMsg{Command: "/tools", Err: err}
		}
		return CommandResultMsg{Command: "/tools", Text: FormatTools(tools)}
	}
}

func (m *Model) resetCmd() tea.Cmd {
	id, ok := m.sessionID()
	if !ok {
		m.transcript.Clear()
		m.refreshTranscript()
		return nil
	}
	svc, ctx := m.service, m.ctx
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		text, err := svc.ClearSession(ctx, id)
		if err != nil {
			return CommandResultMsg{Command: "/reset", Err: err}
		}
		return CommandResultMsg{Command: "/reset", Text: text, ClearTranscript: true}
	}
}

func (m *Model) copyLastReply() tea.Cmd {
	last := m.transcript.LastOfRole(model.RoleBot)
	if last == nil {
		m.appendMessage(model.RoleSystem, "Nothing to copy yet.")
		return nil
	}
	if err := m.clipboard(last.Content); err != nil {
		return m.showError(turn.ErrorPrefix + errors.Wrap(err, "copy to clipboard").Error())
	}
	m.appendMessage(model.RoleSystem, "Copied last reply to the clipboard.")
	return nil
}

// =============================================================================
// FORMATTING
// =============================================================================

// FormatHistory renders a session history as plain text.
func FormatHistory(h *transport.History) string {
	if h == nil || len(h.Entries) == 0 {
		return "History is empty."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "History of session %s (%d exchanges):", h.SessionID, len(h.Entries))
	for i, e := range h.Entries {
		fmt.Fprintf(&b, "\n%d. [%s]\n   you: %s\n   bot: %s", i+1, e.Timestamp, e.User, e.Assistant)
		if len(e.ToolCalls) > 0 {
			names := make([]string, 0, len(e.ToolCalls))
			for _, tc := range e.ToolCalls {
				names = append(names, tc.Function)
			}
			fmt.Fprintf(&b, "\n   tools: %s", strings.Join(names, ", "))
		}
	}
	return b.String()
}

// FormatTools renders the tool catalog as plain text.
func FormatTools(tools []transport.Tool) string {
	if len(tools) == 0 {
		return "The service reports no tools."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d tools:", len(tools))
	for _, t := range tools {
		fmt.Fprintf(&b, "\n  %-28s %s", t.Name, t.Description)
	}
	return b.String()
}
