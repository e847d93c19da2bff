// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/chatline-tui/internal/config"
	"github.com/jeranaias/chatline-tui/internal/model"
	"github.com/jeranaias/chatline-tui/internal/session"
	"github.com/jeranaias/chatline-tui/internal/transport"
	"github.com/jeranaias/chatline-tui/internal/turn"
	"github.com/jeranaias/chatline-tui/internal/ui/components"
	"github.com/jeranaias/chatline-tui/internal/ui/styles"
)

// Service is the part of the chat service used by slash commands.
type Service interface {
	History(ctx context.Context, sessionID string) (*transport.History, error)
	ClearSession(ctx context.Context, sessionID string) (string, error)
	ListTools(ctx context.Context) ([]transport.Tool, error)
}

// Options configures a chat Model.
type Options struct {
	Config     *config.Config
	Theme      *styles.Theme
	Controller *turn.Controller
	Service    Service
	Logger     zerolog.Logger

	// Context bounds every request started by the model. Quitting does not
	// cancel it; the caller owns it.
	Context context.Context

	// Clipboard writes text for /copy. Defaults to the system clipboard.
	Clipboard func(string) error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	ctx        context.Context
	controller *turn.Controller
	service    Service
	classifier session.StatusClassifier
	logger     zerolog.Logger
	clipboard  func(string) error

	// Display settings, replaced on config reload
	ui         config.UIConfig
	serviceURL string

	// Components
	theme      *styles.Theme
	header     *components.Header
	welcome    *components.Welcome
	statusbar  *components.StatusBar
	chips      *components.SuggestionChips
	toasts     *components.ToastManager
	typing     components.TypingIndicator
	markdown   *components.Markdown
	input      textinput.Model
	viewport   viewport.Model
	help       help.Model
	keys       KeyMap
	transcript *model.Transcript

	// State
	width        int
	height       int
	inputEnabled bool
	toastTicking bool
	showHelp     bool
	statusLabel  string
	quitting     bool
}

// New creates the chat model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.UI.Theme)
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	input := textinput.New()
	input.Placeholder = "Type a message, or /help"
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder
	input.CharLimit = 4000
	input.Focus()

	header := components.NewHeader(theme)
	header.SetService(cfg.Service.BaseURL)
	welcome := components.NewWelcome(theme)
	welcome.SetService(cfg.Service.BaseURL)

	m := Model{
		ctx:        ctx,
		controller: opts.Controller,
		service:    opts.Service,
		classifier: session.StatusClassifier{
			AuthenticatedLabels: cfg.Chat.AuthenticatedLabels,
			Providers:           cfg.Chat.Providers,
		},
		logger:       opts.Logger.With().Str("component", "tui").Logger(),
		clipboard:    copyFn,
		ui:           cfg.UI,
		serviceURL:   cfg.Service.BaseURL,
		theme:        theme,
		header:       header,
		welcome:      welcome,
		statusbar:    components.NewStatusBar(theme),
		chips:        components.NewSuggestionChips(theme),
		toasts:       components.NewToastManager(cfg.UI.ErrorDismiss()),
		typing:       components.NewTypingIndicator(theme, cfg.UI.TypingText),
		input:        input,
		viewport:     viewport.New(80, 20),
		help:         help.New(),
		keys:         DefaultKeyMap(),
		transcript:   model.NewTranscript(),
		inputEnabled: true,
	}
	if cfg.UI.Markdown {
		m.markdown = components.NewMarkdown(theme.IsDark)
	}
	return m
}

// Init shows the initial status and suggestions and starts the cursor.
func (m Model) Init() tea.Cmd {
	ctrl := m.controller
	return tea.Batch(
		textinput.Blink,
		func() tea.Msg {
			if ctrl != nil {
				ctrl.Bootstrap()
			}
			return nil
		},
	)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Transcript returns the messages shown so far.
func (m Model) Transcript() *model.Transcript {
	return m.transcript
}

// InputEnabled reports whether the input line accepts text.
func (m Model) InputEnabled() bool {
	return m.inputEnabled
}

// InputValue returns the current input text.
func (m Model) InputValue() string {
	return m.input.Value()
}

// StatusLabel returns the raw status label last rendered.
func (m Model) StatusLabel() string {
	return m.statusLabel
}

// Toasts returns the visible error toasts.
func (m Model) Toasts() []components.ErrorToast {
	return m.toasts.Toasts()
}

// Typing reports whether the typing indicator is visible.
func (m Model) Typing() bool {
	return m.typing.IsActive()
}

// SuggestionsVisible reports whether suggestion chips are shown.
func (m Model) SuggestionsVisible() bool {
	return m.chips.Visible()
}
