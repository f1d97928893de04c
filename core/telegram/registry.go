package telegram

import (
	"context"
	"sort"
	"strings"

	"github.com/oleglapko/poizon-2/core/logger"
	"github.com/oleglapko/poizon-2/core/telegram/commands"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Registry holds bot commands, exact-match button labels, and fallbacks.
// Labels cover reply-keyboard buttons which arrive as plain text and must be
// matched by exact string equality.
type Registry struct {
	commands     map[string]commands.Command
	labels       map[string]tele.HandlerFunc
	textFallback tele.HandlerFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]commands.Command),
		labels:   make(map[string]tele.HandlerFunc),
	}
}

// RegisterCommand adds a new command.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) {
	if r == nil || name == "" || cmd.Handler == nil || cmd.Description == "" {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("cause", "invalid"),
		)
		return
	}
	if name[0] != '/' {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("cause", "no_slash_prefix"),
		)
		return
	}
	if _, exists := r.commands[name]; exists {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.duplicate",
			slog.String("name", name),
		)
		return
	}
	r.commands[name] = cmd
}

// RegisterLabel binds a reply-keyboard button label to a handler.
// Matching is exact: any variation of the label text falls through to the
// unknown-input branch by design.
func (r *Registry) RegisterLabel(label string, h tele.HandlerFunc) {
	if r == nil || label == "" || h == nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.label.skip",
			slog.String("name", label),
			slog.Bool("handler_nil", h == nil),
		)
		return
	}
	if _, exists := r.labels[label]; exists {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.label.duplicate",
			slog.String("name", label),
		)
		return
	}
	r.labels[label] = h
}

// LookupLabel returns the handler registered for the exact label text.
func (r *Registry) LookupLabel(text string) (tele.HandlerFunc, bool) {
	h, ok := r.labels[text]
	return h, ok
}

// ListLabels returns sorted registered labels (for diagnostics).
func (r *Registry) ListLabels() []string {
	names := make([]string, 0, len(r.labels))
	for k := range r.labels {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ListCommands returns a slice of tele.Command, optionally filtering out hidden and admin-only commands.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	var list []tele.Command
	for cmd, meta := range r.commands {
		if visibleOnly && (meta.Hidden || meta.AdminOnly) {
			continue
		}
		list = append(list, tele.Command{Text: cmd, Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// LookupCommand searches for a command by name or its aliases and returns the canonical key with metadata if found.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	for key, cmd := range r.commands {
		for _, alias := range cmd.Aliases {
			if alias == name || "/"+alias == name {
				return key, cmd, true
			}
		}
	}
	return "", commands.Command{}, false
}

// Commands returns all registered commands.
func (r *Registry) Commands() map[string]commands.Command {
	return r.commands
}

// SetTextFallback sets a global fallback handler for unknown text messages.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.textFallback = h
}

// TextFallback returns the current text fallback handler.
func (r *Registry) TextFallback() tele.HandlerFunc {
	return r.textFallback
}

// InitBotCommands sets the Telegram bot commands shown in the command menu.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	list := reg.ListCommands(true)
	if err := bot.SetCommands(list); err != nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
	}
}
