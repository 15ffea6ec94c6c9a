// Package templatetags provides html/template helpers for rendering
// audit-log entries: content-type links, permalinks, per-user action
// lists and rendering log items with extra context.
package templatetags

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"

	"github.com/blogem/object-log/contenttypes"
	"github.com/blogem/object-log/models"
)

// UserActionsTemplate is the inclusion template rendered with the result of list_user_actions
const UserActionsTemplate = "object_log/log_for_user.html"

// ContentTypeResolver looks up content types and their registered model classes
type ContentTypeResolver interface {
	GetForID(ctx context.Context, id int64) (*models.ContentType, error)
	ModelClass(ct *models.ContentType) (contenttypes.ModelClass, bool)
}

// LogItemLister lists the log items attributed to a user
type LogItemLister interface {
	ListForUser(ctx context.Context, userID int64, desc bool) ([]*models.LogItem, error)
}

// Options configures the helpers
type Options struct {
	// UserLogsDesc lists a user's actions newest first
	UserLogsDesc bool

	// Observe, when set, is called after every helper invocation
	Observe func(helper string, err error)
}

// Library holds the collaborators the helpers query
type Library struct {
	types ContentTypeResolver
	logs  LogItemLister
	opts  Options
}

// NewLibrary creates a helper library
func NewLibrary(types ContentTypeResolver, logs LogItemLister, opts Options) *Library {
	return &Library{types: types, logs: logs, opts: opts}
}

// FuncMap returns the helpers bound to ctx, for one request
func (l *Library) FuncMap(ctx context.Context) template.FuncMap {
	return l.scope(ctx).funcs()
}

// Renderer returns an action renderer bound to ctx. Action templates may
// use every helper of the library.
func (l *Library) Renderer(ctx context.Context) models.ActionRenderer {
	return l.scope(ctx)
}

func (l *Library) scope(ctx context.Context) *scope {
	return &scope{lib: l, ctx: ctx, actions: make(map[string]*template.Template)}
}

// scope is the library bound to one rendering context
type scope struct {
	lib *Library
	ctx context.Context

	mu      sync.Mutex
	actions map[string]*template.Template
}

func (s *scope) funcs() template.FuncMap {
	return template.FuncMap{
		"render_context":    s.renderContext,
		"ct_for_id":         s.ctForID,
		"permalink":         s.permalink,
		linkOpenFunc:        s.linkOpen,
		linkCloseFunc:       s.linkClose,
		"list_user_actions": s.listUserActions,
		"dict":              dict,
		"date":              models.FormatDate,
		"datetime":          models.FormatDateTime,
	}
}

func (s *scope) observe(helper string, err error) {
	if s.lib.opts.Observe != nil {
		s.lib.opts.Observe(helper, err)
	}
}

// RenderAction renders item through its action template with extra
// context. The item itself is available as "log_item".
func (s *scope) RenderAction(item *models.LogItem, extra map[string]any) (string, error) {
	if item.Action == nil {
		return "", fmt.Errorf("log item %d has no action", item.ID)
	}

	tmpl, err := s.actionTemplate(item.Action)
	if err != nil {
		return "", err
	}

	data := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		data[k] = v
	}
	data["log_item"] = item

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render action %q: %w", item.Action.Name, err)
	}
	return buf.String(), nil
}

func (s *scope) actionTemplate(action *models.LogAction) (*template.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tmpl, ok := s.actions[action.Name]; ok {
		return tmpl, nil
	}

	tmpl, err := Parse(template.New("").Funcs(s.funcs()), action.Name, action.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to parse action %q: %w", action.Name, err)
	}
	s.actions[action.Name] = tmpl
	return tmpl, nil
}
