package templatetags

import (
	"errors"
	"fmt"
	"html/template"
	"reflect"

	"github.com/spf13/cast"

	"github.com/blogem/object-log/models"
)

// ContextRenderer is anything that renders itself with named context values
type ContextRenderer interface {
	Render(ctx map[string]any) (string, error)
}

// Linkable objects expose their canonical page address
type Linkable interface {
	AbsoluteURL() string
}

// renderContext renders entry with ctx and marks the result as safe HTML
func (s *scope) renderContext(entry ContextRenderer, ctx map[string]any) (template.HTML, error) {
	if entry == nil {
		err := errors.New("render_context: nil entry")
		s.observe("render_context", err)
		return "", err
	}
	out, err := entry.Render(ctx)
	s.observe("render_context", err)
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil
}

// ctForID returns the content type stored under id
func (s *scope) ctForID(id any) (*models.ContentType, error) {
	ct, err := s.contentType(id)
	s.observe("ct_for_id", err)
	return ct, err
}

func (s *scope) contentType(id any) (*models.ContentType, error) {
	n, err := cast.ToInt64E(id)
	if err != nil {
		return nil, fmt.Errorf("invalid content type id %v: %w", id, err)
	}
	return s.lib.types.GetForID(s.ctx, n)
}

// permalink links obj to its own page when it is Linkable and returns
// obj unchanged otherwise. display replaces the link text.
func (s *scope) permalink(obj any, display ...any) any {
	defer s.observe("permalink", nil)

	linkable, ok := obj.(Linkable)
	if !ok {
		return obj
	}
	if v := reflect.ValueOf(obj); v.Kind() == reflect.Pointer && v.IsNil() {
		return ""
	}

	var text any = obj
	if len(display) > 0 && display[0] != nil && fmt.Sprint(display[0]) != "" {
		text = display[0]
	}

	body, isHTML := text.(template.HTML)
	if !isHTML {
		body = template.HTML(template.HTMLEscapeString(fmt.Sprint(text)))
	}
	return template.HTML(fmt.Sprintf(`<a href="%s">%s</a>`, template.HTMLEscapeString(linkable.AbsoluteURL()), body))
}

// linkOpen starts the contenttypelink block: an opening anchor when the
// content type's model is linkable, nothing otherwise
func (s *scope) linkOpen(contentTypeID, pk any) (template.HTML, error) {
	out, err := s.openAnchor(contentTypeID, pk)
	s.observe("contenttypelink", err)
	return out, err
}

func (s *scope) openAnchor(contentTypeID, pk any) (template.HTML, error) {
	ct, err := s.contentType(contentTypeID)
	if err != nil {
		return "", err
	}

	class, ok := s.lib.types.ModelClass(ct)
	if !ok || !class.IsLinkable() {
		return "", nil
	}

	key, err := cast.ToStringE(pk)
	if err != nil {
		return "", fmt.Errorf("invalid pk %v for %s: %w", pk, ct, err)
	}
	url, ok := class.URL(key)
	if !ok {
		return "", nil
	}
	return template.HTML(fmt.Sprintf(`<a href="%s">`, template.HTMLEscapeString(url))), nil
}

// linkClose ends the contenttypelink block
func (s *scope) linkClose(contentTypeID any) (template.HTML, error) {
	ct, err := s.contentType(contentTypeID)
	if err != nil {
		s.observe("contenttypelink", err)
		return "", err
	}
	if class, ok := s.lib.types.ModelClass(ct); ok && class.IsLinkable() {
		return "</a>", nil
	}
	return "", nil
}

// listUserActions returns the data of the user actions inclusion template
func (s *scope) listUserActions(user any) (map[string]any, error) {
	items, err := s.userActions(user)
	s.observe("list_user_actions", err)
	if err != nil {
		return nil, err
	}
	return map[string]any{"log_items": items}, nil
}

func (s *scope) userActions(user any) ([]*models.LogItem, error) {
	var userID int64
	switch u := user.(type) {
	case nil:
		return []*models.LogItem{}, nil
	case *models.User:
		if u == nil {
			return []*models.LogItem{}, nil
		}
		userID = u.ID
	case models.User:
		userID = u.ID
	default:
		id, err := cast.ToInt64E(user)
		if err != nil {
			return nil, fmt.Errorf("list_user_actions: invalid user %v: %w", user, err)
		}
		userID = id
	}

	items, err := s.lib.logs.ListForUser(s.ctx, userID, s.lib.opts.UserLogsDesc)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		item.BindRenderer(s)
	}
	return items, nil
}

// dict builds a map from alternating keys and values
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}
