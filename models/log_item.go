package models

import (
	"errors"
	"time"
)

// ErrNoRenderer is returned by LogItem.Render when no action renderer is bound
var ErrNoRenderer = errors.New("log item has no action renderer")

// MaxObjectRefs is the number of generic object references a log item carries
const MaxObjectRefs = 3

// LogAction is a named kind of logged event with the template used to render it
type LogAction struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Template string `json:"template" db:"template"`
}

// ObjectRef points at any registered model through its content type
type ObjectRef struct {
	ContentTypeID int64  `json:"content_type_id"`
	ObjectID      string `json:"object_id"`
	Repr          string `json:"repr"`
}

func (o ObjectRef) String() string {
	return o.Repr
}

// ActionRenderer renders a log item through its action template
type ActionRenderer interface {
	RenderAction(item *LogItem, extra map[string]any) (string, error)
}

// LogItem is a single audit record
type LogItem struct {
	ID        int64                     `json:"id" db:"id"`
	Action    *LogAction                `json:"action"`
	Timestamp time.Time                 `json:"timestamp" db:"timestamp"`
	User      *User                     `json:"user,omitempty"`
	Objects   [MaxObjectRefs]*ObjectRef `json:"objects"`
	Data      map[string]any            `json:"data,omitempty"`

	renderer ActionRenderer
}

// Object1 returns the first object reference, or nil
func (i *LogItem) Object1() *ObjectRef { return i.Objects[0] }

// Object2 returns the second object reference, or nil
func (i *LogItem) Object2() *ObjectRef { return i.Objects[1] }

// Object3 returns the third object reference, or nil
func (i *LogItem) Object3() *ObjectRef { return i.Objects[2] }

// BindRenderer sets the renderer used by Render
func (i *LogItem) BindRenderer(r ActionRenderer) {
	i.renderer = r
}

// Render renders the item with extra named context values.
// Errors from the bound renderer are returned unchanged.
func (i *LogItem) Render(extra map[string]any) (string, error) {
	if i.renderer == nil {
		return "", ErrNoRenderer
	}
	return i.renderer.RenderAction(i, extra)
}
