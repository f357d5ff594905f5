// Package widget defines the widget plugin contract: every widget exposes a
// summary behavior for the dashboard tile and a detail behavior for its own
// page, both over the same invocation shape.
package widget

import "context"

// Settings is a widget instance's user-entered configuration. Keys arrive
// from free-form form fields, so lookups tolerate inconsistent casing.
type Settings map[string]string

// Invocation carries one behavior call's inputs. User config and ambient
// context are separate fields so internal bookkeeping can never collide
// with a user-chosen setting name.
type Invocation struct {
	Config     Settings
	InstanceID int64
	UserID     int64
}

// Summary is the dashboard tile rendering contract.
type Summary struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// RowKind tags a detail row for the renderer.
type RowKind string

const (
	RowText      RowKind = "text"
	RowImage     RowKind = "image"
	RowSeparator RowKind = "separator"
)

// Row is one entry on a widget's detail page. Separator rows carry only a
// label; image rows carry a URL in Value.
type Row struct {
	Kind  RowKind `json:"kind"`
	Label string  `json:"label"`
	Value string  `json:"value,omitempty"`
}

// TextRow builds a label/value detail row.
func TextRow(label, value string) Row { return Row{Kind: RowText, Label: label, Value: value} }

// ImageRow builds a detail row rendered as an image.
func ImageRow(label, url string) Row { return Row{Kind: RowImage, Label: label, Value: url} }

// SeparatorRow builds a section break carrying an optional heading.
func SeparatorRow(label string) Row { return Row{Kind: RowSeparator, Label: label} }

// Behavior is the polymorphic widget contract. Implementations must not let
// an error escape: on any failure they degrade to a placeholder result, so
// one broken widget can never take down a whole dashboard build.
type Behavior interface {
	Summary(ctx context.Context, inv Invocation) Summary
	Detail(ctx context.Context, inv Invocation) []Row
}

// Field describes one entry of a widget's configuration schema. Options is
// non-empty for select fields; Note renders as a hint above the field.
type Field struct {
	Name    string   `json:"name"`
	Default string   `json:"default,omitempty"`
	Options []string `json:"options,omitempty"`
	Note    string   `json:"note,omitempty"`
}

// Descriptor binds a widget's display name to its behavior and declared
// configuration schema. The name is the widget's only identifier.
type Descriptor struct {
	Name     string
	Behavior Behavior
	Schema   []Field
}

// HasSettings reports whether the widget exposes a settings form.
func (d Descriptor) HasSettings() bool { return len(d.Schema) > 0 }
