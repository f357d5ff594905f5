package builtin

import (
	"context"

	"github.com/faciam-dev/widgetboard/internal/widget"
)

const playerIcon = "../static/images/spoty.png"

// miniPlayer is a static launcher tile; the music session itself is owned
// by the routing layer's /music_login flow.
type miniPlayer struct{}

func (miniPlayer) Summary(ctx context.Context, inv widget.Invocation) widget.Summary {
	return widget.Summary{Text: "MiniPlayer", Image: playerIcon}
}

func (miniPlayer) Detail(ctx context.Context, inv widget.Invocation) []widget.Row {
	return []widget.Row{widget.TextRow("Launch Player", "/music_login")}
}
