package builtin

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/faciam-dev/widgetboard/internal/widget"
	"github.com/faciam-dev/widgetboard/pkg/metrics"
)

const (
	imageFilterIcon     = "https://upload.wikimedia.org/wikipedia/commons/thumb/3/3d/Pencil_edit_icon.svg/640px-Pencil_edit_icon.svg.png"
	defaultFilterSource = "static/images/penguin.jpg"
)

// Filterer is the image-processing collaborator. Pixel work lives outside
// this package; the widget only wires paths through it.
type Filterer interface {
	Apply(ctx context.Context, srcPath, filter string) (outPath string, err error)
}

// CopyFilterer is the placeholder collaborator used until a real filter
// pipeline is attached: it copies the source into the uploads directory
// under a fresh name and applies no filter.
type CopyFilterer struct {
	Dir string
}

// Apply implements Filterer.
func (f *CopyFilterer) Apply(ctx context.Context, srcPath, filter string) (string, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	out := filepath.Join(f.Dir, uuid.NewString()+".png")
	dst, err := os.Create(out)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return out, nil
}

// imageFilter applies a configured filter to an uploaded image via the
// Filterer collaborator.
type imageFilter struct {
	deps Deps
}

func (w *imageFilter) Summary(ctx context.Context, inv widget.Invocation) widget.Summary {
	return widget.Summary{Text: "Image Filter", Image: imageFilterIcon}
}

func (w *imageFilter) Detail(ctx context.Context, inv widget.Invocation) []widget.Row {
	filter := inv.Config.Get("filter", "None")
	src := inv.Config.Get("image", defaultFilterSource)

	if w.deps.Filter == nil {
		metrics.WidgetErrors.WithLabelValues("Image Filtering", "detail").Inc()
		return []widget.Row{widget.TextRow("Error", "Could not process image")}
	}
	out, err := w.deps.Filter.Apply(ctx, src, filter)
	if err != nil {
		metrics.WidgetErrors.WithLabelValues("Image Filtering", "detail").Inc()
		return []widget.Row{widget.TextRow("Error", "Could not process image")}
	}
	return []widget.Row{
		widget.TextRow("Filter Applied", filter),
		widget.ImageRow("Original Image", "../"+src),
		widget.ImageRow("Filtered Image", "../"+out),
	}
}
