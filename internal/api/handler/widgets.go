package handler

import (
	"context"
	"net/http"

	humago "github.com/danielgtaylor/huma/v2"

	"github.com/faciam-dev/widgetboard/internal/dashboard"
)

// WidgetsHandler serves the catalog of registered widgets.
type WidgetsHandler struct {
	Agg *dashboard.Aggregator
}

type widgetsOut struct {
	Body struct {
		Widgets []dashboard.Available `json:"widgets"`
	}
}

// RegisterWidgets registers the catalog endpoint.
func RegisterWidgets(api humago.API, h *WidgetsHandler) {
	humago.Register(api, humago.Operation{
		OperationID: "listWidgets",
		Method:      http.MethodGet,
		Path:        "/v1/widgets",
		Summary:     "List available widgets",
		Tags:        []string{"Widgets"},
	}, h.list)
}

func (h *WidgetsHandler) list(ctx context.Context, _ *struct{}) (*widgetsOut, error) {
	out := &widgetsOut{}
	out.Body.Widgets = h.Agg.Widgets()
	return out, nil
}
