package handler

import (
	"context"
	"net/http"

	humago "github.com/danielgtaylor/huma/v2"

	"github.com/faciam-dev/widgetboard/internal/dashboard"
	"github.com/faciam-dev/widgetboard/internal/widget"
)

// InstanceHandler serves a placed widget's detail page and settings form.
type InstanceHandler struct {
	Agg *dashboard.Aggregator
}

type instanceParams struct {
	ID int64 `path:"id" doc:"Widget instance ID"`
}

type detailOut struct {
	Body dashboard.Detail
}

type configOut struct {
	Body struct {
		Widget string         `json:"widget"`
		Fields []widget.Field `json:"fields"`
	}
}

type configIn struct {
	ID   int64 `path:"id"`
	Body struct {
		Settings map[string]string `json:"settings" required:"true"`
	}
}

type configSavedOut struct {
	Body struct {
		Saved bool `json:"saved"`
	}
}

// RegisterInstance registers per-instance endpoints.
func RegisterInstance(api humago.API, h *InstanceHandler) {
	humago.Register(api, humago.Operation{
		OperationID: "getInstanceDetail",
		Method:      http.MethodGet,
		Path:        "/v1/instances/{id}/detail",
		Summary:     "Render a widget instance's detail page",
		Tags:        []string{"Instances"},
	}, h.detail)
	humago.Register(api, humago.Operation{
		OperationID: "getInstanceConfig",
		Method:      http.MethodGet,
		Path:        "/v1/instances/{id}/config",
		Summary:     "Get a widget instance's settings form",
		Tags:        []string{"Instances"},
	}, h.getConfig)
	humago.Register(api, humago.Operation{
		OperationID: "putInstanceConfig",
		Method:      http.MethodPut,
		Path:        "/v1/instances/{id}/config",
		Summary:     "Save a widget instance's settings",
		Tags:        []string{"Instances"},
	}, h.putConfig)
}

func (h *InstanceHandler) detail(ctx context.Context, p *instanceParams) (*detailOut, error) {
	d := h.Agg.Detail(ctx, p.ID)
	if d.Rows == nil {
		d.Rows = []widget.Row{}
	}
	return &detailOut{Body: d}, nil
}

func (h *InstanceHandler) getConfig(ctx context.Context, p *instanceParams) (*configOut, error) {
	name, fields, err := h.Agg.ConfigFields(ctx, p.ID)
	if err != nil {
		return nil, mapErr(err)
	}
	out := &configOut{}
	out.Body.Widget = name
	out.Body.Fields = fields
	if out.Body.Fields == nil {
		out.Body.Fields = []widget.Field{}
	}
	return out, nil
}

func (h *InstanceHandler) putConfig(ctx context.Context, in *configIn) (*configSavedOut, error) {
	if err := h.Agg.SaveConfig(ctx, in.ID, widget.Settings(in.Body.Settings)); err != nil {
		return nil, mapErr(err)
	}
	out := &configSavedOut{}
	out.Body.Saved = true
	return out, nil
}
