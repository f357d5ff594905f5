package handler

import (
	"context"
	"errors"
	"net/http"

	humago "github.com/danielgtaylor/huma/v2"

	"github.com/faciam-dev/widgetboard/internal/dashboard"
	instancesrepo "github.com/faciam-dev/widgetboard/internal/repository/instances"
	"github.com/faciam-dev/widgetboard/internal/widget"
)

// DashboardHandler serves the assembled board and widget placement.
type DashboardHandler struct {
	Agg *dashboard.Aggregator
}

type dashboardParams struct {
	UserID int64 `query:"user_id" required:"true" doc:"Board owner"`
}

type dashboardOut struct {
	Body struct {
		Tiles []dashboard.Tile `json:"tiles"`
	}
}

type addWidgetIn struct {
	Body struct {
		UserID int64  `json:"user_id" required:"true"`
		Widget string `json:"widget" required:"true"`
	}
}

type addWidgetOut struct {
	Status int
	Body   struct {
		InstanceID int64 `json:"instance_id"`
	}
}

// RegisterDashboard registers board endpoints.
func RegisterDashboard(api humago.API, h *DashboardHandler) {
	humago.Register(api, humago.Operation{
		OperationID: "getDashboard",
		Method:      http.MethodGet,
		Path:        "/v1/dashboard",
		Summary:     "Build a user's dashboard",
		Tags:        []string{"Dashboard"},
	}, h.get)
	humago.Register(api, humago.Operation{
		OperationID:   "addWidget",
		Method:        http.MethodPost,
		Path:          "/v1/dashboard/widgets",
		Summary:       "Place a widget on a user's board",
		Tags:          []string{"Dashboard"},
		DefaultStatus: http.StatusCreated,
	}, h.add)
}

func (h *DashboardHandler) get(ctx context.Context, p *dashboardParams) (*dashboardOut, error) {
	tiles, err := h.Agg.Build(ctx, p.UserID)
	if err != nil {
		return nil, mapErr(err)
	}
	out := &dashboardOut{}
	out.Body.Tiles = tiles
	if out.Body.Tiles == nil {
		out.Body.Tiles = []dashboard.Tile{}
	}
	return out, nil
}

func (h *DashboardHandler) add(ctx context.Context, in *addWidgetIn) (*addWidgetOut, error) {
	id, err := h.Agg.AddWidget(ctx, in.Body.UserID, in.Body.Widget)
	if err != nil {
		return nil, mapErr(err)
	}
	out := &addWidgetOut{Status: http.StatusCreated}
	out.Body.InstanceID = id
	return out, nil
}

// mapErr translates domain not-found errors into HTTP 404s.
func mapErr(err error) error {
	if errors.Is(err, instancesrepo.ErrNotFound) || errors.Is(err, widget.ErrNotFound) {
		return humago.Error404NotFound(err.Error())
	}
	return err
}
