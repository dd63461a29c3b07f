package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/skip2/go-qrcode"

	"go.ntppool.org/common/logger"

	"go.inspectdraw.org/draw/animation"
	"go.inspectdraw.org/draw/catalog"
	"go.inspectdraw.org/draw/draw"
)

type errorJSON struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (srv *Server) drawError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch draw.Kind(err) {
	case draw.ErrInvalidCategory:
		status = http.StatusBadRequest
	case draw.ErrUnknownTarget:
		status = http.StatusNotFound
	case draw.ErrNoCandidates:
		status = http.StatusUnprocessableEntity
	case draw.ErrDuplicateDrawInRound, draw.ErrDrawInProgress:
		status = http.StatusConflict
	default:
		logger.FromContext(c.Request().Context()).Error("request failed", "path", c.Path(), "err", err)
	}
	return c.JSON(status, errorJSON{
		Error:   draw.Code(err),
		Message: draw.Message(err),
	})
}

// category parses the :category parameter. Unknown names are passed on
// as CategoryUnknown for the service to reject.
func category(c echo.Context) catalog.Category {
	cat, err := catalog.CategoryString(c.Param("category"))
	if err != nil {
		return catalog.CategoryUnknown
	}
	return cat
}

func (srv *Server) getCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, srv.svc.Catalog().All())
}

func (srv *Server) getRound(c echo.Context) error {
	return c.JSON(http.StatusOK, srv.svc.RoundStatus())
}

func (srv *Server) resetRound(c echo.Context) error {
	if err := srv.svc.ResetRound(c.Request().Context()); err != nil {
		return srv.drawError(c, err)
	}
	rs := srv.svc.RoundStatus()
	srv.hub.Broadcast(LiveMessage{Type: "reset", Round: &rs})
	return c.JSON(http.StatusOK, rs)
}

func (srv *Server) getHistory(c echo.Context) error {
	records, err := srv.svc.History(c.Request().Context())
	if err != nil {
		return srv.drawError(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

func (srv *Server) clearHistory(c echo.Context) error {
	if c.QueryParam("confirm") != "true" {
		return c.JSON(http.StatusBadRequest, errorJSON{
			Error:   "confirm",
			Message: "Clearing the history cannot be undone; repeat the request with confirm=true.",
		})
	}
	if err := srv.svc.ClearHistory(c.Request().Context()); err != nil {
		return srv.drawError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (srv *Server) getCandidates(c echo.Context) error {
	plan, err := srv.svc.Candidates(c.Request().Context(), c.Param("target"), category(c))
	if err != nil {
		return srv.drawError(c, err)
	}
	return c.JSON(http.StatusOK, plan)
}

// drawAnimated runs a draw with the rolling animation streamed to the
// live clients and responds with the outcome once the wheel stops. The
// draw is not aborted if the requesting client goes away.
func (srv *Server) drawAnimated(c echo.Context) error {
	ctx := context.WithoutCancel(c.Request().Context())

	opts := srv.cfg.Animate
	if roll := c.QueryParam("roll"); roll != "" {
		d, err := parseRoll(roll)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorJSON{
				Error:   "roll",
				Message: "roll must be a duration such as 2s",
			})
		}
		opts.Roll = d
	}
	opts.OnPlan = func(p *draw.Plan) {
		srv.hub.Broadcast(LiveMessage{Type: "plan", Plan: p})
	}
	opts.OnFrame = func(f animation.Frame[catalog.Entity]) {
		srv.hub.Broadcast(LiveMessage{Type: "frame", Frame: &f})
	}

	out, err := srv.svc.DrawAnimated(ctx, c.Param("target"), category(c), opts)
	if err != nil {
		return srv.drawError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// parseRoll parses the roll query parameter. An explicit zero stops the
// wheel right away, as --roll 0 does on the command line.
func parseRoll(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return -1, nil
	}
	return d, nil
}

func (srv *Server) drawTarget(c echo.Context) error {
	outs, err := srv.svc.DrawTarget(c.Request().Context(), c.Param("target"))
	if err != nil && len(outs) == 0 {
		return srv.drawError(c, err)
	}

	type targetJSON struct {
		Outcomes []*draw.Outcome `json:"outcomes"`
		Error    *errorJSON      `json:"error,omitempty"`
	}
	r := targetJSON{Outcomes: outs}
	if err != nil {
		r.Error = &errorJSON{Error: draw.Code(err), Message: draw.Message(err)}
	}
	return c.JSON(http.StatusOK, r)
}

func (srv *Server) live(c echo.Context) error {
	rs := srv.svc.RoundStatus()
	err := srv.hub.Serve(c.Response(), c.Request(), LiveMessage{Type: "round", Round: &rs})
	if err != nil {
		// the upgrader has already written the error response
		logger.FromContext(c.Request().Context()).Debug("websocket upgrade", "err", err)
	}
	return nil
}

func (srv *Server) qrCode(c echo.Context) error {
	url := srv.cfg.PublicURL
	if url == "" {
		r := c.Request()
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		url = scheme + "://" + r.Host + "/"
	}

	const qrSize = 256
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "qr generation failed")
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
