package node

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lioia/sparse-pagerank/pkg/graph"
	"github.com/lioia/sparse-pagerank/pkg/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Maximum accepted request body
const maxGraphBytes = 64 << 20

// NewApiServer exposes the node over HTTP:
// POST /rank (body: graph file), GET /health and GET /metrics
func NewApiServer(n *Node) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	api := &apiServer{node: n}
	e.POST("/rank", api.rank)
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	if n.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(n.Metrics.Registry, promhttp.HandlerOpts{})))
	}
	return e
}

type apiServer struct {
	node *Node
}

// Query parameters: format (pages | edgelist), dampener (edgelist only)
func (s *apiServer) rank(c echo.Context) error {
	format, err := graph.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	dampener := DefaultDampener
	if value := c.QueryParam("dampener"); value != "" {
		if dampener, err = strconv.ParseFloat(value, 64); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "dampener is not a number")
		}
	}
	contents, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxGraphBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
		}
		return err
	}
	utils.ServerLog("HTTP rank request (%d bytes, %s)", len(contents), format)
	outcome, err := s.node.Rank("http", contents, format, dampener)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, outcome)
}
