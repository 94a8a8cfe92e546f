package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// intQuery reads an integer query parameter, falling back to def when the
// parameter is absent or unparseable.
func intQuery(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// boolQuery reads an optional boolean query parameter; nil means absent.
func boolQuery(c echo.Context, name string) *bool {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	b := v == "true" || v == "1"
	return &b
}
