package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pizza-service/internal/repository"
)

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// maxPage bounds ?page= so page*limit stays a sane OFFSET.
const maxPage = 10000

// pageParams reads ?page= (zero based) and ?limit=.  Malformed values fall
// back to the defaults; large ones are clamped.
func pageParams(c echo.Context) repository.Page {
	p := repository.Page{Limit: 10}
	if n, err := strconv.Atoi(c.QueryParam("page")); err == nil && n >= 0 {
		if n > maxPage {
			n = maxPage
		}
		p.Number = n
	}
	if n, err := strconv.Atoi(c.QueryParam("limit")); err == nil && n > 0 {
		if n > 100 {
			n = 100
		}
		p.Limit = n
	}
	return p
}
