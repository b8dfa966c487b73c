package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"projecthub/internal/errors"
)

const dateLayout = "2006-01-02"

// jsonParam holds a JSON document sent either as a form field (a string) or
// inline in a JSON body.
type jsonParam string

// UnmarshalParam implements echo.BindUnmarshaler.
func (p *jsonParam) UnmarshalParam(src string) error {
	*p = jsonParam(src)
	return nil
}

func (p *jsonParam) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = jsonParam(s)
		return nil
	}
	*p = jsonParam(data)
	return nil
}

// flagParam is true only for the literal true, as a string or a JSON bool.
type flagParam bool

// UnmarshalParam implements echo.BindUnmarshaler.
func (f *flagParam) UnmarshalParam(src string) error {
	*f = flagParam(src == "true")
	return nil
}

func (f *flagParam) UnmarshalJSON(data []byte) error {
	*f = flagParam(strings.Trim(string(data), `"`) == "true")
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func pathID(c echo.Context, what string) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid " + what + " id"})
	}
	return id, nil
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: msg})
}

// httpError converts a service error into the response error, keeping the
// cause for the request log.
func httpError(err error) error {
	mapped := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse()).SetInternal(err)
}
