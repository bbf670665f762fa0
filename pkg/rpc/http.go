package rpc

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/schema"
)

// ContextFunc produces the caller identity for a request.
type ContextFunc func(c echo.Context) auth.Context

type envelope struct {
	Result *result     `json:"result,omitempty"`
	Error  *errorShape `json:"error,omitempty"`
}

type result struct {
	Data any `json:"data"`
}

type errorShape struct {
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Data    errorData `json:"data"`
}

type errorData struct {
	Code       Code           `json:"code"`
	HTTPStatus int            `json:"httpStatus"`
	Path       string         `json:"path,omitempty"`
	Issues     []schema.Issue `json:"issues,omitempty"`
}

func errorEnvelope(path string, e *Error) envelope {
	return envelope{Error: &errorShape{
		Message: e.Message,
		Code:    e.Code.JSONRPC(),
		Data:    errorData{Code: e.Code, HTTPStatus: e.Code.HTTPStatus(), Path: path, Issues: e.Issues},
	}}
}

// Mount serves the router under g at "/*".
func (r *Router) Mount(g *echo.Group, ctxFn ContextFunc) {
	g.Any("/*", r.HTTPHandler(ctxFn))
}

// HTTPHandler speaks the tRPC HTTP convention: GET for queries with
// ?input=<json>, POST for mutations with a JSON body, ?batch=1 for several
// comma-separated paths with inputs keyed by index.
func (r *Router) HTTPHandler(ctxFn ContextFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := strings.Trim(c.Param("*"), "/")

		var kind Kind
		switch c.Request().Method {
		case http.MethodGet:
			kind = KindQuery
		case http.MethodPost:
			kind = KindMutation
		default:
			e := Errorf(CodeMethodNotSupported, "Unsupported method %s", c.Request().Method)
			return WriteError(c, path, e)
		}

		raw, err := readInput(c, kind)
		if err != nil {
			e := Wrap(CodeBadRequest, "Could not read request body", err)
			return WriteError(c, path, e)
		}

		ac := auth.Anonymous()
		if ctxFn != nil {
			ac = ctxFn(c)
		}
		ctx := c.Request().Context()

		if !isBatch(c) {
			out, err := r.Call(ctx, ac, path, kind, raw)
			if err != nil {
				e := err.(*Error)
				return WriteError(c, path, e)
			}
			return c.JSON(http.StatusOK, envelope{Result: &result{Data: out}})
		}

		paths := strings.Split(path, ",")
		inputs := map[string]json.RawMessage{}
		var inputErr *Error
		if len(strings.TrimSpace(string(raw))) > 0 {
			if err := json.Unmarshal(raw, &inputs); err != nil {
				inputErr = Wrap(CodeParseError, "Batch input must be an object keyed by call index", err)
			}
		}

		results := make([]envelope, len(paths))
		statuses := make([]int, len(paths))
		for i, p := range paths {
			if inputErr != nil {
				results[i], statuses[i] = errorEnvelope(p, inputErr), inputErr.Code.HTTPStatus()
				continue
			}
			out, err := r.Call(ctx, ac, p, kind, inputs[strconv.Itoa(i)])
			if err != nil {
				e := err.(*Error)
				results[i], statuses[i] = errorEnvelope(p, e), e.Code.HTTPStatus()
				continue
			}
			results[i], statuses[i] = envelope{Result: &result{Data: out}}, http.StatusOK
		}
		return c.JSON(batchStatus(statuses), results)
	}
}

func isBatch(c echo.Context) bool {
	b := c.QueryParam("batch")
	return b == "1" || b == "true"
}

func readInput(c echo.Context, kind Kind) (json.RawMessage, error) {
	if kind == KindQuery {
		return json.RawMessage(c.QueryParam("input")), nil
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// batchStatus is 200 when every call succeeded, the shared status when they
// all ended the same way, and 207 otherwise.
func batchStatus(statuses []int) int {
	if len(statuses) == 0 {
		return http.StatusOK
	}
	first := statuses[0]
	for _, s := range statuses[1:] {
		if s != first {
			return http.StatusMultiStatus
		}
	}
	return first
}

// WriteError sends e in the tRPC error shape. Middleware in front of the
// router uses it so rejected calls look like procedure errors.
func WriteError(c echo.Context, path string, e *Error) error {
	return c.JSON(e.Code.HTTPStatus(), errorEnvelope(path, e))
}
