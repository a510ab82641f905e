package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/hrl-explorer/internal/mcp"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	body := bytes.NewBufferString(`{"jsonrpc":"2.0","method":"click_card","params":{"id":"a"},"id":1}`)
	req, err := ParseRequest(body)
	require.NoError(t, err)
	require.Equal(t, "2.0", req.JSONRPC)
	require.Equal(t, "click_card", req.Method)
	require.Equal(t, json.RawMessage(`{"id":"a"}`), req.Params)
}

func TestParseRequest_Invalid(t *testing.T) {
	body := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1}`)
	_, err := ParseRequest(body)
	require.Error(t, err)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 1, ErrInvalidParams, "bad params", nil)

	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), `"error"`)
}

func TestWriteHandlerError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHandlerError(rec, 7, mcp.MapError(fmt.Errorf("%w: bad", mcp.ErrInvalidParams)))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	require.Equal(t, ErrInvalidParams, resp.Error.Code)
	require.Equal(t, float64(7), resp.ID)

	rec = httptest.NewRecorder()
	WriteHandlerError(rec, 8, mcp.MapError(fmt.Errorf("%w: nope", mcp.ErrUnknownMethod)))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, ErrMethodNotFound, resp.Error.Code)

	rec = httptest.NewRecorder()
	WriteHandlerError(rec, 9, errors.New("boom"))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, ErrInternal, resp.Error.Code)
	require.Equal(t, "boom", resp.Error.Message)
}
