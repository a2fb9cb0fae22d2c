package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seriesRequest struct {
	Commodity string `param:"commodity" validate:"required,commodity"`
	Days      int    `query:"days" default:"30" validate:"gte=1,lte=90"`
}

func bindSeries(t *testing.T, commodity, query string) (*seriesRequest, interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("commodity")
	c.SetParamValues(commodity)

	out := &seriesRequest{}
	return out, ReadAndValidateRequest(c, out)
}

func TestReadAndValidateRequestDefaults(t *testing.T) {
	req, verr := bindSeries(t, "Wheat", "")
	require.Nil(t, verr)
	assert.Equal(t, "Wheat", req.Commodity)
	assert.Equal(t, 30, req.Days)
}

func TestReadAndValidateRequestReportsWireNames(t *testing.T) {
	_, verr := bindSeries(t, "wheat", "days=91")
	require.NotNil(t, verr)

	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_LTE", errs[0].Code)
	assert.Equal(t, "days", errs[0].Field)
	assert.Equal(t, "days must be at most 90", errs[0].Message)
	assert.Equal(t, "90", errs[0].Params["max"])
}

func TestReadAndValidateRequestRejectsCommodity(t *testing.T) {
	_, verr := bindSeries(t, "wheat;drop", "")
	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_COMMODITY", errs[0].Code)
	assert.Equal(t, "commodity", errs[0].Field)
}

func TestReadAndValidateRequestBindFailure(t *testing.T) {
	_, verr := bindSeries(t, "wheat", "days=many")
	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_BIND", errs[0].Code)
}

func TestValidCommodity(t *testing.T) {
	for _, s := range []string{"wheat", " Corn ", "soy-beans", "rice_2"} {
		assert.True(t, ValidCommodity(s), s)
	}
	for _, s := range []string{"", "  ", "-wheat", "wheat/corn", "wh eat"} {
		assert.False(t, ValidCommodity(s), s)
	}
}
