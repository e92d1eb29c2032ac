package handler

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestPathID(t *testing.T) {
	e := echo.New()
	mk := func(v string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetParamNames("tableId")
		c.SetParamValues(v)
		return c
	}

	id, err := pathID(mk("7"), "tableId")
	require.NoError(t, err)
	require.Equal(t, uint64(7), id)

	_, err = pathID(mk("0"), "tableId")
	require.Error(t, err)
	_, err = pathID(mk("abc"), "tableId")
	require.Error(t, err)
	_, err = pathID(mk("-1"), "tableId")
	require.Error(t, err)
}

func TestGeneratedCodes(t *testing.T) {
	require.Regexp(t, regexp.MustCompile(`^INV-\d{13,}$`), newInvoiceCode())
	require.Regexp(t, regexp.MustCompile(`^KH\d{13,}\d{6}$`), newCustomerCode())
}
