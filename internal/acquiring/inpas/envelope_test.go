package inpas

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/corex-studio/corex-payment/internal/acquiring/types"
	"github.com/stretchr/testify/require"
)

func TestBuildRequestXMLTCPFields(t *testing.T) {
	cfg := types.ConnectionConfig{
		ConnectionType: types.TCP,
		Address:        "192.168.39.176",
		Port:           9015,
		Timeout:        10000,
	}
	fields := []types.InpasField{
		{ID: "00", Value: "1000"},
		{ID: "04", Value: "643"},
		{ID: "25", Value: "29"},
		{ID: "21", Value: "20260731120000"},
		{ID: "27", Value: "10285694"},
	}

	xmlBody, err := BuildRequestXML(fields, cfg)
	require.NoError(t, err)
	require.Contains(t, xmlBody, `<?xml version="1.0" encoding="windows-1251"?>`)
	require.Contains(t, xmlBody, `<field id="00">1000</field>`)
	require.Contains(t, xmlBody, `<field id="04">643</field>`)
	require.Contains(t, xmlBody, `<field id="25">29</field>`)
	require.Contains(t, xmlBody, `<field id="21">20260731120000</field>`)
	require.Contains(t, xmlBody, `<field id="27">10285694</field>`)
	require.Contains(t, xmlBody, `<ipaddr>192.168.39.176:9015</ipaddr>`)
	require.Contains(t, xmlBody, `<timeout>10000</timeout>`)
}

func TestBuildRequestXMLSerialFields(t *testing.T) {
	cfg := types.ConnectionConfig{
		ConnectionType: types.Serial,
		SerialPath:     "COM3",
		BaudRate:       9600,
	}
	xmlBody, err := BuildRequestXML(nil, cfg)
	require.NoError(t, err)
	require.Contains(t, xmlBody, `<ncom>COM3</ncom>`)
	require.Contains(t, xmlBody, `<baudrate>9600</baudrate>`)
}

func TestBuildRequestXMLMissingTCPFieldsErrors(t *testing.T) {
	_, err := BuildRequestXML(nil, types.ConnectionConfig{ConnectionType: types.TCP})
	require.Error(t, err)
}

func TestParseResponseApprovedRefund(t *testing.T) {
	xmlBody := `<response><field id="15">00</field><field id="19">Approved</field></response>`
	resp, err := ParseResponse(xmlBody)
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, "00", resp.Code)
	require.Equal(t, "Approved", resp.Message)
	require.Equal(t, "00", resp.Data.ResponseCode)
}

func TestParseResponseErrorEnvelope(t *testing.T) {
	xmlBody := `<response><errorcode>42</errorcode><errordescription>No link</errordescription></response>`
	resp, err := ParseResponse(xmlBody)
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Equal(t, "42", resp.Code)
	require.Equal(t, "No link", resp.Message)
	require.Equal(t, "No link", resp.Error)
	require.Nil(t, resp.Data)
}

func TestParseResponseErrorEnvelopeNoDescription(t *testing.T) {
	xmlBody := `<response><errorcode>7</errorcode></response>`
	resp, err := ParseResponse(xmlBody)
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Equal(t, "DualConnector error code 7", resp.Error)
}

func TestParseResponseRoundTripNonCollidingIds(t *testing.T) {
	fields := []types.InpasField{{ID: "1", Value: "hello"}, {ID: "23", Value: "world"}}
	cfg := types.ConnectionConfig{ConnectionType: types.TCP, Address: "127.0.0.1", Port: 9015}
	xmlBody, err := BuildRequestXML(fields, cfg)
	require.NoError(t, err)

	resp, err := ParseResponse(xmlBody)
	require.NoError(t, err)
	require.Equal(t, "hello", resp.Data.Raw["01"])
	require.Equal(t, "world", resp.Data.Raw["23"])
}

func TestSendPostsAndHandlesHTTPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "text/xml; charset=windows-1251", r.Header.Get("Content-Type"))
		require.Equal(t, "corex-ttk2", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("relay down"))
	}))
	defer server.Close()

	cfg := types.ConnectionConfig{
		ConnectionType: types.TCP,
		Address:        "127.0.0.1",
		Port:           9015,
		DCHost:         strings.TrimPrefix(server.URL, "http://"),
	}
	_, err := Send(cfg, nil)
	require.Error(t, err)
	var statusErr *ErrHTTPStatus
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadGateway, statusErr.Status)
}

func TestSendRequiresDCHost(t *testing.T) {
	_, err := Send(types.ConnectionConfig{}, nil)
	require.Error(t, err)
}
