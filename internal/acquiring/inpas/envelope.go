// Package inpas implements the INPAS XML-over-HTTP envelope: building
// the request document, posting it to the DualConnector relay, and
// parsing the XML response into a TerminalResponse, all transcoded
// through the Windows-1251 transport charset per spec §4.4.
package inpas

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/corex-studio/corex-payment/internal/acquiring/response"
	"github.com/corex-studio/corex-payment/internal/acquiring/types"
	"golang.org/x/text/encoding/charmap"
)

const defaultEncoding = "windows-1251"
const userAgent = "corex-ttk2"

// ErrHTTPStatus is returned when the DualConnector relay answers with a
// 4xx/5xx status.
type ErrHTTPStatus struct {
	Status int
	Body   string
}

func (e *ErrHTTPStatus) Error() string {
	return fmt.Sprintf("inpas: dualconnector http error %d: %s", e.Status, e.Body)
}

// envelopeMeta carries the connection-derived fields appended after the
// command's own fields: timeout, and either ipaddr (TCP) or ncom+baudrate
// (serial).
type envelopeMeta struct {
	timeout  int
	hasTO    bool
	ipaddr   string
	ncom     string
	baudrate int
	hasSerial bool
}

func buildMeta(cfg types.ConnectionConfig) (envelopeMeta, error) {
	meta := envelopeMeta{}
	if cfg.Timeout != 0 {
		meta.timeout = cfg.Timeout
		meta.hasTO = true
	}

	switch cfg.ConnectionType {
	case types.TCP:
		if cfg.Address == "" || cfg.Port == 0 {
			return meta, fmt.Errorf("inpas: address and port are required for tcp connection")
		}
		meta.ipaddr = fmt.Sprintf("%s:%d", cfg.Address, cfg.Port)
	case types.Serial:
		if cfg.SerialPath == "" || cfg.BaudRate == 0 {
			return meta, fmt.Errorf("inpas: ncom and baudrate are required for serial connection")
		}
		meta.ncom = cfg.SerialPath
		meta.baudrate = cfg.BaudRate
		meta.hasSerial = true
	}

	return meta, nil
}

// BuildRequestXML derives the envelope meta block from cfg and
// serializes fields into the full INPAS request document.
func BuildRequestXML(fields []types.InpasField, cfg types.ConnectionConfig) (string, error) {
	meta, err := buildMeta(cfg)
	if err != nil {
		return "", err
	}
	return buildXML(fields, meta)
}

// buildXML serializes fields (and the derived meta block) into the
// `<?xml version="1.0" encoding="windows-1251"?><request>...</request>`
// document, as Windows-1251-decoded text (ready for further transcoding
// to bytes by post).
func buildXML(fields []types.InpasField, meta envelopeMeta) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="windows-1251"?>`)

	enc := xml.NewEncoder(&buf)

	start := xml.StartElement{Name: xml.Name{Local: "request"}}
	if err := enc.EncodeToken(start); err != nil {
		return "", err
	}

	for _, f := range fields {
		if err := writeTextElement(enc, "field", f.Value, xml.Attr{Name: xml.Name{Local: "id"}, Value: f.ID}); err != nil {
			return "", err
		}
	}

	if meta.hasTO {
		if err := writeTextElement(enc, "timeout", strconv.Itoa(meta.timeout)); err != nil {
			return "", err
		}
	}
	if meta.ipaddr != "" {
		if err := writeTextElement(enc, "ipaddr", meta.ipaddr); err != nil {
			return "", err
		}
	}
	if meta.hasSerial {
		if err := writeTextElement(enc, "ncom", meta.ncom); err != nil {
			return "", err
		}
		if err := writeTextElement(enc, "baudrate", strconv.Itoa(meta.baudrate)); err != nil {
			return "", err
		}
	}

	if err := enc.EncodeToken(start.End()); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// writeTextElement emits a single paired <name attrs...>text</name>
// element by reusing the same StartElement for open and close — the
// shape spec §9 calls out as preferred over constructing a fresh element
// for the closing tag.
func writeTextElement(enc *xml.Encoder, name, text string, attrs ...xml.Attr) error {
	start := xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.CharData(text)); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

// Send builds the envelope for fields against cfg, posts it to
// cfg.DCHost, and parses the XML response into a TerminalResponse.
func Send(cfg types.ConnectionConfig, fields []types.InpasField) (types.TerminalResponse, error) {
	if cfg.DCHost == "" {
		return types.TerminalResponse{}, fmt.Errorf("inpas: dc_host is required for inpas protocol")
	}

	meta, err := buildMeta(cfg)
	if err != nil {
		return types.TerminalResponse{}, err
	}

	xmlBody, err := buildXML(fields, meta)
	if err != nil {
		return types.TerminalResponse{}, fmt.Errorf("inpas: build request: %w", err)
	}

	respXML, err := post(cfg.DCHost, xmlBody, time.Duration(cfg.TimeoutOrDefault())*time.Millisecond)
	if err != nil {
		return types.TerminalResponse{}, err
	}

	return ParseResponse(respXML)
}

func post(host, xmlBody string, timeout time.Duration) (string, error) {
	url := host
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}

	bodyBytes, err := charmap.Windows1251.NewEncoder().Bytes([]byte(xmlBody))
	if err != nil {
		return "", fmt.Errorf("inpas: transcode request to windows-1251: %w", err)
	}

	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("inpas: build http request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset="+defaultEncoding)
	req.Header.Set("Accept", "text/xml")
	req.Header.Set("Accept-Charset", defaultEncoding)
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("inpas: http post: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("inpas: read http response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", &ErrHTTPStatus{Status: resp.StatusCode, Body: string(respBytes)}
	}

	return decodeByCharset(respBytes, resp.Header.Get("Content-Type")), nil
}

func decodeByCharset(body []byte, contentType string) string {
	switch strings.ToLower(extractCharset(contentType)) {
	case "windows-1251", "cp1251":
		out, _ := charmap.Windows1251.NewDecoder().Bytes(body)
		return string(out)
	default:
		return string(body)
	}
}

func extractCharset(contentType string) string {
	for _, part := range strings.Split(contentType, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(strings.ToLower(part), "charset=") {
			return part[len("charset="):]
		}
	}
	return ""
}

// ParseResponse streams through the XML response events: field id/value
// pairs become raw map entries keyed by the zero-padded two-digit id;
// errorcode/errordescription (or errorDescription) are captured
// separately and, if a non-empty errorcode is present, short-circuit into
// a failed TerminalResponse with no normalized data.
func ParseResponse(xmlBody string) (types.TerminalResponse, error) {
	dec := xml.NewDecoder(strings.NewReader(xmlBody))

	raw := make(map[string]string)
	var errorCode, errorDescription string
	var haveErrorCode bool

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return types.TerminalResponse{}, fmt.Errorf("inpas: parse response xml: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "field":
			var id string
			for _, attr := range start.Attr {
				if attr.Name.Local == "id" {
					id = attr.Value
				}
			}
			var value string
			if err := dec.DecodeElement(&value, &start); err != nil {
				return types.TerminalResponse{}, fmt.Errorf("inpas: parse field: %w", err)
			}
			if id != "" {
				raw[zeroPad(id, 2)] = value
			}
		case "errorcode":
			var value string
			if err := dec.DecodeElement(&value, &start); err != nil {
				return types.TerminalResponse{}, fmt.Errorf("inpas: parse errorcode: %w", err)
			}
			errorCode = value
			haveErrorCode = true
		case "errordescription", "errorDescription":
			var value string
			if err := dec.DecodeElement(&value, &start); err != nil {
				return types.TerminalResponse{}, fmt.Errorf("inpas: parse errordescription: %w", err)
			}
			errorDescription = value
		}
	}

	if haveErrorCode && errorCode != "" {
		message := errorDescription
		if message == "" {
			message = fmt.Sprintf("DualConnector error code %s", errorCode)
		}
		return types.TerminalResponse{
			Success: false,
			Code:    errorCode,
			Message: errorDescription,
			Error:   message,
		}, nil
	}

	return response.BuildFromRaw(types.INPAS, raw), nil
}

func zeroPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}
