package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/dop251/goja"
)

// rawPreviewLimit caps how many characters of a non-JSON body are printed.
const rawPreviewLimit = 200

func supportedMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func buildHTTPRequest(ctx context.Context, c Case, url string, headers http.Header) (*http.Request, error) {
	var bodyReader io.Reader = http.NoBody
	if (c.Method == http.MethodPost || c.Method == http.MethodPut) && c.Body != nil {
		payload, err := encodeBody(c.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, c.Method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	for k, vals := range headers {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	return req, nil
}

func encodeBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case string:
		return normalizeJSONBody(v)
	case []byte:
		return normalizeJSONBody(string(v))
	case json.RawMessage:
		return v, nil
	default:
		return json.Marshal(v)
	}
}

// normalizeJSONBody coerces a JS object literal such as { status: confirmed }
// into valid JSON by evaluating it in goja and re-encoding.
func normalizeJSONBody(raw string) ([]byte, error) {
	trimmed := strings.TrimSpace(raw)
	var direct any
	if err := json.Unmarshal([]byte(trimmed), &direct); err == nil {
		return json.Marshal(direct)
	}

	vm := goja.New()
	script := quoteBareValues(raw)
	if !strings.HasPrefix(strings.TrimSpace(script), "(") {
		script = "(" + script + ")"
	}
	if v, err := vm.RunString(script); err == nil {
		if b, err := json.Marshal(v.Export()); err == nil {
			return b, nil
		}
	}
	// Best effort: send what we were given.
	return []byte(trimmed), nil
}

var bareValueRe = regexp.MustCompile(`: ([A-Za-z0-9_.@-]+)([\s,\n}])`)

func quoteBareValues(raw string) string {
	return bareValueRe.ReplaceAllStringFunc(raw, func(s string) string {
		m := bareValueRe.FindStringSubmatch(s)
		if len(m) != 3 {
			return s
		}
		val, tail := m[1], m[2]
		switch val {
		case "true", "false", "null":
			return s
		}
		if _, err := strconv.ParseFloat(val, 64); err == nil {
			return s
		}
		return ": \"" + val + "\"" + tail
	})
}

// renderBody re-indents JSON bodies with two spaces. Key order and number
// literals are kept as sent, and escaped text is printed as plain UTF-8.
// Anything else is returned raw.
func renderBody(raw []byte) ResponseBody {
	if json.Valid(raw) {
		if text, err := indentJSON(raw); err == nil {
			return ResponseBody{Kind: BodyJSON, Text: text}
		}
	}
	return ResponseBody{Kind: BodyRaw, Text: string(raw)}
}

func indentJSON(raw []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var buf bytes.Buffer
	if err := writeJSONValue(&buf, dec, 0); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeJSONValue(buf *bytes.Buffer, dec *json.Decoder, depth int) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch v := tok.(type) {
	case json.Delim:
		closing := json.Delim('}')
		if v == '[' {
			closing = ']'
		}
		buf.WriteRune(rune(v))
		if !dec.More() {
			_, err := dec.Token()
			buf.WriteRune(rune(closing))
			return err
		}
		buf.WriteByte('\n')
		for dec.More() {
			writeIndent(buf, depth+1)
			if v == '{' {
				key, err := dec.Token()
				if err != nil {
					return err
				}
				name, ok := key.(string)
				if !ok {
					return fmt.Errorf("unexpected object key %v", key)
				}
				if err := writeJSONString(buf, name); err != nil {
					return err
				}
				buf.WriteString(": ")
			}
			if err := writeJSONValue(buf, dec, depth+1); err != nil {
				return err
			}
			if dec.More() {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
		writeIndent(buf, depth)
		buf.WriteRune(rune(closing))
	case string:
		return writeJSONString(buf, v)
	case json.Number:
		buf.WriteString(v.String())
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("unexpected token %T", tok)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(b.Bytes(), []byte("\n")))
	return nil
}

func writeIndent(buf *bytes.Buffer, depth int) {
	for range depth {
		buf.WriteString("  ")
	}
}

func truncateRunes(s string, limit int) string {
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
