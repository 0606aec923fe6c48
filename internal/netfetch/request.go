package netfetch

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// buildRequest encodes an HTTP/1.1 request per spec §6's wire-format
// grammar: "METHOD SP path SP HTTP/1.1 CRLF (Name: Value CRLF)* CRLF
// body?" — Host always sent first; Content-Length auto-emitted for a
// non-empty body.
func buildRequest(method string, u *url.URL, userAgent string, extraHeaders map[string]string, body []byte) []byte {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s HTTP/1.1\r\n", method, path)
	fmt.Fprintf(&b, "Host: %s\r\n", u.Host)
	fmt.Fprintf(&b, "User-Agent: %s\r\n", userAgent)
	b.WriteString("Accept: */*\r\n")
	b.WriteString("Connection: keep-alive\r\n")
	for name, value := range extraHeaders {
		fmt.Fprintf(&b, "%s: %s\r\n", name, value)
	}
	if len(body) > 0 {
		fmt.Fprintf(&b, "Content-Length: %s\r\n", strconv.Itoa(len(body)))
	}
	b.WriteString("\r\n")

	out := []byte(b.String())
	out = append(out, body...)
	return out
}

// hostPort splits a URL's authority into (host, port), applying the
// scheme's default port when none is given.
func hostPort(u *url.URL) (host, port string) {
	host = u.Hostname()
	port = u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}
	return host, port
}
