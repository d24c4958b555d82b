package config

import "errors"

// SplitHostPort splits "host:port" on the last colon, so bracketless IPv6
// hosts still work. The port must be a decimal number in 1..65535.
func SplitHostPort(addr string) (host string, port uint16, err error) {
	colon := -1
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			colon = i
			break
		}
	}
	if colon == -1 {
		return "", 0, errors.New("missing port in address")
	}

	host = addr[:colon]
	portStr := addr[colon+1:]
	if len(host) > 1 && host[0] == '[' && host[len(host)-1] == ']' {
		host = host[1 : len(host)-1]
	}
	if host == "" {
		return "", 0, errors.New("empty host")
	}
	if portStr == "" {
		return "", 0, errors.New("empty port")
	}
	n, ok := parseUint(portStr)
	if !ok || n == 0 || n > 65535 {
		return "", 0, errors.New("invalid port " + `"` + portStr + `"`)
	}
	return host, uint16(n), nil
}

// parseUint parses a short decimal string without pulling in strconv's
// error types.
func parseUint(s string) (uint32, bool) {
	if s == "" || len(s) > 9 {
		return 0, false
	}
	var n uint32
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + uint32(s[i]-'0')
	}
	return n, true
}
