package identity

import (
	"errors"
	"net"
	"net/http"
	"strconv"
)

// Header carrying the authenticated user id, set by the edge proxy.
const Header = "X-User-ID"

var ErrMissingUser = errors.New("missing user identity")

// UserID extracts the calling user's id from the request. Identity is
// threaded explicitly from here into every service call; nothing below
// the transport reads ambient auth state.
func UserID(r *http.Request) (int64, error) {
	raw := r.Header.Get(Header)
	if raw == "" {
		return 0, ErrMissingUser
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrMissingUser
	}

	return id, nil
}

// ClientIP returns the caller's address without the port, for the
// gateway's vnp_IpAddr parameter.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
