package handlers

import "net/http"

// seatTokenFromRequest pulls the seat token from the "token" query parameter
// or, failing that, a seat_token cookie.
func seatTokenFromRequest(r *http.Request) string {
	if tok := r.URL.Query().Get("token"); tok != "" {
		return tok
	}
	if c, err := r.Cookie("seat_token"); err == nil {
		return c.Value
	}
	return ""
}
