package daemon

import (
	"net/http"
	"strings"
)

// authorize checks a token carried in the request body or form. When no
// tokens are configured, any non-empty token is accepted; the recorder
// frontend only requires that one be present. A bearer header is accepted as
// an alternative carrier for the same value.
func authorize(tokens []string, r *http.Request, bodyToken string) bool {
	token := strings.TrimSpace(bodyToken)
	if token == "" {
		token = bearerToken(r)
	}
	if token == "" {
		return false
	}
	if len(tokens) == 0 {
		return true
	}
	for _, accepted := range tokens {
		if token == accepted {
			return true
		}
	}
	return false
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}
