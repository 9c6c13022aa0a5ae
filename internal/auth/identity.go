// Package auth carries the authenticated identity that the API gateway
// forwards to downstream services via headers after JWT verification.
// Services never re-derive trust from raw headers in domain code; they parse
// the headers once here and pass the Identity value into service methods.
package auth

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	HeaderUserID    = "x-user-id"
	HeaderUserEmail = "x-user-email"
	HeaderUserRole  = "x-user-role"
)

// Identity 是网关注入的已认证身份
type Identity struct {
	UserID int
	Email  string
	Role   string
}

// FromRequest parses the forwarded identity headers. A missing user id
// yields a zero Identity (anonymous), which fails any role check.
func FromRequest(r *http.Request) Identity {
	id := Identity{
		Email: r.Header.Get(HeaderUserEmail),
		Role:  r.Header.Get(HeaderUserRole),
	}
	if raw := r.Header.Get(HeaderUserID); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			id.UserID = v
		}
	}
	return id
}

// FromGinContext is a convenience wrapper for gin handlers.
func FromGinContext(c *gin.Context) Identity {
	return FromRequest(c.Request)
}

// Forward stamps the identity headers onto an outgoing request.
func (id Identity) Forward(req *http.Request) {
	if id.UserID != 0 {
		req.Header.Set(HeaderUserID, strconv.Itoa(id.UserID))
	}
	if id.Email != "" {
		req.Header.Set(HeaderUserEmail, id.Email)
	}
	if id.Role != "" {
		req.Header.Set(HeaderUserRole, id.Role)
	}
}
