package api

import (
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/unkn0wn-root/repcache"
	"github.com/unkn0wn-root/repcache/codec"
	"github.com/unkn0wn-root/repcache/internal/shop"
)

const mediaProblem = "application/problem+json"

// problem is an RFC 7807 error body.
type problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, shop.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shop.ErrValidation), errors.Is(err, errBadBody):
		return http.StatusBadRequest
	case errors.Is(err, shop.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, codec.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errUnsupportedMedia):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// problem writes err as problem+json. Server errors are logged and their
// detail is withheld from the client.
func (s *Server) problem(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	p := problem{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Instance: r.URL.Path,
	}
	if status < http.StatusInternalServerError {
		p.Detail = err.Error()
	} else {
		f := repcache.Fields{"path": r.URL.Path, "method": r.Method, "err": err, "request_id": chimw.GetReqID(r.Context())}
		switch {
		case errors.Is(err, repcache.ErrEncoding):
			s.log.Error("record not representable", f)
			p.Detail = "the resource could not be encoded"
		case errors.Is(err, repcache.ErrInvalidate):
			s.log.Error("write committed but cache invalidation failed", f)
			p.Detail = "the write was saved but cached copies could not be invalidated"
		default:
			s.log.Error("request failed", f)
		}
	}
	w.Header().Set("Content-Type", mediaProblem)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(p)
}
