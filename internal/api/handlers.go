package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/unkn0wn-root/repcache"
	"github.com/unkn0wn-root/repcache/internal/shop"
)

var errRoute = fmt.Errorf("%w: no such route", shop.ErrNotFound)

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer, got %q", shop.ErrValidation, raw)
	}
	return id, nil
}

func location(coll string, id int64) string {
	return "/v1/" + coll + "/" + strconv.FormatInt(id, 10)
}

// serve answers a read of key/variant from the cache, loading on miss.
func (s *Server) serve(w http.ResponseWriter, r *http.Request, key repcache.ResourceKey, variant string, load repcache.Loader) {
	ek := key.View(s.representation(r), variant)
	res, err := s.cache.Resolve(r.Context(), ek, r.Header.Get("If-None-Match"), load)
	if err != nil {
		s.problem(w, r, err)
		return
	}
	h := w.Header()
	switch res.Outcome {
	case repcache.NotFound:
		s.problem(w, r, shop.ErrNotFound)
	case repcache.NotModified:
		h.Set("ETag", res.ETag())
		h.Set("Vary", "Accept")
		w.WriteHeader(http.StatusNotModified)
	default:
		h.Set("ETag", res.ETag())
		h.Set("Content-Type", res.ContentType)
		h.Set("Vary", "Accept")
		if res.Cached {
			h.Set("X-Cache", "hit")
		} else {
			h.Set("X-Cache", "miss")
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.Payload)
	}
}

// written finishes a committed write: invalidate, then answer with the
// record in the requested representation.
func (s *Server) written(w http.ResponseWriter, r *http.Request, status int, rec any, loc string, keys []repcache.ResourceKey) {
	if err := s.cache.OnWrite(r.Context(), keys...); err != nil {
		s.problem(w, r, err)
		return
	}
	if rec == nil {
		w.WriteHeader(status)
		return
	}
	rep := s.representation(r)
	payload, tok, err := s.cache.Encode(rec, rep)
	if err != nil {
		s.problem(w, r, err)
		return
	}
	h := w.Header()
	if loc != "" {
		h.Set("Location", s.host+loc)
	}
	h.Set("ETag", tok.ETag())
	h.Set("Content-Type", s.cache.Encoder().ContentType(rep))
	h.Set("Vary", "Accept")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func one[T any](fn func(context.Context, int64) (T, error), id int64) repcache.Loader {
	return func(ctx context.Context) (any, error) { return fn(ctx, id) }
}

func page[T repcache.DomainChecker](fn func(context.Context, shop.ListParams) ([]T, error), p shop.ListParams) repcache.Loader {
	return func(ctx context.Context) (any, error) {
		rows, err := fn(ctx, p)
		if err != nil {
			return nil, err
		}
		if rows == nil {
			rows = []T{}
		}
		return shop.List[T](rows), nil
	}
}

// getByID serves GET .../{id} from the key kind:id.
func getByID[T any](s *Server, kind string, fn func(context.Context, int64) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.problem(w, r, err)
			return
		}
		s.serve(w, r, repcache.Key(kind, id), "", one(fn, id))
	}
}

// listAll serves a paged collection; the canonical params are the variant.
func listAll[T repcache.DomainChecker](s *Server, coll string, fn func(context.Context, shop.ListParams) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := shop.ParseListParams(r.URL.Query())
		if err != nil {
			s.problem(w, r, err)
			return
		}
		s.serve(w, r, shop.Collection(coll), p.Canonical(), page(fn, p))
	}
}

// create decodes In and passes it to fn, which stores it and reports the
// new record, its path and the keys to invalidate.
func create[In any](s *Server, fn func(context.Context, In) (any, string, []repcache.ResourceKey, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := decodeBody[In](s, r)
		if err != nil {
			s.problem(w, r, err)
			return
		}
		rec, loc, keys, err := fn(r.Context(), in)
		if err != nil {
			s.problem(w, r, err)
			return
		}
		s.written(w, r, http.StatusCreated, rec, loc, keys)
	}
}

func update[P any](s *Server, fn func(context.Context, int64, P) (any, []repcache.ResourceKey, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.problem(w, r, err)
			return
		}
		p, err := decodeBody[P](s, r)
		if err != nil {
			s.problem(w, r, err)
			return
		}
		rec, keys, err := fn(r.Context(), id, p)
		if err != nil {
			s.problem(w, r, err)
			return
		}
		s.written(w, r, http.StatusOK, rec, "", keys)
	}
}

func remove(s *Server, fn func(context.Context, int64) ([]repcache.ResourceKey, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.problem(w, r, err)
			return
		}
		keys, err := fn(r.Context(), id)
		if err != nil {
			s.problem(w, r, err)
			return
		}
		s.written(w, r, http.StatusNoContent, nil, "", keys)
	}
}
