package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-timepay-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// actorFrom writes a 401 and reports false when the request carries no actor.
func actorFrom(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing or invalid token")
	}
	return actor, ok
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid "+name, nil)
		return 0, false
	}
	return id, true
}

// query collects parse failures so a handler reports every bad parameter
// in one 422 response.
type query struct {
	r    *http.Request
	errs validator.ValidationErrors
}

func newQuery(r *http.Request) *query {
	return &query{r: r}
}

func (q *query) str(name string) *string {
	v := strings.TrimSpace(q.r.URL.Query().Get(name))
	if v == "" {
		return nil
	}
	return &v
}

func (q *query) id(name string) *int64 {
	v := q.str(name)
	if v == nil {
		return nil
	}
	n, err := strconv.ParseInt(*v, 10, 64)
	if err != nil || n <= 0 {
		q.errs.Add(name, name+" must be a positive integer")
		return nil
	}
	return &n
}

func (q *query) number(name string) *int {
	v := q.str(name)
	if v == nil {
		return nil
	}
	n, err := strconv.Atoi(*v)
	if err != nil {
		q.errs.Add(name, name+" must be an integer")
		return nil
	}
	return &n
}

func (q *query) intOr(name string, fallback int) int {
	if n := q.number(name); n != nil {
		return *n
	}
	return fallback
}

func (q *query) boolean(name string) bool {
	v := q.str(name)
	if v == nil {
		return false
	}
	b, err := strconv.ParseBool(*v)
	if err != nil {
		q.errs.Add(name, name+" must be true or false")
		return false
	}
	return b
}

func (q *query) status(name string) *approval.Status {
	v := q.str(name)
	if v == nil {
		return nil
	}
	s := approval.Status(strings.ToUpper(*v))
	switch s {
	case approval.StatusPending, approval.StatusApproved, approval.StatusRejected, approval.StatusCancelled:
		return &s
	}
	q.errs.Add(name, name+" must be PENDING, APPROVED, REJECTED or CANCELLED")
	return nil
}

func (q *query) stage(name string) *approval.Stage {
	v := q.str(name)
	if v == nil {
		return nil
	}
	s := approval.Stage(strings.ToUpper(*v))
	switch s {
	case approval.StageAwaitingManager, approval.StageAwaitingHR:
		return &s
	}
	q.errs.Add(name, name+" must be AWAITING_MANAGER or AWAITING_HR")
	return nil
}

func (q *query) err() error {
	return q.errs.Err()
}
