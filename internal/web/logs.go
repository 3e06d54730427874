package web

import (
	"context"
	"net/http"
	"net/url"

	"groupadmin/internal/apiclient"
	"groupadmin/internal/cursor"
	"groupadmin/internal/model"
)

// logPageSize keeps log pages short so the pagination controls get real
// use.
const logPageSize = 3

// Log filter modes. Exactly one of the user and type filters is active at
// a time; the date range applies in every mode.
const (
	filterNone = ""
	filterUser = "userid"
	filterType = "type"
)

// logsFilter is the filter state round-tripped through the query string.
type logsFilter struct {
	Mode   string
	UserID string
	Type   string
	Begin  string
	End    string
}

func readLogsFilter(q url.Values) logsFilter {
	f := logsFilter{
		Mode:  q.Get("mode"),
		Begin: q.Get("begin"),
		End:   q.Get("end"),
	}
	switch f.Mode {
	case filterUser:
		f.UserID = q.Get("userid")
	case filterType:
		f.Type = q.Get("type")
		if !model.ValidLogType(f.Type) {
			f.Type = ""
		}
	default:
		f.Mode = filterNone
	}
	return f
}

// values encodes the filter for links that must preserve it.
func (f logsFilter) values() url.Values {
	v := url.Values{}
	if f.Mode != filterNone {
		v.Set("mode", f.Mode)
	}
	if f.UserID != "" {
		v.Set("userid", f.UserID)
	}
	if f.Type != "" {
		v.Set("type", f.Type)
	}
	if f.Begin != "" {
		v.Set("begin", f.Begin)
	}
	if f.End != "" {
		v.Set("end", f.End)
	}
	return v
}

// query maps the filter onto the API's list parameters.
func (f logsFilter) query() apiclient.LogsQuery {
	q := apiclient.LogsQuery{
		Begin: f.Begin,
		End:   f.End,
		Limit: logPageSize,
	}
	switch f.Mode {
	case filterUser:
		q.UserID = f.UserID
	case filterType:
		q.Type = f.Type
	}
	return q
}

type logsPageData struct {
	PageData
	Entries    []model.LogEntry
	Filter     logsFilter
	GroupUsers []model.GroupUser
	LogTypes   []string
	PageNumber int
	PrevURL    string
	NextURL    string
}

func logsURL(f logsFilter, stack cursor.Stack) string {
	v := f.values()
	if encoded := stack.Encode(); encoded != "" {
		v.Set("stack", encoded)
	}
	if len(v) == 0 {
		return "/auth/logs"
	}
	return "/auth/logs?" + v.Encode()
}

func (s *Server) fetchLogs(ctx context.Context, q apiclient.LogsQuery) (*apiclient.LogsPage, error) {
	resource := "groups/" + s.GroupID + "/logs"
	data, err := s.Cache.Get(ctx, resource, q.Values(), func(ctx context.Context) (any, error) {
		return s.API.ListLogs(ctx, s.GroupID, q)
	})
	if err != nil {
		return nil, err
	}
	return data.(*apiclient.LogsPage), nil
}

func (s *Server) staleLogs(q apiclient.LogsQuery) *apiclient.LogsPage {
	data, ok := s.Cache.Stale("groups/"+s.GroupID+"/logs", q.Values())
	if !ok {
		return nil
	}
	return data.(*apiclient.LogsPage)
}

func (s *Server) fetchGroupUsers(ctx context.Context) ([]model.GroupUser, error) {
	resource := "groups/" + s.GroupID + "/users"
	data, err := s.Cache.Get(ctx, resource, nil, func(ctx context.Context) (any, error) {
		return s.API.ListGroupUsers(ctx, s.GroupID)
	})
	if err != nil {
		return nil, err
	}
	return data.([]model.GroupUser), nil
}

// LogsPage handles GET /auth/logs. The pagination cursor stack travels in
// the stack query parameter; the filter form submits without it, so any
// filter change lands back on page one. A tampered stack parameter also
// falls back to page one.
func (s *Server) LogsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := readLogsFilter(q)

	stack, err := cursor.Decode(q.Get("stack"))
	if err != nil {
		stack = cursor.New()
	}

	lq := filter.query()
	lq.StartKey = stack.Current().StartKey

	data := logsPageData{
		PageData:   PageData{Title: "Logs", Session: GetSession(r.Context())},
		Filter:     filter,
		LogTypes:   model.LogTypes,
		PageNumber: stack.Current().Number,
	}

	// The member dropdown is secondary; a failure there must not take
	// down the whole page.
	if users, err := s.fetchGroupUsers(r.Context()); err == nil {
		data.GroupUsers = users
	}

	page, err := s.fetchLogs(r.Context(), lq)
	if err != nil {
		msgs, unauthorized := resolveError(err)
		if unauthorized {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		data.Errors = msgs
		if stale := s.staleLogs(lq); stale != nil {
			data.Entries = stale.Items
		}
		s.Templates.Render(w, "logs.html", data)
		return
	}

	data.Entries = page.Items
	if stack.CanPop() {
		data.PrevURL = logsURL(filter, stack.Pop())
	}
	if len(page.LastEvaluatedKey) > 0 {
		data.NextURL = logsURL(filter, stack.Push(page.LastEvaluatedKey))
	}

	s.Templates.Render(w, "logs.html", data)
}
