package site_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/The-Tifo/Graphql/internal/adapters/http/api"
	"github.com/The-Tifo/Graphql/internal/adapters/http/site"
	"github.com/The-Tifo/Graphql/internal/adapters/upstream"
	service "github.com/The-Tifo/Graphql/internal/app"
	"github.com/The-Tifo/Graphql/internal/domain/chart"
	"github.com/The-Tifo/Graphql/pkg/logger"
)

func init() {
	if err := logger.InitWithWriter(io.Discard); err != nil {
		panic(err)
	}
}

type stubService struct {
	loginErr     error
	dashboardErr error
	loggedOut    []string
}

func (s *stubService) Login(_ context.Context, username, password string) (string, error) {
	if s.loginErr != nil {
		return "", s.loginErr
	}
	if username == "" || password == "" {
		return "", service.ErrMissingCredentials
	}
	return "sid-" + username, nil
}

func (s *stubService) Logout(_ context.Context, sessionID string) {
	s.loggedOut = append(s.loggedOut, sessionID)
}

func (s *stubService) Dashboard(_ context.Context, sessionID string, _ float64) (service.Dashboard, error) {
	if s.dashboardErr != nil {
		return service.Dashboard{}, s.dashboardErr
	}
	if sessionID != "sid-tifo" {
		return service.Dashboard{}, service.ErrNoSession
	}
	return service.Dashboard{
		Login:          "tifo",
		DisplayName:    "Ali <Hasan>",
		XP:             "1.3 MB",
		Radar:          chart.Radar([]chart.RadarEntry{{Label: "Go", Value: 3}, {Label: "Js", Value: 1.5}}, 600, 300),
		Audits:         chart.Bars(chart.AuditBalance{Given: 2000, Received: 1000}, 600),
		AuditRatio:     "2.0",
		RecentProjects: []string{"graphql", "ascii-art"},
		AuditHistory:   []service.AuditRow{{Label: "graphql", Status: service.AuditPassed}},
	}, nil
}

func newMux(s *stubService) *http.ServeMux {
	mux := http.NewServeMux()
	site.NewHandler(s, api.DefaultCookies()).Register(context.Background(), mux)
	return mux
}

func serve(mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func postLogin(username, password string) *http.Request {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func withSession(req *http.Request, id string) *http.Request {
	req.AddCookie(&http.Cookie{Name: api.DefaultCookies().Name, Value: id})
	return req
}

func TestSite_Login(t *testing.T) {
	Convey("Given the sign-in page", t, func() {
		s := &stubService{}
		mux := newMux(s)

		Convey("GET /login renders the form", func() {
			rec := serve(mux, httptest.NewRequest(http.MethodGet, "/login", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldStartWith, "text/html")
			So(rec.Body.String(), ShouldContainSubstring, `action="/login"`)
			So(rec.Body.String(), ShouldNotContainSubstring, `id="error"`)
		})

		Convey("a successful POST sets the cookie and redirects to the profile", func() {
			rec := serve(mux, postLogin("tifo", "secret"))
			So(rec.Code, ShouldEqual, http.StatusSeeOther)
			So(rec.Header().Get("Location"), ShouldEqual, "/profile")
			cookies := rec.Result().Cookies()
			So(len(cookies), ShouldEqual, 1)
			So(cookies[0].Value, ShouldEqual, "sid-tifo")
			So(cookies[0].HttpOnly, ShouldBeTrue)
		})

		Convey("rejected credentials re-render the form with the error", func() {
			s.loginErr = fmt.Errorf("sign in: %w", upstream.ErrInvalidCredentials)
			rec := serve(mux, postLogin("tifo", "wrong"))
			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
			So(rec.Body.String(), ShouldContainSubstring, "Invalid username or password")
			So(rec.Body.String(), ShouldContainSubstring, `value="tifo"`)
			So(rec.Result().Cookies(), ShouldBeEmpty)
		})

		Convey("blank fields count as invalid credentials", func() {
			rec := serve(mux, postLogin("", ""))
			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
			So(rec.Body.String(), ShouldContainSubstring, "Invalid username or password")
		})

		Convey("an unreachable platform is a gateway error", func() {
			s.loginErr = fmt.Errorf("sign in: %w", upstream.ErrUpstream)
			rec := serve(mux, postLogin("tifo", "secret"))
			So(rec.Code, ShouldEqual, http.StatusBadGateway)
			So(rec.Body.String(), ShouldContainSubstring, "unavailable")
		})

		Convey("other methods are rejected", func() {
			rec := serve(mux, httptest.NewRequest(http.MethodDelete, "/login", nil))
			So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestSite_Profile(t *testing.T) {
	Convey("Given the profile page", t, func() {
		s := &stubService{}
		mux := newMux(s)

		Convey("the root redirects to the profile", func() {
			rec := serve(mux, httptest.NewRequest(http.MethodGet, "/", nil))
			So(rec.Code, ShouldEqual, http.StatusFound)
			So(rec.Header().Get("Location"), ShouldEqual, "/profile")
		})

		Convey("unknown paths are not found", func() {
			rec := serve(mux, httptest.NewRequest(http.MethodGet, "/nope", nil))
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("without a session it redirects to sign-in", func() {
			rec := serve(mux, httptest.NewRequest(http.MethodGet, "/profile", nil))
			So(rec.Code, ShouldEqual, http.StatusSeeOther)
			So(rec.Header().Get("Location"), ShouldEqual, "/login")
			So(rec.Result().Cookies(), ShouldBeEmpty)
		})

		Convey("a stale session clears the cookie", func() {
			rec := serve(mux, withSession(httptest.NewRequest(http.MethodGet, "/profile", nil), "sid-gone"))
			So(rec.Code, ShouldEqual, http.StatusSeeOther)
			cookies := rec.Result().Cookies()
			So(len(cookies), ShouldEqual, 1)
			So(cookies[0].MaxAge, ShouldBeLessThan, 0)
		})

		Convey("a valid session renders both charts inline", func() {
			rec := serve(mux, withSession(httptest.NewRequest(http.MethodGet, "/profile", nil), "sid-tifo"))
			So(rec.Code, ShouldEqual, http.StatusOK)
			body := rec.Body.String()
			So(strings.Count(body, "<svg"), ShouldEqual, 2)
			So(body, ShouldContainSubstring, "done-bar")
			So(body, ShouldContainSubstring, `<span id="ratio-value">2.0</span>`)
			So(body, ShouldContainSubstring, "ascii-art")
			So(body, ShouldContainSubstring, "Ali &lt;Hasan&gt;")
			So(body, ShouldNotContainSubstring, "Ali <Hasan>")
		})

		Convey("upstream failures show the error page", func() {
			s.dashboardErr = errors.New("boom")
			rec := serve(mux, withSession(httptest.NewRequest(http.MethodGet, "/profile", nil), "sid-tifo"))
			So(rec.Code, ShouldEqual, http.StatusBadGateway)
			So(rec.Body.String(), ShouldContainSubstring, "Something went wrong")
		})
	})
}

func TestSite_LogoutAndStatic(t *testing.T) {
	Convey("Given a signed-in browser", t, func() {
		s := &stubService{}
		mux := newMux(s)

		Convey("POST /logout ends the session", func() {
			rec := serve(mux, withSession(httptest.NewRequest(http.MethodPost, "/logout", nil), "sid-tifo"))
			So(rec.Code, ShouldEqual, http.StatusSeeOther)
			So(rec.Header().Get("Location"), ShouldEqual, "/login")
			So(s.loggedOut, ShouldResemble, []string{"sid-tifo"})
		})

		Convey("GET /logout is rejected", func() {
			rec := serve(mux, httptest.NewRequest(http.MethodGet, "/logout", nil))
			So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(s.loggedOut, ShouldBeEmpty)
		})

		Convey("the stylesheet is served from the embedded files", func() {
			rec := serve(mux, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, ".done-bar")
		})
	})
}
