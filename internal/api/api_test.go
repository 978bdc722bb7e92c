package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/wb-go/wbf/zlog"

	"mergington/internal/dto"
	"mergington/internal/model"
	"mergington/internal/repo"
	"mergington/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *repo.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	zlog.Init()
	log := zlog.Logger

	registry := repo.NewRegistry()
	svc := service.NewService(registry, &log, nil)
	app := NewRouters(&Routers{Service: svc})
	return app, registry
}

func perform(t *testing.T, app *gin.Engine, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, req)
	return rr
}

func rosterTarget(activity, op, email string) string {
	return "/activities/" + url.PathEscape(activity) + "/" + op + "?email=" + url.QueryEscape(email)
}

func decodeActivities(t *testing.T, rr *httptest.ResponseRecorder) map[string]model.Activity {
	t.Helper()
	var activities map[string]model.Activity
	if err := json.Unmarshal(rr.Body.Bytes(), &activities); err != nil {
		t.Fatalf("failed to decode activities: %v", err)
	}
	return activities
}

func TestRootRedirectsToStaticIndex(t *testing.T) {
	app, _ := newTestRouter(t)

	rr := perform(t, app, http.MethodGet, "/")
	if rr.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307 got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/static/index.html" {
		t.Fatalf("expected Location /static/index.html got %q", loc)
	}
}

func TestGetActivitiesReturnsSeed(t *testing.T) {
	app, _ := newTestRouter(t)

	rr := perform(t, app, http.MethodGet, "/activities")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	activities := decodeActivities(t, rr)
	if len(activities) != 3 {
		t.Fatalf("expected 3 activities got %d", len(activities))
	}

	chess, ok := activities["Chess Club"]
	if !ok {
		t.Fatal("expected Chess Club in response")
	}
	if chess.Description == "" || chess.Schedule == "" {
		t.Fatal("expected description and schedule to be populated")
	}
	want := []string{"michael@mergington.edu", "daniel@mergington.edu"}
	if !reflect.DeepEqual(chess.Participants, want) {
		t.Fatalf("expected Chess Club participants %v got %v", want, chess.Participants)
	}
}

func TestSignupSuccess(t *testing.T) {
	app, _ := newTestRouter(t)

	rr := perform(t, app, http.MethodPost, rosterTarget("Chess Club", "signup", "newstudent@mergington.edu"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp dto.MessageResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "newstudent@mergington.edu signed up for Chess Club" {
		t.Fatalf("unexpected message %q", resp.Message)
	}

	activities := decodeActivities(t, perform(t, app, http.MethodGet, "/activities"))
	want := []string{"michael@mergington.edu", "daniel@mergington.edu", "newstudent@mergington.edu"}
	if !reflect.DeepEqual(activities["Chess Club"].Participants, want) {
		t.Fatalf("expected participants %v got %v", want, activities["Chess Club"].Participants)
	}
}

func TestSignupUnknownActivity(t *testing.T) {
	app, _ := newTestRouter(t)

	rr := perform(t, app, http.MethodPost, rosterTarget("Nonexistent Club", "signup", "test@mergington.edu"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}

	var resp dto.DetailResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Detail != "Activity not found" {
		t.Fatalf("unexpected detail %q", resp.Detail)
	}
}

func TestSignupDuplicate(t *testing.T) {
	app, _ := newTestRouter(t)
	target := rosterTarget("Chess Club", "signup", "test@mergington.edu")

	if rr := perform(t, app, http.MethodPost, target); rr.Code != http.StatusOK {
		t.Fatalf("first signup expected 200 got %d", rr.Code)
	}

	rr := perform(t, app, http.MethodPost, target)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	var resp dto.DetailResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Detail != "Student already signed up for this activity" {
		t.Fatalf("unexpected detail %q", resp.Detail)
	}
}

func TestSignupSpecialCharactersInActivityName(t *testing.T) {
	app, registry := newTestRouter(t)
	registry.Add("Art & Crafts", model.Activity{
		Description:     "Creative arts",
		Schedule:        "Mondays",
		MaxParticipants: 10,
	})

	rr := perform(t, app, http.MethodPost, rosterTarget("Art & Crafts", "signup", "test@mergington.edu"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	activities := decodeActivities(t, perform(t, app, http.MethodGet, "/activities"))
	if !reflect.DeepEqual(activities["Art & Crafts"].Participants, []string{"test@mergington.edu"}) {
		t.Fatalf("unexpected roster %v", activities["Art & Crafts"].Participants)
	}
}

func TestSignupSpecialCharactersInEmail(t *testing.T) {
	app, _ := newTestRouter(t)
	email := "first.last+tag@mergington.edu"

	rr := perform(t, app, http.MethodPost, rosterTarget("Chess Club", "signup", email))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	activities := decodeActivities(t, perform(t, app, http.MethodGet, "/activities"))
	found := false
	for _, p := range activities["Chess Club"].Participants {
		if p == email {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s in roster %v", email, activities["Chess Club"].Participants)
	}
}

func TestSignupMissingEmail(t *testing.T) {
	app, _ := newTestRouter(t)

	rr := perform(t, app, http.MethodPost, "/activities/Chess%20Club/signup")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestUnregisterSuccess(t *testing.T) {
	app, _ := newTestRouter(t)

	rr := perform(t, app, http.MethodDelete, rosterTarget("Chess Club", "unregister", "michael@mergington.edu"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp dto.MessageResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "michael@mergington.edu unregistered from Chess Club" {
		t.Fatalf("unexpected message %q", resp.Message)
	}

	activities := decodeActivities(t, perform(t, app, http.MethodGet, "/activities"))
	want := []string{"daniel@mergington.edu"}
	if !reflect.DeepEqual(activities["Chess Club"].Participants, want) {
		t.Fatalf("expected participants %v got %v", want, activities["Chess Club"].Participants)
	}
}

func TestUnregisterUnknownActivity(t *testing.T) {
	app, _ := newTestRouter(t)

	rr := perform(t, app, http.MethodDelete, rosterTarget("Nonexistent Club", "unregister", "test@mergington.edu"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
	var resp dto.DetailResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Detail != "Activity not found" {
		t.Fatalf("unexpected detail %q", resp.Detail)
	}
}

func TestUnregisterNotRegistered(t *testing.T) {
	app, _ := newTestRouter(t)

	rr := perform(t, app, http.MethodDelete, rosterTarget("Chess Club", "unregister", "notregistered@mergington.edu"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	var resp dto.DetailResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Detail != "Student not registered for this activity" {
		t.Fatalf("unexpected detail %q", resp.Detail)
	}
}

func TestSignupUnregisterWorkflow(t *testing.T) {
	app, _ := newTestRouter(t)
	email := "workflow@mergington.edu"
	activity := "Programming Class"

	before := decodeActivities(t, perform(t, app, http.MethodGet, "/activities"))[activity].Participants

	if rr := perform(t, app, http.MethodPost, rosterTarget(activity, "signup", email)); rr.Code != http.StatusOK {
		t.Fatalf("signup expected 200 got %d", rr.Code)
	}

	during := decodeActivities(t, perform(t, app, http.MethodGet, "/activities"))[activity].Participants
	if len(during) != len(before)+1 || during[len(during)-1] != email {
		t.Fatalf("expected %s appended to %v, got %v", email, before, during)
	}

	if rr := perform(t, app, http.MethodDelete, rosterTarget(activity, "unregister", email)); rr.Code != http.StatusOK {
		t.Fatalf("unregister expected 200 got %d", rr.Code)
	}

	after := decodeActivities(t, perform(t, app, http.MethodGet, "/activities"))[activity].Participants
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("workflow did not restore roster: %v -> %v", before, after)
	}
}

func TestMultipleActivitiesSignup(t *testing.T) {
	app, _ := newTestRouter(t)
	email := "multi@mergington.edu"

	for _, activity := range []string{"Chess Club", "Programming Class", "Gym Class"} {
		if rr := perform(t, app, http.MethodPost, rosterTarget(activity, "signup", email)); rr.Code != http.StatusOK {
			t.Fatalf("signup for %s expected 200 got %d", activity, rr.Code)
		}
	}

	activities := decodeActivities(t, perform(t, app, http.MethodGet, "/activities"))
	for _, activity := range []string{"Chess Club", "Programming Class", "Gym Class"} {
		found := false
		for _, p := range activities[activity].Participants {
			if p == email {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected %s in %s roster", email, activity)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app, _ := newTestRouter(t)

	rr := perform(t, app, http.MethodGet, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
}
