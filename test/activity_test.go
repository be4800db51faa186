package test

import (
	"encoding/json"
	"net/http"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/2beens/syclar/internal/ledger"
	"github.com/2beens/syclar/internal/store"
	"github.com/2beens/syclar/internal/tracker"
)

func (s *IntegrationTestSuite) newSession() *sessionResponse {
	session, err := doSignup(gofakeit.Email(), gofakeit.Password(true, true, true, false, false, 14))
	s.Require().NoError(err)
	return session
}

func (s *IntegrationTestSuite) getState(token string) tracker.StateView {
	resp, body, err := doRequest(http.MethodGet, "/state", token, "")
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var view tracker.StateView
	s.Require().NoError(json.Unmarshal(body, &view))
	return view
}

func (s *IntegrationTestSuite) TestActivityFlow() {
	session := s.newSession()

	view := s.getState(session.Token)
	s.Equal(0, view.Streak)
	s.False(view.DayCompleted)
	s.NotEmpty(view.Today)

	resp, body, err := doRequest(http.MethodPost, "/approaches", session.Token, `{"isRejection":true}`)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	s.Require().NoError(json.Unmarshal(body, &view))
	s.True(view.DayCompleted)
	s.Equal(1, view.Streak)
	s.Equal(1, view.Stats.TotalApproaches)
	s.Equal(1, view.Stats.RejectionResilience)

	resp, body, err = doRequest(http.MethodPost, "/passedby", session.Token, `{"delta":2}`)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	// trialing accounts sync their state to postgres
	var data []byte
	err = s.DB.QueryRow(
		`SELECT data FROM user_data WHERE user_id = $1 AND state_key = $2`,
		session.UserID, store.StateKey,
	).Scan(&data)
	s.Require().NoError(err)

	var stored ledger.State
	s.Require().NoError(json.Unmarshal(data, &stored))
	s.Equal(1, stored.Streak)
	s.Len(stored.ApproachDates, 1)

	view = s.getState(session.Token)
	s.Equal(1, view.Streak)
	s.True(view.DayCompleted)
}

func (s *IntegrationTestSuite) TestFutureApproachRejected() {
	session := s.newSession()

	resp, _, err := doRequest(http.MethodPost, "/approaches", session.Token, `{"date":"2999-01-01"}`)
	s.Require().NoError(err)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	view := s.getState(session.Token)
	s.Equal(0, view.Streak)
}

func (s *IntegrationTestSuite) TestSimulateAndHeatmap() {
	session := s.newSession()

	resp, body, err := doRequest(http.MethodPost, "/dev/simulate", session.Token, `{"days":60}`)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var view tracker.StateView
	s.Require().NoError(json.Unmarshal(body, &view))
	s.NotEmpty(view.ApproachDates)

	resp, body, err = doRequest(http.MethodGet, "/heatmap/month", session.Token, "")
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var heatmap tracker.RangeHeatmap
	s.Require().NoError(json.Unmarshal(body, &heatmap))
	s.NotEmpty(heatmap.Cells)
	s.NotEmpty(heatmap.Label)

	resp, body, err = doRequest(http.MethodGet, "/heatmap/years", session.Token, "")
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var years map[string][]int
	s.Require().NoError(json.Unmarshal(body, &years))
	s.NotEmpty(years["years"])

	resp, body, err = doRequest(http.MethodPost, "/dev/reset", session.Token, "")
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	s.Require().NoError(json.Unmarshal(body, &view))
	s.Equal(0, view.Streak)
	s.Empty(view.ApproachDates)
}
