package test

import (
	"encoding/json"
	"net/http"

	"github.com/brianvoe/gofakeit/v6"
)

type accountView struct {
	Profile struct {
		ID                 string `json:"id"`
		Email              string `json:"email"`
		SubscriptionStatus string `json:"subscriptionStatus"`
	} `json:"profile"`
	Subscription struct {
		HasActiveSubscription bool `json:"hasActiveSubscription"`
		IsTrialing            bool `json:"isTrialing"`
		TrialDaysRemaining    int  `json:"trialDaysRemaining"`
	} `json:"subscription"`
}

func (s *IntegrationTestSuite) TestSignupLoginLogout() {
	email := gofakeit.Email()
	password := gofakeit.Password(true, true, true, false, false, 12)

	signup, err := doSignup(email, password)
	s.Require().NoError(err)
	s.NotEmpty(signup.UserID)

	var storedEmail string
	err = s.DB.QueryRow(`SELECT email FROM profiles WHERE id = $1`, signup.UserID).Scan(&storedEmail)
	s.Require().NoError(err)
	s.Equal(email, storedEmail)

	// same email cannot sign up twice
	_, err = doSignup(email, password)
	s.Error(err)

	_, err = doLogin(email, "wrong-password")
	s.Error(err)

	login, err := doLogin(email, password)
	s.Require().NoError(err)
	s.Equal(signup.UserID, login.UserID)
	s.NotEqual(signup.Token, login.Token)

	resp, body, err := doRequest(http.MethodGet, "/account", login.Token, "")
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var account accountView
	s.Require().NoError(json.Unmarshal(body, &account))
	s.Equal(email, account.Profile.Email)
	s.Equal("trialing", account.Profile.SubscriptionStatus)
	s.True(account.Subscription.HasActiveSubscription)
	s.True(account.Subscription.IsTrialing)
	s.Greater(account.Subscription.TrialDaysRemaining, 0)

	resp, body, err = doRequest(http.MethodGet, "/a/logout", login.Token, "")
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("logged-out", string(body))

	resp, _, err = doRequest(http.MethodGet, "/account", login.Token, "")
	s.Require().NoError(err)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	// the signup session is still valid
	resp, _, err = doRequest(http.MethodGet, "/account", signup.Token, "")
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestSignup_InvalidCredentials() {
	_, err := doSignup("not-an-email", "long-enough-password")
	s.Error(err)

	_, err = doSignup(gofakeit.Email(), "short")
	s.Error(err)
}

func (s *IntegrationTestSuite) TestProtectedPaths_NoSession() {
	for _, path := range []string{"/state", "/account", "/heatmap/week", "/peptalk"} {
		resp, _, err := doRequest(http.MethodGet, path, "", "")
		s.Require().NoError(err)
		s.Equal(http.StatusUnauthorized, resp.StatusCode, path)
	}

	resp, body, err := doRequest(http.MethodGet, "/", "", "")
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("syclar is up", string(body))
}
