package test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/syclar/internal/auth"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

type sessionResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

func doRequest(method, path, token, body string) (*http.Response, []byte, error) {
	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, serverEndpoint+path, reqBody)
	if err != nil {
		return nil, nil, err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, respBody, nil
}

func doSession(path, email, password string) (*sessionResponse, error) {
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	resp, respBody, err := doRequest(http.MethodPost, path, "", body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%s: status %d: %s", path, resp.StatusCode, respBody)
	}

	var session sessionResponse
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if session.Token == "" {
		return nil, fmt.Errorf("%s: empty token", path)
	}
	return &session, nil
}

func doSignup(email, password string) (*sessionResponse, error) {
	return doSession("/a/signup", email, password)
}

func doLogin(email, password string) (*sessionResponse, error) {
	return doSession("/a/login", email, password)
}
