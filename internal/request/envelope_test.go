package request

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type profile struct {
	Username string `json:"username"`
}

func TestDoEnvelope(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     bool
		wantMessage string
		wantUser    string
	}{
		{
			name:     "numeric zero code is success",
			status:   http.StatusOK,
			body:     `{"code": 0, "message": "SUCCESS", "data": {"username": "alice"}}`,
			wantUser: "alice",
		},
		{
			name:     "string zero code is success",
			status:   http.StatusOK,
			body:     `{"code": "0", "message": "SUCCESS", "data": {"username": "bob"}}`,
			wantUser: "bob",
		},
		{
			name:        "non-zero code fails under HTTP 200",
			status:      http.StatusOK,
			body:        `{"code": 1, "message": "invalid api key"}`,
			wantErr:     true,
			wantMessage: "invalid api key",
		},
		{
			name:        "non-zero string code fails under HTTP 200",
			status:      http.StatusOK,
			body:        `{"code": "4003", "message": "permission denied"}`,
			wantErr:     true,
			wantMessage: "permission denied",
		},
		{
			name:    "non-JSON body fails",
			status:  http.StatusOK,
			body:    `<html>maintenance</html>`,
			wantErr: true,
		},
		{
			name:    "HTTP error fails before envelope parsing",
			status:  http.StatusBadGateway,
			body:    `{"code": 0}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := New()
			req, _ := http.NewRequest(http.MethodPost, server.URL, nil)

			data, err := DoEnvelope[profile](client, req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				reqErr, ok := err.(*Error)
				if !ok {
					t.Fatalf("error type = %T, want *Error", err)
				}
				if tt.wantMessage != "" && reqErr.Message != tt.wantMessage {
					t.Errorf("Message = %q, want %q", reqErr.Message, tt.wantMessage)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if data == nil || data.Username != tt.wantUser {
				t.Errorf("data = %+v, want username %q", data, tt.wantUser)
			}
		})
	}
}

func TestEnvelopeCodeOK(t *testing.T) {
	tests := []struct {
		raw  string
		ok   bool
	}{
		{`0`, true},
		{`"0"`, true},
		{`1`, false},
		{`"1"`, false},
		{`"SUCCESS"`, false},
	}
	for _, tt := range tests {
		var c EnvelopeCode
		if err := c.UnmarshalJSON([]byte(tt.raw)); err != nil {
			t.Fatalf("UnmarshalJSON(%s): %v", tt.raw, err)
		}
		if c.OK() != tt.ok {
			t.Errorf("EnvelopeCode(%s).OK() = %v, want %v", tt.raw, c.OK(), tt.ok)
		}
	}
}
