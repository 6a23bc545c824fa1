package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"floorwatch/internal/models"
	"floorwatch/internal/service"
)

func TestListMappings(t *testing.T) {
	maps := &mockMappings{rows: []models.EquipmentMapping{
		{FrontendID: "EQ-01-01", Linked: true},
		{FrontendID: "EQ-01-02", Linked: false},
	}}
	r := newTestRouter(&service.Service{Mappings: maps})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/mappings", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", w.Code)
	}
	var body struct {
		Mappings []models.EquipmentMapping `json:"mappings"`
		Count    int                       `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Count != 2 || !body.Mappings[0].Linked {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestSetMapping(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		setErr     error
		wantCode   int
		wantCalls  int
		wantLinked bool
	}{
		{"link", `{"linked":true}`, nil, http.StatusOK, 1, true},
		{"unlink", `{"linked":false}`, nil, http.StatusOK, 1, false},
		{"missing_field", `{}`, nil, http.StatusBadRequest, 0, false},
		{"malformed_json", `{linked`, nil, http.StatusBadRequest, 0, false},
		{"persist_failure", `{"linked":true}`, errors.New("disk full"), http.StatusInternalServerError, 1, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			maps := &mockMappings{setErr: tc.setErr}
			r := newTestRouter(&service.Service{Mappings: maps})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/api/v1/mappings/EQ-05-01", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status: want %d, got %d (body %s)", tc.wantCode, w.Code, w.Body.String())
			}
			if maps.setCalls != tc.wantCalls {
				t.Fatalf("Set calls: want %d, got %d", tc.wantCalls, maps.setCalls)
			}
			if tc.wantCalls > 0 {
				if maps.lastSetID != "EQ-05-01" || maps.lastSetLinked != tc.wantLinked {
					t.Fatalf("Set args: got (%s, %v)", maps.lastSetID, maps.lastSetLinked)
				}
			}
		})
	}
}
