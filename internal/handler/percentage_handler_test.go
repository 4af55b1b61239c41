package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentageHandler_Parse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		body          string
		wantStatus    int
		wantValue     string
		wantFormatted string
		wantRaw       string
	}{
		{"fraction", `{"value":"0.125"}`, http.StatusOK, "0.125", "12.50%", "12.5%"},
		{"scaled with sign", `{"value":"7.25%","scaled":true}`, http.StatusOK, "0.0725", "7.25%", "7.25%"},
		{"truncates", `{"value":"0.123456"}`, http.StatusOK, "0.1234", "12.34%", "12.34%"},
		{"sign without scaled", `{"value":"5%"}`, http.StatusBadRequest, "", "", ""},
		{"blank", `{"value":" "}`, http.StatusBadRequest, "", "", ""},
		{"invalid body", `[]`, http.StatusBadRequest, "", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/api/percentages/parse", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			NewPercentageHandler().Parse(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantValue, resp["value"])
			assert.Equal(t, tt.wantFormatted, resp["formatted"])
			assert.Equal(t, tt.wantRaw, resp["raw"])
		})
	}
}
