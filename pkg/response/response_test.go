package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/filmday-backend-go/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", models.NewValidationError("genre.genres", "You can select a maximum of %d genres!", 3), http.StatusBadRequest, "You can select a maximum of 3 genres!"},
		{"empty set", fmt.Errorf("pick: %w", models.ErrEmptySet), http.StatusNotFound, MsgEmptySet},
		{"not found", models.ErrNotFound, http.StatusNotFound, MsgNotFound},
		{"credentials", models.ErrInvalidCredentials, http.StatusUnauthorized, MsgInvalidCredentials},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			FromError(c, tt.err)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			var resp Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != tt.status || resp.Message != tt.message {
				t.Errorf("got %+v, want code %d message %q", resp, tt.status, tt.message)
			}
		})
	}
}

func TestBindErrorTranslatesValidator(t *testing.T) {
	type body struct {
		Username string `json:"username" binding:"required"`
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)

	var b body
	err := c.ShouldBindJSON(&b)
	if err == nil {
		t.Fatal("expected bind error for empty body")
	}
	BindError(c, err)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestFieldName(t *testing.T) {
	if got := fieldName("FilterSelection.Sort.Column"); got != "sort.column" {
		t.Errorf("fieldName = %q", got)
	}
}
