package mockapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/goodhang-desktop/internal/apiclient"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/jwt"
	"github.com/magabrotheeeer/goodhang-desktop/internal/lib/sl"
	"github.com/magabrotheeeer/goodhang-desktop/internal/mockapi"
	"github.com/magabrotheeeer/goodhang-desktop/internal/models"
)

const testSecret = "test-secret"

func setupServer(t *testing.T, seeds ...mockapi.Seed) (*apiclient.Client, *httptest.Server) {
	t.Helper()
	registry, err := mockapi.NewRegistry(seeds...)
	require.NoError(t, err)

	srv := httptest.NewServer(mockapi.NewServer(registry, jwt.NewJWTMaker(testSecret, time.Hour), sl.Discard()).Handler())
	t.Cleanup(srv.Close)

	return apiclient.NewClient(srv.URL, 5*time.Second, sl.Discard(), nil), srv
}

func issueToken(t *testing.T, srv *httptest.Server, userID, sessionID string) string {
	t.Helper()
	body, err := json.Marshal(map[string]string{"userId": userID, "sessionId": sessionID})
	require.NoError(t, err)

	resp, err := srv.Client().Post(srv.URL+"/api/dev/token", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestActivationFlow(t *testing.T) {
	client, srv := setupServer(t, mockapi.Seed{Code: "GH-AB12-CD34", Product: "goodhang", Tier: "top"})
	ctx := context.Background()

	validation, err := client.ValidateActivationKey(ctx, "gh-ab12-cd34")
	require.NoError(t, err)
	require.True(t, validation.Valid)
	require.NotNil(t, validation.Preview)
	assert.Equal(t, "top", validation.Preview.Tier)
	assert.Equal(t, "goodhang", models.Deref(validation.Product))
	sessionID := models.Deref(validation.SessionID)
	require.NotEmpty(t, sessionID)

	claim, err := client.ClaimActivationKey(ctx, "GH-AB12-CD34", "user-1")
	require.NoError(t, err)
	assert.True(t, claim.Success)
	assert.Equal(t, "user-1", models.Deref(claim.UserID))

	again, err := client.ClaimActivationKey(ctx, "GH-AB12-CD34", "user-2")
	require.NoError(t, err)
	assert.False(t, again.Success)
	assert.Equal(t, "code already claimed", models.Deref(again.Error))

	revalidation, err := client.ValidateActivationKey(ctx, "GH-AB12-CD34")
	require.NoError(t, err)
	assert.False(t, revalidation.Valid)

	token := issueToken(t, srv, "user-1", sessionID)

	result, err := client.FetchAssessmentResults(ctx, sessionID, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", result.UserID)
	assert.Equal(t, float64(91), result.OverallScore)
	assert.Equal(t, models.SchemaV1, result.SchemaVersion())

	status, err := client.FetchUserStatus(ctx, token, "")
	require.NoError(t, err)
	assert.True(t, status.Found)
	assert.True(t, status.Products.GoodHang.Enabled)
	require.NotNil(t, status.User)
	assert.Equal(t, "user-1", status.User.ID)
}

func TestUnknownCodeIsSoftFailure(t *testing.T) {
	client, _ := setupServer(t)
	ctx := context.Background()

	validation, err := client.ValidateActivationKey(ctx, "GH-NOPE")
	require.NoError(t, err)
	assert.False(t, validation.Valid)
	assert.Equal(t, "Server error: 404 Not Found", models.Deref(validation.Error))

	claim, err := client.ClaimActivationKey(ctx, "GH-NOPE", "user-1")
	require.NoError(t, err)
	assert.False(t, claim.Success)
	assert.NotEmpty(t, models.Deref(claim.Error))
}

func TestStatusForUnknownUserIsDefault(t *testing.T) {
	client, srv := setupServer(t)
	token := issueToken(t, srv, "user-unknown", "sess-1")

	status, err := client.FetchUserStatus(context.Background(), token, "user-unknown")
	require.NoError(t, err)
	assert.False(t, status.Found)
	assert.Equal(t, models.RecommendedStartOnboarding, status.RecommendedAction)
}

func TestResultsRequireMatchingToken(t *testing.T) {
	client, srv := setupServer(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "missing token", token: "", wantStatus: http.StatusUnauthorized},
		{name: "forged token", token: "not-a-jwt", wantStatus: http.StatusUnauthorized},
		{name: "token of another session", token: issueToken(t, srv, "user-1", "sess-other"), wantStatus: http.StatusForbidden},
		{name: "no results yet", token: issueToken(t, srv, "user-1", "sess-1"), wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.FetchAssessmentResults(ctx, "sess-1", tt.token)
			require.Error(t, err)

			var statusErr *apiclient.StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.wantStatus, statusErr.StatusCode)
		})
	}
}

func TestPutResultServesV3Shape(t *testing.T) {
	registry, err := mockapi.NewRegistry()
	require.NoError(t, err)
	registry.PutResult(models.AssessmentResult{
		SessionID:    "sess-v3",
		UserID:       "user-3",
		OverallScore: 70,
		CharacterAssessment: models.CharacterAssessment{
			CharacterProfile: &models.CharacterProfile{Name: "Wren", Class: "Bard"},
		},
	})
	srv := httptest.NewServer(mockapi.NewServer(registry, jwt.NewJWTMaker(testSecret, time.Hour), sl.Discard()).Handler())
	defer srv.Close()
	client := apiclient.NewClient(srv.URL, 5*time.Second, sl.Discard(), nil)

	result, err := client.FetchAssessmentResults(context.Background(), "sess-v3", issueToken(t, srv, "user-3", "sess-v3"))
	require.NoError(t, err)
	assert.Equal(t, models.SchemaV3, result.SchemaVersion())
	assert.Equal(t, "Bard", result.CharacterProfile.Class)
}

func TestTokenRequiresFields(t *testing.T) {
	_, srv := setupServer(t)

	resp, err := srv.Client().Post(srv.URL+"/api/dev/token", "application/json", bytes.NewBufferString(`{"userId":"u"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
