package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupLifecycle(t *testing.T) {
	s := newTestServer(t)
	carlosID, carlosToken := s.registerUser(t, "+573001111111", "Carlos", "carlos")
	anaID, _ := s.registerUser(t, "+573002222222", "Ana", "ana")

	w := s.do(t, http.MethodPost, "/api/v1/groups", map[string]interface{}{
		"name":      "Parceros",
		"icon":      "🐮",
		"createdBy": carlosID,
		"memberIds": []string{anaID},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	group := decodeJSON(t, w)
	groupID := group["id"].(string)
	assert.Len(t, group["memberIds"], 2)

	w = s.do(t, http.MethodGet, "/api/v1/groups/"+groupID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON(t, w)["members"], 2)

	w = s.do(t, http.MethodGet, "/api/v1/groups/user/"+anaID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON(t, w)["groups"], 1)

	auth := map[string]string{"Authorization": "Bearer " + carlosToken}
	w = s.do(t, http.MethodPut, "/api/v1/groups/"+groupID, map[string]string{"name": "Los Parceros"}, auth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Los Parceros", decodeJSON(t, w)["name"])

	w = s.do(t, http.MethodDelete, "/api/v1/groups/"+groupID+"/members/"+anaID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON(t, w)["memberIds"], 1)

	w = s.do(t, http.MethodDelete, "/api/v1/groups/"+groupID, nil, auth)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/groups/"+groupID, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGroupUpdateForbiddenForNonCreator(t *testing.T) {
	s := newTestServer(t)
	carlosID, _ := s.registerUser(t, "+573001111111", "Carlos", "carlos")
	_, anaToken := s.registerUser(t, "+573002222222", "Ana", "ana")

	w := s.do(t, http.MethodPost, "/api/v1/groups", map[string]interface{}{
		"name":      "Parceros",
		"createdBy": carlosID,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	groupID := decodeJSON(t, w)["id"].(string)

	w = s.do(t, http.MethodPut, "/api/v1/groups/"+groupID, map[string]string{"name": "Tomado"},
		map[string]string{"Authorization": "Bearer " + anaToken})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGroupAddMembers(t *testing.T) {
	s := newTestServer(t)
	carlosID, _ := s.registerUser(t, "+573001111111", "Carlos", "carlos")
	anaID, _ := s.registerUser(t, "+573002222222", "Ana", "ana")

	w := s.do(t, http.MethodPost, "/api/v1/groups", map[string]interface{}{
		"name":      "Parceros",
		"createdBy": carlosID,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	groupID := decodeJSON(t, w)["id"].(string)

	w = s.do(t, http.MethodPost, "/api/v1/groups/"+groupID+"/members",
		map[string]interface{}{"userIds": []string{anaID}}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decodeJSON(t, w)["memberIds"], 2)

	// Cannot remove the creator.
	w = s.do(t, http.MethodDelete, "/api/v1/groups/"+groupID+"/members/"+carlosID, nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGroupValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/groups", map[string]interface{}{"name": "X"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/groups/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
