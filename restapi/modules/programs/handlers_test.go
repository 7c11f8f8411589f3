package programs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thegr8lewis/health-backend/internal/store"
	"github.com/thegr8lewis/health-backend/internal/store/memory"
	"github.com/thegr8lewis/health-backend/model"
)

func newProgramApp(t *testing.T) (*fiber.App, store.Store) {
	t.Helper()
	st := memory.New()
	app := fiber.New()
	app.Post("/programs", CreateProgram(st.Programs))
	app.Get("/programs", ListPrograms(st.Programs))
	app.Get("/programs/:id", GetProgram(st.Programs))
	app.Put("/programs/:id", UpdateProgram(st.Programs))
	app.Delete("/programs/:id", DeleteProgram(st.Programs))
	return app, st
}

func do(t *testing.T, app *fiber.App, method, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp, body
}

func TestCreateProgram_DefaultsToActive(t *testing.T) {
	app, _ := newProgramApp(t)

	resp, body := do(t, app, fiber.MethodPost, "/programs", ProgramRequest{
		Name: "TB Care", Duration: 180, Category: "treatment",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, model.ProgramActive, body["status"])
}

func TestCreateProgram_Validation(t *testing.T) {
	app, st := newProgramApp(t)

	cases := []ProgramRequest{
		{Name: ""},
		{Name: "X", Duration: -1},
		{Name: "X", Status: "paused"},
	}
	for _, c := range cases {
		resp, _ := do(t, app, fiber.MethodPost, "/programs", c)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	}

	count, err := st.Programs.Count(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestUpdateAndDeleteProgram(t *testing.T) {
	app, _ := newProgramApp(t)

	resp, created := do(t, app, fiber.MethodPost, "/programs", ProgramRequest{Name: "TB Care"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	key := created["_key"].(string)

	resp, updated := do(t, app, fiber.MethodPut, "/programs/"+key, ProgramRequest{Status: model.ProgramInactive})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, model.ProgramInactive, updated["status"])
	assert.Equal(t, "TB Care", updated["name"])

	resp, _ = do(t, app, fiber.MethodDelete, "/programs/"+key, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, fiber.MethodGet, "/programs/"+key, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestListPrograms_SortedByName(t *testing.T) {
	app, _ := newProgramApp(t)

	for _, name := range []string{"Zinc Support", "Antenatal Care"} {
		resp, _ := do(t, app, fiber.MethodPost, "/programs", ProgramRequest{Name: name})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, body := do(t, app, fiber.MethodGet, "/programs", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := body["programs"].([]interface{})
	require.Len(t, list, 2)
	assert.Equal(t, "Antenatal Care", list[0].(map[string]interface{})["name"])
}
