package bootstrap_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Romer4ig/image-moderation/internal/bootstrap"
)

type apiClient struct {
	t       *testing.T
	handler http.Handler
}

func (a apiClient) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, "http://console.test"+path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-Id", "req-"+a.t.Name())
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func (a apiClient) json(method, path string, payload any, out any) int {
	a.t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(a.t, err)
		body = bytes.NewReader(data)
	}
	w := a.do(method, path, body, "application/json")
	if out != nil {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func TestHTTPCoverWorkflow(t *testing.T) {
	c := newConsole(t)
	api := apiClient{t: t, handler: bootstrap.NewHTTPServer(c.cfg, c.infra, c.services, zerolog.Nop()).Handler()}

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/healthz", nil, "").Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/readyz", nil, "").Code)

	var created struct {
		ID string `json:"id"`
	}
	require.Equal(t, http.StatusCreated, api.json(http.MethodPost, "/api/projects", map[string]any{
		"name":                        "Anime",
		"base_positive_prompt":        "masterpiece",
		"default_width":               512,
		"default_height":              768,
		"base_generation_params_json": map[string]any{"steps": 28},
	}, &created))
	require.Equal(t, http.StatusCreated, api.json(http.MethodPost, "/api/collections", map[string]any{
		"id": 42, "name": "Forest", "type": "nature", "collection_positive_prompt": "trees",
	}, nil))

	var errBody map[string]any
	assert.Equal(t, http.StatusConflict, api.json(http.MethodPost, "/api/collections", map[string]any{
		"id": 42, "name": "Forest again", "type": "nature",
	}, &errBody))
	assert.Equal(t, "req-"+t.Name(), errBody["request_id"])

	var batch struct {
		TasksStarted []string `json:"tasks_started"`
	}
	require.Equal(t, http.StatusOK, api.json(http.MethodPost, "/api/generate-batch", map[string]any{
		"pairs": []map[string]any{{"project_id": created.ID, "collection_id": "42"}},
	}, &batch))
	require.Len(t, batch.TasksStarted, 1)
	payload := <-c.payloads
	assert.EqualValues(t, 28, payload["steps"])
	assert.Equal(t, "http://console.test/api/scheduler_callback/"+batch.TasksStarted[0], payload["callback_url"])

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	require.NoError(t, mw.WriteField("status", "done"))
	require.NoError(t, mw.WriteField("infotext", "Steps: 28"))
	fw, err := mw.CreateFormFile("files", "out.png")
	require.NoError(t, err)
	_, _ = fw.Write(pngBytes)
	require.NoError(t, mw.Close())
	w := api.do(http.MethodPost, "/api/scheduler_callback/"+batch.TasksStarted[0], &form, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var page struct {
		Collections []struct {
			ID    int64 `json:"id"`
			Cells map[string]struct {
				Status string `json:"status"`
			} `json:"cells"`
		} `json:"collections"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.Equal(t, http.StatusOK, api.json(http.MethodGet, "/api/grid-data?visible_project_ids="+created.ID, nil, &page))
	require.Len(t, page.Collections, 1)
	assert.Equal(t, "generated_not_selected", page.Collections[0].Cells[created.ID].Status)

	var selected struct {
		GeneratedFileID int64  `json:"generated_file_id"`
		FileURL         string `json:"file_url"`
	}
	require.Equal(t, http.StatusOK, api.json(http.MethodPost, "/api/select-cover", map[string]any{
		"collection_id": 42, "project_id": created.ID, "generation_id": batch.TasksStarted[0],
	}, &selected))
	assert.Equal(t, fmt.Sprintf("http://console.test/api/generated_files/%d", selected.GeneratedFileID), selected.FileURL)

	file := api.do(http.MethodGet, fmt.Sprintf("/api/generated_files/%d", selected.GeneratedFileID), nil, "")
	require.Equal(t, http.StatusOK, file.Code)
	assert.Equal(t, "image/png", file.Header().Get("Content-Type"))
	assert.Equal(t, pngBytes, file.Body.Bytes())

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/generated_files/999", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/grid-data?page=x", nil, "").Code)

	w = api.do(http.MethodPost, "/api/scheduler_callback/ghost-123", bytes.NewBufferString(`{"status": "done"}`), "application/json")
	assert.Equal(t, http.StatusOK, w.Code)

	var deleted map[string]string
	require.Equal(t, http.StatusOK, api.json(http.MethodDelete, "/api/projects/"+created.ID, nil, &deleted))
	assert.Equal(t, "Project 'Anime' deleted", deleted["message"])
	assert.Equal(t, int64(0), c.count(t, "generations"))
	assert.Equal(t, int64(0), c.count(t, "selected_covers"))
}
