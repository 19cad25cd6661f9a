package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JackVanta/VantaSDK/internal/chat"
	"github.com/JackVanta/VantaSDK/internal/files"
	"github.com/JackVanta/VantaSDK/internal/llm"
	"github.com/JackVanta/VantaSDK/internal/models"
	"github.com/JackVanta/VantaSDK/internal/waitlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	text string
}

func (c *stubClient) Complete(context.Context, []models.Message, llm.Options) (*llm.Completion, error) {
	return &llm.Completion{Text: c.text, Model: "gpt-4o"}, nil
}

func (c *stubClient) Model() string { return "gpt-4o" }

func setupServer(t *testing.T, client llm.Client, cfg Config) *httptest.Server {
	t.Helper()
	svc := chat.NewService(client, chat.Options{})
	list := waitlist.NewStore(filepath.Join(t.TempDir(), "waitlist.json"))
	ts := httptest.NewServer(New(cfg, svc, files.NewCollector(files.Options{}), list))
	t.Cleanup(ts.Close)
	return ts
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	ts := setupServer(t, nil, Config{})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "ok", decode(t, resp)["status"])
}

func TestCORSPreflight(t *testing.T) {
	ts := setupServer(t, nil, Config{})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/builder/chat", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}

func TestChat_NotConfigured(t *testing.T) {
	ts := setupServer(t, nil, Config{})

	resp, err := http.Post(ts.URL+"/api/builder/chat", "application/json", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "OpenAI API key not configured", body["error"])

	resp, err = http.Get(ts.URL + "/api/builder/chat")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	info := decode(t, resp)
	assert.Equal(t, false, info["configured"])
	assert.Equal(t, "Vanta Builder Chat API - OpenAI key not configured", info["message"])
}

func TestChat_Success(t *testing.T) {
	ts := setupServer(t, &stubClient{text: "Done.\n```json\n{\"files\":[{\"path\":\"x.ts\",\"content\":\"y\"}]}\n```"}, Config{})

	resp, err := http.Post(ts.URL+"/api/builder/chat", "application/json", strings.NewReader(`{
		"messages":[{"role":"user","content":"make x"}],
		"context":{"files":{"a.ts":"A"},"activeFile":"a.ts"},
		"mode":"generate"
	}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out models.ChatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()

	assert.True(t, out.Success)
	assert.Equal(t, "Done.", out.AssistantMessage)
	require.NotNil(t, out.Patch)
	assert.Equal(t, []models.FileChange{{Path: "x.ts", Content: "y"}}, out.Patch.Files)
	assert.Equal(t, models.ModeGenerate, out.Meta.Mode)
}

func TestChat_MalformedBody(t *testing.T) {
	ts := setupServer(t, &stubClient{text: "x"}, Config{})

	resp, err := http.Post(ts.URL+"/api/builder/chat", "application/json", strings.NewReader(`{"messages":`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Failed to process chat request", body["error"])
	assert.Equal(t, "Sorry, something went wrong. Please try again.", body["assistantMessage"])
}

func multipartBody(t *testing.T, parts map[string][]byte, order []string, paths []string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range order {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write(parts[name])
		require.NoError(t, err)
	}
	for _, p := range paths {
		require.NoError(t, mw.WriteField("paths", p))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestImport_Files(t *testing.T) {
	ts := setupServer(t, nil, Config{})
	body, contentType := multipartBody(t,
		map[string][]byte{"README.md": []byte("# Demo"), "page.tsx": []byte("export {}"), "logo.png": []byte("png")},
		[]string{"README.md", "page.tsx", "logo.png"},
		[]string{"demo/README.md", "demo/app/page.tsx", "demo/logo.png"},
	)

	resp, err := http.Post(ts.URL+"/api/builder/project/import", contentType, body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode(t, resp)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, map[string]any{"README.md": "# Demo", "app/page.tsx": "export {}"}, out["files"])
	assert.Equal(t, "README.md", out["entry"])
}

func TestImport_Zip(t *testing.T) {
	var zbuf bytes.Buffer
	zw := zip.NewWriter(&zbuf)
	w, err := zw.Create("starter/src/index.ts")
	require.NoError(t, err)
	_, err = w.Write([]byte("export {}"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	ts := setupServer(t, nil, Config{})
	body, contentType := multipartBody(t, map[string][]byte{"starter.zip": zbuf.Bytes()}, []string{"starter.zip"}, nil)

	resp, err := http.Post(ts.URL+"/api/builder/project/import", contentType, body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode(t, resp)
	assert.Equal(t, map[string]any{"src/index.ts": "export {}"}, out["files"])
	assert.Equal(t, "src/index.ts", out["entry"])
}

func TestImport_Failures(t *testing.T) {
	ts := setupServer(t, nil, Config{})

	testCases := []struct {
		name  string
		parts map[string][]byte
		order []string
		want  string
	}{
		{name: "Bad archive", parts: map[string][]byte{"broken.zip": []byte("nope")}, order: []string{"broken.zip"}, want: "Failed to parse ZIP file. Please make sure it's a valid archive."},
		{name: "Nothing usable", parts: map[string][]byte{"logo.png": []byte("png")}, order: []string{"logo.png"}, want: "No usable text files found"},
		{name: "No files", parts: map[string][]byte{}, want: "No files uploaded"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tc.parts, tc.order, nil)
			resp, err := http.Post(ts.URL+"/api/builder/project/import", contentType, body)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tc.want, decode(t, resp)["error"])
		})
	}
}

func TestTemplates(t *testing.T) {
	ts := setupServer(t, nil, Config{})

	resp, err := http.Get(ts.URL + "/api/builder/templates")
	require.NoError(t, err)
	out := decode(t, resp)
	templates, ok := out["templates"].([]any)
	require.True(t, ok)
	assert.Len(t, templates, 3)

	resp, err = http.Get(ts.URL + "/api/builder/templates/contract")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	proj := decode(t, resp)["project"].(map[string]any)
	assert.Equal(t, "README.md", proj["activeFile"])

	resp, err = http.Get(ts.URL + "/api/builder/templates/rails")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWaitlist(t *testing.T) {
	ts := setupServer(t, nil, Config{})
	post := func(body string) *http.Response {
		resp, err := http.Post(ts.URL+"/api/waitlist", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		return resp
	}

	resp := post(`{"xHandle":"vanta","email":"dev@vanta.io"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode(t, resp)
	assert.Equal(t, "You're on the list! We'll be in touch soon.", out["message"])
	assert.NotEmpty(t, out["id"])

	resp = post(`{"xHandle":"@Vanta","email":"x@vanta.io"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "This email or X handle is already on the waitlist", decode(t, resp)["error"])

	resp = post(`{"xHandle":42,"email":"x@vanta.io"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "X handle is required", decode(t, resp)["error"])

	resp = post(`not json`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	resp.Body.Close()

	getResp, err := http.Get(ts.URL + "/api/waitlist")
	require.NoError(t, err)
	assert.EqualValues(t, 1, decode(t, getResp)["count"])
}

func TestStaticDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>builder</h1>"), 0o644))
	ts := setupServer(t, nil, Config{StaticDir: dir})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
