package router

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"thumbnail-creator/internal/config"
	"thumbnail-creator/internal/editor"
	"thumbnail-creator/internal/http-server/handler/thumbnail"
	"thumbnail-creator/internal/http-server/handler/thumbnail/dto"
	"thumbnail-creator/internal/usecase/compositor"
	"thumbnail-creator/internal/usecase/controls"
	"thumbnail-creator/internal/usecase/export"
	"thumbnail-creator/internal/usecase/studio"

	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := &zlog.Logger

	reg := editor.NewRegistry(config.SessionConfig{IdleTTL: time.Minute, MailboxSize: 8}, logger)
	t.Cleanup(reg.Shutdown)

	fonts, err := compositor.NewFontBook("")
	require.NoError(t, err)

	upload := config.UploadConfig{MaxBytes: 1 << 20}
	uc := studio.NewStudio(
		reg,
		compositor.NewRenderer(fonts, logger),
		controls.NewControls(upload, logger),
		export.NewExporter(logger, retry.Strategy{Attempts: 1, Delay: time.Millisecond, Backoff: 1}),
		config.RenderConfig{PreviewWidth: 320, MaxWidth: 1280},
		logger,
	)

	srv := httptest.NewServer(SetupRouter(&Handler{
		ThumbnailHandler: thumbnail.NewThumbnailHandler(uc, upload, logger),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeState(t *testing.T, resp *http.Response) dto.StateResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st dto.StateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	return st
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := do(t, http.MethodPost, srv.URL+"/api/sessions", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var st dto.StateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	require.NotEmpty(t, st.ID)
	require.Equal(t, "Your Video Title", st.Data.Title)
	require.Equal(t, "font-bold", st.Data.TitleFontStyle)
	require.Equal(t, "/placeholder.jpg", st.Data.BgImage)
	return st.ID
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/api/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestControlsCatalog(t *testing.T) {
	srv := newTestServer(t)
	resp := do(t, http.MethodGet, srv.URL+"/api/controls", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var catalog []dto.ControlResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&catalog))
	require.Len(t, catalog, 9)
	require.Equal(t, "title", catalog[0].Field)
	require.Equal(t, &dto.RangeResponse{Min: 12, Max: 200, Step: 1}, catalog[2].Range)
}

func TestFieldEdits(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)
	base := srv.URL + "/api/sessions/" + id

	st := decodeState(t, do(t, http.MethodPut, base+"/title", `{"value":"POV"}`))
	require.Equal(t, "POV", st.Data.Title)

	st = decodeState(t, do(t, http.MethodPut, base+"/title-color", `{"value":"#ff0000"}`))
	require.Equal(t, "#ff0000", st.Data.TitleColor)

	st = decodeState(t, do(t, http.MethodPut, base+"/title-font-size", `{"value":250}`))
	require.Equal(t, 250.0, st.Data.TitleFontSize)

	st = decodeState(t, do(t, http.MethodPut, base+"/title-spacing", `{"value":-2}`))
	require.Equal(t, -2.0, st.Data.TitleSpacing)

	st = decodeState(t, do(t, http.MethodPut, base+"/fg-scale", `{"value":0}`))
	require.Zero(t, st.Data.FgScale)

	st = decodeState(t, do(t, http.MethodPut, base+"/fg-rotation", `{"value":-90}`))
	require.Equal(t, -90.0, st.Data.FgRotation)

	st = decodeState(t, do(t, http.MethodPost, base+"/styles/uppercase", ""))
	require.Equal(t, "font-bold uppercase", st.Data.TitleFontStyle)
	st = decodeState(t, do(t, http.MethodPost, base+"/styles/uppercase", ""))
	require.Equal(t, "font-bold", st.Data.TitleFontStyle)

	require.Equal(t, uint64(8), st.Version)
}

func TestRejectsInvalidInput(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)
	base := srv.URL + "/api/sessions/" + id

	cases := []struct {
		method, path, body string
	}{
		{http.MethodPut, "/title-color", `{"value":"red"}`},
		{http.MethodPut, "/title-font-size", `{}`},
		{http.MethodPut, "/title-font-size", `{"value":"big"}`},
		{http.MethodPut, "/title", `{"value":"x","extra":1}`},
		{http.MethodPost, "/styles/underline", ""},
		{http.MethodPost, "/pointer", `{"type":"wheel","rect":{"width":10,"height":10}}`},
		{http.MethodPost, "/pointer", `{"type":"down","rect":{"width":0,"height":10}}`},
		{http.MethodPatch, "", `{"bgImage":"https://example.com/cat.png"}`},
		{http.MethodPatch, "", `{"titleFontStyle":["font-bold","blink"]}`},
		{http.MethodGet, "/preview.png?width=abc", ""},
		{http.MethodGet, "/preview.png?width=99999", ""},
	}
	for _, tc := range cases {
		resp := do(t, tc.method, base+tc.path, tc.body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "%s %s %s", tc.method, tc.path, tc.body)

		var body dto.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Equal(t, "Bad Request", body.Error)
	}

	st := decodeState(t, do(t, http.MethodGet, base, ""))
	require.Zero(t, st.Version)
}

func TestPatchMergesPartially(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)
	base := srv.URL + "/api/sessions/" + id

	st := decodeState(t, do(t, http.MethodPatch, base,
		`{"title":"POV","titleFontStyle":["font-extrabold","italic"],"fgPosition":{"x":10,"y":90},"fgImage":""}`))
	require.Equal(t, "POV", st.Data.Title)
	require.Equal(t, "font-extrabold italic", st.Data.TitleFontStyle)
	require.Equal(t, dto.PositionResponse{X: 10, Y: 90}, st.Data.FgPosition)
	require.Empty(t, st.Data.FgImage)
	require.Equal(t, "#FFFFFF", st.Data.TitleColor)
	require.Equal(t, 1.0, st.Data.FgScale)
}

func TestUnknownSession(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/sessions/nope"

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "", ""},
		{http.MethodDelete, "", ""},
		{http.MethodPut, "/title", `{"value":"x"}`},
		{http.MethodGet, "/export", ""},
		{http.MethodGet, "/preview.png", ""},
	} {
		resp := do(t, tc.method, base+tc.path, tc.body)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, tc.method+" "+tc.path)
	}
}

func TestDeleteSession(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	resp := do(t, http.MethodDelete, srv.URL+"/api/sessions/"+id, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/sessions/"+id, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPointerDrag(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)
	url := srv.URL + "/api/sessions/" + id + "/pointer"
	rect := `"rect":{"left":10,"top":20,"width":640,"height":360}`

	var pr dto.PointerResponse
	resp := do(t, http.MethodPost, url, `{"type":"down","x":330,"y":200,`+rect+`}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pr))
	require.Equal(t, "dragging", pr.Drag)
	require.Nil(t, pr.State)

	resp = do(t, http.MethodPost, url, `{"type":"move","x":170,"y":110,`+rect+`}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pr = dto.PointerResponse{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pr))
	require.NotNil(t, pr.State)
	require.Equal(t, dto.PositionResponse{X: 25, Y: 25}, pr.State.Data.FgPosition)

	resp = do(t, http.MethodPost, url, `{"type":"leave","x":0,"y":0,`+rect+`}`)
	pr = dto.PointerResponse{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pr))
	require.Equal(t, "idle", pr.Drag)
}

func uploadRequest(t *testing.T, url string, data []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "photo.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(url, mw.FormDataContentType(), &body)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestUploadPreviewExport(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)
	base := srv.URL + "/api/sessions/" + id

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+2], img.Pix[i+3] = 255, 255
	}
	var raw bytes.Buffer
	require.NoError(t, png.Encode(&raw, img))

	st := decodeState(t, uploadRequest(t, base+"/images/bg", raw.Bytes()))
	require.True(t, strings.HasPrefix(st.Data.BgImage, "data:image/png;base64,"))

	resp := uploadRequest(t, base+"/images/bg", []byte("plain text is not an image"))
	require.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)

	resp = uploadRequest(t, base+"/images/sky", raw.Bytes())
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, base+"/preview.png?width=640", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	preview, err := png.Decode(resp.Body)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 640, 360), preview.Bounds())
	r, g, b, _ := preview.At(2, 2).RGBA()
	require.Equal(t, color.RGBA{B: 255}, color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})

	resp = do(t, http.MethodGet, base+"/export", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, `attachment; filename="youtube-thumbnail.png"`, resp.Header.Get("Content-Disposition"))
	exported, err := png.Decode(resp.Body)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 320, 180), exported.Bounds())
}

func TestUploadTooLarge(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv)

	data := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 3<<19)...)
	resp := uploadRequest(t, srv.URL+"/api/sessions/"+id+"/images/fg", data)
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}
