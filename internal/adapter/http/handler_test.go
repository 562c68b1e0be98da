package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"cvcraft/internal/adapter/repository"
	apperrors "cvcraft/internal/errors"
	"cvcraft/internal/ident"
	"cvcraft/internal/model"
	"cvcraft/internal/observability"
	"cvcraft/internal/render"
	"cvcraft/internal/testutil"
	"cvcraft/internal/usecase"
	"cvcraft/pkg/pdfpage"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	block   chan struct{}
	entered chan struct{}
}

func (s *stubEngine) Rasterize(ctx context.Context, surface *render.Surface, scale float64) ([]byte, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	return testutil.PNG(794, 1123), nil
}

func (s *stubEngine) ComposePDF(ctx context.Context, png []byte, at pdfpage.Placement) ([]byte, error) {
	return testutil.MinimalPDF(1), nil
}

type fixture struct {
	app     *fiber.App
	session *usecase.Session
	engine  *stubEngine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	engine := &stubEngine{}
	events := usecase.NewEventLog(0)
	jobs := repository.NewJobsRepo(0)
	metrics := observability.NewMetrics()
	exp := usecase.NewExporter(engine, engine,
		usecase.WithJobsRepo(jobs),
		usecase.WithNotifier(events),
		usecase.WithMetrics(metrics),
		usecase.WithRetry(1, 0),
	)
	session := usecase.NewSession(usecase.SessionConfig{
		Exporter: exp,
		IDs:      ident.NewCounter("id"),
		Notifier: events,
		Metrics:  metrics,
		Page:     render.PageOptions{Toolbar: true},
	})
	h := NewHandler(session, events, jobs, metrics, nil)
	return &fixture{app: NewApp(h, AppConfig{MetricsPath: "/metrics"}), session: session, engine: engine}
}

func (f *fixture) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func multipartBody(t *testing.T, contentType string, size int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="photo"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0xff}, size))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (f *fixture) upload(t *testing.T, contentType string, size int) (int, map[string]any) {
	t.Helper()
	body, ct := multipartBody(t, contentType, size)
	req := httptest.NewRequest("POST", "/api/cv/profile-image", body)
	req.Header.Set("Content-Type", ct)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	status, body := f.do(t, "GET", "/health", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestPreviewServesTaggedSurface(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.SetPersonalField("firstName", "Jane"))

	status, body := f.do(t, "GET", "/", nil)
	require.Equal(t, fiber.StatusOK, status)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find(render.SurfaceSelector).Length())
	assert.Equal(t, 1, doc.Find(".cv-toolbar").Length())
	assert.Contains(t, doc.Find("title").Text(), "Jane")
	assert.True(t, f.session.Mounted())
}

func TestItemEndpoints(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, "POST", "/api/cv/experience/items", nil)
	require.Equal(t, fiber.StatusCreated, status)
	var created struct{ ID string }
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.ID)

	status, _ = f.do(t, "PATCH", "/api/cv/experience/items/"+created.ID, fieldReq{Field: "company", Value: "Acme"})
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = f.do(t, "POST", "/api/cv/experience/items/"+created.ID+"/bullets", nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = f.do(t, "PUT", "/api/cv/experience/items/"+created.ID+"/bullets/1", map[string]string{"text": "Led the team"})
	assert.Equal(t, fiber.StatusNoContent, status)

	exp := f.session.Document().Experience
	require.Len(t, exp, 1)
	assert.Equal(t, "Acme", exp[0].Company)
	assert.Equal(t, []string{"", "Led the team"}, exp[0].Description)

	status, _ = f.do(t, "DELETE", "/api/cv/experience/items/"+created.ID+"/bullets/0", nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = f.do(t, "DELETE", "/api/cv/experience/items/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	assert.Empty(t, f.session.Document().Experience)

	status, _ = f.do(t, "PATCH", "/api/cv/skills/items/x", fieldReq{Field: "colour", Value: "red"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = f.do(t, "POST", "/api/cv/bogus/items", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = f.do(t, "POST", "/api/cv/summary/items", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestReplaceSection(t *testing.T) {
	f := newFixture(t)

	status, _ := f.do(t, "PUT", "/api/cv/skills", []model.Skill{{ID: "s1", Name: "Go", Level: model.SkillExpert}})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Go", f.session.Document().Skills[0].Name)

	status, _ = f.do(t, "PUT", "/api/cv/summary", "Backend engineer")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Backend engineer", f.session.Document().Summary)

	status, _ = f.do(t, "PUT", "/api/cv/template", "executive")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, model.TemplateExecutive, f.session.Document().Template)

	status, _ = f.do(t, "PUT", "/api/cv/skills", "not a list")
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = f.do(t, "PUT", "/api/cv/nope", "x")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestReplaceExperienceSection(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, "PUT", "/api/cv/experience", []map[string]any{
		{"id": "x", "company": "Acme", "description": []string{}},
		{"id": "x", "company": "Initech"},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), apperrors.CodeInvalidField)
	assert.Empty(t, f.session.Document().Experience)

	status, _ = f.do(t, "PUT", "/api/cv/experience", []map[string]any{
		{"id": "", "company": "Acme"},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = f.do(t, "PUT", "/api/cv/experience", []map[string]any{
		{"id": "x", "company": "Acme", "description": []string{}},
		{"id": "y", "company": "Initech"},
	})
	require.Equal(t, fiber.StatusOK, status)
	exp := f.session.Document().Experience
	require.Len(t, exp, 2)
	assert.Equal(t, []string{""}, exp[0].Description)
	assert.Equal(t, []string{""}, exp[1].Description)
}

func TestImportDocument(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest("PUT", "/api/cv", strings.NewReader(`{"personalInfo":{"firstName":"Jane","lastName":"Doe"},"template":"classic"}`))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, model.TemplateClassic, f.session.Document().Template)

	req = httptest.NewRequest("PUT", "/api/cv", strings.NewReader(`{"skills":[{"name":"Go"}]}`))
	resp, err = f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Jane", f.session.Document().PersonalInfo.FirstName)
}

func TestUploadProfileImage(t *testing.T) {
	f := newFixture(t)

	status, body := f.upload(t, "image/png", 6*1024*1024)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, status)
	assert.Equal(t, "TOO_LARGE", body["code"])

	status, body = f.upload(t, "text/plain", 2*1024*1024)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "NOT_AN_IMAGE", body["code"])
	assert.Nil(t, f.session.Document().PersonalInfo.ProfileImage)

	status, body = f.upload(t, "image/jpeg", 2*1024*1024)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, strings.HasPrefix(body["profileImage"].(string), "data:image/jpeg;base64,"))

	status, _ = f.do(t, "DELETE", "/api/cv/profile-image", nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	assert.Nil(t, f.session.Document().PersonalInfo.ProfileImage)
}

func TestExportStreamsPDF(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.SetPersonalField("firstName", "Jane"))
	require.NoError(t, f.session.SetPersonalField("lastName", "Doe"))
	f.do(t, "GET", "/", nil)

	req := httptest.NewRequest("POST", "/api/export", nil)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Jane_Doe.pdf"`, resp.Header.Get("Content-Disposition"))
	pdf, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NoError(t, pdfpage.VerifySinglePage(pdf))

	status, body := f.do(t, "GET", "/api/exports", nil)
	require.Equal(t, fiber.StatusOK, status)
	var jobs []map[string]any
	require.NoError(t, json.Unmarshal(body, &jobs))
	require.Len(t, jobs, 1)
	assert.Equal(t, "completed", jobs[0]["status"])

	status, body = f.do(t, "GET", "/api/events?since=0", nil)
	require.Equal(t, fiber.StatusOK, status)
	var events []usecase.Event
	require.NoError(t, json.Unmarshal(body, &events))
	require.Len(t, events, 2)
	assert.Equal(t, usecase.EventExportSuccess, events[1].Kind)
	assert.Equal(t, "Jane_Doe.pdf", events[1].Message)
}

func TestExportWithoutPreviewFails(t *testing.T) {
	f := newFixture(t)
	status, body := f.do(t, "POST", "/api/export", nil)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"There was an error generating your PDF. Please try again.","code":"SURFACE_NOT_FOUND"}`, string(body))
}

func TestConcurrentExportConflicts(t *testing.T) {
	f := newFixture(t)
	f.engine.block = make(chan struct{})
	f.engine.entered = make(chan struct{}, 1)
	f.session.Mount()

	done := make(chan int, 1)
	go func() {
		req := httptest.NewRequest("POST", "/api/export", nil)
		resp, err := f.app.Test(req, -1)
		if err != nil {
			done <- 0
			return
		}
		resp.Body.Close()
		done <- resp.StatusCode
	}()

	// the first request holds the export slot until the engine is released
	<-f.engine.entered

	status, body := f.do(t, "POST", "/api/export", nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, string(body), "EXPORT_IN_PROGRESS")

	close(f.engine.block)
	assert.Equal(t, fiber.StatusOK, <-done)
}

func TestSuggestionsAndCatalog(t *testing.T) {
	f := newFixture(t)

	status, body := f.do(t, "GET", "/api/suggestions", nil)
	require.Equal(t, fiber.StatusOK, status)
	var cat map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &cat))
	assert.Contains(t, string(cat["skills"]), "JavaScript")

	status, body = f.do(t, "POST", "/api/suggestions/skills", suggestionReq{Name: "JavaScript"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"added":true`)
	_, body = f.do(t, "POST", "/api/suggestions/skills", suggestionReq{Name: "JavaScript"})
	assert.Contains(t, string(body), `"added":false`)

	status, _ = f.do(t, "POST", "/api/suggestions/achievements", suggestionReq{Index: 99})
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = f.do(t, "POST", "/api/suggestions/summaries", suggestionReq{Index: 0})
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, f.session.Document().Summary)
	status, _ = f.do(t, "POST", "/api/suggestions/hobbies", suggestionReq{})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = f.do(t, "GET", "/api/templates", nil)
	require.Equal(t, fiber.StatusOK, status)
	var templates []map[string]any
	require.NoError(t, json.Unmarshal(body, &templates))
	assert.Len(t, templates, 4)
}

func TestCompletenessAndMetrics(t *testing.T) {
	f := newFixture(t)
	status, body := f.do(t, "GET", "/api/completeness", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"complete":false`)

	f.do(t, "PATCH", "/api/cv/personalInfo", fieldReq{Field: "email", Value: "jane@example.com"})
	status, body = f.do(t, "GET", "/metrics", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `cvcraft_mutations_total{op="update",section="personalInfo"} 1`)
}
