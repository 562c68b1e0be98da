package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"cvcraft/internal/domain"
	apperrors "cvcraft/internal/errors"
	"cvcraft/internal/model"
	"cvcraft/internal/observability"
	"cvcraft/internal/usecase"
	"cvcraft/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// uploadBodyLimit leaves room above the image cap so oversized images reach
// the handler and get a proper TOO_LARGE answer.
const uploadBodyLimit = 8 * 1024 * 1024

type ExportHistory interface {
	List(ctx context.Context) []domain.ExportJob
}

type Handler struct {
	session *usecase.Session
	events  *usecase.EventLog
	jobs    ExportHistory
	metrics *observability.Metrics
	logger  *zap.Logger
}

func NewHandler(s *usecase.Session, events *usecase.EventLog, jobs ExportHistory, m *observability.Metrics, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{session: s, events: events, jobs: jobs, metrics: m, logger: logger}
}

type AppConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MetricsPath  string
}

// NewApp builds the Fiber app with every route registered.
func NewApp(h *Handler, cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "cvcraft",
		BodyLimit:             uploadBodyLimit,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	h.Register(app)
	if cfg.MetricsPath != "" {
		app.Get(cfg.MetricsPath, adaptor.HTTPHandler(h.metrics.Handler()))
	}
	return app
}

func (h *Handler) Register(app *fiber.App) {
	app.Get("/", h.Preview)
	app.Get("/health", h.Health)

	api := app.Group("/api")
	api.Get("/cv", h.GetDocument)
	api.Put("/cv", h.ImportDocument)
	api.Post("/cv/profile-image", h.UploadProfileImage)
	api.Delete("/cv/profile-image", h.RemoveProfileImage)
	api.Patch("/cv/personalInfo", h.UpdatePersonalField)
	api.Put("/cv/:section", h.ReplaceSection)
	api.Post("/cv/:section/items", h.AddItem)
	api.Patch("/cv/:section/items/:id", h.UpdateItem)
	api.Delete("/cv/:section/items/:id", h.RemoveItem)
	api.Post("/cv/experience/items/:id/bullets", h.AddBullet)
	api.Put("/cv/experience/items/:id/bullets/:index", h.UpdateBullet)
	api.Delete("/cv/experience/items/:id/bullets/:index", h.RemoveBullet)

	api.Get("/templates", h.Templates)
	api.Get("/suggestions", h.Suggestions)
	api.Post("/suggestions/:kind", h.ApplySuggestion)
	api.Get("/completeness", h.Completeness)

	api.Post("/export", h.Export)
	api.Get("/exports", h.Exports)
	api.Get("/events", h.Events)
}

// Preview serves the live preview page and marks it mounted.
func (h *Handler) Preview(c *fiber.Ctx) error {
	h.session.Mount()
	surface, err := h.session.Surface()
	if err != nil {
		return h.fail(c, err)
	}
	c.Type("html", "utf-8")
	return c.SendString(surface.HTML)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) GetDocument(c *fiber.Ctx) error {
	return c.JSON(h.session.Document())
}

func (h *Handler) ImportDocument(c *fiber.Ctx) error {
	doc, err := model.Decode(bytes.NewReader(c.Body()))
	if err != nil {
		return h.fail(c, err)
	}
	h.session.Load(doc)
	return c.JSON(h.session.Document())
}

func (h *Handler) ReplaceSection(c *fiber.Ctx) error {
	key, ok := model.ParseSectionKey(c.Params("section"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown section"})
	}
	value, err := sectionDecoders[key](c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload", "code": apperrors.CodeInvalidField})
	}
	if err := h.session.Replace(key, value); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.session.Document())
}

type fieldReq struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *Handler) UpdatePersonalField(c *fiber.Ctx) error {
	var req fieldReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := h.session.SetPersonalField(req.Field, req.Value); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.session.Document().PersonalInfo)
}

func (h *Handler) AddItem(c *fiber.Ctx) error {
	key, ok := model.ParseSectionKey(c.Params("section"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown section"})
	}
	id, err := h.session.AddItem(key)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *Handler) UpdateItem(c *fiber.Ctx) error {
	key, ok := model.ParseSectionKey(c.Params("section"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown section"})
	}
	var req fieldReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := h.session.UpdateItem(key, c.Params("id"), req.Field, req.Value); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) RemoveItem(c *fiber.Ctx) error {
	key, ok := model.ParseSectionKey(c.Params("section"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown section"})
	}
	if err := h.session.RemoveItem(key, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) AddBullet(c *fiber.Ctx) error {
	h.session.AddBullet(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) UpdateBullet(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid index"})
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	h.session.UpdateBullet(c.Params("id"), index, req.Text)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) RemoveBullet(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid index"})
	}
	h.session.RemoveBullet(c.Params("id"), index)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) UploadProfileImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing image file"})
	}
	f, err := fh.Open()
	if err != nil {
		return h.fail(c, apperrors.NewIOError(apperrors.CodeReadFailed, "could not read image", err))
	}
	defer f.Close()

	err = h.session.UploadProfileImage(usecase.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.session.Document().PersonalInfo)
}

func (h *Handler) RemoveProfileImage(c *fiber.Ctx) error {
	h.session.RemoveProfileImage()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Templates(c *fiber.Ctx) error {
	return c.JSON(h.session.Catalog().Templates())
}

func (h *Handler) Suggestions(c *fiber.Ctx) error {
	cat := h.session.Catalog()
	return c.JSON(fiber.Map{
		"skills":       cat.Skills(),
		"languages":    cat.Languages(),
		"achievements": cat.Achievements(),
		"summaries":    cat.Summaries(),
	})
}

type suggestionReq struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// ApplySuggestion adds a catalog entry. Skills and languages are given by
// name, achievements and summaries by index. An empty id means the entry was
// already present.
func (h *Handler) ApplySuggestion(c *fiber.Ctx) error {
	var req suggestionReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	var id string
	var err error
	switch c.Params("kind") {
	case "skills":
		id = h.session.AddSuggestedSkill(req.Name)
	case "languages":
		id = h.session.AddSuggestedLanguage(req.Name)
	case "achievements":
		id, err = h.session.AddSuggestedAchievement(req.Index)
	case "summaries":
		err = h.session.ApplySuggestedSummary(req.Index)
	default:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown suggestion kind"})
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id, "added": id != ""})
}

func (h *Handler) Completeness(c *fiber.Ctx) error {
	return c.JSON(h.session.Completeness())
}

// Export captures the mounted preview and streams the PDF back as a download.
func (h *Handler) Export(c *fiber.Ctx) error {
	var sink infrastructure.BufferSink
	res, err := h.session.Export(c.UserContext(), &sink)
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Filename))
	c.Set("X-Export-Job", res.JobID.String())
	return c.Send(sink.PDF)
}

func (h *Handler) Exports(c *fiber.Ctx) error {
	if h.jobs == nil {
		return c.JSON([]domain.ExportJob{})
	}
	return c.JSON(h.jobs.List(c.UserContext()))
}

func (h *Handler) Events(c *fiber.Ctx) error {
	since, err := strconv.ParseUint(c.Query("since", "0"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid since"})
	}
	if h.events == nil {
		return c.JSON([]usecase.Event{})
	}
	return c.JSON(h.events.Since(since))
}

// fail maps an error to a JSON response. Export failures other than a busy
// exporter share one generic message.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	appErr, ok := apperrors.As(err)
	if !ok {
		h.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
	status := fiber.StatusInternalServerError
	switch appErr.Type {
	case apperrors.ErrorTypeValidation, apperrors.ErrorTypeIO:
		status = fiber.StatusBadRequest
		if appErr.Code == apperrors.CodeTooLarge {
			status = fiber.StatusRequestEntityTooLarge
		}
	case apperrors.ErrorTypeExport:
		if appErr.Code == apperrors.CodeExportInProgress {
			status = fiber.StatusConflict
		}
	}
	if status >= fiber.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": appErr.Message, "code": appErr.Code})
}

func decodeValue[T any](b []byte) (any, error) {
	var v T
	err := json.Unmarshal(b, &v)
	return v, err
}

// decodeList maps a JSON null to an empty list.
func decodeList[T any](b []byte) (any, error) {
	var v []T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	if v == nil {
		v = []T{}
	}
	return v, nil
}

var sectionDecoders = map[model.SectionKey]func([]byte) (any, error){
	model.SectionPersonalInfo:   decodeValue[model.PersonalInfo],
	model.SectionSummary:        decodeValue[string],
	model.SectionTemplate:       decodeValue[model.Template],
	model.SectionEducation:      decodeList[model.Education],
	model.SectionExperience:     decodeList[model.Experience],
	model.SectionSkills:         decodeList[model.Skill],
	model.SectionCertifications: decodeList[model.Certification],
	model.SectionProjects:       decodeList[model.Project],
	model.SectionLanguages:      decodeList[model.Language],
	model.SectionReferences:     decodeList[model.Reference],
	model.SectionOtherWorks:     decodeList[model.OtherWork],
	model.SectionAchievements:   decodeList[model.Achievement],
}
