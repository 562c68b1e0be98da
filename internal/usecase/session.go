package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"cvcraft/internal/catalog"
	apperrors "cvcraft/internal/errors"
	"cvcraft/internal/ident"
	"cvcraft/internal/model"
	"cvcraft/internal/observability"
	"cvcraft/internal/render"
	"cvcraft/internal/section"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// SessionConfig wires a Session. Zero fields get working defaults, except
// Exporter which is required for Export.
type SessionConfig struct {
	Exporter *Exporter
	IDs      ident.Generator
	Catalog  *catalog.Catalog
	Notifier Notifier
	Metrics  *observability.Metrics
	Logger   *zap.Logger
	Page     render.PageOptions
}

// Session owns the single CV being edited. Edits are serialized; readers get
// value snapshots.
type Session struct {
	mu      sync.Mutex
	doc     model.CVDocument
	mounted bool

	exporter  *Exporter
	exporting *semaphore.Weighted
	ids       ident.Generator
	catalog   *catalog.Catalog
	notifier  Notifier
	metrics   *observability.Metrics
	logger    *zap.Logger
	page      render.PageOptions
	render    func(model.CVDocument, render.PageOptions) (*render.Surface, *render.View, error)
}

func NewSession(cfg SessionConfig) *Session {
	s := &Session{
		doc:       model.New(),
		exporter:  cfg.Exporter,
		exporting: semaphore.NewWeighted(1),
		ids:       cfg.IDs,
		catalog:   cfg.Catalog,
		notifier:  cfg.Notifier,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		page:      cfg.Page,
		render:    render.Preview,
	}
	if s.ids == nil {
		s.ids = ident.UUID{}
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func (s *Session) Document() model.CVDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Load replaces the whole document, e.g. after an import.
func (s *Session) Load(doc model.CVDocument) {
	s.Apply(func(model.CVDocument) model.CVDocument { return doc })
	s.logger.Info("document loaded", zap.String("template", string(doc.Template)))
}

// Apply replaces the document with fn's result. fn must not retain or modify
// slices of its argument.
func (s *Session) Apply(fn func(model.CVDocument) model.CVDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = fn(s.doc)
}

// Replace swaps one whole section, the way a section editor reports changes.
// List records need distinct, non-empty ids.
func (s *Session) Replace(key model.SectionKey, value any) error {
	value, err := model.CheckSection(value)
	if err != nil {
		return invalidField(fmt.Errorf("section %q: %w", key, err)).WithContext("section", string(key))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := model.ReplaceSection(s.doc, key, value)
	if err != nil {
		return apperrors.NewValidationError(apperrors.CodeInvalidField, err.Error(), err).WithContext("section", string(key))
	}
	s.doc = doc
	s.metrics.ObserveMutation(string(key), "replace")
	return nil
}

func (s *Session) SetPersonalField(field, value string) error {
	f, err := section.ParsePersonalField(field)
	if err != nil {
		return invalidField(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = s.doc.WithPersonalInfo(section.UpdatePersonalInfo(s.doc.PersonalInfo, f, value))
	s.metrics.ObserveMutation(string(model.SectionPersonalInfo), "update")
	return nil
}

func (s *Session) SetSummary(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = s.doc.WithSummary(text)
	s.metrics.ObserveMutation(string(model.SectionSummary), "update")
}

// SetTemplate selects a template. Unknown ids are stored and render as
// modern.
func (s *Session) SetTemplate(t model.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = s.doc.WithTemplate(t)
	s.metrics.ObserveMutation(string(model.SectionTemplate), "update")
}

// AddItem appends a default record to a list section and returns its id.
func (s *Session) AddItem(key model.SectionKey) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var id string
	doc := s.doc
	switch key {
	case model.SectionEducation:
		doc.Education, id = section.AddEducation(doc.Education, s.ids)
	case model.SectionExperience:
		doc.Experience, id = section.AddExperience(doc.Experience, s.ids)
	case model.SectionSkills:
		doc.Skills, id = section.AddSkill(doc.Skills, s.ids)
	case model.SectionLanguages:
		doc.Languages, id = section.AddLanguage(doc.Languages, s.ids)
	case model.SectionOtherWorks:
		doc.OtherWorks, id = section.AddOtherWork(doc.OtherWorks, s.ids)
	case model.SectionAchievements:
		doc.Achievements, id = section.AddAchievement(doc.Achievements, s.ids)
	default:
		return "", notListSection(key)
	}
	s.doc = doc
	s.metrics.ObserveMutation(string(key), "add")
	return id, nil
}

// UpdateItem sets one field of the record with the given id. An unknown id
// is ignored; an unknown field is an error. For experience, field "current"
// takes "true" or "false".
func (s *Session) UpdateItem(key model.SectionKey, id, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.doc
	switch key {
	case model.SectionEducation:
		f, err := section.ParseEducationField(field)
		if err != nil {
			return invalidField(err)
		}
		doc.Education = section.UpdateEducation(doc.Education, id, f, value)
	case model.SectionExperience:
		if field == "current" {
			current, err := strconv.ParseBool(value)
			if err != nil {
				return invalidField(fmt.Errorf("current must be true or false: %w", err))
			}
			doc.Experience = section.SetExperienceCurrent(doc.Experience, id, current)
			break
		}
		f, err := section.ParseExperienceField(field)
		if err != nil {
			return invalidField(err)
		}
		doc.Experience = section.UpdateExperience(doc.Experience, id, f, value)
	case model.SectionSkills:
		f, err := section.ParseSkillField(field)
		if err != nil {
			return invalidField(err)
		}
		doc.Skills = section.UpdateSkill(doc.Skills, id, f, value)
	case model.SectionLanguages:
		f, err := section.ParseLanguageField(field)
		if err != nil {
			return invalidField(err)
		}
		doc.Languages = section.UpdateLanguage(doc.Languages, id, f, value)
	case model.SectionOtherWorks:
		f, err := section.ParseOtherWorkField(field)
		if err != nil {
			return invalidField(err)
		}
		doc.OtherWorks = section.UpdateOtherWork(doc.OtherWorks, id, f, value)
	case model.SectionAchievements:
		f, err := section.ParseAchievementField(field)
		if err != nil {
			return invalidField(err)
		}
		doc.Achievements = section.UpdateAchievement(doc.Achievements, id, f, value)
	default:
		return notListSection(key)
	}
	s.doc = doc
	s.metrics.ObserveMutation(string(key), "update")
	return nil
}

func (s *Session) RemoveItem(key model.SectionKey, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.doc
	switch key {
	case model.SectionEducation:
		doc.Education = section.RemoveEducation(doc.Education, id)
	case model.SectionExperience:
		doc.Experience = section.RemoveExperience(doc.Experience, id)
	case model.SectionSkills:
		doc.Skills = section.RemoveSkill(doc.Skills, id)
	case model.SectionLanguages:
		doc.Languages = section.RemoveLanguage(doc.Languages, id)
	case model.SectionOtherWorks:
		doc.OtherWorks = section.RemoveOtherWork(doc.OtherWorks, id)
	case model.SectionAchievements:
		doc.Achievements = section.RemoveAchievement(doc.Achievements, id)
	default:
		return notListSection(key)
	}
	s.doc = doc
	s.metrics.ObserveMutation(string(key), "remove")
	return nil
}

func (s *Session) AddBullet(experienceID string) {
	s.editExperience("bullet_add", func(list []model.Experience) []model.Experience {
		return section.AddBullet(list, experienceID)
	})
}

func (s *Session) UpdateBullet(experienceID string, index int, text string) {
	s.editExperience("bullet_update", func(list []model.Experience) []model.Experience {
		return section.UpdateBullet(list, experienceID, index, text)
	})
}

func (s *Session) RemoveBullet(experienceID string, index int) {
	s.editExperience("bullet_remove", func(list []model.Experience) []model.Experience {
		return section.RemoveBullet(list, experienceID, index)
	})
}

func (s *Session) editExperience(op string, fn func([]model.Experience) []model.Experience) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = s.doc.WithExperience(fn(s.doc.Experience))
	s.metrics.ObserveMutation(string(model.SectionExperience), op)
}

// AddSuggestedSkill adds name unless a skill with that name exists; the id
// is empty in that case.
func (s *Session) AddSuggestedSkill(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var id string
	s.doc.Skills, id = section.AddSuggestedSkill(s.doc.Skills, s.ids, name)
	if id != "" {
		s.metrics.ObserveMutation(string(model.SectionSkills), "suggest")
	}
	return id
}

func (s *Session) AddSuggestedLanguage(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var id string
	s.doc.Languages, id = section.AddSuggestedLanguage(s.doc.Languages, s.ids, name)
	if id != "" {
		s.metrics.ObserveMutation(string(model.SectionLanguages), "suggest")
	}
	return id
}

// AddSuggestedAchievement copies catalog achievement i into the document.
func (s *Session) AddSuggestedAchievement(i int) (string, error) {
	item, ok := s.catalog.Achievement(i)
	if !ok {
		return "", invalidField(fmt.Errorf("no suggested achievement at index %d", i))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var id string
	s.doc.Achievements, id = section.AddSuggestedAchievement(s.doc.Achievements, s.ids, item.Record())
	if id != "" {
		s.metrics.ObserveMutation(string(model.SectionAchievements), "suggest")
	}
	return id, nil
}

// ApplySuggestedSummary replaces the summary with catalog summary i.
func (s *Session) ApplySuggestedSummary(i int) error {
	text, ok := s.catalog.Summary(i)
	if !ok {
		return invalidField(fmt.Errorf("no suggested summary at index %d", i))
	}
	s.SetSummary(text)
	return nil
}

// UploadProfileImage stores the image as a data URI. On any failure the
// document is left as it was.
func (s *Session) UploadProfileImage(up ImageUpload) error {
	uri, err := EncodeImage(up)
	if err != nil {
		reason := "upload failed"
		code := apperrors.CodeReadFailed
		if appErr, ok := apperrors.As(err); ok {
			reason, code = appErr.Message, appErr.Code
		}
		s.logger.Debug("profile image rejected", zap.String("filename", up.Filename), zap.Error(err))
		s.metrics.ObserveUpload(code)
		s.notifier.OnImageUploadFailure(reason)
		return err
	}
	s.mu.Lock()
	s.doc = s.doc.WithPersonalInfo(section.SetProfileImage(s.doc.PersonalInfo, &uri))
	s.mu.Unlock()
	s.metrics.ObserveUpload("ok")
	s.notifier.OnImageUploadSuccess()
	return nil
}

func (s *Session) RemoveProfileImage() {
	s.mu.Lock()
	s.doc = s.doc.WithPersonalInfo(section.SetProfileImage(s.doc.PersonalInfo, nil))
	s.mu.Unlock()
	s.notifier.OnImageRemoved()
}

// Mount marks the preview as shown, making it available to Export.
func (s *Session) Mount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted = true
}

func (s *Session) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted = false
}

func (s *Session) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Surface renders the current document as a preview page. It returns nil
// while the preview is unmounted.
func (s *Session) Surface() (*render.Surface, error) {
	s.mu.Lock()
	doc, mounted := s.doc, s.mounted
	s.mu.Unlock()
	if !mounted {
		return nil, nil
	}
	return s.preview(doc)
}

// Preview renders the current document whether or not it is mounted.
func (s *Session) Preview() (*render.Surface, error) {
	return s.preview(s.Document())
}

func (s *Session) preview(doc model.CVDocument) (*render.Surface, error) {
	surface, view, err := s.render(doc, s.page)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveRender(string(view.Template))
	return surface, nil
}

// Export captures the mounted preview as a PDF. Only one export runs at a
// time; a second call while one is running fails with EXPORT_IN_PROGRESS.
func (s *Session) Export(ctx context.Context, sink Sink) (*ExportResult, error) {
	if s.exporter == nil {
		return nil, apperrors.NewInternalError(apperrors.CodeNotConfigured, "export is not configured", nil)
	}
	if !s.exporting.TryAcquire(1) {
		return nil, apperrors.NewExportError(apperrors.CodeExportInProgress, "An export is already running", nil)
	}
	defer s.exporting.Release(1)

	s.mu.Lock()
	doc, mounted := s.doc, s.mounted
	s.mu.Unlock()

	capture := func() (*render.Surface, error) {
		if !mounted {
			return nil, nil
		}
		return s.preview(doc)
	}
	return s.exporter.ExportFrom(ctx, capture, doc.PersonalInfo, sink)
}

func (s *Session) Completeness() CompletenessReport {
	return Completeness(s.Document())
}

func invalidField(err error) *apperrors.AppError {
	return apperrors.NewValidationError(apperrors.CodeInvalidField, err.Error(), err)
}

func notListSection(key model.SectionKey) *apperrors.AppError {
	return invalidField(fmt.Errorf("%q is not a list section", key)).WithContext("section", string(key))
}
