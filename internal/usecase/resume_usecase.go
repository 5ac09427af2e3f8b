package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"job-tracker/internal/domain/resume"
	"job-tracker/internal/infrastructure/blob"
	"job-tracker/internal/pkg/validate"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	FieldProfileTitle      = "profile_title"
	FieldResumeDescription = "resume_description"
	FieldFile              = "file"
)

var resumeRules = validate.Rules{
	{
		Field: FieldProfileTitle, Label: "Profile title", Tags: fmt.Sprintf("required,max=%d", resume.MaxTitleLength),
		Message: map[string]string{"max": fmt.Sprintf("Title cannot exceed %d characters", resume.MaxTitleLength)},
	},
	{
		Field: FieldResumeDescription, Label: "Description", Tags: fmt.Sprintf("omitempty,max=%d", resume.MaxDescriptionLength),
	},
}

// UploadFile is a document picked by the user.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type ResumeForm struct {
	ProfileTitle      string
	ResumeDescription string
	File              *UploadFile
}

type ResumeUsecase struct {
	repo      resume.Repository
	blobs     blob.Store
	validator *validate.Validator
	fetcher   BlobFetcher
	cache     ReadCache
	events    EventPublisher
	guard     *InFlightGuard
	logger    *log.Logger
}

func NewResumeUsecase(
	repo resume.Repository,
	blobs blob.Store,
	v *validate.Validator,
	fetcher BlobFetcher,
	cache ReadCache,
	events EventPublisher,
	guard *InFlightGuard,
	logger *log.Logger,
) *ResumeUsecase {
	if v == nil {
		v = validate.New()
	}
	return &ResumeUsecase{
		repo:      repo,
		blobs:     blobs,
		validator: v,
		fetcher:   fetcher,
		cache:     cache,
		events:    events,
		guard:     guard,
		logger:    logger,
	}
}

func (u *ResumeUsecase) List(ctx context.Context, id Identity, search string) ([]resume.Resume, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	search = strings.TrimSpace(search)

	key := viewKey(ctx, u.cache, CollectionResumes, id.UserID, search)
	var cached []resume.Resume
	if cacheGet(ctx, u.cache, key, &cached) {
		return cached, nil
	}

	items, err := u.repo.ListByOwner(ctx, id.UserID, search)
	if err != nil {
		u.logf("[Resumes] list failed owner=%s err=%v", id.UserID, err)
		return nil, ErrInternal
	}
	cacheSet(ctx, u.cache, key, items)
	return items, nil
}

func (u *ResumeUsecase) Get(ctx context.Context, id Identity, resumeID uuid.UUID) (resume.Resume, error) {
	if err := requireIdentity(id); err != nil {
		return resume.Resume{}, err
	}
	rec, err := u.repo.GetByID(ctx, id.UserID, resumeID)
	if err != nil {
		if errors.Is(err, resume.ErrNotFound) {
			return resume.Resume{}, err
		}
		u.logf("[Resumes] get failed owner=%s id=%s err=%v", id.UserID, resumeID, err)
		return resume.Resume{}, ErrInternal
	}
	return rec, nil
}

// Create stores a new resume. A file is mandatory.
func (u *ResumeUsecase) Create(ctx context.Context, id Identity, form ResumeForm) (resume.Resume, error) {
	return u.upsert(ctx, id, nil, form)
}

// Update replaces title and description of an existing resume and, when a
// file is supplied, swaps its document. Without a file the stored url is kept.
func (u *ResumeUsecase) Update(ctx context.Context, id Identity, resumeID uuid.UUID, form ResumeForm) (resume.Resume, error) {
	return u.upsert(ctx, id, &resumeID, form)
}

func (u *ResumeUsecase) upsert(ctx context.Context, id Identity, resumeID *uuid.UUID, form ResumeForm) (resume.Resume, error) {
	if err := requireIdentity(id); err != nil {
		return resume.Resume{}, err
	}
	if err := newValidationError(u.validateForm(form, resumeID == nil)); err != nil {
		return resume.Resume{}, err
	}

	op := "resumes:create"
	if resumeID != nil {
		op = "resumes:" + resumeID.String()
	}
	release, err := u.guard.Acquire(ctx, id.UserID, op)
	if err != nil {
		return resume.Resume{}, err
	}
	defer release()

	rec := resume.Resume{
		ID:                uuid.New(),
		UserID:            id.UserID,
		ProfileTitle:      strings.TrimSpace(form.ProfileTitle),
		ResumeDescription: optionalString(form.ResumeDescription),
	}
	var previousURL *string
	var uploadedPath string

	p := newPipeline()
	if resumeID != nil {
		p.then(StepLoadRecord, func(ctx context.Context) error {
			existing, err := u.repo.GetByID(ctx, id.UserID, *resumeID)
			if err != nil {
				return err
			}
			rec.ID = existing.ID
			rec.ResumeURL = existing.ResumeURL
			previousURL = existing.ResumeURL
			return nil
		})
	}
	if form.File != nil {
		p.then(StepUpload, func(ctx context.Context) error {
			ext := strings.ToLower(filepath.Ext(form.File.Name))
			objectPath := blob.ResumeObjectPath(id.UserID, newObjectName(ext))
			if err := u.blobs.Upload(ctx, objectPath, form.File.Data, contentTypeFor(ext, form.File.ContentType)); err != nil {
				return err
			}
			uploadedPath = objectPath
			url := u.blobs.PublicURL(objectPath)
			rec.ResumeURL = &url
			return nil
		})
	}
	p.then(StepWriteRecord, func(ctx context.Context) error {
		saved, err := u.repo.Upsert(ctx, rec)
		if err != nil {
			return err
		}
		rec = saved
		return nil
	})

	if err := p.run(ctx); err != nil {
		step := FailedStep(err)
		if step == StepWriteRecord && uploadedPath != "" {
			u.logf("[Resumes] record write failed, blob left orphaned owner=%s path=%s err=%v", id.UserID, uploadedPath, err)
		} else if !errors.Is(err, resume.ErrNotFound) {
			u.logf("[Resumes] upsert failed owner=%s step=%s err=%v", id.UserID, step, err)
		}
		return resume.Resume{}, err
	}

	if uploadedPath != "" && previousURL != nil && *previousURL != "" {
		u.removeSuperseded(ctx, id.UserID, *previousURL)
	}

	reason := "resume_updated"
	if resumeID == nil {
		reason = "resume_created"
	}
	publish(ctx, u.events, id.UserID, reason, CollectionResumes)
	return rec, nil
}

// removeSuperseded drops the blob a replaced file used to point at. Failure
// leaves an orphan blob, never a dangling record, so it is only logged.
func (u *ResumeUsecase) removeSuperseded(ctx context.Context, owner uuid.UUID, oldURL string) {
	err := newPipeline().
		then(StepRemoveSupersededBlob, func(ctx context.Context) error {
			objectPath, err := u.parseObjectPath(owner, oldURL)
			if err != nil {
				return err
			}
			return u.blobs.Remove(ctx, objectPath)
		}).
		run(ctx)
	if err != nil {
		u.logf("[Resumes] superseded blob not removed owner=%s url=%s err=%v", owner, oldURL, err)
	}
}

// Delete removes the resume's blob and then its record. The record is only
// deleted once the blob is gone, so a failure never leaves a record that
// points at nothing. A resume without a file yields ErrNoBlob.
func (u *ResumeUsecase) Delete(ctx context.Context, id Identity, resumeID uuid.UUID, confirm Confirmer) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if !confirmed(ctx, confirm, "Are you sure you want to delete this resume?") {
		return ErrNotConfirmed
	}

	release, err := u.guard.Acquire(ctx, id.UserID, "resumes:"+resumeID.String())
	if err != nil {
		return err
	}
	defer release()

	var rec resume.Resume
	var objectPath string
	err = newPipeline().
		then(StepLoadRecord, func(ctx context.Context) error {
			var err error
			rec, err = u.repo.GetByID(ctx, id.UserID, resumeID)
			return err
		}).
		then(StepParsePath, func(context.Context) error {
			if !rec.HasFile() {
				return ErrNoBlob
			}
			var err error
			objectPath, err = u.parseObjectPath(id.UserID, *rec.ResumeURL)
			return err
		}).
		then(StepRemoveBlob, func(ctx context.Context) error {
			return u.blobs.Remove(ctx, objectPath)
		}).
		then(StepDeleteRecord, func(ctx context.Context) error {
			return u.repo.Delete(ctx, id.UserID, resumeID)
		}).
		run(ctx)
	if err != nil {
		if !errors.Is(err, resume.ErrNotFound) {
			u.logf("[Resumes] delete failed owner=%s id=%s step=%s err=%v", id.UserID, resumeID, FailedStep(err), err)
		}
		return err
	}

	publish(ctx, u.events, id.UserID, "resume_deleted", CollectionResumes)
	return nil
}

// RemoveFile deletes only the document of a resume and clears its url.
func (u *ResumeUsecase) RemoveFile(ctx context.Context, id Identity, resumeID uuid.UUID, confirm Confirmer) (resume.Resume, error) {
	if err := requireIdentity(id); err != nil {
		return resume.Resume{}, err
	}
	if !confirmed(ctx, confirm, "Are you sure you want to delete this file?") {
		return resume.Resume{}, ErrNotConfirmed
	}

	release, err := u.guard.Acquire(ctx, id.UserID, "resumes:"+resumeID.String())
	if err != nil {
		return resume.Resume{}, err
	}
	defer release()

	var rec resume.Resume
	var objectPath string
	err = newPipeline().
		then(StepLoadRecord, func(ctx context.Context) error {
			var err error
			rec, err = u.repo.GetByID(ctx, id.UserID, resumeID)
			return err
		}).
		then(StepParsePath, func(context.Context) error {
			if !rec.HasFile() {
				return ErrNoBlob
			}
			var err error
			objectPath, err = u.parseObjectPath(id.UserID, *rec.ResumeURL)
			return err
		}).
		then(StepRemoveBlob, func(ctx context.Context) error {
			return u.blobs.Remove(ctx, objectPath)
		}).
		then(StepClearURL, func(ctx context.Context) error {
			var err error
			rec, err = u.repo.ClearURL(ctx, id.UserID, resumeID)
			return err
		}).
		run(ctx)
	if err != nil {
		if !errors.Is(err, resume.ErrNotFound) && !errors.Is(err, ErrNoBlob) {
			u.logf("[Resumes] remove file failed owner=%s id=%s step=%s err=%v", id.UserID, resumeID, FailedStep(err), err)
		}
		return resume.Resume{}, err
	}

	publish(ctx, u.events, id.UserID, "resume_file_removed", CollectionResumes)
	return rec, nil
}

// Download fetches the resume's document through its public url.
func (u *ResumeUsecase) Download(ctx context.Context, id Identity, resumeID uuid.UUID) (Download, error) {
	if err := requireIdentity(id); err != nil {
		return Download{}, err
	}
	rec, err := u.Get(ctx, id, resumeID)
	if err != nil {
		return Download{}, err
	}
	if !rec.HasFile() {
		return Download{}, ErrNoBlob
	}

	var d Download
	err = newPipeline().
		then(StepFetchBlob, func(ctx context.Context) error {
			var err error
			d, err = FetchDownload(ctx, u.fetcher, *rec.ResumeURL, rec.ProfileTitle)
			return err
		}).
		run(ctx)
	if err != nil {
		u.logf("[Resumes] download failed owner=%s id=%s err=%v", id.UserID, resumeID, err)
		return Download{}, err
	}
	return d, nil
}

// parseObjectPath also checks that the blob sits in the owner's folder, so a
// tampered url can never remove someone else's file.
func (u *ResumeUsecase) parseObjectPath(owner uuid.UUID, publicURL string) (string, error) {
	objectPath, err := u.blobs.ObjectPath(publicURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnparseableBlobURL, err)
	}
	if blobOwner, ok := blob.OwnerOf(objectPath); !ok || blobOwner != owner {
		return "", fmt.Errorf("%w: %s is outside the owner's folder", ErrUnparseableBlobURL, objectPath)
	}
	return objectPath, nil
}

func (u *ResumeUsecase) validateForm(form ResumeForm, creating bool) validate.FieldErrors {
	fe := u.validator.Check(resumeRules, map[string]string{
		FieldProfileTitle:      form.ProfileTitle,
		FieldResumeDescription: form.ResumeDescription,
	})
	if fe == nil {
		fe = validate.FieldErrors{}
	}

	switch {
	case form.File == nil || len(form.File.Data) == 0:
		if creating {
			fe.Add(FieldFile, "File is required")
		}
	default:
		ext := strings.ToLower(filepath.Ext(form.File.Name))
		if !resume.ExtensionAllowed(ext) {
			fe.Add(FieldFile, "File must be a PDF, DOC or DOCX document")
		} else if ext == ".pdf" && inspectPDF(form.File.Data) != nil {
			fe.Add(FieldFile, "File is not a readable PDF")
		}
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}

func inspectPDF(data []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	_, err := api.PageCount(bytes.NewReader(data), conf)
	return err
}

func newObjectName(ext string) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + ext
}

func contentTypeFor(ext, declared string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	if declared != "" {
		return declared
	}
	return "application/octet-stream"
}

func (u *ResumeUsecase) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}
