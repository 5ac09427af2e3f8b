package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"job-tracker/internal/domain/resume"
	"job-tracker/internal/infrastructure/blob"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resumeFixture struct {
	log     *callLog
	repo    *fakeResumeRepo
	blobs   *fakeBlobStore
	fetcher *fakeFetcher
	events  *fakePublisher
	uc      *ResumeUsecase
	id      Identity
}

func newResumeFixture() resumeFixture {
	log := &callLog{}
	f := resumeFixture{
		log:     log,
		repo:    newFakeResumeRepo(log),
		blobs:   newFakeBlobStore(log),
		fetcher: &fakeFetcher{},
		events:  &fakePublisher{},
		id:      Identity{UserID: uuid.New()},
	}
	f.uc = NewResumeUsecase(f.repo, f.blobs, nil, f.fetcher, nil, f.events, NewInFlightGuard(nil, 0, nil), nil)
	return f
}

func docx(name string) *UploadFile {
	return &UploadFile{Name: name, ContentType: "application/octet-stream", Data: []byte("PK\x03\x04 document")}
}

func (f resumeFixture) seed(t *testing.T, title string) resume.Resume {
	t.Helper()
	rec, err := f.uc.Create(context.Background(), f.id, ResumeForm{ProfileTitle: title, File: docx("cv.docx")})
	require.NoError(t, err)
	f.log.calls = nil
	f.events.events = nil
	return rec
}

func TestResumeUsecase_Create(t *testing.T) {
	f := newResumeFixture()

	rec, err := f.uc.Create(context.Background(), f.id, ResumeForm{
		ProfileTitle:      "Backend",
		ResumeDescription: "Go and Postgres",
		File:              docx("My CV.DOCX"),
	})
	require.NoError(t, err)

	require.NotNil(t, rec.ResumeURL)
	objectPath, err := f.blobs.ObjectPath(*rec.ResumeURL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(objectPath, "resumes/"+f.id.UserID.String()+"/"))
	assert.True(t, strings.HasSuffix(objectPath, ".docx"))
	assert.Contains(t, f.blobs.objects, objectPath)

	assert.Equal(t, f.id.UserID, rec.UserID)
	require.NotNil(t, rec.ResumeDescription)
	assert.Equal(t, "Go and Postgres", *rec.ResumeDescription)

	calls := f.log.list()
	require.Len(t, calls, 2)
	assert.True(t, strings.HasPrefix(calls[0], "blob.upload "))
	assert.Equal(t, "resume.upsert", calls[1])

	require.Equal(t, 1, f.events.count())
	assert.Equal(t, []Collection{CollectionResumes}, f.events.events[0].Collections)
}

func TestResumeUsecase_Create_FreshNamePerUpload(t *testing.T) {
	f := newResumeFixture()
	ctx := context.Background()

	a, err := f.uc.Create(ctx, f.id, ResumeForm{ProfileTitle: "A", File: docx("cv.docx")})
	require.NoError(t, err)
	b, err := f.uc.Create(ctx, f.id, ResumeForm{ProfileTitle: "B", File: docx("cv.docx")})
	require.NoError(t, err)

	assert.NotEqual(t, *a.ResumeURL, *b.ResumeURL)
}

func TestResumeUsecase_Create_Validation(t *testing.T) {
	cases := []struct {
		name  string
		form  ResumeForm
		field string
		msg   string
	}{
		{"missing file", ResumeForm{ProfileTitle: "Backend"}, FieldFile, "File is required"},
		{"empty file", ResumeForm{ProfileTitle: "Backend", File: &UploadFile{Name: "cv.pdf"}}, FieldFile, "File is required"},
		{"missing title", ResumeForm{File: docx("cv.docx")}, FieldProfileTitle, "Profile title is required"},
		{"long title", ResumeForm{ProfileTitle: strings.Repeat("x", 21), File: docx("cv.docx")}, FieldProfileTitle, "Title cannot exceed 20 characters"},
		{"long description", ResumeForm{ProfileTitle: "ok", ResumeDescription: strings.Repeat("d", 251), File: docx("cv.docx")}, FieldResumeDescription, "Description cannot exceed 250 characters"},
		{"bad extension", ResumeForm{ProfileTitle: "ok", File: &UploadFile{Name: "cv.exe", Data: []byte("MZ")}}, FieldFile, "File must be a PDF, DOC or DOCX document"},
		{"unreadable pdf", ResumeForm{ProfileTitle: "ok", File: &UploadFile{Name: "cv.pdf", Data: []byte("definitely not a pdf")}}, FieldFile, "File is not a readable PDF"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newResumeFixture()

			_, err := f.uc.Create(context.Background(), f.id, tc.form)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tc.msg, ve.Fields[tc.field])
			assert.Empty(t, f.log.list(), "validation must not reach any store")
			assert.Zero(t, f.events.count())
		})
	}
}

func TestResumeUsecase_Create_TitleAtLimit(t *testing.T) {
	f := newResumeFixture()

	_, err := f.uc.Create(context.Background(), f.id, ResumeForm{
		ProfileTitle:      strings.Repeat("t", 20),
		ResumeDescription: strings.Repeat("d", 250),
		File:              docx("cv.doc"),
	})
	assert.NoError(t, err)
}

func TestResumeUsecase_Create_UploadFailureWritesNoRecord(t *testing.T) {
	f := newResumeFixture()
	f.blobs.uploadErr = errStoreDown

	_, err := f.uc.Create(context.Background(), f.id, ResumeForm{ProfileTitle: "Backend", File: docx("cv.docx")})

	require.Error(t, err)
	assert.Equal(t, StepUpload, FailedStep(err))
	assert.Empty(t, f.repo.items)
	assert.NotContains(t, f.log.list(), "resume.upsert")
	assert.Zero(t, f.events.count())
}

func TestResumeUsecase_Create_WriteFailureLeavesOrphanBlob(t *testing.T) {
	f := newResumeFixture()
	f.repo.upsertErr = errStoreDown

	_, err := f.uc.Create(context.Background(), f.id, ResumeForm{ProfileTitle: "Backend", File: docx("cv.docx")})

	require.Error(t, err)
	assert.Equal(t, StepWriteRecord, FailedStep(err))
	assert.Len(t, f.blobs.objects, 1, "no cleanup is attempted")
	for _, c := range f.log.list() {
		assert.False(t, strings.HasPrefix(c, "blob.remove"))
	}
}

func TestResumeUsecase_Update_WithoutFileKeepsURL(t *testing.T) {
	f := newResumeFixture()
	rec := f.seed(t, "Backend")

	updated, err := f.uc.Update(context.Background(), f.id, rec.ID, ResumeForm{ProfileTitle: "Platform"})
	require.NoError(t, err)

	assert.Equal(t, "Platform", updated.ProfileTitle)
	require.NotNil(t, updated.ResumeURL)
	assert.Equal(t, *rec.ResumeURL, *updated.ResumeURL)
	assert.Equal(t, []string{"resume.get", "resume.upsert"}, f.log.list())
}

func TestResumeUsecase_Update_ReplacedFileRemovesSupersededBlobAfterWrite(t *testing.T) {
	f := newResumeFixture()
	rec := f.seed(t, "Backend")
	oldPath, err := f.blobs.ObjectPath(*rec.ResumeURL)
	require.NoError(t, err)

	updated, err := f.uc.Update(context.Background(), f.id, rec.ID, ResumeForm{ProfileTitle: "Backend", File: docx("new.docx")})
	require.NoError(t, err)

	assert.NotEqual(t, *rec.ResumeURL, *updated.ResumeURL)
	assert.NotContains(t, f.blobs.objects, oldPath)
	assert.Len(t, f.blobs.objects, 1)

	calls := f.log.list()
	require.Len(t, calls, 4)
	assert.Equal(t, "resume.get", calls[0])
	assert.True(t, strings.HasPrefix(calls[1], "blob.upload "))
	assert.Equal(t, "resume.upsert", calls[2])
	assert.Equal(t, "blob.remove "+oldPath, calls[3])
}

func TestResumeUsecase_Update_SupersededRemovalFailureIsNotFatal(t *testing.T) {
	f := newResumeFixture()
	rec := f.seed(t, "Backend")
	f.blobs.removeErr = errStoreDown

	updated, err := f.uc.Update(context.Background(), f.id, rec.ID, ResumeForm{ProfileTitle: "Backend", File: docx("new.docx")})

	require.NoError(t, err)
	assert.NotEqual(t, *rec.ResumeURL, *updated.ResumeURL)
	assert.Equal(t, 1, f.events.count())
}

func TestResumeUsecase_Update_NotFound(t *testing.T) {
	f := newResumeFixture()

	_, err := f.uc.Update(context.Background(), f.id, uuid.New(), ResumeForm{ProfileTitle: "x", File: docx("cv.docx")})

	assert.True(t, errors.Is(err, resume.ErrNotFound))
	assert.Empty(t, f.blobs.objects, "nothing is uploaded for a missing record")
}

func TestResumeUsecase_Delete_Declined(t *testing.T) {
	f := newResumeFixture()
	rec := f.seed(t, "Backend")

	err := f.uc.Delete(context.Background(), f.id, rec.ID, Confirmed(false))

	assert.True(t, errors.Is(err, ErrNotConfirmed))
	assert.Empty(t, f.log.list())
	assert.Contains(t, f.repo.items, rec.ID)
}

func TestResumeUsecase_Delete_RemovesBlobThenRecord(t *testing.T) {
	f := newResumeFixture()
	rec := f.seed(t, "Backend")
	objectPath, _ := f.blobs.ObjectPath(*rec.ResumeURL)

	err := f.uc.Delete(context.Background(), f.id, rec.ID, Confirmed(true))
	require.NoError(t, err)

	assert.Equal(t, []string{"resume.get", "blob.remove " + objectPath, "resume.delete"}, f.log.list())
	assert.Empty(t, f.blobs.objects)
	assert.Empty(t, f.repo.items)
	assert.Equal(t, 1, f.events.count())
}

func TestResumeUsecase_Delete_BlobFailureKeepsRecord(t *testing.T) {
	f := newResumeFixture()
	rec := f.seed(t, "Backend")
	f.blobs.removeErr = errStoreDown

	err := f.uc.Delete(context.Background(), f.id, rec.ID, Confirmed(true))

	require.Error(t, err)
	assert.Equal(t, StepRemoveBlob, FailedStep(err))
	assert.Contains(t, f.repo.items, rec.ID)
	assert.NotContains(t, f.log.list(), "resume.delete")
	assert.Zero(t, f.events.count())
}

func TestResumeUsecase_Delete_UnparseableURL(t *testing.T) {
	f := newResumeFixture()
	rec := f.seed(t, "Backend")
	bad := "https://elsewhere.test/file.pdf"
	stored := f.repo.items[rec.ID]
	stored.ResumeURL = &bad
	f.repo.items[rec.ID] = stored

	err := f.uc.Delete(context.Background(), f.id, rec.ID, Confirmed(true))

	assert.True(t, errors.Is(err, ErrUnparseableBlobURL))
	assert.True(t, IsConsistencyError(err))
	assert.Equal(t, StepParsePath, FailedStep(err))
	assert.Equal(t, []string{"resume.get"}, f.log.list())
	assert.Contains(t, f.repo.items, rec.ID)
}

func TestResumeUsecase_Delete_ForeignFolderIsRejected(t *testing.T) {
	f := newResumeFixture()
	rec := f.seed(t, "Backend")
	foreign := f.blobs.PublicURL(blob.ResumeObjectPath(uuid.New(), "theirs.pdf"))
	stored := f.repo.items[rec.ID]
	stored.ResumeURL = &foreign
	f.repo.items[rec.ID] = stored

	err := f.uc.Delete(context.Background(), f.id, rec.ID, Confirmed(true))

	assert.True(t, errors.Is(err, ErrUnparseableBlobURL))
	assert.Equal(t, []string{"resume.get"}, f.log.list())
}

func TestResumeUsecase_Delete_WithoutFile(t *testing.T) {
	f := newResumeFixture()
	rec := f.seed(t, "Backend")
	stored := f.repo.items[rec.ID]
	stored.ResumeURL = nil
	f.repo.items[rec.ID] = stored

	err := f.uc.Delete(context.Background(), f.id, rec.ID, Confirmed(true))

	assert.True(t, errors.Is(err, ErrNoBlob))
	assert.Contains(t, f.repo.items, rec.ID)
}

func TestResumeUsecase_RemoveFile(t *testing.T) {
	f := newResumeFixture()
	rec := f.seed(t, "Backend")

	updated, err := f.uc.RemoveFile(context.Background(), f.id, rec.ID, Confirmed(true))
	require.NoError(t, err)

	assert.Nil(t, updated.ResumeURL)
	assert.Empty(t, f.blobs.objects)
	assert.Equal(t, 1, f.events.count())

	_, err = f.uc.RemoveFile(context.Background(), f.id, rec.ID, Confirmed(true))
	assert.True(t, errors.Is(err, ErrNoBlob))
}

func TestResumeUsecase_Download(t *testing.T) {
	f := newResumeFixture()
	rec := f.seed(t, "Senior  Go Dev")
	f.fetcher.obj = blob.Object{ContentType: "application/pdf", Data: []byte("%PDF")}

	d, err := f.uc.Download(context.Background(), f.id, rec.ID)
	require.NoError(t, err)

	assert.Equal(t, "Resume_Senior_Go_Dev.pdf", d.FileName)
	assert.Equal(t, "%PDF", string(d.Data))
	assert.Equal(t, *rec.ResumeURL, f.fetcher.got)
}

func TestResumeUsecase_Download_FetchFailure(t *testing.T) {
	f := newResumeFixture()
	rec := f.seed(t, "Backend")
	f.fetcher.err = errStoreDown

	_, err := f.uc.Download(context.Background(), f.id, rec.ID)

	assert.Equal(t, StepFetchBlob, FailedStep(err))
}

func TestResumeUsecase_List(t *testing.T) {
	f := newResumeFixture()
	f.seed(t, "Backend")
	f.seed(t, "Frontend")

	all, err := f.uc.List(context.Background(), f.id, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	back, err := f.uc.List(context.Background(), f.id, "back")
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, "Backend", back[0].ProfileTitle)

	_, err = f.uc.List(context.Background(), Identity{}, "")
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestDownloadFileName(t *testing.T) {
	assert.Equal(t, "Resume_Backend.pdf", DownloadFileName("Backend"))
	assert.Equal(t, "Resume_Full_Stack_Dev.pdf", DownloadFileName("Full Stack\tDev"))
	assert.Equal(t, "Resume_a_b.pdf", DownloadFileName("a/b"))
}

func TestSaveDownload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	p, err := SaveDownload(dir, Download{FileName: "Resume_X.pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Resume_X.pdf"), p)

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is renamed into place")
}
