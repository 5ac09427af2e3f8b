package usecase

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	"job-tracker/internal/domain/application"
	"job-tracker/internal/pkg/validate"

	"github.com/google/uuid"
)

const (
	FieldCompany         = "company"
	FieldJobTitle        = "job_title"
	FieldStatus          = "status"
	FieldApplicationDate = "application_date"
	FieldJobDescription  = "job_description"
	FieldJobURL          = "job_url"
	FieldSalaryMin       = "salary_min"
	FieldSalaryMax       = "salary_max"
	FieldNotes           = "notes"
	FieldContactName     = "contact_name"
	FieldContactEmail    = "contact_email"
	FieldContactPhone    = "contact_phone"
)

var applicationRules = validate.Rules{
	{Field: FieldCompany, Label: "Company", Tags: "required"},
	{Field: FieldJobTitle, Label: "Job title", Tags: "required"},
	{Field: FieldStatus, Label: "Status", Tags: "required,oneof=" + application.StatusOneOf()},
	{Field: FieldApplicationDate, Label: "Application date", Tags: "required,datetime=" + application.DateLayout},
	{Field: FieldJobDescription, Label: "Job description"},
	{Field: FieldJobURL, Label: "Job URL", Tags: "omitempty,url"},
	{Field: FieldSalaryMin, Label: "Minimum salary", Tags: "omitempty,numeric"},
	{Field: FieldSalaryMax, Label: "Maximum salary", Tags: "omitempty,numeric"},
	{Field: FieldNotes, Label: "Notes"},
	{Field: FieldContactName, Label: "Contact name"},
	{Field: FieldContactEmail, Label: "Contact email", Tags: "omitempty,email"},
	{Field: FieldContactPhone, Label: "Contact phone"},
}

// ApplicationForm is raw form input. A nil field was not submitted; on
// update it keeps the stored value, while an empty string clears an
// optional field.
type ApplicationForm struct {
	Company         *string
	JobTitle        *string
	Status          *string
	ApplicationDate *string
	JobDescription  *string
	JobURL          *string
	SalaryMin       *string
	SalaryMax       *string
	Notes           *string
	ContactName     *string
	ContactEmail    *string
	ContactPhone    *string
}

func (f ApplicationForm) fields() map[string]*string {
	return map[string]*string{
		FieldCompany:         f.Company,
		FieldJobTitle:        f.JobTitle,
		FieldStatus:          f.Status,
		FieldApplicationDate: f.ApplicationDate,
		FieldJobDescription:  f.JobDescription,
		FieldJobURL:          f.JobURL,
		FieldSalaryMin:       f.SalaryMin,
		FieldSalaryMax:       f.SalaryMax,
		FieldNotes:           f.Notes,
		FieldContactName:     f.ContactName,
		FieldContactEmail:    f.ContactEmail,
		FieldContactPhone:    f.ContactPhone,
	}
}

// formValues flattens an application back into form strings.
func formValues(a application.Application) map[string]string {
	out := map[string]string{
		FieldCompany:  a.Company,
		FieldJobTitle: a.JobTitle,
		FieldStatus:   string(a.Status),
	}
	if !a.ApplicationDate.IsZero() {
		out[FieldApplicationDate] = a.ApplicationDate.Format(application.DateLayout)
	}
	setOpt := func(k string, v *string) {
		if v != nil {
			out[k] = *v
		}
	}
	setOpt(FieldJobDescription, a.JobDescription)
	setOpt(FieldJobURL, a.JobURL)
	setOpt(FieldNotes, a.Notes)
	setOpt(FieldContactName, a.ContactName)
	setOpt(FieldContactEmail, a.ContactEmail)
	setOpt(FieldContactPhone, a.ContactPhone)
	if a.SalaryMin != nil {
		out[FieldSalaryMin] = strconv.FormatFloat(*a.SalaryMin, 'f', -1, 64)
	}
	if a.SalaryMax != nil {
		out[FieldSalaryMax] = strconv.FormatFloat(*a.SalaryMax, 'f', -1, 64)
	}
	return out
}

// mergeForm overlays submitted fields on base.
func mergeForm(base map[string]string, f ApplicationForm) map[string]string {
	out := make(map[string]string, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range f.fields() {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}

type ApplicationUsecase struct {
	repo      application.Repository
	validator *validate.Validator
	cache     ReadCache
	events    EventPublisher
	guard     *InFlightGuard
	logger    *log.Logger
}

func NewApplicationUsecase(
	repo application.Repository,
	v *validate.Validator,
	cache ReadCache,
	events EventPublisher,
	guard *InFlightGuard,
	logger *log.Logger,
) *ApplicationUsecase {
	if v == nil {
		v = validate.New()
	}
	return &ApplicationUsecase{repo: repo, validator: v, cache: cache, events: events, guard: guard, logger: logger}
}

// ValidateField checks a single field, as when the user leaves an input.
// It returns "" when the value is acceptable.
func (u *ApplicationUsecase) ValidateField(field, value string) (string, error) {
	r, ok := applicationRules.Lookup(field)
	if !ok {
		return "", ErrInvalidInput
	}
	return u.validator.CheckField(r, value), nil
}

func (u *ApplicationUsecase) List(ctx context.Context, id Identity, filter application.ListFilter) ([]application.Application, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	filter.Search = strings.TrimSpace(filter.Search)
	if strings.EqualFold(string(filter.Status), "all") {
		filter.Status = ""
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidInput
	}

	key := viewKey(ctx, u.cache, CollectionApplications, id.UserID, filter.Search, string(filter.Status))
	var cached []application.Application
	if cacheGet(ctx, u.cache, key, &cached) {
		return cached, nil
	}

	items, err := u.repo.ListByOwner(ctx, id.UserID, filter)
	if err != nil {
		u.logf("[Applications] list failed owner=%s err=%v", id.UserID, err)
		return nil, ErrInternal
	}
	cacheSet(ctx, u.cache, key, items)
	return items, nil
}

func (u *ApplicationUsecase) Get(ctx context.Context, id Identity, appID uuid.UUID) (application.Application, error) {
	if err := requireIdentity(id); err != nil {
		return application.Application{}, err
	}
	a, err := u.repo.GetByID(ctx, id.UserID, appID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.Application{}, err
		}
		u.logf("[Applications] get failed owner=%s id=%s err=%v", id.UserID, appID, err)
		return application.Application{}, ErrInternal
	}
	return a, nil
}

func (u *ApplicationUsecase) Create(ctx context.Context, id Identity, form ApplicationForm) (application.Application, error) {
	if err := requireIdentity(id); err != nil {
		return application.Application{}, err
	}

	values := mergeForm(nil, form)
	a, err := u.build(values)
	if err != nil {
		return application.Application{}, err
	}
	a.ID = uuid.New()
	a.UserID = id.UserID

	release, err := u.guard.Acquire(ctx, id.UserID, "applications:create")
	if err != nil {
		return application.Application{}, err
	}
	defer release()

	var saved application.Application
	err = newPipeline().
		then(StepWriteRecord, func(ctx context.Context) error {
			var err error
			saved, err = u.repo.Insert(ctx, a)
			return err
		}).
		run(ctx)
	if err != nil {
		u.logf("[Applications] create failed owner=%s step=%s err=%v", id.UserID, FailedStep(err), err)
		return application.Application{}, err
	}

	publish(ctx, u.events, id.UserID, "application_created", CollectionApplications, CollectionStats)
	return saved, nil
}

func (u *ApplicationUsecase) Update(ctx context.Context, id Identity, appID uuid.UUID, form ApplicationForm) (application.Application, error) {
	if err := requireIdentity(id); err != nil {
		return application.Application{}, err
	}

	// Shape errors in submitted fields are reported before any store call.
	submitted := map[string]string{}
	for k, v := range form.fields() {
		if v != nil {
			submitted[k] = *v
		}
	}
	fe := validate.FieldErrors{}
	for k, v := range submitted {
		r, _ := applicationRules.Lookup(k)
		if msg := u.validator.CheckField(r, v); msg != "" {
			fe[k] = msg
		}
	}
	if err := newValidationError(fe); err != nil {
		return application.Application{}, err
	}

	release, err := u.guard.Acquire(ctx, id.UserID, "applications:"+appID.String())
	if err != nil {
		return application.Application{}, err
	}
	defer release()

	var saved application.Application
	err = newPipeline().
		then(StepLoadRecord, func(ctx context.Context) error {
			existing, err := u.repo.GetByID(ctx, id.UserID, appID)
			if err != nil {
				return err
			}
			merged, err := u.build(mergeForm(formValues(existing), form))
			if err != nil {
				return err
			}
			merged.ID = existing.ID
			merged.UserID = id.UserID
			merged.CreatedAt = existing.CreatedAt
			saved = merged
			return nil
		}).
		then(StepWriteRecord, func(ctx context.Context) error {
			var err error
			saved, err = u.repo.Update(ctx, saved)
			return err
		}).
		run(ctx)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return application.Application{}, ve
		}
		if !errors.Is(err, application.ErrNotFound) {
			u.logf("[Applications] update failed owner=%s id=%s step=%s err=%v", id.UserID, appID, FailedStep(err), err)
		}
		return application.Application{}, err
	}

	publish(ctx, u.events, id.UserID, "application_updated", CollectionApplications, CollectionStats)
	return saved, nil
}

func (u *ApplicationUsecase) Delete(ctx context.Context, id Identity, appID uuid.UUID, confirm Confirmer) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if !confirmed(ctx, confirm, "Are you sure you want to delete this application?") {
		return ErrNotConfirmed
	}

	release, err := u.guard.Acquire(ctx, id.UserID, "applications:"+appID.String())
	if err != nil {
		return err
	}
	defer release()

	err = newPipeline().
		then(StepDeleteRecord, func(ctx context.Context) error {
			return u.repo.Delete(ctx, id.UserID, appID)
		}).
		run(ctx)
	if err != nil {
		if !errors.Is(err, application.ErrNotFound) {
			u.logf("[Applications] delete failed owner=%s id=%s step=%s err=%v", id.UserID, appID, FailedStep(err), err)
		}
		return err
	}

	publish(ctx, u.events, id.UserID, "application_deleted", CollectionApplications, CollectionStats)
	return nil
}

// build validates a complete set of form values and converts it into an
// application without identity fields.
func (u *ApplicationUsecase) build(values map[string]string) (application.Application, error) {
	if err := newValidationError(u.validator.Check(applicationRules, values)); err != nil {
		return application.Application{}, err
	}

	date, err := application.ParseDate(values[FieldApplicationDate])
	if err != nil {
		return application.Application{}, newValidationError(validate.FieldErrors{FieldApplicationDate: "Application date must be a valid date (YYYY-MM-DD)"})
	}

	a := application.Application{
		Company:         strings.TrimSpace(values[FieldCompany]),
		JobTitle:        strings.TrimSpace(values[FieldJobTitle]),
		Status:          application.Status(strings.TrimSpace(values[FieldStatus])),
		ApplicationDate: date,
		JobDescription:  optionalString(values[FieldJobDescription]),
		JobURL:          optionalString(values[FieldJobURL]),
		Notes:           optionalString(values[FieldNotes]),
		ContactName:     optionalString(values[FieldContactName]),
		ContactEmail:    optionalString(values[FieldContactEmail]),
		ContactPhone:    optionalString(values[FieldContactPhone]),
	}
	if a.SalaryMin, err = optionalNumber(values[FieldSalaryMin]); err != nil {
		return application.Application{}, newValidationError(validate.FieldErrors{FieldSalaryMin: "Minimum salary must be a number"})
	}
	if a.SalaryMax, err = optionalNumber(values[FieldSalaryMax]); err != nil {
		return application.Application{}, newValidationError(validate.FieldErrors{FieldSalaryMax: "Maximum salary must be a number"})
	}
	return a, nil
}

func (u *ApplicationUsecase) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalNumber(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
