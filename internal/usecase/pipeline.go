package usecase

import "context"

const (
	StepLoadRecord           = "load_record"
	StepUpload               = "upload"
	StepWriteRecord          = "write_record"
	StepRemoveSupersededBlob = "remove_superseded_blob"
	StepParsePath            = "parse_path"
	StepRemoveBlob           = "remove_blob"
	StepDeleteRecord         = "delete_record"
	StepClearURL             = "clear_url"
	StepFetchBlob            = "fetch_blob"
)

type step struct {
	name string
	run  func(ctx context.Context) error
}

// pipeline runs fallible steps in order and stops at the first failure,
// which it returns as a *StepError. Once started, caller cancellation is
// ignored so a half-applied chain is never abandoned between stores.
type pipeline struct {
	steps []step
}

func newPipeline() *pipeline {
	return &pipeline{}
}

func (p *pipeline) then(name string, fn func(ctx context.Context) error) *pipeline {
	p.steps = append(p.steps, step{name: name, run: fn})
	return p
}

func (p *pipeline) run(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	for _, s := range p.steps {
		if err := s.run(ctx); err != nil {
			return &StepError{Step: s.name, Err: err}
		}
	}
	return nil
}
