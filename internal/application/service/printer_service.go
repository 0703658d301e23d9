package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"github.com/sangkips/tablepos-api/internal/domain/enum"
	"github.com/sangkips/tablepos-api/internal/domain/repository"
	"github.com/sangkips/tablepos-api/pkg/apperror"
	"github.com/sangkips/tablepos-api/pkg/pagination"
	"github.com/sangkips/tablepos-api/pkg/printer"
	"github.com/sirupsen/logrus"
)

// PrintRequest is one rendered payload bound for one target.
type PrintRequest struct {
	Target    string
	Kind      enum.PrintKind
	Reference string
	Content   string
}

// PrinterService routes rendered payloads to the configured printers and
// keeps a durable job record of every attempt.
type PrinterService struct {
	jobs      repository.PrintJobRepository
	configs   repository.PrinterConfigStore
	factory   printer.Factory
	formatter *Formatter
	timeout   time.Duration
	log       logrus.FieldLogger
}

// NewPrinterService creates a new printer service. timeout bounds each
// transport attempt.
func NewPrinterService(
	jobs repository.PrintJobRepository,
	configs repository.PrinterConfigStore,
	factory printer.Factory,
	formatter *Formatter,
	timeout time.Duration,
	log logrus.FieldLogger,
) *PrinterService {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &PrinterService{
		jobs:      jobs,
		configs:   configs,
		factory:   factory,
		formatter: formatter,
		timeout:   timeout,
		log:       log,
	}
}

// Dispatch sends every request to its target concurrently and returns the
// advisory warnings of the targets that failed. It never fails itself.
func (s *PrinterService) Dispatch(ctx context.Context, reqs []PrintRequest) []string {
	if len(reqs) == 0 {
		return nil
	}
	if ctx.Err() != nil {
		s.log.WithField("reference", reqs[0].Reference).Warn("request cancelled, print dispatch not started")
		return []string{"print dispatch skipped: request cancelled"}
	}
	// The sale is committed; a client hanging up must not cut a print short.
	ctx = context.WithoutCancel(ctx)

	cfg, err := s.configs.Get(ctx)
	if err != nil {
		s.log.WithError(err).Error("failed to load printer configuration")
		return []string{apperror.NewPrintDispatchError("all targets", err).Error()}
	}

	warnings := make([]string, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req PrintRequest) {
			defer wg.Done()
			if err := s.dispatchOne(ctx, cfg, req); err != nil {
				warnings[i] = err.Error()
			}
		}(i, req)
	}
	wg.Wait()

	out := warnings[:0]
	for _, w := range warnings {
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

func (s *PrinterService) dispatchOne(ctx context.Context, cfg *entity.PrinterConfig, req PrintRequest) error {
	job := &entity.PrintJob{
		Target:    req.Target,
		Kind:      req.Kind,
		Reference: req.Reference,
		Content:   req.Content,
		Status:    enum.PrintJobPending,
	}

	endpoint, ok := cfg.Endpoint(req.Target)
	if !ok {
		s.log.WithFields(logrus.Fields{"target": req.Target, "kind": req.Kind}).
			Warn("no printer configured for target, skipping")
		job.Status = enum.PrintJobSkipped
		if err := s.jobs.Create(ctx, job); err != nil {
			s.log.WithError(err).Error("failed to record skipped print job")
		}
		return nil
	}

	job.Endpoint = endpoint
	if err := s.jobs.Create(ctx, job); err != nil {
		s.log.WithError(err).WithField("target", req.Target).Error("failed to record print job")
	}
	return s.send(ctx, job)
}

// send delivers job.Content to job.Endpoint and records the outcome.
func (s *PrinterService) send(ctx context.Context, job *entity.PrintJob) error {
	entry := s.log.WithFields(logrus.Fields{
		"target":   job.Target,
		"endpoint": job.Endpoint,
		"job_id":   job.ID,
	})

	err := s.deliver(ctx, job.Endpoint, job.Content)
	job.Attempts++
	if err != nil {
		job.Status = enum.PrintJobFailed
		job.LastError = err.Error()
		entry.WithError(err).Warn("print dispatch failed")
	} else {
		now := time.Now()
		job.Status = enum.PrintJobPrinted
		job.LastError = ""
		job.PrintedAt = &now
		entry.Debug("printed")
	}

	if job.ID != uuid.Nil {
		if uErr := s.jobs.Update(ctx, job); uErr != nil {
			entry.WithError(uErr).Error("failed to update print job")
		}
	}
	if err != nil {
		return apperror.NewPrintDispatchError(job.Target, err)
	}
	return nil
}

func (s *PrinterService) deliver(ctx context.Context, endpoint, content string) error {
	ep, err := printer.ParseEndpoint(endpoint)
	if err != nil {
		return err
	}
	p, err := s.factory(ep)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return p.Print(ctx, printer.Encode(ep, content))
}

// GetConfig returns the current printer configuration.
func (s *PrinterService) GetConfig(ctx context.Context) (*entity.PrinterConfig, error) {
	return s.configs.Get(ctx)
}

// UpdateConfigInput represents the input for replacing the printer configuration
type UpdateConfigInput struct {
	Billing  string
	Token    string
	Kitchens map[string]string
}

// UpdateConfig validates every endpoint and stores a new configuration version.
func (s *PrinterService) UpdateConfig(ctx context.Context, input *UpdateConfigInput) (*entity.PrinterConfig, error) {
	var fieldErrors []apperror.FieldError
	check := func(field, endpoint string) {
		if endpoint == "" {
			return
		}
		if _, err := printer.ParseEndpoint(endpoint); err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field, Message: err.Error()})
		}
	}
	check("billing", input.Billing)
	check("token", input.Token)

	kitchens := make(map[string]string, len(input.Kitchens))
	for station, endpoint := range input.Kitchens {
		check("kitchens."+station, endpoint)
		kitchens[station] = endpoint
	}
	if len(fieldErrors) > 0 {
		sort.Slice(fieldErrors, func(i, j int) bool { return fieldErrors[i].Field < fieldErrors[j].Field })
		return nil, apperror.NewValidationError("Invalid printer endpoint", fieldErrors...)
	}

	cfg := &entity.PrinterConfig{
		Billing:  input.Billing,
		Token:    input.Token,
		Kitchens: kitchens,
	}
	if err := s.configs.Save(ctx, cfg); err != nil {
		return nil, err
	}
	s.log.WithField("version", cfg.Version).Info("printer configuration saved")
	return cfg, nil
}

// TargetStatus describes one configured printer.
type TargetStatus struct {
	Target    string `json:"target"`
	Endpoint  string `json:"endpoint"`
	Transport string `json:"transport"`
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

// GetStatus checks every configured target.
func (s *PrinterService) GetStatus(ctx context.Context) ([]TargetStatus, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, err
	}

	targets := cfg.Targets()
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)

	statuses := make([]TargetStatus, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			statuses[i] = s.ping(name, targets[name])
		}(i, name)
	}
	wg.Wait()
	return statuses, nil
}

func (s *PrinterService) ping(target, endpoint string) TargetStatus {
	st := TargetStatus{Target: target, Endpoint: endpoint}
	ep, err := printer.ParseEndpoint(endpoint)
	if err != nil {
		st.Error = err.Error()
		return st
	}
	st.Transport = string(ep.Transport)
	p, err := s.factory(ep)
	if err != nil {
		st.Error = err.Error()
		return st
	}
	defer p.Close()
	st.Connected = p.IsConnected()
	return st
}

// TestPrint prints a test slip to target and returns the job record.
func (s *PrinterService) TestPrint(ctx context.Context, target string) (*entity.PrintJob, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, err
	}
	endpoint, ok := cfg.Endpoint(target)
	if !ok {
		return nil, apperror.NewNotFoundError("Printer for target " + target)
	}

	job := &entity.PrintJob{
		Target:    target,
		Endpoint:  endpoint,
		Kind:      enum.PrintKindTest,
		Reference: "test",
		Content:   s.formatter.TestSlip(target, endpoint, time.Now()),
		Status:    enum.PrintJobPending,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	_ = s.send(ctx, job)
	return job, nil
}

// ListJobs lists print jobs, optionally filtered by status.
func (s *PrinterService) ListJobs(ctx context.Context, status enum.PrintJobStatus, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.PrintJob], error) {
	jobs, total, err := s.jobs.List(ctx, status, params)
	if err != nil {
		return nil, err
	}

	return pagination.NewResult(jobs, params, total), nil
}

// RetryJob sends a failed or skipped job again, to the endpoint currently
// configured for its target.
func (s *PrinterService) RetryJob(ctx context.Context, id uuid.UUID) (*entity.PrintJob, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Print job")
	}
	if job.Status == enum.PrintJobPrinted {
		return nil, apperror.NewBadRequestError("Print job was already printed")
	}

	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, err
	}
	endpoint, ok := cfg.Endpoint(job.Target)
	if !ok {
		return nil, apperror.NewBadRequestError("No printer configured for target " + job.Target)
	}
	job.Endpoint = endpoint

	// The outcome is on the job record.
	_ = s.send(ctx, job)
	return job, nil
}
