package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-optimizer/internal/dto"
	"github.com/noah-isme/timetable-optimizer/internal/models"
	"github.com/noah-isme/timetable-optimizer/internal/timetable"
	appErrors "github.com/noah-isme/timetable-optimizer/pkg/errors"
	"github.com/noah-isme/timetable-optimizer/pkg/export"
	"github.com/noah-isme/timetable-optimizer/pkg/jobs"
)

// GenerationJobType tags asynchronous generation jobs on the queue.
const GenerationJobType = "timetable.generate"

type generatedTimetableRepository interface {
	CreateVersioned(ctx context.Context, exec sqlx.ExtContext, timetable *models.StoredTimetable) error
	List(ctx context.Context, filter models.TimetableFilter) ([]models.StoredTimetable, int, error)
	FindByID(ctx context.Context, id string) (*models.StoredTimetable, error)
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, from, to models.TimetableStatus) error
	Delete(ctx context.Context, id string) error
}

type timetableEntryRepository interface {
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, entries []models.StoredTimetableEntry) error
	ListByTimetable(ctx context.Context, timetableID string) ([]models.StoredTimetableEntry, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type proposalCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// TimetableGeneratorConfig governs generator behaviour.
type TimetableGeneratorConfig struct {
	ProposalTTL       time.Duration
	DefaultCandidates int
	MaxCandidates     int
	Workers           int
	Timeout           time.Duration
	DefaultParameters models.OptimizationParameters
}

// TimetableGeneratorService runs the optimizer, keeps short-lived proposals and
// persists chosen candidates through their review lifecycle.
type TimetableGeneratorService struct {
	timetables generatedTimetableRepository
	entries    timetableEntryRepository
	tx         txProvider
	cache      proposalCache
	metrics    *MetricsService
	queue      jobEnqueuer
	exporter   *export.CSVExporter
	validator  *validator.Validate
	logger     *zap.Logger
	cfg        TimetableGeneratorConfig
	now        func() time.Time

	proposals *ttlStore[timetableProposal]
	jobs      *ttlStore[dto.GenerationJobResponse]
}

type timetableProposal struct {
	ProposalID  string                        `json:"proposalId"`
	Candidates  []models.GeneratedTimetable   `json:"candidates"`
	Parameters  models.OptimizationParameters `json:"parameters"`
	RequestedAt time.Time                     `json:"requestedAt"`
}

type generationJobPayload struct {
	Input timetable.Input
	Count int
}

// NewTimetableGeneratorService wires generator dependencies. cache, metrics and
// the repositories may be nil; persistence calls then fail with ErrUnavailable.
func NewTimetableGeneratorService(
	timetables generatedTimetableRepository,
	entries timetableEntryRepository,
	tx txProvider,
	cache proposalCache,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableGeneratorConfig,
) *TimetableGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProposalTTL <= 0 {
		cfg.ProposalTTL = 30 * time.Minute
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = 10
	}
	if cfg.DefaultCandidates <= 0 {
		cfg.DefaultCandidates = 3
	}
	if cfg.DefaultCandidates > cfg.MaxCandidates {
		cfg.DefaultCandidates = cfg.MaxCandidates
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	svc := &TimetableGeneratorService{
		timetables: timetables,
		entries:    entries,
		tx:         tx,
		cache:      cache,
		metrics:    metrics,
		exporter:   export.NewCSVExporter(),
		validator:  validate,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
	svc.proposals = newTTLStore(cfg.ProposalTTL, func(p timetableProposal) time.Time { return p.RequestedAt }, svc.clock)
	svc.jobs = newTTLStore(cfg.ProposalTTL, func(j dto.GenerationJobResponse) time.Time { return j.UpdatedAt }, svc.clock)
	return svc
}

// AttachQueue enables asynchronous generation through the given queue.
func (s *TimetableGeneratorService) AttachQueue(queue jobEnqueuer) {
	s.queue = queue
}

func (s *TimetableGeneratorService) clock() time.Time {
	return s.now().UTC()
}

// Generate runs the optimizer synchronously and stores the result as a proposal.
func (s *TimetableGeneratorService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	input, count, err := s.prepare(req)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, input, count)
}

func (s *TimetableGeneratorService) prepare(req dto.GenerateTimetableRequest) (timetable.Input, int, error) {
	if err := s.validator.Struct(req); err != nil {
		return timetable.Input{}, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable generation payload")
	}
	count := req.CandidateCount
	if count == 0 {
		count = s.cfg.DefaultCandidates
	}
	if count > s.cfg.MaxCandidates {
		return timetable.Input{}, 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("candidateCount must not exceed %d", s.cfg.MaxCandidates))
	}
	return req.Input(s.cfg.DefaultParameters), count, nil
}

func (s *TimetableGeneratorService) generate(ctx context.Context, input timetable.Input, count int) (resp *dto.GenerateTimetableResponse, err error) {
	start := time.Now()
	defer func() {
		best, conflicts := 0, 0
		if resp != nil && len(resp.Candidates) > 0 {
			best = resp.Candidates[0].Score
			conflicts = len(resp.Candidates[0].Conflicts)
		}
		s.metrics.ObserveGeneration(time.Since(start), err, best, conflicts)
	}()

	optimizer, err := timetable.New(input,
		timetable.WithWorkers(s.cfg.Workers),
		timetable.WithLogger(s.logger),
		timetable.WithClock(s.clock),
	)
	if err != nil {
		if errors.Is(err, timetable.ErrInvalidInput) {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to prepare optimizer")
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	candidates, err := optimizer.Generate(ctx, count)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, appErrors.Wrap(err, appErrors.ErrGenerationTimeout.Code, appErrors.ErrGenerationTimeout.Status, appErrors.ErrGenerationTimeout.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate timetables")
	}

	proposal := timetableProposal{
		ProposalID:  uuid.NewString(),
		Candidates:  candidates,
		Parameters:  input.Parameters,
		RequestedAt: s.clock(),
	}
	s.proposals.Save(proposal.ProposalID, proposal)
	s.writeThrough(ctx, proposalCacheKey(proposal.ProposalID), proposal)

	s.logger.Info("timetables generated",
		zap.String("proposal_id", proposal.ProposalID),
		zap.Int("candidates", len(candidates)),
		zap.Int("best_score", candidates[0].Score),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &dto.GenerateTimetableResponse{
		ProposalID:  proposal.ProposalID,
		Candidates:  candidates,
		GeneratedAt: proposal.RequestedAt,
		ExpiresAt:   proposal.RequestedAt.Add(s.cfg.ProposalTTL),
	}, nil
}

// Proposal returns a stored proposal while it has not expired.
func (s *TimetableGeneratorService) Proposal(ctx context.Context, proposalID string) (*dto.GenerateTimetableResponse, error) {
	proposal, ok := s.lookupProposal(ctx, proposalID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	return &dto.GenerateTimetableResponse{
		ProposalID:  proposal.ProposalID,
		Candidates:  proposal.Candidates,
		GeneratedAt: proposal.RequestedAt,
		ExpiresAt:   proposal.RequestedAt.Add(s.cfg.ProposalTTL),
	}, nil
}

// Save persists one candidate of a proposal as a draft timetable.
func (s *TimetableGeneratorService) Save(ctx context.Context, req dto.SaveTimetableRequest) (*dto.SaveTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save timetable payload")
	}
	proposal, ok := s.lookupProposal(ctx, req.ProposalID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	var candidate *models.GeneratedTimetable
	for i := range proposal.Candidates {
		if proposal.Candidates[i].ID == req.CandidateID {
			candidate = &proposal.Candidates[i]
			break
		}
	}
	if candidate == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "candidate not found in proposal")
	}
	if err := s.ensurePersistence(); err != nil {
		return nil, err
	}

	record, err := storedTimetableFrom(proposal, candidate, req.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode timetable metadata")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.timetables.CreateVersioned(ctx, tx, record); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable")
		return nil, err
	}

	rows := make([]models.StoredTimetableEntry, 0, len(candidate.Entries))
	for _, entry := range candidate.Entries {
		rows = append(rows, models.StoredTimetableEntry{
			TimetableID: record.ID,
			SubjectID:   entry.SubjectID,
			BatchID:     entry.BatchID,
			FacultyID:   entry.FacultyID,
			ClassroomID: entry.ClassroomID,
			TimeSlotID:  entry.TimeSlot.ID,
			Day:         entry.Day,
			StartTime:   entry.TimeSlot.StartTime,
			EndTime:     entry.TimeSlot.EndTime,
			Duration:    entry.TimeSlot.Duration,
			Fixed:       entry.Fixed,
		})
	}
	if err = s.entries.InsertBatch(ctx, tx, rows); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable entries")
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable transaction")
		return nil, err
	}

	s.logger.Info("timetable saved",
		zap.String("timetable_id", record.ID),
		zap.String("proposal_id", proposal.ProposalID),
		zap.String("candidate_id", candidate.ID),
		zap.Int("version", record.Version),
	)
	return &dto.SaveTimetableResponse{TimetableID: record.ID, Version: record.Version}, nil
}

func storedTimetableFrom(proposal timetableProposal, candidate *models.GeneratedTimetable, name string) (*models.StoredTimetable, error) {
	if name == "" {
		name = candidate.Name
	}
	metrics, err := json.Marshal(candidate.Metrics)
	if err != nil {
		return nil, err
	}
	conflicts, err := json.Marshal(candidate.Conflicts)
	if err != nil {
		return nil, err
	}
	suggestions, err := json.Marshal(candidate.Suggestions)
	if err != nil {
		return nil, err
	}
	params, err := json.Marshal(proposal.Parameters)
	if err != nil {
		return nil, err
	}
	return &models.StoredTimetable{
		Name:        name,
		ProposalID:  proposal.ProposalID,
		Variant:     candidate.Variant,
		Strategy:    candidate.Strategy,
		Status:      models.TimetableStatusDraft,
		Score:       candidate.Score,
		Metrics:     types.JSONText(metrics),
		Conflicts:   types.JSONText(conflicts),
		Suggestions: types.JSONText(suggestions),
		Parameters:  types.JSONText(params),
		GeneratedAt: candidate.GeneratedAt,
	}, nil
}

// List returns stored timetables with pagination metadata.
func (s *TimetableGeneratorService) List(ctx context.Context, query dto.TimetableQuery) ([]models.StoredTimetable, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable query")
	}
	if err := s.ensurePersistence(); err != nil {
		return nil, nil, err
	}
	filter := models.TimetableFilter{
		Status:   models.TimetableStatus(query.Status),
		Name:     query.Name,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	list, total, err := s.timetables.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetables")
	}
	if list == nil {
		list = []models.StoredTimetable{}
	}
	return list, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a stored timetable together with its entries.
func (s *TimetableGeneratorService) Get(ctx context.Context, id string) (*dto.TimetableDetail, error) {
	record, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.Entries(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.TimetableDetail{StoredTimetable: *record, Entries: entries}, nil
}

// Entries returns the sessions of a stored timetable.
func (s *TimetableGeneratorService) Entries(ctx context.Context, id string) ([]models.StoredTimetableEntry, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.entries.ListByTimetable(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable entries")
	}
	if entries == nil {
		entries = []models.StoredTimetableEntry{}
	}
	return entries, nil
}

// UpdateStatus moves a stored timetable along the review lifecycle.
func (s *TimetableGeneratorService) UpdateStatus(ctx context.Context, id string, req dto.UpdateTimetableStatusRequest) (*models.StoredTimetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	record, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !record.Status.CanTransition(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move timetable from %s to %s", record.Status, req.Status))
	}
	if err := s.timetables.UpdateStatus(ctx, nil, id, record.Status, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "timetable status changed concurrently")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update timetable status")
	}
	s.logger.Info("timetable status updated",
		zap.String("timetable_id", id),
		zap.String("from", string(record.Status)),
		zap.String("to", string(req.Status)),
	)
	record.Status = req.Status
	record.UpdatedAt = s.clock()
	return record, nil
}

// Delete removes a draft timetable.
func (s *TimetableGeneratorService) Delete(ctx context.Context, id string) error {
	record, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if record.Status != models.TimetableStatusDraft {
		return appErrors.Clone(appErrors.ErrConflict, "only draft timetables can be deleted")
	}
	if err := s.timetables.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable")
	}
	return nil
}

var exportHeaders = []string{"day", "start_time", "end_time", "time_slot_id", "batch_id", "subject_id", "faculty_id", "classroom_id", "fixed"}

// ExportCSV renders the entries of a stored timetable as CSV with a suggested file name.
func (s *TimetableGeneratorService) ExportCSV(ctx context.Context, id string) ([]byte, string, error) {
	record, err := s.find(ctx, id)
	if err != nil {
		return nil, "", err
	}
	entries, err := s.entries.ListByTimetable(ctx, id)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable entries")
	}
	rows := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, map[string]string{
			"day":          entry.Day,
			"start_time":   entry.StartTime,
			"end_time":     entry.EndTime,
			"time_slot_id": entry.TimeSlotID,
			"batch_id":     entry.BatchID,
			"subject_id":   entry.SubjectID,
			"faculty_id":   entry.FacultyID,
			"classroom_id": entry.ClassroomID,
			"fixed":        strconv.FormatBool(entry.Fixed),
		})
	}
	body, err := s.exporter.Render(export.Dataset{Headers: exportHeaders, Rows: rows})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable export")
	}
	return body, fmt.Sprintf("timetable-%s-v%d.csv", record.ID, record.Version), nil
}

// Enqueue schedules an asynchronous generation and returns its job handle.
func (s *TimetableGeneratorService) Enqueue(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerationJobResponse, error) {
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "asynchronous generation is disabled")
	}
	input, count, err := s.prepare(req)
	if err != nil {
		return nil, err
	}
	// structural errors surface now instead of as a failed job
	if _, err := timetable.New(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	now := s.clock()
	state := dto.GenerationJobResponse{
		JobID:     uuid.NewString(),
		Status:    dto.GenerationJobQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.storeJob(ctx, state)

	job := jobs.Job{ID: state.JobID, Type: GenerationJobType, Payload: generationJobPayload{Input: input, Count: count}}
	if err := s.queue.Enqueue(job); err != nil {
		s.jobs.Delete(state.JobID)
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to enqueue generation job")
	}
	return &state, nil
}

// HandleJob is the queue handler for asynchronous generation.
func (s *TimetableGeneratorService) HandleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(generationJobPayload)
	if !ok {
		s.finishJob(ctx, job.ID, nil, fmt.Errorf("unexpected payload %T", job.Payload))
		return nil
	}
	s.updateJob(ctx, job.ID, func(state *dto.GenerationJobResponse) {
		state.Status = dto.GenerationJobRunning
	})

	result, err := s.generate(ctx, payload.Input, payload.Count)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrValidation.Code {
			s.finishJob(ctx, job.ID, nil, err)
			return nil
		}
		return err
	}
	s.finishJob(ctx, job.ID, result, nil)
	return nil
}

// HandleJobFailure marks a job that exhausted its retries as failed.
func (s *TimetableGeneratorService) HandleJobFailure(job jobs.Job, err error) {
	s.finishJob(context.Background(), job.ID, nil, err)
}

// Job reports the state of an asynchronous generation.
func (s *TimetableGeneratorService) Job(ctx context.Context, jobID string) (*dto.GenerationJobResponse, error) {
	if state, ok := s.jobs.Get(jobID); ok {
		return &state, nil
	}
	if s.cache != nil {
		var state dto.GenerationJobResponse
		hit, err := s.cache.Get(ctx, jobCacheKey(jobID), &state)
		if err == nil && hit {
			return &state, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "generation job not found or expired")
}

func (s *TimetableGeneratorService) finishJob(ctx context.Context, jobID string, result *dto.GenerateTimetableResponse, err error) {
	status := dto.GenerationJobCompleted
	if err != nil {
		status = dto.GenerationJobFailed
		s.logger.Warn("generation job failed", zap.String("job_id", jobID), zap.Error(err))
	}
	s.updateJob(ctx, jobID, func(state *dto.GenerationJobResponse) {
		state.Status = status
		state.Result = result
		if err != nil {
			state.Error = err.Error()
		}
	})
	s.metrics.RecordJob(string(status))
}

func (s *TimetableGeneratorService) updateJob(ctx context.Context, jobID string, mutate func(*dto.GenerationJobResponse)) {
	state, ok := s.jobs.Get(jobID)
	if !ok {
		state = dto.GenerationJobResponse{JobID: jobID, CreatedAt: s.clock()}
	}
	mutate(&state)
	state.UpdatedAt = s.clock()
	s.storeJob(ctx, state)
}

func (s *TimetableGeneratorService) storeJob(ctx context.Context, state dto.GenerationJobResponse) {
	s.jobs.Save(state.JobID, state)
	s.writeThrough(ctx, jobCacheKey(state.JobID), state)
}

func (s *TimetableGeneratorService) lookupProposal(ctx context.Context, id string) (timetableProposal, bool) {
	if proposal, ok := s.proposals.Get(id); ok {
		return proposal, true
	}
	if s.cache == nil || id == "" {
		return timetableProposal{}, false
	}
	var proposal timetableProposal
	hit, err := s.cache.Get(ctx, proposalCacheKey(id), &proposal)
	if err != nil || !hit {
		return timetableProposal{}, false
	}
	if s.clock().Sub(proposal.RequestedAt) > s.cfg.ProposalTTL {
		return timetableProposal{}, false
	}
	s.proposals.Save(id, proposal)
	return proposal, true
}

func (s *TimetableGeneratorService) writeThrough(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.ProposalTTL); err != nil {
		s.logger.Warn("cache write-through failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *TimetableGeneratorService) find(ctx context.Context, id string) (*models.StoredTimetable, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "timetable id is required")
	}
	if err := s.ensurePersistence(); err != nil {
		return nil, err
	}
	record, err := s.timetables.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	return record, nil
}

func (s *TimetableGeneratorService) ensurePersistence() error {
	if s.timetables == nil || s.entries == nil || s.tx == nil {
		return appErrors.Clone(appErrors.ErrUnavailable, "timetable storage is not configured")
	}
	return nil
}

func proposalCacheKey(id string) string { return "proposal:" + id }

func jobCacheKey(id string) string { return "job:" + id }

// ttlStore is an in-memory map whose values expire ttl after their stamp.
type ttlStore[V any] struct {
	ttl   time.Duration
	stamp func(V) time.Time
	now   func() time.Time
	mu    sync.RWMutex
	items map[string]V
}

func newTTLStore[V any](ttl time.Duration, stamp func(V) time.Time, now func() time.Time) *ttlStore[V] {
	return &ttlStore[V]{ttl: ttl, stamp: stamp, now: now, items: make(map[string]V)}
}

func (s *ttlStore[V]) Save(id string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = value
	s.evictLocked()
}

func (s *ttlStore[V]) Get(id string) (V, bool) {
	s.mu.RLock()
	value, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if s.now().Sub(s.stamp(value)) > s.ttl {
		s.Delete(id)
		var zero V
		return zero, false
	}
	return value, true
}

func (s *ttlStore[V]) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

func (s *ttlStore[V]) evictLocked() {
	now := s.now()
	for id, value := range s.items {
		if now.Sub(s.stamp(value)) > s.ttl {
			delete(s.items, id)
		}
	}
}
