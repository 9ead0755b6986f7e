package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/willowpath/scheduler-api/internal/dto"
	"github.com/willowpath/scheduler-api/internal/models"
	"github.com/willowpath/scheduler-api/internal/scheduling"
	"github.com/willowpath/scheduler-api/pkg/config"
	appErrors "github.com/willowpath/scheduler-api/pkg/errors"
	"github.com/willowpath/scheduler-api/pkg/export"
)

type therapistRoster interface {
	ListActive(ctx context.Context) ([]models.Therapist, error)
	FindByID(ctx context.Context, id string) (*models.Therapist, error)
}

type clientRoster interface {
	ListActive(ctx context.Context) ([]models.Client, error)
	FindByID(ctx context.Context, id string) (*models.Client, error)
}

type sessionStore interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Session, error)
	ListByParticipants(ctx context.Context, therapistID, clientID string) ([]models.Session, error)
	BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, sessions []models.Session) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type responseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type schedulingObserver interface {
	ObserveGeneration(duration time.Duration, slots int)
	ObserveConflictCheck(conflicts int)
}

type proposalSink interface {
	Archive(proposalID string, slots []models.ScheduleSlot)
}

// SchedulingService orchestrates the auto-scheduling engine: it snapshots the
// roster and existing sessions, runs the pure engine over them, keeps
// generated proposals until they are approved, and persists approved slots as
// sessions.
type SchedulingService struct {
	therapists therapistRoster
	clients    clientRoster
	sessions   sessionStore
	tx         txProvider
	cache      responseCache
	metrics    schedulingObserver
	archiver   proposalSink
	validator  *validator.Validate
	logger     *zap.Logger
	engineCfg  scheduling.Config
	cacheTTL   time.Duration
	lookback   int
	store      *proposalStore
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
}

// NewSchedulingService wires scheduler dependencies. cache, metrics and
// archiver may be nil; the service then skips the corresponding side effect.
func NewSchedulingService(
	therapists therapistRoster,
	clients clientRoster,
	sessions sessionStore,
	tx txProvider,
	cache responseCache,
	metrics schedulingObserver,
	archiver proposalSink,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg config.SchedulerConfig,
) *SchedulingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ProposalTTL <= 0 {
		cfg.ProposalTTL = 30 * time.Minute
	}
	if cfg.HistoryLookbackDays <= 0 {
		cfg.HistoryLookbackDays = 28
	}
	return &SchedulingService{
		therapists: therapists,
		clients:    clients,
		sessions:   sessions,
		tx:         tx,
		cache:      cache,
		metrics:    metrics,
		archiver:   archiver,
		validator:  validate,
		logger:     logger,
		engineCfg:  buildEngineConfig(cfg),
		cacheTTL:   cfg.ResponseCacheTTL,
		lookback:   cfg.HistoryLookbackDays,
		store:      newProposalStore(cfg.ProposalTTL),
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
	}
}

// buildEngineConfig maps deployment settings onto the engine defaults.
func buildEngineConfig(cfg config.SchedulerConfig) scheduling.Config {
	engine := scheduling.DefaultConfig()
	if cfg.SlotIntervalMinutes > 0 {
		engine.SlotIntervalMinutes = cfg.SlotIntervalMinutes
	}
	if cfg.SessionMinutes > 0 {
		engine.SessionMinutes = cfg.SessionMinutes
	}
	if minute, err := scheduling.ParseClock(cfg.ServiceWindowStart); err == nil {
		engine.ServiceWindowStart = minute
	}
	if minute, err := scheduling.ParseClock(cfg.ServiceWindowEnd); err == nil {
		engine.ServiceWindowEnd = minute
	}
	if cfg.BaselineSpeedKmh > 0 {
		engine.BaselineSpeedKmh = cfg.BaselineSpeedKmh
	}
	if cfg.RushHourMultiplier >= 1 {
		engine.RushHourMultiplier = cfg.RushHourMultiplier
	}
	if cfg.MorningRushTo > cfg.MorningRushFrom {
		engine.MorningRush = scheduling.HourRange{From: cfg.MorningRushFrom, To: cfg.MorningRushTo}
	}
	if cfg.EveningRushTo > cfg.EveningRushFrom {
		engine.EveningRush = scheduling.HourRange{From: cfg.EveningRushFrom, To: cfg.EveningRushTo}
	}
	if cfg.TravelBudgetMinutes > 0 {
		engine.DefaultTravelBudgetMinutes = cfg.TravelBudgetMinutes
	}
	if cfg.MaxAlternatives > 0 {
		engine.MaxAlternatives = cfg.MaxAlternatives
	}
	if cfg.AlternativeDayProbes > 0 {
		engine.AlternativeDayProbes = cfg.AlternativeDayProbes
	}
	engine.OneSessionPerClientPerDay = cfg.OnePerClientPerDay
	if w := cfg.Weights; w != (config.SchedulerWeights{}) {
		engine.Weights = scheduling.ScoringWeights{
			Compatibility:      w.Compatibility,
			AvailabilityMargin: w.AvailabilityMargin,
			Travel:             w.Travel,
			WorkloadBalance:    w.WorkloadBalance,
			Preference:         w.Preference,
			Continuity:         w.Continuity,
			Contiguity:         w.Contiguity,
			Urgency:            w.Urgency,
		}
	}
	return engine
}

// Generate runs the batch generator over a date range and stores the result
// as a proposal awaiting approval.
func (s *SchedulingService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must use the 2006-01-02 form")
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must use the 2006-01-02 form")
	}
	if endDate.Before(startDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must not be before startDate")
	}

	if cached := s.cachedResponse(ctx, req); cached != nil {
		return cached, nil
	}

	therapists, err := s.loadTherapists(ctx, req.TherapistIDs)
	if err != nil {
		return nil, err
	}
	clients, err := s.loadClients(ctx, req.ClientIDs)
	if err != nil {
		return nil, err
	}
	if len(therapists) == 0 || len(clients) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "roster has no active therapists or clients to schedule")
	}

	sessions, err := s.sessions.ListBetween(ctx, startDate.AddDate(0, 0, -s.lookback), endDate.AddDate(0, 0, 1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing sessions")
	}

	engineCfg := s.engineCfg
	if req.OneSessionPerClientPerDay != nil {
		engineCfg.OneSessionPerClientPerDay = *req.OneSessionPerClientPerDay
	}

	began := time.Now()
	slots, err := scheduling.Generate(scheduling.GenerateRequest{
		Therapists: therapists,
		Clients:    clients,
		Sessions:   sessions,
		StartDate:  startDate,
		EndDate:    endDate,
	}, engineCfg)
	if err != nil {
		if scheduling.IsInputError(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scheduling input")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "schedule generation failed")
	}
	if s.metrics != nil {
		s.metrics.ObserveGeneration(time.Since(began), len(slots))
	}

	proposal := scheduleProposal{
		ProposalID:  uuid.NewString(),
		Slots:       slots,
		RequestedAt: time.Now().UTC(),
	}
	s.store.Save(proposal)

	resp := &dto.GenerateScheduleResponse{
		ProposalID:         proposal.ProposalID,
		Slots:              slots,
		UnscheduledClients: unscheduledClients(clients, slots),
		Stats: dto.GenerationStats{
			CandidateDays:  int(endDate.Sub(startDate).Hours()/24) + 1,
			TherapistCount: len(therapists),
			ClientCount:    len(clients),
			AcceptedSlots:  len(slots),
			MeanScore:      meanScore(slots),
		},
	}
	s.cacheResponse(ctx, req, resp)

	s.logger.Info("schedule generated",
		zap.String("proposal_id", proposal.ProposalID),
		zap.Int("slots", len(slots)),
		zap.Int("unscheduled_clients", len(resp.UnscheduledClients)),
	)
	return resp, nil
}

// CheckConflicts vets one proposed session against the live schedule.
func (s *SchedulingService) CheckConflicts(ctx context.Context, req dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error) {
	conflicts, _, err := s.runConflictCheck(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveConflictCheck(len(conflicts))
	}
	return &dto.ConflictCheckResponse{Conflicts: conflicts, Schedulable: len(conflicts) == 0}, nil
}

// SuggestAlternatives checks the proposal and, when it conflicts, searches
// nearby windows that would resolve it. An empty suggestion list is a valid
// outcome.
func (s *SchedulingService) SuggestAlternatives(ctx context.Context, req dto.ConflictCheckRequest) (*dto.AlternativesResponse, error) {
	conflicts, proposed, err := s.runConflictCheck(ctx, req)
	if err != nil {
		return nil, err
	}

	alternatives := []models.AlternativeTime{}
	if len(conflicts) > 0 {
		alternatives, err = scheduling.SuggestAlternatives(proposed, conflicts, s.engineCfg)
		if err != nil {
			if scheduling.IsInputError(err) {
				return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scheduling input")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "alternative search failed")
		}
	}
	return &dto.AlternativesResponse{Conflicts: conflicts, Alternatives: alternatives}, nil
}

func (s *SchedulingService) runConflictCheck(ctx context.Context, req dto.ConflictCheckRequest) ([]models.Conflict, scheduling.ProposedSession, error) {
	var proposed scheduling.ProposedSession
	if err := s.validator.Struct(req); err != nil {
		return nil, proposed, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid conflict check payload")
	}

	therapist, err := s.therapists.FindByID(ctx, req.TherapistID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, proposed, appErrors.Clone(appErrors.ErrNotFound, "therapist not found")
		}
		return nil, proposed, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load therapist")
	}
	client, err := s.clients.FindByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, proposed, appErrors.Clone(appErrors.ErrNotFound, "client not found")
		}
		return nil, proposed, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load client")
	}
	sessions, err := s.sessions.ListByParticipants(ctx, req.TherapistID, req.ClientID)
	if err != nil {
		return nil, proposed, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}

	proposed = scheduling.ProposedSession{
		Start:            req.StartTime,
		End:              req.EndTime,
		Therapist:        therapist,
		Client:           client,
		Sessions:         sessions,
		ExcludeSessionID: req.ExcludeSessionID,
	}
	conflicts, err := scheduling.CheckConflicts(proposed, s.engineCfg)
	if err != nil {
		if scheduling.IsInputError(err) {
			return nil, proposed, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scheduling input")
		}
		return nil, proposed, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "conflict check failed")
	}
	return conflicts, proposed, nil
}

// SaveProposal persists an approved proposal's slots as scheduled sessions
// inside one transaction, then discards the proposal.
func (s *SchedulingService) SaveProposal(ctx context.Context, proposalID string) (*dto.SaveProposalResponse, error) {
	if proposalID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "proposal id is required")
	}
	proposal, ok := s.store.Get(proposalID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
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

	records := make([]models.Session, 0, len(proposal.Slots))
	ids := make([]string, 0, len(proposal.Slots))
	for _, slot := range proposal.Slots {
		id := uuid.NewString()
		ids = append(ids, id)
		records = append(records, models.Session{
			ID:          id,
			TherapistID: slot.TherapistID,
			ClientID:    slot.ClientID,
			StartTime:   slot.StartTime,
			EndTime:     slot.EndTime,
			Status:      models.SessionStatusScheduled,
		})
	}

	if err = s.sessions.BulkCreateWithTx(ctx, tx, records); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist proposed sessions")
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit session batch")
		return nil, err
	}

	s.store.Delete(proposalID)
	if s.archiver != nil {
		s.archiver.Archive(proposalID, proposal.Slots)
	}
	s.logger.Info("proposal saved", zap.String("proposal_id", proposalID), zap.Int("sessions", len(records)))
	return &dto.SaveProposalResponse{ProposalID: proposalID, SessionIDs: ids, SessionsSaved: len(records)}, nil
}

// ExportProposal renders a stored proposal as CSV or PDF.
func (s *SchedulingService) ExportProposal(ctx context.Context, proposalID, format string) ([]byte, string, error) {
	proposal, ok := s.store.Get(proposalID)
	if !ok {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "proposal not found or expired")
	}

	data := proposalDataset(proposal.Slots)

	switch format {
	case "", "csv":
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := s.pdf.Render(data, "Proposed Schedule")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func (s *SchedulingService) loadTherapists(ctx context.Context, ids []string) ([]models.Therapist, error) {
	if len(ids) == 0 {
		therapists, err := s.therapists.ListActive(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load therapists")
		}
		return therapists, nil
	}
	therapists := make([]models.Therapist, 0, len(ids))
	for _, id := range ids {
		therapist, err := s.therapists.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "therapist "+id+" not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load therapist")
		}
		therapists = append(therapists, *therapist)
	}
	return therapists, nil
}

func (s *SchedulingService) loadClients(ctx context.Context, ids []string) ([]models.Client, error) {
	if len(ids) == 0 {
		clients, err := s.clients.ListActive(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load clients")
		}
		return clients, nil
	}
	clients := make([]models.Client, 0, len(ids))
	for _, id := range ids {
		client, err := s.clients.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "client "+id+" not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load client")
		}
		clients = append(clients, *client)
	}
	return clients, nil
}

func (s *SchedulingService) cachedResponse(ctx context.Context, req dto.GenerateScheduleRequest) *dto.GenerateScheduleResponse {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	payload, ok := s.cache.Get(ctx, generationCacheKey(req))
	if !ok {
		return nil
	}
	var resp dto.GenerateScheduleResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil
	}
	// Re-register the proposal so a cached response can still be saved.
	s.store.Save(scheduleProposal{ProposalID: resp.ProposalID, Slots: resp.Slots, RequestedAt: time.Now().UTC()})
	return &resp
}

func (s *SchedulingService) cacheResponse(ctx context.Context, req dto.GenerateScheduleRequest, resp *dto.GenerateScheduleResponse) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	s.cache.Set(ctx, generationCacheKey(req), payload, s.cacheTTL)
}

func generationCacheKey(req dto.GenerateScheduleRequest) string {
	payload, _ := json.Marshal(req)
	digest := sha256.Sum256(payload)
	return "scheduler:generate:" + hex.EncodeToString(digest[:])
}

func unscheduledClients(clients []models.Client, slots []models.ScheduleSlot) []string {
	placed := make(map[string]bool, len(slots))
	for _, slot := range slots {
		placed[slot.ClientID] = true
	}
	unscheduled := []string{}
	for _, client := range clients {
		if !placed[client.ID] {
			unscheduled = append(unscheduled, client.ID)
		}
	}
	return unscheduled
}

func meanScore(slots []models.ScheduleSlot) float64 {
	if len(slots) == 0 {
		return 0
	}
	total := 0.0
	for _, slot := range slots {
		total += slot.Score
	}
	return total / float64(len(slots))
}

func proposalDataset(slots []models.ScheduleSlot) export.Dataset {
	data := export.Dataset{
		Headers: []string{"Therapist", "Client", "Start", "End", "Score"},
	}
	for _, slot := range slots {
		data.Rows = append(data.Rows, map[string]string{
			"Therapist": slot.TherapistID,
			"Client":    slot.ClientID,
			"Start":     slot.StartTime.Format("2006-01-02 15:04"),
			"End":       slot.EndTime.Format("2006-01-02 15:04"),
			"Score":     strconv.FormatFloat(slot.Score, 'f', 3, 64),
		})
	}
	return data
}

// --- Proposal cache ---

type scheduleProposal struct {
	ProposalID  string
	Slots       []models.ScheduleSlot
	RequestedAt time.Time
}

type proposalStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]scheduleProposal
}

func newProposalStore(ttl time.Duration) *proposalStore {
	return &proposalStore{
		ttl:   ttl,
		items: make(map[string]scheduleProposal),
	}
}

func (s *proposalStore) Save(proposal scheduleProposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[proposal.ProposalID] = proposal
}

func (s *proposalStore) Get(id string) (scheduleProposal, bool) {
	s.mu.RLock()
	proposal, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return scheduleProposal{}, false
	}
	if time.Since(proposal.RequestedAt) > s.ttl {
		s.Delete(id)
		return scheduleProposal{}, false
	}
	return proposal, true
}

func (s *proposalStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
