package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"photobook/internal/domain"
	"photobook/internal/pkg/validator"
	"photobook/internal/pricing"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GlobalConfigID is the photographer id of the studio-wide price table.
const GlobalConfigID int64 = 0

type Service struct {
	repo  ConfigRepository
	cache ConfigCache
	log   *zap.Logger
}

func NewService(repo ConfigRepository, cache ConfigCache, log *zap.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

// Load resolves the price table for photographerID: their own table, else
// the studio default, else the built-in defaults.
func (s *Service) Load(ctx context.Context, photographerID int64) (pricing.Config, error) {
	if photographerID < 0 {
		return pricing.Config{}, ErrInvalidInput
	}

	if s.cache != nil {
		cfg, ok, err := s.cache.Get(ctx, photographerID)
		if err != nil {
			s.log.Warn("pricing cache read failed", zap.Int64("photographer_id", photographerID), zap.Error(err))
		} else if ok {
			return cfg, nil
		}
	}

	cfg, err := s.loadFromStore(ctx, photographerID)
	if err != nil {
		return pricing.Config{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, photographerID, cfg); err != nil {
			s.log.Warn("pricing cache write failed", zap.Int64("photographer_id", photographerID), zap.Error(err))
		}
	}
	return cfg, nil
}

func (s *Service) loadFromStore(ctx context.Context, photographerID int64) (pricing.Config, error) {
	ids := []int64{GlobalConfigID}
	if photographerID != GlobalConfigID {
		ids = []int64{photographerID, GlobalConfigID}
	}

	for _, id := range ids {
		rec, err := s.repo.GetByPhotographer(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return pricing.Config{}, fmt.Errorf("load pricing config %d: %w", id, err)
		}
		return decodeRecord(rec)
	}

	return pricing.DefaultConfig(), nil
}

func decodeRecord(rec *domain.PricingConfigRecord) (pricing.Config, error) {
	var cfg pricing.Config
	if err := json.Unmarshal(rec.Data, &cfg); err != nil {
		return pricing.Config{}, fmt.Errorf("decode pricing config %d: %w", rec.PhotographerID, err)
	}
	cfg.Version = rec.Version
	return cfg, nil
}

// Save stores a price table. Photographers may only write their own; admins
// may write any, including the studio default.
func (s *Service) Save(ctx context.Context, actorID int64, actorRole domain.UserRole, req SaveConfigRequest) (pricing.Config, error) {
	switch actorRole {
	case domain.RoleAdmin:
		if req.PhotographerID < 0 {
			return pricing.Config{}, ErrInvalidInput
		}
	case domain.RolePhotographer:
		if req.PhotographerID == 0 {
			req.PhotographerID = actorID
		}
		if req.PhotographerID != actorID {
			return pricing.Config{}, ErrForbidden
		}
	default:
		return pricing.Config{}, ErrForbidden
	}

	if fields := ValidateConfig(req.Config); len(fields) > 0 {
		return pricing.Config{}, &ConfigError{Fields: fields}
	}

	cfg := req.Config
	cfg.Version = 0
	data, err := json.Marshal(cfg)
	if err != nil {
		return pricing.Config{}, fmt.Errorf("encode pricing config: %w", err)
	}

	rec := &domain.PricingConfigRecord{
		PhotographerID: req.PhotographerID,
		Data:           data,
		UpdatedBy:      actorID,
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return pricing.Config{}, fmt.Errorf("save pricing config: %w", err)
	}
	cfg.Version = rec.Version

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, req.PhotographerID); err != nil {
			s.log.Warn("pricing cache invalidate failed", zap.Int64("photographer_id", req.PhotographerID), zap.Error(err))
		}
	}

	s.log.Info("pricing config saved",
		zap.Int64("photographer_id", req.PhotographerID),
		zap.Int("version", rec.Version),
		zap.Int64("actor_id", actorID),
	)
	return cfg, nil
}

// Quote prices a raw selection against the current table of photographerID.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (pricing.Snapshot, error) {
	cfg, err := s.Load(ctx, req.PhotographerID)
	if err != nil {
		return pricing.Snapshot{}, err
	}
	return pricing.Replay(cfg, req.SelectionInput).Snapshot(), nil
}

// ValidateConfig returns the problems of a price table, or nil. Calculation
// itself tolerates partial tables; this is only enforced on write.
func ValidateConfig(cfg pricing.Config) map[string]string {
	fields := validator.Validate(cfg)
	if fields == nil {
		fields = map[string]string{}
	}

	for _, tier := range pricing.Tiers {
		if _, ok := cfg.Packages.Photoshoot.Photography[tier]; !ok {
			fields["packages.photoshoot.photography."+string(tier)] = "required"
		}
		if _, ok := cfg.Packages.Photoshoot.Videography[tier]; !ok {
			fields["packages.photoshoot.videography."+string(tier)] = "required"
		}
		if _, ok := cfg.Packages.Wedding.Photography[tier]; !ok {
			fields["packages.wedding.photography."+string(tier)] = "required"
		}
		if _, ok := cfg.Packages.Wedding.Videography[tier]; !ok {
			fields["packages.wedding.videography."+string(tier)] = "required"
		}
	}

	if _, ok := cfg.Fees.Transportation[pricing.DefaultZone]; !ok {
		fields["fees.transportation."+pricing.DefaultZone] = "required"
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}
