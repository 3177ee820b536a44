package settings

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"lumiverse/internal/ingest"
	"lumiverse/internal/pack"
)

// Persister is the load/save port supplied by the host. Documents are
// stored and returned verbatim.
type Persister interface {
	LoadSettings(ctx context.Context) (map[string]any, error)
	SaveSettings(ctx context.Context, doc map[string]any, packs []pack.Pack) error
}

type Options struct {
	Migrate MigrateOptions
	Logger  *zap.Logger
}

// Service owns one State and persists it after every mutation.
type Service struct {
	store   Persister
	state   *State
	options Options
	logger  *zap.Logger
}

// Open loads the stored settings, migrating legacy shapes once. A
// migrated document is written back immediately.
func Open(ctx context.Context, store Persister, options Options) (*Service, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if options.Migrate.Logger == nil {
		options.Migrate.Logger = logger
	}

	doc, err := store.LoadSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	state, migrated, err := Load(doc, options.Migrate)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	s := &Service{store: store, state: state, options: options, logger: logger}
	if migrated {
		if err := s.save(ctx, state); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// State returns the live state. Callers must not mutate it directly.
func (s *Service) State() *State {
	return s.state
}

// Import converts payload and merges the resulting pack into any pack of
// the same name. name overrides the pack name; when empty the payload's
// own name is used, then fallback.
func (s *Service) Import(ctx context.Context, name, fallback string, payload any) (*ingest.Result, error) {
	return s.importPack(ctx, name, fallback, payload, false)
}

// Replace is Import without the merge: an existing pack of the same name
// is overwritten wholesale.
func (s *Service) Replace(ctx context.Context, name, fallback string, payload any) (*ingest.Result, error) {
	return s.importPack(ctx, name, fallback, payload, true)
}

func (s *Service) importPack(ctx context.Context, name, fallback string, payload any, replace bool) (*ingest.Result, error) {
	result, err := ingest.Convert(firstNonEmpty(name, fallback), payload, ingest.Options{Logger: s.logger})
	if err != nil {
		return nil, err
	}
	p := result.Pack
	if strings.TrimSpace(name) != "" {
		p.PackName = name
	}
	if strings.TrimSpace(p.PackName) == "" {
		p.PackName = fallback
	}
	if strings.TrimSpace(p.PackName) == "" {
		return nil, fmt.Errorf("importing pack: name is required")
	}

	err = s.apply(ctx, func(next *State) error {
		if replace {
			next.ReplacePack(p)
		} else {
			next.AddPack(p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("imported pack",
		zap.String("pack", p.PackName),
		zap.String("format", string(result.Format)),
		zap.Bool("replace", replace),
		zap.Int("lumia_items", result.LumiaItems),
		zap.Int("loom_items", result.LoomItems),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *Service) RemovePack(ctx context.Context, name string) error {
	err := s.apply(ctx, func(next *State) error {
		if !next.RemovePack(name) {
			return fmt.Errorf("%w: %s", ErrPackNotFound, name)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("removed pack", zap.String("pack", name))
	return nil
}

func (s *Service) Select(ctx context.Context, slot Slot, ref pack.SelectionRef) error {
	return s.apply(ctx, func(next *State) error {
		return next.Select(slot, ref)
	})
}

// Deselect reports whether ref was selected. Storage is only written when
// something changed.
func (s *Service) Deselect(ctx context.Context, slot Slot, ref pack.SelectionRef) (bool, error) {
	next, err := s.state.Clone()
	if err != nil {
		return false, err
	}
	if !next.Deselect(slot, ref) {
		return false, nil
	}
	if err := s.save(ctx, next); err != nil {
		return false, err
	}
	s.state = next
	return true, nil
}

func (s *Service) Save(ctx context.Context) error {
	return s.save(ctx, s.state)
}

// apply runs change against a copy of the live state. The copy replaces
// the live state only once it has been saved.
func (s *Service) apply(ctx context.Context, change func(next *State) error) error {
	next, err := s.state.Clone()
	if err != nil {
		return err
	}
	if err := change(next); err != nil {
		return err
	}
	if err := s.save(ctx, next); err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *Service) save(ctx context.Context, state *State) error {
	doc, err := state.Document()
	if err != nil {
		return err
	}
	if err := s.store.SaveSettings(ctx, doc, state.SortedPacks()); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
