package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

var ErrProfileNotFound = errors.New("profile not found")

// Registry reads source connection profiles from an ini file, one section
// per profile.
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (domain.SourceProfile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles from %s: %w", path, err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (domain.SourceProfile, error) {
	section, err := cr.section(name)
	if err != nil {
		return domain.SourceProfile{}, err
	}

	driver := section.Key("driver").String()
	if driver == "" {
		return domain.SourceProfile{}, fmt.Errorf("profile %s has no driver", name)
	}

	options := make(map[string]string)
	for _, key := range section.Keys() {
		switch key.Name() {
		case "driver", "dsn":
		default:
			options[key.Name()] = key.String()
		}
	}

	return domain.SourceProfile{
		Name:    name,
		Driver:  domain.Driver(driver),
		DSN:     section.Key("dsn").String(),
		Options: options,
	}, nil
}

func (cr *cfgRegistry) section(name string) (*ini.Section, error) {
	section, err := cr.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return section, nil
}
