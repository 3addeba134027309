package service

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/catalog-bot/internal/logger"
	"github.com/dtroode/catalog-bot/internal/model"
)

// Settings manages the home screen configuration.
type Settings struct {
	config *ConfigStore
	logger *logger.Logger
}

func NewSettings(config *ConfigStore, logger *logger.Logger) *Settings {
	return &Settings{config: config, logger: logger}
}

// Home returns the current home screen configuration.
func (s *Settings) Home(ctx context.Context) (model.Config, error) {
	return s.config.Get(ctx)
}

// AddButton creates a custom home button. The kind is derived from the value.
func (s *Settings) AddButton(ctx context.Context, name, value string) (model.CustomButton, error) {
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if name == "" {
		return model.CustomButton{}, model.ErrInvalidName
	}
	if value == "" {
		return model.CustomButton{}, model.ErrInvalidValue
	}

	button := model.CustomButton{
		ID:    uuid.NewString(),
		Name:  name,
		Kind:  model.ButtonKindOf(value),
		Value: value,
	}
	_, err := s.config.Update(ctx, func(cfg *model.Config) error {
		if slices.ContainsFunc(cfg.CustomButtons, func(b model.CustomButton) bool { return b.Name == name }) {
			return model.ErrConflict
		}
		cfg.CustomButtons = append(cfg.CustomButtons, button)
		return nil
	})
	if err != nil {
		return model.CustomButton{}, err
	}

	s.logger.Info("Settings service: button added", "button_id", button.ID, "kind", string(button.Kind))
	return button, nil
}

// RenameButton changes the label of a custom button.
func (s *Settings) RenameButton(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ErrInvalidName
	}
	return s.updateButton(ctx, id, func(cfg *model.Config, b *model.CustomButton) error {
		if slices.ContainsFunc(cfg.CustomButtons, func(o model.CustomButton) bool { return o.ID != id && o.Name == name }) {
			return model.ErrConflict
		}
		b.Name = name
		return nil
	})
}

// SetButtonValue changes the target of a custom button and reclassifies it.
func (s *Settings) SetButtonValue(ctx context.Context, id, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return model.ErrInvalidValue
	}
	return s.updateButton(ctx, id, func(_ *model.Config, b *model.CustomButton) error {
		b.Value = value
		b.Kind = model.ButtonKindOf(value)
		return nil
	})
}

func (s *Settings) updateButton(ctx context.Context, id string, fn func(cfg *model.Config, b *model.CustomButton) error) error {
	_, err := s.config.Update(ctx, func(cfg *model.Config) error {
		i := cfg.Button(id)
		if i < 0 {
			return model.ErrNotFound
		}
		return fn(cfg, &cfg.CustomButtons[i])
	})
	if err != nil {
		return err
	}

	s.logger.Info("Settings service: button updated", "button_id", id)
	return nil
}

// DeleteButton removes a custom button.
func (s *Settings) DeleteButton(ctx context.Context, id string) error {
	_, err := s.config.Update(ctx, func(cfg *model.Config) error {
		i := cfg.Button(id)
		if i < 0 {
			return model.ErrNotFound
		}
		cfg.CustomButtons = slices.Delete(cfg.CustomButtons, i, i+1)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Settings service: button deleted", "button_id", id)
	return nil
}

// Button returns a custom button by id.
func (s *Settings) Button(ctx context.Context, id string) (model.CustomButton, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return model.CustomButton{}, err
	}
	i := cfg.Button(id)
	if i < 0 {
		return model.CustomButton{}, model.ErrNotFound
	}
	return cfg.CustomButtons[i], nil
}

// SetWelcome replaces the welcome message. An empty message restores the default.
func (s *Settings) SetWelcome(ctx context.Context, text string) error {
	_, err := s.config.Update(ctx, func(cfg *model.Config) error {
		cfg.WelcomeMessage = strings.TrimSpace(text)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("Settings service: welcome message updated")
	return nil
}

// SetBanner sets the banner photo. An empty media id removes the banner.
func (s *Settings) SetBanner(ctx context.Context, mediaID string) error {
	_, err := s.config.Update(ctx, func(cfg *model.Config) error {
		cfg.BannerImage = mediaID
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("Settings service: banner updated", "removed", mediaID == "")
	return nil
}

// SetOrderButton parses and stores the order button target.
func (s *Settings) SetOrderButton(ctx context.Context, raw string) (model.OrderButton, error) {
	button, err := model.ParseOrderButton(raw)
	if err != nil {
		return model.OrderButton{}, err
	}
	_, err = s.config.Update(ctx, func(cfg *model.Config) error {
		cfg.OrderButton = &button
		return nil
	})
	if err != nil {
		return model.OrderButton{}, err
	}
	s.logger.Info("Settings service: order button updated", "kind", string(button.Kind))
	return button, nil
}

// SetContact parses and stores the contact target.
func (s *Settings) SetContact(ctx context.Context, raw string) (model.Contact, error) {
	contact, err := model.ParseContact(raw)
	if err != nil {
		return model.Contact{}, err
	}
	_, err = s.config.Update(ctx, func(cfg *model.Config) error {
		cfg.Contact = &contact
		return nil
	})
	if err != nil {
		return model.Contact{}, err
	}
	s.logger.Info("Settings service: contact updated", "kind", string(contact.Kind))
	return contact, nil
}
