package service

import (
	"context"
	"slices"
	"strings"

	"github.com/dtroode/catalog-bot/internal/logger"
	"github.com/dtroode/catalog-bot/internal/model"
)

// Directory is an immutable snapshot of group membership.
type Directory struct {
	groups []model.Group
}

func NewDirectory(groups []model.Group) Directory {
	return Directory{groups: groups}
}

// Names returns group names in sorted order.
func (d Directory) Names() []string {
	names := make([]string, 0, len(d.groups))
	for _, g := range d.groups {
		names = append(names, g.Name)
	}
	slices.Sort(names)
	return names
}

// Exists reports whether the group is configured.
func (d Directory) Exists(group string) bool {
	return slices.ContainsFunc(d.groups, func(g model.Group) bool { return g.Name == group })
}

// IsMember reports whether userID belongs to group.
func (d Directory) IsMember(userID int64, group string) bool {
	for _, g := range d.groups {
		if g.Name == group {
			return g.HasMember(userID)
		}
	}
	return false
}

// GroupsOf returns the sorted names of the groups userID belongs to.
func (d Directory) GroupsOf(userID int64) []string {
	var out []string
	for _, g := range d.groups {
		if g.HasMember(userID) {
			out = append(out, g.Name)
		}
	}
	slices.Sort(out)
	return out
}

// Resolve parses the owner prefix of key against configured groups.
func (d Directory) Resolve(key string) (model.ScopedName, bool) {
	return model.ResolvePrefix(key, d.Names())
}

// Groups manages groups and their members.
type Groups struct {
	config *ConfigStore
	logger *logger.Logger
}

func NewGroups(config *ConfigStore, logger *logger.Logger) *Groups {
	return &Groups{config: config, logger: logger}
}

// Directory returns a snapshot of current membership.
func (g *Groups) Directory(ctx context.Context) (Directory, error) {
	cfg, err := g.config.Get(ctx)
	if err != nil {
		return Directory{}, err
	}
	return NewDirectory(cfg.Groups), nil
}

// List returns groups sorted by name.
func (g *Groups) List(ctx context.Context) ([]model.Group, error) {
	cfg, err := g.config.Get(ctx)
	if err != nil {
		return nil, err
	}
	groups := slices.Clone(cfg.Groups)
	slices.SortFunc(groups, func(a, b model.Group) int { return strings.Compare(a.Name, b.Name) })
	return groups, nil
}

func (g *Groups) IsMember(ctx context.Context, userID int64, group string) (bool, error) {
	dir, err := g.Directory(ctx)
	if err != nil {
		return false, err
	}
	return dir.IsMember(userID, group), nil
}

func (g *Groups) GroupsOf(ctx context.Context, userID int64) ([]string, error) {
	dir, err := g.Directory(ctx)
	if err != nil {
		return nil, err
	}
	return dir.GroupsOf(userID), nil
}

// Create adds an empty group. Names must not be reserved, contain the separator,
// or be a prefix-extension of an existing group.
func (g *Groups) Create(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if err := model.ValidateGroupName(name); err != nil {
		return err
	}

	_, err := g.config.Update(ctx, func(cfg *model.Config) error {
		if cfg.Group(name) >= 0 {
			return model.ErrConflict
		}
		cfg.Groups = append(cfg.Groups, model.Group{Name: name, Members: []int64{}})
		return nil
	})
	if err != nil {
		return err
	}

	g.logger.Info("Groups service: group created", "group", name)
	return nil
}

// Delete removes a group. Categories it owned stay hidden from users and are left
// to admins outside any group.
func (g *Groups) Delete(ctx context.Context, name string) error {
	_, err := g.config.Update(ctx, func(cfg *model.Config) error {
		i := cfg.Group(name)
		if i < 0 {
			return model.ErrNotFound
		}
		cfg.Groups = slices.Delete(cfg.Groups, i, i+1)
		return nil
	})
	if err != nil {
		return err
	}

	g.logger.Info("Groups service: group deleted", "group", name)
	return nil
}

func (g *Groups) AddMember(ctx context.Context, name string, userID int64) error {
	_, err := g.config.Update(ctx, func(cfg *model.Config) error {
		i := cfg.Group(name)
		if i < 0 {
			return model.ErrNotFound
		}
		if cfg.Groups[i].HasMember(userID) {
			return model.ErrConflict
		}
		cfg.Groups[i].Members = model.AddID(cfg.Groups[i].Members, userID)
		return nil
	})
	if err != nil {
		return err
	}

	g.logger.Info("Groups service: member added", "group", name, "user_id", userID)
	return nil
}

func (g *Groups) RemoveMember(ctx context.Context, name string, userID int64) error {
	_, err := g.config.Update(ctx, func(cfg *model.Config) error {
		i := cfg.Group(name)
		if i < 0 || !cfg.Groups[i].HasMember(userID) {
			return model.ErrNotFound
		}
		cfg.Groups[i].Members = model.RemoveID(cfg.Groups[i].Members, userID)
		return nil
	})
	if err != nil {
		return err
	}

	g.logger.Info("Groups service: member removed", "group", name, "user_id", userID)
	return nil
}
