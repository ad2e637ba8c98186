// Package project models the business-plan workspaces a user creates from an idea.
package project

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxNameLength = 120
	MaxIdeaLength = 4000
)

var (
	ErrEmptyName   = errors.New("project name cannot be empty")
	ErrNameTooLong = errors.New("project name is too long")
	ErrIdeaTooLong = errors.New("project idea is too long")
)

type Project struct {
	id        uint
	userID    uint
	name      string
	idea      string
	createdAt time.Time
}

func NewProject(userID uint, name, idea string) (*Project, error) {
	if userID == 0 {
		return nil, errors.New("user ID cannot be zero")
	}
	name = strings.TrimSpace(name)
	idea = strings.TrimSpace(idea)
	if name == "" {
		return nil, ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, ErrNameTooLong
	}
	if utf8.RuneCountInString(idea) > MaxIdeaLength {
		return nil, ErrIdeaTooLong
	}

	return &Project{
		userID:    userID,
		name:      name,
		idea:      idea,
		createdAt: time.Now().UTC(),
	}, nil
}

func ReconstructProject(id, userID uint, name, idea string, createdAt time.Time) *Project {
	return &Project{id: id, userID: userID, name: name, idea: idea, createdAt: createdAt}
}

func (p *Project) ID() uint             { return p.id }
func (p *Project) UserID() uint         { return p.userID }
func (p *Project) Name() string         { return p.name }
func (p *Project) Idea() string         { return p.idea }
func (p *Project) CreatedAt() time.Time { return p.createdAt }

// SetID is called by the repository after insert.
func (p *Project) SetID(id uint) error {
	if p.id != 0 {
		return errors.New("project ID already set")
	}
	p.id = id
	return nil
}

type Repository interface {
	Create(ctx context.Context, p *Project) error
	ListByUser(ctx context.Context, userID uint) ([]*Project, error)
}
