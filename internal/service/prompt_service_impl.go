package service

import (
	"context"

	"github.com/promptcap/promptcap/internal/prompts"
	"github.com/promptcap/promptcap/internal/template"
)

// PromptServiceImpl exposes the on-disk prompt library and rendering.
type PromptServiceImpl struct {
	store *prompts.Store
}

// NewPromptService creates a PromptServiceImpl over the given store.
func NewPromptService(store *prompts.Store) *PromptServiceImpl {
	return &PromptServiceImpl{store: store}
}

func (s *PromptServiceImpl) List(_ context.Context) ([]*template.Schema, []error) {
	return s.store.List()
}

func (s *PromptServiceImpl) Get(_ context.Context, name string) (*template.Schema, error) {
	return s.store.Load(name)
}

func (s *PromptServiceImpl) Save(_ context.Context, schema *template.Schema) error {
	return s.store.Save(schema)
}

func (s *PromptServiceImpl) Delete(_ context.Context, name string) error {
	return s.store.Delete(name)
}

func (s *PromptServiceImpl) Render(_ context.Context, name string, vars map[string]string) (string, *template.Schema, error) {
	schema, err := s.store.Load(name)
	if err != nil {
		return "", nil, err
	}
	rendered, err := template.Render(schema, vars)
	if err != nil {
		return "", schema, err
	}
	return rendered, schema, nil
}
